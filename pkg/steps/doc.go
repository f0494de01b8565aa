// Package steps contains the library of gates a submission goes through.
//
// Every step is built on the dialog engine and yields a domain.Outcome. A
// returned error is fatal to the attempt (bad configuration, dead surface) and
// is never used to signal a rejection.
package steps
