/*
Package domain contains the core data model of the taskgate approval gate.

It defines the declarative description of dialogs (WidgetSpec, DialogRequest), the value a
dialog resolves to (DialogResult), the verdict of a step (Outcome) and the transient state of
one submission attempt (FlowState). This package is kept pure and free of I/O, following the
Hexagonal Architecture used across the module.

# Key Entities

  - WidgetSpec: one interactive control (button, text input, link, scroll-gated button).
  - DialogRequest: a message plus an ordered list of widgets, consumed once by the dialog engine.
  - DialogResult: the value produced by the single widget the user activated.
  - Outcome: Accepted or Rejected, optionally carrying a human readable rejection reason.
  - Challenge: a generated arithmetic question and its expected answer.
  - FlowState: the state of one in-flight submission attempt.
*/
package domain
