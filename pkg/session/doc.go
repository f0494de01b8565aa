/*
Package session guards submission attempts.

The Manager admits at most one in-flight attempt per key (the list being
submitted to) and owns the attempt's FlowState for its whole lifetime. With a
DistributedLocker configured, the guarantee extends across replicas sharing
the same lock backend.
*/
package session
