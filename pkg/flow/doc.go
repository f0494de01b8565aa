/*
Package flow implements the flow controller: it runs an ordered list of steps for
one submission attempt and decides whether the submitted text is committed.

The controller is a small state machine. It starts at Running(0); an accepted
step moves it to Running(i+1), or to Completed after the last step; a rejected
step moves it to Rejected, which is terminal. Completed is only turned into a
commit when the submitted text passes the minimum length check; otherwise the
attempt is reported as rejected with the "too short" reason.

No step is ever retried by the controller and nothing survives an attempt: a
rejected user starts over from the first step.
*/
package flow
