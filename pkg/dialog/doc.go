/*
Package dialog implements the dialog engine: a modal primitive that shows a message and a
list of heterogeneous widgets on a Surface and resolves to exactly one DialogResult.

A Surface (terminal, TUI, NDJSON...) draws a Frame and reports user actions back through
Frame.Activate, Frame.Scrolled and Frame.Dismiss. The first honored activation resolves the
Present call; every other widget of the frame becomes inert and the frame is hidden exactly
once, whatever the exit path.

The engine owns the single dialog surface: at most one frame is shown at any time.
*/
package dialog
