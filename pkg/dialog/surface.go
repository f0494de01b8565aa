package dialog

import "context"

// Surface is the visible area frames are drawn on.
//
// Show must not block waiting for user input: it renders the frame and arranges
// for user actions to be reported through the frame methods, typically from its
// own goroutine. Hide is called exactly once for every Show call, after the
// frame is resolved or abandoned, including when Show itself failed.
type Surface interface {
	// Show presents the frame. An error aborts the dialog.
	Show(ctx context.Context, f *Frame) error

	// Refresh notifies the surface that engine-driven frame content changed
	// (status message, progress). It is never called for user-driven changes.
	Refresh(f *Frame)

	// Hide tears the frame down.
	Hide(f *Frame)
}
