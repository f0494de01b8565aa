package dialog

import (
	"sync"

	"github.com/aretw0/taskgate/pkg/domain"
)

// NoProgress is reported by Frame.Progress when the frame has no progress indicator.
const NoProgress = -1.0

// Control is the rendered state of one widget.
type Control struct {
	Index   int
	Spec    domain.WidgetSpec
	Enabled bool
}

// Frame is one dialog surface instance. It is safe for concurrent use: surfaces
// may call Activate, Scrolled and Dismiss from their own goroutines.
type Frame struct {
	id          uint64
	dismissible bool

	mu       sync.Mutex
	message  string
	controls []Control
	progress float64

	once   sync.Once
	result chan settled
	done   chan struct{}
}

type settled struct {
	res domain.DialogResult
	err error
}

func newFrame(id uint64, req domain.DialogRequest) *Frame {
	f := &Frame{
		id:          id,
		dismissible: req.Dismissible,
		message:     req.Message,
		progress:    NoProgress,
		result:      make(chan settled, 1),
		done:        make(chan struct{}),
	}
	f.controls = make([]Control, len(req.Widgets))
	for i, w := range req.Widgets {
		f.controls[i] = Control{
			Index:   i,
			Spec:    w,
			Enabled: w.Kind != domain.WidgetScrollGatedButton,
		}
	}
	return f
}

// ID identifies the frame within its engine.
func (f *Frame) ID() uint64 { return f.id }

// Dismissible reports whether Dismiss can resolve the frame.
func (f *Frame) Dismissible() bool { return f.dismissible }

// Message returns the current message.
func (f *Frame) Message() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.message
}

// Progress returns the progress fraction in [0,1], or NoProgress.
func (f *Frame) Progress() float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.progress
}

// Controls returns a snapshot of the frame controls.
func (f *Frame) Controls() []Control {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Control, len(f.controls))
	copy(out, f.controls)
	return out
}

// Interactive reports whether the frame expects user actions.
func (f *Frame) Interactive() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.controls) > 0 || f.dismissible
}

// Done is closed once the frame has resolved.
func (f *Frame) Done() <-chan struct{} { return f.done }

// Resolved reports whether an activation has already been honored.
func (f *Frame) Resolved() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// Activate reports the activation of control index. text is the current content
// of a text input and is ignored for other kinds. It returns true only for the
// activation that resolved the frame.
func (f *Frame) Activate(index int, text string) bool {
	f.mu.Lock()
	if index < 0 || index >= len(f.controls) {
		f.mu.Unlock()
		return false
	}
	c := f.controls[index]
	f.mu.Unlock()

	if !c.Enabled {
		return false
	}

	res := domain.DialogResult{Widget: index}
	switch c.Spec.Kind {
	case domain.WidgetTextInput:
		res.Value = text
	default:
		res.Value = c.Spec.Value
	}
	return f.resolve(res)
}

// Scrolled reports the scroll position of a scroll-gated control's content
// region. Once offset+visible reaches total the control is enabled for good.
// It returns whether the control is enabled after the report.
func (f *Frame) Scrolled(index, offset, visible, total int) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if index < 0 || index >= len(f.controls) {
		return false
	}
	c := &f.controls[index]
	if c.Spec.Kind != domain.WidgetScrollGatedButton {
		return c.Enabled
	}
	if !c.Enabled && offset+visible >= total {
		c.Enabled = true
	}
	return c.Enabled
}

// Dismiss resolves the frame with the dismissal sentinel when the dialog allows it.
func (f *Frame) Dismiss() bool {
	if !f.dismissible {
		return false
	}
	return f.resolve(domain.Dismissal())
}

// Fail aborts the frame: the pending Present returns err. Surfaces use it when
// they can no longer collect user input (e.g. the input stream ended).
func (f *Frame) Fail(err error) bool {
	return f.settle(settled{err: err})
}

func (f *Frame) resolve(res domain.DialogResult) bool {
	return f.settle(settled{res: res})
}

func (f *Frame) settle(s settled) bool {
	won := false
	f.once.Do(func() {
		won = true
		f.result <- s
		close(f.done)
	})
	return won
}

// abandon makes the frame inert without producing a result.
func (f *Frame) abandon() {
	f.once.Do(func() {
		close(f.done)
	})
}

func (f *Frame) setMessage(msg string) {
	f.mu.Lock()
	f.message = msg
	f.mu.Unlock()
}

func (f *Frame) setProgress(p float64) {
	if p < 0 {
		p = 0
	}
	if p > 1 {
		p = 1
	}
	f.mu.Lock()
	f.progress = p
	f.mu.Unlock()
}
