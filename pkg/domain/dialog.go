package domain

import "fmt"

// DialogRequest is constructed by a step and consumed once by the dialog engine.
type DialogRequest struct {
	Message string       `json:"message"`
	Widgets []WidgetSpec `json:"widgets"`
	// Dismissible enables an implicit dismissal path (Esc, "q").
	// When false, the dialog only resolves through a widget activation.
	Dismissible bool `json:"dismissible"`
}

// Validate checks every widget and the request as a whole.
func (r DialogRequest) Validate() error {
	if len(r.Widgets) == 0 && !r.Dismissible {
		return &ConfigurationError{Widget: -1, Reason: "dialog has no widgets and cannot be dismissed"}
	}
	for i, w := range r.Widgets {
		if err := w.Validate(i); err != nil {
			return err
		}
	}
	return nil
}

// DialogResult is the value produced by the widget the user activated.
type DialogResult struct {
	// Widget is the index of the activated widget, or -1 when dismissed.
	Widget    int  `json:"widget"`
	Value     any  `json:"value,omitempty"`
	Dismissed bool `json:"dismissed,omitempty"`
}

// Dismissal is the sentinel result of a dismissed dialog.
func Dismissal() DialogResult {
	return DialogResult{Widget: -1, Dismissed: true}
}

// Bool reports whether the result is an affirmative boolean.
// Dismissals and non-boolean values are false.
func (r DialogResult) Bool() bool {
	if r.Dismissed {
		return false
	}
	b, ok := r.Value.(bool)
	return ok && b
}

// Text returns the result as a string (the content of a text input).
func (r DialogResult) Text() string {
	switch v := r.Value.(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}
