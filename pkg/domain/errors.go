package domain

import (
	"errors"
	"fmt"
)

// ErrConfiguration is matched by every *ConfigurationError.
var ErrConfiguration = errors.New("invalid dialog configuration")

// ErrAttemptInFlight is returned when a submission is triggered while another attempt is running.
var ErrAttemptInFlight = errors.New("a submission attempt is already in flight")

// ErrEmptySubmission is returned when the submitted text is empty or whitespace only.
var ErrEmptySubmission = errors.New("empty submission")

// ErrSurfaceClosed is returned by surfaces that can no longer show dialogs (e.g. input stream ended).
var ErrSurfaceClosed = errors.New("dialog surface closed")

// ErrLockHeld is returned by a DistributedLocker when the key is owned by someone else.
var ErrLockHeld = errors.New("lock already held")

// ConfigurationError describes an invalid WidgetSpec or DialogRequest.
// It is fatal: the dialog is never shown.
type ConfigurationError struct {
	Widget int // index of the offending widget, -1 for request level problems
	Kind   WidgetKind
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	if e.Widget < 0 {
		return fmt.Sprintf("%s: %s", ErrConfiguration, e.Reason)
	}
	if e.Field != "" {
		return fmt.Sprintf("%s: widget %d (%s): field %q %s", ErrConfiguration, e.Widget, e.Kind, e.Field, e.Reason)
	}
	return fmt.Sprintf("%s: widget %d (%s): %s", ErrConfiguration, e.Widget, e.Kind, e.Reason)
}

// Is allows errors.Is(err, ErrConfiguration).
func (e *ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration
}
