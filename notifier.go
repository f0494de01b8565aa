package taskgate

import (
	"context"

	"github.com/aretw0/taskgate/pkg/domain"
	"github.com/aretw0/taskgate/pkg/steps"
)

// Notices shown for rejection reasons.
const (
	NoticeWrongAnswer = "😂 Wrong answer, no task for you."
	NoticeTooShort    = "Task is not of sufficient length"
)

// NoticeFor returns the text shown to the user for a rejection reason.
// Unknown reasons are shown as they are.
func NoticeFor(reason string) string {
	switch reason {
	case domain.ReasonWrongAnswer:
		return NoticeWrongAnswer
	case domain.ReasonTooShort:
		return NoticeTooShort
	default:
		return reason
	}
}

// AlertNotifier reports rejections with an alert dialog.
type AlertNotifier struct {
	library *steps.Library
}

// NewAlertNotifier creates a notifier presenting on lib's surface.
func NewAlertNotifier(lib *steps.Library) *AlertNotifier {
	return &AlertNotifier{library: lib}
}

func (n *AlertNotifier) NotifyFailure(ctx context.Context, reason string) error {
	return n.library.Alert(ctx, NoticeFor(reason))
}
