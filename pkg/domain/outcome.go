package domain

// Verdict is the decision of a step.
type Verdict int

const (
	Accepted Verdict = iota
	Rejected
)

func (v Verdict) String() string {
	if v == Accepted {
		return "accepted"
	}
	return "rejected"
}

func (v Verdict) MarshalText() ([]byte, error) { return []byte(v.String()), nil }

// Reasons reported to the failure notifier.
const (
	ReasonWrongAnswer = "wrong answer"
	ReasonTooShort    = "too short"
)

// Outcome is what a step yields to the flow controller.
type Outcome struct {
	Verdict Verdict
	Payload any
	// Reason is set for validation rejections (wrong answer, too short) and
	// empty for plain user declines.
	Reason string
}

// Accept returns an Accepted outcome carrying payload.
func Accept(payload any) Outcome {
	return Outcome{Verdict: Accepted, Payload: payload}
}

// Decline returns a silent user rejection.
func Decline() Outcome {
	return Outcome{Verdict: Rejected}
}

// Fail returns a validation rejection that must be reported with reason.
func Fail(reason string) Outcome {
	return Outcome{Verdict: Rejected, Reason: reason}
}

// Accepted reports whether the outcome lets the flow proceed.
func (o Outcome) Accepted() bool { return o.Verdict == Accepted }

// Notifiable reports whether the rejection has to be shown to the user.
func (o Outcome) Notifiable() bool { return o.Verdict == Rejected && o.Reason != "" }
