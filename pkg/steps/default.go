package steps

// Step kinds, as used in flow files.
const (
	KindConfirmation        = "confirm"
	KindChallenge           = "challenge"
	KindRobotCheck          = "robot_check"
	KindGatedLink           = "gated_link"
	KindScrollToUnlock      = "scroll_to_unlock"
	KindProgressiveSequence = "progressive_sequence"
	KindTimedReview         = "timed_review"
)

// DefaultFlow returns the full approval sequence in its canonical order.
func (l *Library) DefaultFlow() []Step {
	return []Step{
		l.Confirmation(PromptAddTask),
		l.Confirmation(PromptReallySure),
		l.ChallengeResponse(),
		l.RobotCheck(),
		l.GatedLink(LabelVerifyMe, DefaultLinkURL),
		l.ScrollToUnlock(DefaultTerms),
		l.ProgressiveSequence(),
		l.TimedReview(DefaultReviewDuration),
	}
}
