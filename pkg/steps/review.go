package steps

import (
	"context"
	"time"

	"github.com/aretw0/taskgate/pkg/domain"
)

// DefaultReviewDuration is how long the approval committee takes.
const DefaultReviewDuration = 3 * time.Second

// TimedReview shows a static message for d and then accepts.
func (l *Library) TimedReview(d time.Duration) Step {
	if d <= 0 {
		d = DefaultReviewDuration
	}
	return Step{
		Name: "timed_review",
		Kind: KindTimedReview,
		Run: func(ctx context.Context, _ domain.Outcome) (domain.Outcome, error) {
			st, err := l.dialogs.Display(ctx, PromptReview)
			if err != nil {
				return domain.Outcome{}, err
			}
			defer st.Close()
			if err := l.waiter.Wait(ctx, d); err != nil {
				return domain.Outcome{}, err
			}
			return domain.Accept(nil), nil
		},
	}
}
