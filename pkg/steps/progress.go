package steps

import (
	"context"
	"time"

	"github.com/aretw0/taskgate/pkg/domain"
)

// Timing of the progressive sequence.
const (
	SequenceDuration = 10 * time.Second
	SequenceTick     = 100 * time.Millisecond
	MessageInterval  = 1500 * time.Millisecond
)

// Phase moves the progress indicator to Target, starting At and taking Over.
type Phase struct {
	At     time.Duration
	Target float64
	Over   time.Duration
}

// SequencePhases: a fast jump, a near-stall just short of completion, then a
// slow final approach. Phases must not overlap.
var SequencePhases = []Phase{
	{At: 1500 * time.Millisecond, Target: 0.30, Over: 200 * time.Millisecond},
	{At: 2000 * time.Millisecond, Target: 0.97, Over: 200 * time.Millisecond},
	{At: 2500 * time.Millisecond, Target: 1.00, Over: 7500 * time.Millisecond},
}

// ProgressAt returns the progress fraction after elapsed.
func ProgressAt(elapsed time.Duration) float64 {
	p := 0.0
	for _, ph := range SequencePhases {
		if elapsed < ph.At {
			break
		}
		if ph.Over <= 0 || elapsed >= ph.At+ph.Over {
			p = ph.Target
			continue
		}
		frac := float64(elapsed-ph.At) / float64(ph.Over)
		p += (ph.Target - p) * frac
	}
	return p
}

// ProgressiveSequence is a fake loading screen. It cannot be interacted with and
// always accepts once SequenceDuration has elapsed.
func (l *Library) ProgressiveSequence() Step {
	return Step{
		Name: "progressive_sequence",
		Kind: KindProgressiveSequence,
		Run: func(ctx context.Context, _ domain.Outcome) (domain.Outcome, error) {
			st, err := l.dialogs.Display(ctx, PromptInitializing)
			if err != nil {
				return domain.Outcome{}, err
			}
			defer st.Close()

			next := 0
			for elapsed := time.Duration(0); elapsed < SequenceDuration; elapsed += SequenceTick {
				if elapsed > 0 && elapsed%MessageInterval == 0 {
					st.SetMessage(LoadingMessages[next%len(LoadingMessages)])
					next++
				}
				st.SetProgress(ProgressAt(elapsed))
				if err := l.waiter.Wait(ctx, SequenceTick); err != nil {
					return domain.Outcome{}, err
				}
			}
			st.SetProgress(1)
			return domain.Accept(nil), nil
		},
	}
}
