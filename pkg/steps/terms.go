package steps

import (
	"context"

	"github.com/aretw0/taskgate/pkg/domain"
)

// ScrollToUnlock shows content in a scroll region; the Accept button only
// unlocks once the user scrolled to the end.
func (l *Library) ScrollToUnlock(content string) Step {
	if content == "" {
		content = DefaultTerms
	}
	return Step{
		Name: "scroll_to_unlock",
		Kind: KindScrollToUnlock,
		Run: func(ctx context.Context, _ domain.Outcome) (domain.Outcome, error) {
			res, err := l.dialogs.Present(ctx, domain.DialogRequest{
				Message: PromptTerms,
				Widgets: []domain.WidgetSpec{domain.ScrollGatedButton(LabelAccept, content, true)},
			})
			if err != nil {
				return domain.Outcome{}, err
			}
			if !res.Bool() {
				return domain.Decline(), nil
			}
			return domain.Accept(true), nil
		},
	}
}
