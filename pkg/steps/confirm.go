package steps

import (
	"context"

	"github.com/aretw0/taskgate/pkg/domain"
)

// Confirmation asks message with Yes/No buttons. It accepts iff Yes is chosen.
func (l *Library) Confirmation(message string) Step {
	return Step{
		Name: "confirmation",
		Kind: KindConfirmation,
		Run: func(ctx context.Context, _ domain.Outcome) (domain.Outcome, error) {
			res, err := l.dialogs.Present(ctx, domain.DialogRequest{
				Message: message,
				Widgets: []domain.WidgetSpec{
					domain.Button(LabelYes, true),
					domain.Button(LabelNo, false),
				},
			})
			if err != nil {
				return domain.Outcome{}, err
			}
			if res.Bool() {
				return domain.Accept(true), nil
			}
			return domain.Decline(), nil
		},
	}
}
