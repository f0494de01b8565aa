package steps

import (
	"context"

	"github.com/aretw0/taskgate/pkg/domain"
)

// GatedLink forces a click on an external link. It accepts as soon as the link
// is activated, whether or not the destination was reached.
func (l *Library) GatedLink(label, href string) Step {
	if label == "" {
		label = LabelVerifyMe
	}
	if href == "" {
		href = DefaultLinkURL
	}
	return Step{
		Name: "gated_link",
		Kind: KindGatedLink,
		Run: func(ctx context.Context, _ domain.Outcome) (domain.Outcome, error) {
			if _, err := l.dialogs.Present(ctx, domain.DialogRequest{
				Message: PromptLink,
				Widgets: []domain.WidgetSpec{domain.Link(label, href, true)},
			}); err != nil {
				return domain.Outcome{}, err
			}
			return domain.Accept(href), nil
		},
	}
}
