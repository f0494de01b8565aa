package steps

import (
	"context"

	"github.com/aretw0/taskgate/pkg/domain"
)

// RobotCheck asks the user to tick "I'm not a robot". A decline is re-prompted
// once; a second decline lets the user through anyway.
func (l *Library) RobotCheck() Step {
	return Step{
		Name: "robot_check",
		Kind: KindRobotCheck,
		Run: func(ctx context.Context, _ domain.Outcome) (domain.Outcome, error) {
			for attempt := 0; ; attempt++ {
				res, err := l.dialogs.Present(ctx, domain.DialogRequest{
					Message:     PromptRobot,
					Widgets:     []domain.WidgetSpec{domain.Button(LabelNotRobot, true)},
					Dismissible: true,
				})
				if err != nil {
					return domain.Outcome{}, err
				}
				if res.Bool() {
					return domain.Accept(true), nil
				}
				if attempt > 0 {
					l.logger.Debug("robot check declined twice, letting through")
					return domain.Accept(false), nil
				}
				if err := l.Alert(ctx, PromptRobotRetry); err != nil {
					return domain.Outcome{}, err
				}
			}
		},
	}
}
