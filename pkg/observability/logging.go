package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/taskgate/pkg/domain"
)

// LoggingHooks logs every lifecycle event at debug level, and failed steps at warn.
func LoggingHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnStepStart: func(ctx context.Context, e *domain.StepEvent) {
			logger.DebugContext(ctx, "step_start",
				"attempt_id", e.AttemptID,
				"index", e.Index,
				"step", e.StepName,
			)
		},
		OnStepEnd: func(ctx context.Context, e *domain.StepEvent) {
			if e.Err != nil {
				logger.WarnContext(ctx, "step_failed",
					"attempt_id", e.AttemptID,
					"step", e.StepName,
					"err", e.Err,
				)
				return
			}
			logger.DebugContext(ctx, "step_end",
				"attempt_id", e.AttemptID,
				"step", e.StepName,
				"verdict", e.Verdict.String(),
				"reason", e.Reason,
				"duration", e.Duration,
			)
		},
		OnFlowEnd: func(ctx context.Context, e *domain.FlowEvent) {
			logger.DebugContext(ctx, "flow_end",
				"attempt_id", e.AttemptID,
				"status", e.Status,
				"reason", e.Reason,
				"steps_run", e.StepsRun,
				"duration", e.Duration,
			)
		},
	}
}
