package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventStepStart EventType = "step_start"
	EventStepEnd   EventType = "step_end"
	EventFlowEnd   EventType = "flow_end"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	AttemptID string    `json:"attempt_id"`
}

// StepEvent represents entry into or exit from a step.
type StepEvent struct {
	EventBase
	Index    int           `json:"index"`
	StepName string        `json:"step_name"`
	Verdict  Verdict       `json:"verdict"`
	Reason   string        `json:"reason,omitempty"`
	Duration time.Duration `json:"duration,omitempty"`
	Err      error         `json:"-"`
}

// FlowEvent is emitted once per attempt, after the terminal state is reached.
type FlowEvent struct {
	EventBase
	Status   FlowStatus    `json:"status"`
	Reason   string        `json:"reason,omitempty"`
	StepsRun int           `json:"steps_run"`
	Duration time.Duration `json:"duration"`
	Err      error         `json:"-"`
}

// LifecycleHooks defines callbacks for flow observability.
type LifecycleHooks struct {
	OnStepStart func(context.Context, *StepEvent)
	OnStepEnd   func(context.Context, *StepEvent)
	OnFlowEnd   func(context.Context, *FlowEvent)
}

// Merge returns hooks that call h first and then other.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnStepStart: chainStep(h.OnStepStart, other.OnStepStart),
		OnStepEnd:   chainStep(h.OnStepEnd, other.OnStepEnd),
		OnFlowEnd: func(ctx context.Context, e *FlowEvent) {
			if h.OnFlowEnd != nil {
				h.OnFlowEnd(ctx, e)
			}
			if other.OnFlowEnd != nil {
				other.OnFlowEnd(ctx, e)
			}
		},
	}
}

func chainStep(a, b func(context.Context, *StepEvent)) func(context.Context, *StepEvent) {
	return func(ctx context.Context, e *StepEvent) {
		if a != nil {
			a(ctx, e)
		}
		if b != nil {
			b(ctx, e)
		}
	}
}
