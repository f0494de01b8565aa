package observability

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/taskgate/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func step(index int, name string, verdict domain.Verdict, err error) *domain.StepEvent {
	return &domain.StepEvent{
		EventBase: domain.EventBase{AttemptID: "a1"},
		Index:     index,
		StepName:  name,
		Verdict:   verdict,
		Duration:  time.Second,
		Err:       err,
	}
}

func TestMetrics_Hooks(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	hooks := m.Hooks()
	ctx := context.Background()

	hooks.OnStepStart(ctx, step(0, "confirmation", domain.Accepted, nil))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.InFlight))
	hooks.OnStepEnd(ctx, step(0, "confirmation", domain.Accepted, nil))
	hooks.OnStepStart(ctx, step(1, "challenge", domain.Accepted, nil))
	hooks.OnStepEnd(ctx, step(1, "challenge", domain.Rejected, nil))
	hooks.OnFlowEnd(ctx, &domain.FlowEvent{
		Status:   domain.FlowRejected,
		Reason:   domain.ReasonWrongAnswer,
		StepsRun: 2,
		Duration: 3 * time.Second,
	})

	assert.Equal(t, 0.0, testutil.ToFloat64(m.InFlight))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.StepsStarted.WithLabelValues("challenge")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.StepOutcomes.WithLabelValues("confirmation", "accepted")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.StepOutcomes.WithLabelValues("challenge", "rejected")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Attempts.WithLabelValues("rejected")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Rejections.WithLabelValues("wrong answer")))
	assert.Equal(t, 2, testutil.CollectAndCount(m.StepDuration))

	expected := `
# HELP taskgate_rejections_total Reported rejections by reason.
# TYPE taskgate_rejections_total counter
taskgate_rejections_total{reason="wrong answer"} 1
`
	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "taskgate_rejections_total"))
}

func TestMetrics_ErrorsAreLabelled(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())
	hooks := m.Hooks()
	ctx := context.Background()
	boom := errors.New("boom")

	hooks.OnStepStart(ctx, step(0, "robot_check", domain.Accepted, nil))
	hooks.OnStepEnd(ctx, step(0, "robot_check", domain.Accepted, boom))
	hooks.OnFlowEnd(ctx, &domain.FlowEvent{Status: domain.FlowRejected, StepsRun: 1, Err: boom})

	assert.Equal(t, 1.0, testutil.ToFloat64(m.StepOutcomes.WithLabelValues("robot_check", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Attempts.WithLabelValues("error")))
	assert.Equal(t, 0, testutil.CollectAndCount(m.Rejections))
}

func TestMetrics_MergedWithLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	m := NewMetrics(prometheus.NewRegistry())
	hooks := m.Hooks().Merge(LoggingHooks(logger))
	ctx := context.Background()

	hooks.OnStepStart(ctx, step(0, "confirmation", domain.Accepted, nil))
	hooks.OnStepEnd(ctx, step(0, "confirmation", domain.Accepted, errors.New("surface closed")))
	hooks.OnFlowEnd(ctx, &domain.FlowEvent{Status: domain.FlowCompleted, StepsRun: 1})

	out := buf.String()
	assert.Contains(t, out, "msg=step_start")
	assert.Contains(t, out, "msg=step_failed")
	assert.Contains(t, out, `err="surface closed"`)
	assert.Contains(t, out, "msg=flow_end")
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Attempts.WithLabelValues("completed")))
}
