package observability

import (
	"context"

	"github.com/aretw0/taskgate/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "taskgate"

// Metrics holds the collectors fed by the flow hooks.
type Metrics struct {
	StepsStarted  *prometheus.CounterVec
	StepOutcomes  *prometheus.CounterVec
	StepDuration  *prometheus.HistogramVec
	Attempts      *prometheus.CounterVec
	Rejections    *prometheus.CounterVec
	InFlight      prometheus.Gauge
	FlowDurations prometheus.Histogram
}

// NewMetrics creates the collectors and registers them on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		StepsStarted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "step_starts_total",
			Help:      "Total number of steps entered.",
		}, []string{"step"}),
		StepOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "step_outcomes_total",
			Help:      "Step results by verdict (accepted, rejected, error).",
		}, []string{"step", "verdict"}),
		StepDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "step_duration_seconds",
			Help:      "Time spent in each step, user think time included.",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120},
		}, []string{"step"}),
		Attempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "attempts_total",
			Help:      "Finished submission attempts by final status.",
		}, []string{"status"}),
		Rejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rejections_total",
			Help:      "Reported rejections by reason.",
		}, []string{"reason"}),
		InFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "attempts_in_flight",
			Help:      "Attempts currently running.",
		}),
		FlowDurations: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "attempt_duration_seconds",
			Help:      "Wall time of whole attempts.",
			Buckets:   []float64{1, 5, 10, 20, 30, 60, 120, 300},
		}),
	}
	reg.MustRegister(
		m.StepsStarted,
		m.StepOutcomes,
		m.StepDuration,
		m.Attempts,
		m.Rejections,
		m.InFlight,
		m.FlowDurations,
	)
	return m
}

// Hooks records step and attempt events. The in-flight gauge rises on the first
// step of an attempt and falls when the attempt ends.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnStepStart: func(_ context.Context, e *domain.StepEvent) {
			if e.Index == 0 {
				m.InFlight.Inc()
			}
			m.StepsStarted.WithLabelValues(e.StepName).Inc()
		},
		OnStepEnd: func(_ context.Context, e *domain.StepEvent) {
			verdict := e.Verdict.String()
			if e.Err != nil {
				verdict = "error"
			}
			m.StepOutcomes.WithLabelValues(e.StepName, verdict).Inc()
			m.StepDuration.WithLabelValues(e.StepName).Observe(e.Duration.Seconds())
		},
		OnFlowEnd: func(_ context.Context, e *domain.FlowEvent) {
			if e.StepsRun > 0 {
				m.InFlight.Dec()
			}
			status := string(e.Status)
			if e.Err != nil {
				status = "error"
			}
			m.Attempts.WithLabelValues(status).Inc()
			if e.Reason != "" {
				m.Rejections.WithLabelValues(e.Reason).Inc()
			}
			m.FlowDurations.Observe(e.Duration.Seconds())
		},
	}
}
