package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/aretw0/taskgate/pkg/domain"
)

// Event is one server-sent event.
type Event struct {
	Type domain.EventType
	Data string
}

// StreamManager handles active SSE connections.
type StreamManager struct {
	mu          sync.RWMutex
	subscribers map[chan Event]struct{}
	logger      *slog.Logger
}

func NewStreamManager(logger *slog.Logger) *StreamManager {
	return &StreamManager{
		subscribers: make(map[chan Event]struct{}),
		logger:      logger,
	}
}

// Subscribe registers a new listener. The returned func unregisters it and
// closes the channel.
func (sm *StreamManager) Subscribe() (<-chan Event, func()) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	ch := make(chan Event, 16)
	sm.subscribers[ch] = struct{}{}

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			sm.mu.Lock()
			defer sm.mu.Unlock()
			delete(sm.subscribers, ch)
			close(ch)
		})
	}
}

// Subscribers is the number of active listeners.
func (sm *StreamManager) Subscribers() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.subscribers)
}

// Broadcast sends ev to every subscriber, dropping it for slow ones.
func (sm *StreamManager) Broadcast(ev Event) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	for ch := range sm.subscribers {
		select {
		case ch <- ev:
		default:
			sm.logger.Warn("SSE: client buffer full, dropping event", "type", ev.Type)
		}
	}
}

func (sm *StreamManager) publish(t domain.EventType, payload any, err error) {
	body := map[string]any{}
	raw, mErr := json.Marshal(payload)
	if mErr == nil {
		mErr = json.Unmarshal(raw, &body)
	}
	if mErr != nil {
		sm.logger.Error("SSE: event encode failed", "type", t, "err", mErr)
		return
	}
	if t == domain.EventStepStart {
		delete(body, "verdict")
		delete(body, "duration")
	}
	if err != nil {
		body["error"] = err.Error()
	}
	data, _ := json.Marshal(body)
	sm.Broadcast(Event{Type: t, Data: string(data)})
}

// Hooks publishes flow lifecycle events to the subscribers.
func (sm *StreamManager) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnStepStart: func(_ context.Context, e *domain.StepEvent) {
			sm.publish(domain.EventStepStart, e, nil)
		},
		OnStepEnd: func(_ context.Context, e *domain.StepEvent) {
			sm.publish(domain.EventStepEnd, e, e.Err)
		},
		OnFlowEnd: func(_ context.Context, e *domain.FlowEvent) {
			sm.publish(domain.EventFlowEnd, e, e.Err)
		},
	}
}
