package http

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/taskgate/pkg/adapters/memory"
	"github.com/aretw0/taskgate/pkg/domain"
	"github.com/aretw0/taskgate/pkg/steps"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockFlow for testing
type MockFlow struct {
	state *domain.FlowState
	seq   []steps.Step
}

func (m *MockFlow) Snapshot() (domain.FlowState, bool) {
	if m.state == nil {
		return domain.FlowState{}, false
	}
	return *m.state, true
}

func (m *MockFlow) Steps() []steps.Step { return m.seq }

func newMockFlow() *MockFlow {
	return &MockFlow{seq: []steps.Step{
		{Name: "confirmation", Kind: steps.KindConfirmation},
		{Name: "challenge", Kind: steps.KindChallenge},
	}}
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest("GET", path, nil))
	return w
}

func TestGetHealthAndInfo(t *testing.T) {
	h := NewHandler(&Server{Version: "1.2.3\n"})

	w := get(t, h, "/healthz")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	w = get(t, h, "/info")
	assert.JSONEq(t, `{"app":"taskgate","version":"1.2.3"}`, w.Body.String())
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestGetStatus(t *testing.T) {
	flow := newMockFlow()
	h := NewHandler(&Server{Flow: flow})

	var idle StatusResponse
	require.NoError(t, json.Unmarshal(get(t, h, "/status").Body.Bytes(), &idle))
	assert.False(t, idle.Busy)
	assert.Nil(t, idle.Attempt)
	assert.Equal(t, 2, idle.Steps)

	flow.state = domain.NewFlowState("att-1", "Buy milk and eggs for the weekend")
	flow.state.CurrentStepIndex = 1
	flow.state.CurrentStep = "challenge"

	var busy StatusResponse
	require.NoError(t, json.Unmarshal(get(t, h, "/status").Body.Bytes(), &busy))
	assert.True(t, busy.Busy)
	require.NotNil(t, busy.Attempt)
	assert.Equal(t, "att-1", busy.Attempt.AttemptID)
	assert.Equal(t, "challenge", busy.Attempt.CurrentStep)
	assert.Equal(t, domain.FlowRunning, busy.Attempt.Status)
}

func TestGetSteps(t *testing.T) {
	h := NewHandler(&Server{Flow: newMockFlow()})
	w := get(t, h, "/steps")
	assert.JSONEq(t, `[
		{"index":0,"name":"confirmation","kind":"confirm"},
		{"index":1,"name":"challenge","kind":"challenge"}
	]`, w.Body.String())
}

func TestGetItems(t *testing.T) {
	h := NewHandler(&Server{List: memory.NewList("first task of the day", "second task of the day")})
	w := get(t, h, "/items")
	assert.JSONEq(t, `{"items":["first task of the day","second task of the day"]}`, w.Body.String())
}

func TestOptionalRoutes(t *testing.T) {
	h := NewHandler(&Server{})
	assert.Equal(t, http.StatusNotFound, get(t, h, "/status").Code)
	assert.Equal(t, http.StatusNotFound, get(t, h, "/items").Code)
	assert.Equal(t, http.StatusNotFound, get(t, h, "/metrics").Code)
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := prometheus.NewCounter(prometheus.CounterOpts{Name: "taskgate_test_total", Help: "test"})
	reg.MustRegister(c)
	c.Inc()

	w := get(t, NewHandler(&Server{Gatherer: reg}), "/metrics")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "taskgate_test_total 1")
}

func TestSubscribeEvents(t *testing.T) {
	streams := NewStreamManager(slogDiscard())
	srv := httptest.NewServer(NewHandler(&Server{Streams: streams}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, "GET", srv.URL+"/events?watch=flow_end", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	reader := bufio.NewReader(resp.Body)
	line, err := reader.ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "event: ping\n", line)

	require.Eventually(t, func() bool { return streams.Subscribers() == 1 }, time.Second, 10*time.Millisecond)

	hooks := streams.Hooks()
	hooks.OnStepStart(ctx, &domain.StepEvent{StepName: "confirmation"})
	hooks.OnFlowEnd(ctx, &domain.FlowEvent{
		EventBase: domain.EventBase{AttemptID: "att-9"},
		Status:    domain.FlowRejected,
		Reason:    domain.ReasonTooShort,
		StepsRun:  8,
	})

	var lines []string
	for len(lines) < 4 {
		line, err := reader.ReadString('\n')
		require.NoError(t, err)
		lines = append(lines, strings.TrimSuffix(line, "\n"))
	}
	// ping's data line, blank, then only the watched event
	assert.Equal(t, "data: connected", lines[0])
	assert.Equal(t, "event: flow_end", lines[2])
	require.True(t, strings.HasPrefix(lines[3], "data: "))

	var body map[string]any
	require.NoError(t, json.Unmarshal([]byte(strings.TrimPrefix(lines[3], "data: ")), &body))
	assert.Equal(t, "att-9", body["attempt_id"])
	assert.Equal(t, "too short", body["reason"])
	assert.Equal(t, "rejected", body["status"])
}

func TestStreamManager_DropsForSlowClients(t *testing.T) {
	sm := NewStreamManager(slogDiscard())
	ch, cancel := sm.Subscribe()
	for i := 0; i < 40; i++ {
		sm.Broadcast(Event{Type: domain.EventStepEnd, Data: "{}"})
	}
	assert.Len(t, ch, cap(ch))

	cancel()
	cancel()
	assert.Equal(t, 0, sm.Subscribers())
}

func TestServe_ShutsDownOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Serve(ctx, "127.0.0.1:0", NewHandler(&Server{}), slogDiscard())
	}()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}
