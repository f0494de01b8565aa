// Package http exposes the state of a taskgate process over HTTP: the attempt in
// flight, the accepted items, Prometheus metrics and a server-sent event stream
// of flow lifecycle events.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/taskgate/internal/logging"
	"github.com/aretw0/taskgate/pkg/domain"
	"github.com/aretw0/taskgate/pkg/ports"
	"github.com/aretw0/taskgate/pkg/steps"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Flow is the part of the flow controller the server reads from.
type Flow interface {
	Snapshot() (domain.FlowState, bool)
	Steps() []steps.Step
}

// Server serves the status API.
type Server struct {
	Flow     Flow
	List     ports.ItemList
	Gatherer prometheus.Gatherer
	Streams  *StreamManager
	Version  string
	Logger   *slog.Logger
}

// StatusResponse is the body of GET /status.
type StatusResponse struct {
	Busy    bool              `json:"busy"`
	Attempt *domain.FlowState `json:"attempt,omitempty"`
	Steps   int               `json:"steps"`
}

// StepInfo is one entry of GET /steps.
type StepInfo struct {
	Index int    `json:"index"`
	Name  string `json:"name"`
	Kind  string `json:"kind"`
}

// NewHandler creates the router. Routes whose collaborator is nil are not mounted.
func NewHandler(s *Server) http.Handler {
	if s.Streams == nil {
		s.Streams = NewStreamManager(s.logger())
	}
	r := chi.NewRouter()

	r.Get("/healthz", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Get("/events", s.SubscribeEvents)
	if s.Flow != nil {
		r.Get("/status", s.GetStatus)
		r.Get("/steps", s.GetSteps)
	}
	if s.List != nil {
		r.Get("/items", s.GetItems)
	}
	if s.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.Gatherer, promhttp.HandlerOpts{}))
	}
	return enableCORS(r)
}

func (s *Server) logger() *slog.Logger {
	if s.Logger == nil {
		return logging.NewNop()
	}
	return s.Logger
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger().Error("response encode failed", "err", err)
	}
}

// GetHealth handles the GET /healthz request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]string{
		"app":     "taskgate",
		"version": strings.TrimSpace(s.Version),
	})
}

// GetStatus handles the GET /status request.
func (s *Server) GetStatus(w http.ResponseWriter, r *http.Request) {
	resp := StatusResponse{Steps: len(s.Flow.Steps())}
	if state, ok := s.Flow.Snapshot(); ok {
		resp.Busy = true
		resp.Attempt = &state
	}
	s.writeJSON(w, resp)
}

// GetSteps handles the GET /steps request.
func (s *Server) GetSteps(w http.ResponseWriter, r *http.Request) {
	seq := s.Flow.Steps()
	out := make([]StepInfo, len(seq))
	for i, st := range seq {
		out[i] = StepInfo{Index: i, Name: st.Name, Kind: st.Kind}
	}
	s.writeJSON(w, out)
}

// GetItems handles the GET /items request.
func (s *Server) GetItems(w http.ResponseWriter, r *http.Request) {
	items, err := s.List.Items(r.Context())
	if err != nil {
		http.Error(w, fmt.Sprintf("Items error: %v", err), http.StatusInternalServerError)
		s.logger().Error("list items failed", "err", err)
		return
	}
	s.writeJSON(w, map[string]any{"items": items})
}

// SubscribeEvents handles the GET /events request (SSE). The optional watch
// query parameter filters by event type, e.g. ?watch=flow_end,step_end.
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	watch := map[domain.EventType]bool{}
	if q := r.URL.Query().Get("watch"); q != "" {
		for _, t := range strings.Split(q, ",") {
			watch[domain.EventType(strings.TrimSpace(t))] = true
		}
	}

	ch, cancel := s.Streams.Subscribe()
	defer cancel()

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			s.logger().Debug("SSE client disconnected")
			return
		case ev, ok := <-ch:
			if !ok {
				return
			}
			if len(watch) > 0 && !watch[ev.Type] {
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Type, ev.Data)
			flusher.Flush()
		}
	}
}

// Serve runs handler on addr until ctx is cancelled, then shuts down gracefully.
func Serve(ctx context.Context, addr string, handler http.Handler, logger *slog.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("status server listening", "addr", addr)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("graceful shutdown did not complete", "err", err)
			return srv.Close()
		}
		return nil
	}
}
