package worker

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

// HealthServer serves the worker's probes:
//
//	GET /health        liveness, always 200
//	GET /health/ready  200 once the scheduler is running, 503 before
//
// Readiness also reports the outcome of the most recent import run.
type HealthServer struct {
	addr   string
	logger *slog.Logger
	ready  atomic.Bool

	mu      sync.Mutex
	lastRun *RunReport
}

// RunReport summarises the latest import run.
type RunReport struct {
	FinishedAt time.Time `json:"finished_at"`
	Success    bool      `json:"success"`
	Inserted   int64     `json:"inserted"`
	Error      string    `json:"error,omitempty"`
}

type healthResponse struct {
	Status  string     `json:"status"`
	LastRun *RunReport `json:"last_run,omitempty"`
}

func NewHealthServer(addr string, logger *slog.Logger) *HealthServer {
	return &HealthServer{addr: addr, logger: logger}
}

// Handler exposes the probe routes without binding a port.
func (h *HealthServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", h.handleLiveness)
	mux.HandleFunc("GET /health/ready", h.handleReadiness)
	return mux
}

// Start serves until ctx is cancelled, then shuts down within 5 seconds.
// It returns http.ErrServerClosed after a clean shutdown.
func (h *HealthServer) Start(ctx context.Context) error {
	server := &http.Server{
		Addr:         h.addr,
		Handler:      h.Handler(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		h.logger.Info("health server starting", slog.String("addr", h.addr))
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			h.logger.Error("health server shutdown failed", slog.Any("error", err))
			return err
		}
		h.logger.Info("health server stopped")
		return http.ErrServerClosed
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			h.logger.Error("health server failed", slog.Any("error", err))
		}
		return err
	}
}

func (h *HealthServer) SetReady(ready bool) {
	h.ready.Store(ready)
	h.logger.Info("worker readiness changed", slog.Bool("ready", ready))
}

// ReportRun records the latest import outcome for the readiness probe.
func (h *HealthServer) ReportRun(r RunReport) {
	h.mu.Lock()
	h.lastRun = &r
	h.mu.Unlock()
}

func (h *HealthServer) handleLiveness(w http.ResponseWriter, _ *http.Request) {
	h.write(w, http.StatusOK, healthResponse{Status: "ok"})
}

func (h *HealthServer) handleReadiness(w http.ResponseWriter, _ *http.Request) {
	h.mu.Lock()
	resp := healthResponse{Status: "ok", LastRun: h.lastRun}
	h.mu.Unlock()

	status := http.StatusOK
	if !h.ready.Load() {
		status = http.StatusServiceUnavailable
		resp.Status = "not ready"
	}
	h.write(w, status, resp)
}

func (h *HealthServer) write(w http.ResponseWriter, status int, body healthResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error("failed to encode health response", slog.Any("error", err))
	}
}
