package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"tnsystems-site/internal/usecase/notify"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ChannelHealthResponse is served on /health/channels.
type ChannelHealthResponse struct {
	Healthy  bool                         `json:"healthy"`
	Channels []notify.ChannelHealthStatus `json:"channels"`
}

// startMetricsServer serves /metrics and the notification channel health.
// The caller shuts it down.
func startMetricsServer(logger *slog.Logger, port int, notifySvc notify.Service) *http.Server {
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      metricsMux(notifySvc),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	go func() {
		logger.Info("metrics server starting", slog.Int("port", port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server error", slog.Any("error", err))
		}
	}()
	return server
}

func metricsMux(notifySvc notify.Service) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /health/channels", channelHealthHandler(notifySvc))
	return mux
}

// channelHealthHandler answers 503 while any enabled channel is paused by
// its circuit breaker.
func channelHealthHandler(notifySvc notify.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if notifySvc == nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "notification service not initialized"})
			return
		}

		resp := ChannelHealthResponse{Healthy: true, Channels: notifySvc.ChannelHealth()}
		for _, ch := range resp.Channels {
			if ch.Enabled && ch.CircuitBreakerOpen {
				resp.Healthy = false
			}
		}
		status := http.StatusOK
		if !resp.Healthy {
			status = http.StatusServiceUnavailable
		}
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(resp)
	}
}
