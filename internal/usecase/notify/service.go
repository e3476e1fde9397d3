package notify

import (
	"context"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"

	"tnsystems-site/internal/domain/entity"
	"tnsystems-site/internal/handler/http/requestid"
)

// Options tune the dispatcher. Zero values take the defaults below.
type Options struct {
	MaxConcurrent       int
	BreakerThreshold    int           // consecutive failures before a channel is paused
	BreakerTimeout      time.Duration // how long a paused channel stays paused
	WorkerPoolTimeout   time.Duration
	NotificationTimeout time.Duration
	Logger              *slog.Logger
}

func (o Options) withDefaults() Options {
	if o.MaxConcurrent <= 0 {
		o.MaxConcurrent = 10
	}
	if o.BreakerThreshold <= 0 {
		o.BreakerThreshold = 5
	}
	if o.BreakerTimeout <= 0 {
		o.BreakerTimeout = 5 * time.Minute
	}
	if o.WorkerPoolTimeout <= 0 {
		o.WorkerPoolTimeout = 5 * time.Second
	}
	if o.NotificationTimeout <= 0 {
		o.NotificationTimeout = 30 * time.Second
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}

// Service dispatches notifications to every enabled channel.
type Service interface {
	// Notify returns immediately; delivery happens in background goroutines
	// and failures are only logged.
	Notify(ctx context.Context, n *entity.Notification)
	ChannelHealth() []ChannelHealthStatus
	// Shutdown cancels pending deliveries and waits for in-flight ones
	// until ctx is done.
	Shutdown(ctx context.Context) error
}

// ChannelHealthStatus reports one channel for the health endpoint.
type ChannelHealthStatus struct {
	Name               string     `json:"name"`
	Enabled            bool       `json:"enabled"`
	CircuitBreakerOpen bool       `json:"circuit_breaker_open"`
	DisabledUntil      *time.Time `json:"disabled_until,omitempty"`
}

type service struct {
	channels       []Channel
	opts           Options
	workerPool     chan struct{}
	channelHealth  map[string]*channelHealth
	wg             sync.WaitGroup
	shutdownCtx    context.Context
	shutdownCancel context.CancelFunc
}

type channelHealth struct {
	mu                  sync.Mutex
	consecutiveFailures int
	disabledUntil       time.Time
}

func NewService(channels []Channel, opts Options) Service {
	opts = opts.withDefaults()
	shutdownCtx, shutdownCancel := context.WithCancel(context.Background())

	svc := &service{
		channels:       channels,
		opts:           opts,
		workerPool:     make(chan struct{}, opts.MaxConcurrent),
		channelHealth:  make(map[string]*channelHealth, len(channels)),
		shutdownCtx:    shutdownCtx,
		shutdownCancel: shutdownCancel,
	}
	enabled := 0
	for _, ch := range channels {
		svc.channelHealth[ch.Name()] = &channelHealth{}
		if ch.IsEnabled() {
			enabled++
		}
	}
	configuredChannels.Set(float64(enabled))
	return svc
}

func (s *service) Notify(ctx context.Context, n *entity.Notification) {
	logger := s.opts.Logger
	if err := validate(n); err != nil {
		logger.Warn("invalid notification dropped", slog.Any("error", err))
		return
	}
	if s.shutdownCtx.Err() != nil {
		logger.Warn("notification dropped: service shut down", slog.String("kind", n.Kind))
		return
	}

	_, reqID := requestid.Ensure(ctx)
	for _, ch := range s.channels {
		if !ch.IsEnabled() {
			continue
		}
		s.wg.Add(1)
		go s.deliver(reqID, ch, n)
	}
}

func (s *service) deliver(reqID string, ch Channel, n *entity.Notification) {
	defer s.wg.Done()
	inFlight.Inc()
	defer inFlight.Dec()

	logger := s.opts.Logger.With(
		slog.String("request_id", reqID),
		slog.String("channel", ch.Name()),
		slog.String("kind", n.Kind))

	defer func() {
		if r := recover(); r != nil {
			logger.Error("panic in notification channel",
				slog.Any("panic", r),
				slog.String("stack", string(debug.Stack())))
		}
	}()

	select {
	case s.workerPool <- struct{}{}:
		defer func() { <-s.workerPool }()
	case <-time.After(s.opts.WorkerPoolTimeout):
		logger.Warn("notification dropped: worker pool full")
		drops.WithLabelValues(ch.Name(), dropPoolFull).Inc()
		return
	case <-s.shutdownCtx.Done():
		drops.WithLabelValues(ch.Name(), dropShutdown).Inc()
		return
	}

	health := s.channelHealth[ch.Name()]
	health.mu.Lock()
	if until := health.disabledUntil; time.Now().Before(until) {
		health.mu.Unlock()
		logger.Warn("channel paused by circuit breaker", slog.Time("disabled_until", until))
		drops.WithLabelValues(ch.Name(), dropPaused).Inc()
		return
	}
	health.mu.Unlock()

	ctx, cancel := context.WithTimeout(s.shutdownCtx, s.opts.NotificationTimeout)
	defer cancel()
	ctx = requestid.WithRequestID(ctx, reqID)

	start := time.Now()
	err := ch.Send(ctx, n)
	duration := time.Since(start)
	observeDelivery(ch.Name(), n.Kind, err, duration)

	health.mu.Lock()
	if err != nil {
		health.consecutiveFailures++
		if health.consecutiveFailures >= s.opts.BreakerThreshold {
			health.disabledUntil = time.Now().Add(s.opts.BreakerTimeout)
			health.consecutiveFailures = 0
			logger.Error("circuit breaker opened for channel", slog.Duration("pause", s.opts.BreakerTimeout))
			pauses.WithLabelValues(ch.Name()).Inc()
		}
	} else {
		health.consecutiveFailures = 0
	}
	health.mu.Unlock()

	if err != nil {
		logger.Warn("channel notification failed", slog.Duration("send_duration", duration), slog.Any("error", err))
		return
	}
	logger.Info("channel notification sent", slog.String("title", n.Title), slog.Duration("send_duration", duration))
}

func (s *service) ChannelHealth() []ChannelHealthStatus {
	statuses := make([]ChannelHealthStatus, 0, len(s.channels))
	now := time.Now()
	for _, ch := range s.channels {
		health := s.channelHealth[ch.Name()]
		health.mu.Lock()
		st := ChannelHealthStatus{Name: ch.Name(), Enabled: ch.IsEnabled()}
		if now.Before(health.disabledUntil) {
			until := health.disabledUntil
			st.CircuitBreakerOpen = true
			st.DisabledUntil = &until
		}
		health.mu.Unlock()
		statuses = append(statuses, st)
	}
	return statuses
}

func (s *service) Shutdown(ctx context.Context) error {
	s.opts.Logger.Info("shutting down notification service")
	s.shutdownCancel()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.opts.Logger.Info("notification service shutdown complete")
		return nil
	case <-ctx.Done():
		s.opts.Logger.Warn("notification service shutdown timeout")
		return ctx.Err()
	}
}
