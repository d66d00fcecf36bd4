package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"

	"github.com/sony/gobreaker"

	"rasad-feed/internal/infra/notifier"
	"rasad-feed/internal/resilience/circuitbreaker"
)

const defaultSendTimeout = 2 * time.Minute

// ChannelHealthStatus is the breaker state of one channel.
type ChannelHealthStatus struct {
	Name               string `json:"name"`
	Enabled            bool   `json:"enabled"`
	CircuitBreakerOpen bool   `json:"circuit_breaker_open"`
}

// Service sends a message to every enabled channel in parallel. Each
// channel sits behind its own circuit breaker.
type Service struct {
	channels []Channel
	breakers *circuitbreaker.Set
	timeout  time.Duration
	logger   *slog.Logger
}

// NewService creates a Service. timeout bounds one channel's send,
// including its retries; zero means two minutes.
func NewService(channels []Channel, timeout time.Duration, logger *slog.Logger) *Service {
	if timeout <= 0 {
		timeout = defaultSendTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{
		channels: channels,
		breakers: circuitbreaker.NewSet(circuitbreaker.NotifyConfig),
		timeout:  timeout,
		logger:   logger,
	}
	channelsEnabled.Set(float64(s.Enabled()))
	return s
}

// Enabled counts the enabled channels.
func (s *Service) Enabled() int {
	n := 0
	for _, ch := range s.channels {
		if ch.IsEnabled() {
			n++
		}
	}
	return n
}

// Publish blocks until every enabled channel has been tried and joins the
// per-channel errors. With no enabled channel it does nothing.
func (s *Service) Publish(ctx context.Context, msg notifier.Message) error {
	if msg.Body == "" {
		return ErrEmptyMessage
	}

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)
	for _, ch := range s.channels {
		if !ch.IsEnabled() {
			recordDropped(ch.Name(), "disabled")
			continue
		}
		wg.Add(1)
		go func(ch Channel) {
			defer wg.Done()
			if err := s.send(ctx, ch, msg); err != nil {
				mu.Lock()
				errs = append(errs, fmt.Errorf("%s: %w", ch.Name(), err))
				mu.Unlock()
			}
		}(ch)
	}
	wg.Wait()
	return errors.Join(errs...)
}

func (s *Service) send(ctx context.Context, ch Channel, msg notifier.Message) (err error) {
	logger := s.logger.With(slog.String("channel", ch.Name()), slog.String("day", msg.Day))
	defer func() {
		if r := recover(); r != nil {
			logger.Error("panic in notification channel",
				slog.Any("panic", r),
				slog.String("stack", string(debug.Stack())))
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	recordDispatch(ch.Name())
	_, err = s.breakers.Get(ch.Name()).Execute(func() (interface{}, error) {
		return nil, ch.Send(ctx, msg)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		recordDropped(ch.Name(), "circuit_open")
		logger.Warn("channel skipped, circuit breaker open")
		return ErrCircuitBreakerOpen
	}

	d := time.Since(start)
	recordResult(ch.Name(), d, err)
	if err != nil {
		logger.Warn("digest notification failed", slog.Duration("duration", d), slog.Any("error", err))
		return err
	}
	logger.Info("digest notification sent", slog.Duration("duration", d))
	return nil
}

// ChannelHealth reports every channel with its breaker state.
func (s *Service) ChannelHealth() []ChannelHealthStatus {
	out := make([]ChannelHealthStatus, 0, len(s.channels))
	for _, ch := range s.channels {
		out = append(out, ChannelHealthStatus{
			Name:               ch.Name(),
			Enabled:            ch.IsEnabled(),
			CircuitBreakerOpen: s.breakers.Get(ch.Name()).IsOpen(),
		})
	}
	return out
}
