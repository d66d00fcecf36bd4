// Package circuitbreaker wraps github.com/sony/gobreaker for calls to agency
// sites and summarizer providers.
package circuitbreaker

import (
	"log/slog"
	"sync"
	"time"

	"github.com/sony/gobreaker"
)

// Config holds the configuration for a circuit breaker.
type Config struct {
	// Name is the circuit breaker name for logging and metrics
	Name string

	// MaxRequests is the maximum number of requests allowed in half-open state
	MaxRequests uint32

	// Interval is the cyclic period of the closed state to clear counts
	Interval time.Duration

	// Timeout is how long to stay open before probing again
	Timeout time.Duration

	// FailureThreshold is the failure ratio that trips the circuit (0.6 = 60%)
	FailureThreshold float64

	// MinRequests is the minimum number of requests before the ratio is evaluated
	MinRequests uint32
}

// DefaultConfig returns a default configuration for circuit breakers.
func DefaultConfig(name string) Config {
	return Config{
		Name:             name,
		MaxRequests:      3,
		Interval:         30 * time.Second,
		Timeout:          60 * time.Second,
		FailureThreshold: 0.6,
		MinRequests:      5,
	}
}

// ScrapeConfig returns the breaker settings for one agency's listing page.
// Agencies are fetched every few minutes at most, so the open period is long.
func ScrapeConfig(agency string) Config {
	return Config{
		Name:             "scrape-" + agency,
		MaxRequests:      1,
		Interval:         10 * time.Minute,
		Timeout:          15 * time.Minute,
		FailureThreshold: 0.8,
		MinRequests:      3,
	}
}

// ArticleConfig returns the breaker settings for article page fetches.
func ArticleConfig(host string) Config {
	return Config{
		Name:             "article-" + host,
		MaxRequests:      3,
		Interval:         60 * time.Second,
		Timeout:          5 * time.Minute,
		FailureThreshold: 0.7,
		MinRequests:      10,
	}
}

// SummarizerConfig returns the breaker settings for an external summarizer.
func SummarizerConfig(provider string) Config {
	return Config{
		Name:             provider + "-api",
		MaxRequests:      3,
		Interval:         30 * time.Second,
		Timeout:          60 * time.Second,
		FailureThreshold: 0.6,
		MinRequests:      5,
	}
}

// NotifyConfig returns the breaker settings for a digest webhook channel.
// Digests go out a few times a day, so a handful of failures inside a day
// is enough to stop calling a broken webhook for a while.
func NotifyConfig(channel string) Config {
	return Config{
		Name:             "notify-" + channel,
		MaxRequests:      1,
		Interval:         24 * time.Hour,
		Timeout:          30 * time.Minute,
		FailureThreshold: 1.0,
		MinRequests:      3,
	}
}

// CircuitBreaker wraps gobreaker.CircuitBreaker.
type CircuitBreaker struct {
	breaker *gobreaker.CircuitBreaker
	name    string
}

// New creates a new circuit breaker with the given configuration.
func New(cfg Config) *CircuitBreaker {
	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			return ratio >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			slog.Warn("circuit breaker state changed",
				slog.String("circuit", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()))
		},
	}
	return &CircuitBreaker{
		breaker: gobreaker.NewCircuitBreaker(settings),
		name:    cfg.Name,
	}
}

// Execute runs fn through the breaker. While open it returns
// gobreaker.ErrOpenState without calling fn.
func (cb *CircuitBreaker) Execute(fn func() (interface{}, error)) (interface{}, error) {
	return cb.breaker.Execute(fn)
}

func (cb *CircuitBreaker) State() gobreaker.State { return cb.breaker.State() }

func (cb *CircuitBreaker) Name() string { return cb.name }

// IsOpen returns true if the circuit breaker is in the open state.
func (cb *CircuitBreaker) IsOpen() bool {
	return cb.breaker.State() == gobreaker.StateOpen
}

// Set lazily creates one breaker per key, e.g. per agency or per host.
type Set struct {
	mu       sync.Mutex
	breakers map[string]*CircuitBreaker
	newCfg   func(key string) Config
}

// NewSet returns a Set that builds configs with newCfg.
func NewSet(newCfg func(key string) Config) *Set {
	return &Set{breakers: make(map[string]*CircuitBreaker), newCfg: newCfg}
}

// Get returns the breaker for key, creating it on first use.
func (s *Set) Get(key string) *CircuitBreaker {
	s.mu.Lock()
	defer s.mu.Unlock()
	cb, ok := s.breakers[key]
	if !ok {
		cb = New(s.newCfg(key))
		s.breakers[key] = cb
	}
	return cb
}

// States snapshots the state of every breaker created so far.
func (s *Set) States() map[string]gobreaker.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]gobreaker.State, len(s.breakers))
	for k, cb := range s.breakers {
		out[k] = cb.State()
	}
	return out
}
