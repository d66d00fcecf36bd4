package lock

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	// DefaultTTL bounds how long a crashed holder blocks others.
	DefaultTTL = 2 * time.Minute
	// DefaultRetryDelay is the wait between acquisition attempts.
	DefaultRetryDelay = 100 * time.Millisecond
	// DefaultMaxWait is the total time spent trying to acquire.
	DefaultMaxWait = 30 * time.Second

	keyPrefix = "rasad:lock:agency:"
)

var releaseScript = redis.NewScript(`
	if redis.call("get", KEYS[1]) == ARGV[1] then
		return redis.call("del", KEYS[1])
	else
		return 0
	end
`)

// RedisConfig configures RedisLocker.
type RedisConfig struct {
	TTL        time.Duration
	RetryDelay time.Duration
	MaxWait    time.Duration
}

// DefaultRedisConfig returns the defaults.
func DefaultRedisConfig() RedisConfig {
	return RedisConfig{TTL: DefaultTTL, RetryDelay: DefaultRetryDelay, MaxWait: DefaultMaxWait}
}

// RedisLocker implements AgencyLocker with SET NX PX and a token-checked
// release, so a lock that expired and was taken over is never deleted by
// its previous holder.
type RedisLocker struct {
	client redis.UniversalClient
	cfg    RedisConfig
}

// NewRedisLocker creates a RedisLocker. Zero config fields take defaults.
func NewRedisLocker(client redis.UniversalClient, cfg RedisConfig) *RedisLocker {
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTTL
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = DefaultRetryDelay
	}
	if cfg.MaxWait <= 0 {
		cfg.MaxWait = DefaultMaxWait
	}
	return &RedisLocker{client: client, cfg: cfg}
}

// Lock retries SET NX until it succeeds, MaxWait elapses or ctx is done.
func (l *RedisLocker) Lock(ctx context.Context, agency string) (Unlock, error) {
	key := keyPrefix + agency
	token := uuid.New().String()
	deadline := time.Now().Add(l.cfg.MaxWait)

	for {
		ok, err := l.client.SetNX(ctx, key, token, l.cfg.TTL).Result()
		if err != nil {
			return nil, fmt.Errorf("acquire lock %s: %w", agency, err)
		}
		if ok {
			return l.release(ctx, key, token), nil
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("%w: %s: held by another worker", ErrNotAcquired, agency)
		}

		timer := time.NewTimer(l.cfg.RetryDelay)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return nil, fmt.Errorf("%w: %s: %v", ErrNotAcquired, agency, ctx.Err())
		}
	}
}

func (l *RedisLocker) release(ctx context.Context, key, token string) Unlock {
	var once sync.Once
	return func() {
		once.Do(func() {
			// 取消された run でも解放は行う
			rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
			defer cancel()
			n, err := releaseScript.Run(rctx, l.client, []string{key}, token).Int()
			if err != nil && !errors.Is(err, redis.Nil) {
				slog.Warn("failed to release agency lock",
					slog.String("key", key),
					slog.Any("error", err))
				return
			}
			if n == 0 {
				slog.Warn("agency lock expired before release", slog.String("key", key))
			}
		})
	}
}

var (
	_ AgencyLocker = (*MemoryLocker)(nil)
	_ AgencyLocker = (*RedisLocker)(nil)
)
