package notify

import "errors"

var (
	// ErrChannelDisabled is returned by Send on a disabled channel.
	ErrChannelDisabled = errors.New("channel is disabled")

	// ErrEmptyMessage is returned for a message without a body.
	ErrEmptyMessage = errors.New("empty digest message")

	// ErrCircuitBreakerOpen means the channel failed repeatedly and is being
	// skipped until its breaker half-opens.
	ErrCircuitBreakerOpen = errors.New("circuit breaker is open for this channel")
)
