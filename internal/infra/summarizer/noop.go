package summarizer

import "context"

// NoOp is selected when no provider has credentials. It declines every
// request with an empty summary, which moves the chain to its fallback.
type NoOp struct{}

// NewNoOp creates a new NoOp summarizer.
func NewNoOp() *NoOp {
	return &NoOp{}
}

// Summarize always returns "".
func (n *NoOp) Summarize(_ context.Context, _, _ string) (string, error) {
	return "", nil
}
