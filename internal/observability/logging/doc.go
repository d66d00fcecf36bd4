// Package logging provides structured logging utilities with context propagation.
//
// Loggers are plain *slog.Logger values. The HTTP layer stores a request
// scoped logger in the context with WithLogger; use cases read it back with
// FromContext and fall back to slog.Default().
//
// Example usage:
//
//	logger := logging.NewLogger()
//	ctx = logging.WithLogger(ctx, logger.With(slog.String("agency", "IRNA")))
//	logging.FromContext(ctx).Info("listing fetched", slog.Int("candidates", 10))
package logging
