package logging

import (
	"context"
	"time"
)

// ctxKey is the context key for the logger
type ctxKey struct{}

// WithLogger returns a new context with the logger attached
func WithLogger(ctx context.Context, logger StepLogger) context.Context {
	return context.WithValue(ctx, ctxKey{}, logger)
}

// FromContext returns the logger from context, or nil if not present
func FromContext(ctx context.Context) StepLogger {
	if ctx == nil {
		return nil
	}
	if logger, ok := ctx.Value(ctxKey{}).(StepLogger); ok {
		return logger
	}
	return nil
}

// LogFromContext logs a step if a logger is present in context
func LogFromContext(ctx context.Context, phase, function, details string, err error) {
	if logger := FromContext(ctx); logger != nil {
		logger.LogStep(phase, function, details, err)
	}
}

// MeasureStepWithError logs a step timed from start, capturing err.
// Usage: err := doSomething(); logging.MeasureStepWithError(ctx, phase, function, details, start, err)
func MeasureStepWithError(ctx context.Context, phase, function, details string, start time.Time, err error) {
	if logger := FromContext(ctx); logger != nil {
		logger.LogStepWithDuration(phase, function, details, time.Since(start), err)
	}
}
