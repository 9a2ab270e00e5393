package core

import "context"

// Context keys for scan options
type contextKey string

const (
	suppressHeaderKey contextKey = "suppressHeader"
	scanRunIDKey      contextKey = "scanRunID"
)

// withSuppressHeader marks the context so progress lines are not printed
func withSuppressHeader(ctx context.Context) context.Context {
	return context.WithValue(ctx, suppressHeaderKey, true)
}

// shouldSuppressHeader returns whether progress lines should be suppressed from context
func shouldSuppressHeader(ctx context.Context) bool {
	val := ctx.Value(suppressHeaderKey)
	if val == nil {
		return false // default: show progress
	}
	suppress, ok := val.(bool)
	return ok && suppress
}

// withScanRunID stores the history run ID for per-file recording
func withScanRunID(ctx context.Context, runID int64) context.Context {
	return context.WithValue(ctx, scanRunIDKey, runID)
}

// getScanRunID returns the history run ID, if tracking is active
func getScanRunID(ctx context.Context) (int64, bool) {
	runID, ok := ctx.Value(scanRunIDKey).(int64)
	return runID, ok && runID > 0
}
