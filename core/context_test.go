package core

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestContextConcurrentAccess tests that context values can be safely read concurrently.
func TestContextConcurrentAccess(t *testing.T) {
	ctx := withScanRunID(withSuppressHeader(context.Background()), 12345)

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Go(func() {
			assert.True(t, shouldSuppressHeader(ctx), "goroutine %d", i)
			runID, ok := getScanRunID(ctx)
			assert.True(t, ok, "goroutine %d", i)
			assert.Equal(t, int64(12345), runID)
		})
	}
	wg.Wait()
}

func TestContextDefaults(t *testing.T) {
	ctx := context.Background()
	assert.False(t, shouldSuppressHeader(ctx))
	_, ok := getScanRunID(ctx)
	assert.False(t, ok)

	_, ok = getScanRunID(withScanRunID(ctx, 0))
	assert.False(t, ok, "zero run ID means tracking failed to start")
}

func TestContextIsolation(t *testing.T) {
	base := context.Background()
	suppressed := withSuppressHeader(base)
	assert.True(t, shouldSuppressHeader(suppressed))
	assert.False(t, shouldSuppressHeader(base))
}
