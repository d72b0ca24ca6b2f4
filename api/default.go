package api

import (
	"context"
	"sync"
	"sync/atomic"
)

var (
	defaultStarted   atomic.Bool
	defaultCollector = sync.OnceValue(func() *Collector {
		defaultStarted.Store(true)
		return NewCollector(Config{})
	})
)

// Default returns the process-wide collector, creating it on first use.
// Concurrent callers share it and its connection pool.
func Default() *Collector {
	return defaultCollector()
}

// Collect collects the links of the document at rawURL with the default
// collector. See Collector.Collect.
func Collect(ctx context.Context, rawURL string) ([]Link, error) {
	return Default().Collect(ctx, rawURL)
}

// Shutdown releases the resources of the default collector. It is a no-op
// when the default collector was never used. The collector stays usable and
// reopens connections on demand.
func Shutdown() {
	if defaultStarted.Load() {
		Default().Close()
	}
}
