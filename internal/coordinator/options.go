package coordinator

import (
	"log/slog"

	"github.com/leapstack-labs/recordkeep/pkg/core"
)

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithIDGenerator replaces the default uuid id generator.
func WithIDGenerator(g core.IDGenerator) Option {
	return func(c *Coordinator) {
		if g != nil {
			c.ids = g
		}
	}
}

// WithLogger sets the logger used for degradation warnings.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Coordinator) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithObserver registers fn to be called after every successful mutation.
// Observers run synchronously on the calling goroutine and must not block.
func WithObserver(fn func(Change)) Option {
	return func(c *Coordinator) {
		if fn != nil {
			c.observers = append(c.observers, fn)
		}
	}
}
