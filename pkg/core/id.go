package core

import (
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Id generation strategies accepted by NewIDGenerator.
const (
	IDStrategyUUID      = "uuid"
	IDStrategyTimestamp = "timestamp"
)

// IDGenerator produces opaque record ids.
type IDGenerator interface {
	NewID() string
}

// IDGeneratorFunc adapts a plain function to IDGenerator.
type IDGeneratorFunc func() string

// NewID calls f.
func (f IDGeneratorFunc) NewID() string { return f() }

// UUIDGenerator issues random UUIDv4 strings.
type UUIDGenerator struct{}

// NewID returns a new random UUID.
func (UUIDGenerator) NewID() string {
	return uuid.NewString()
}

// TimestampGenerator issues decimal Unix-millisecond strings. When the clock
// has not advanced past the previously issued value, the previous value plus
// one is issued instead, so ids from one generator never repeat.
type TimestampGenerator struct {
	// Now defaults to time.Now.
	Now func() time.Time

	mu   sync.Mutex
	last int64
}

// NewID returns the next monotonic millisecond id.
func (g *TimestampGenerator) NewID() string {
	now := time.Now
	if g.Now != nil {
		now = g.Now
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	ms := now().UnixMilli()
	if ms <= g.last {
		ms = g.last + 1
	}
	g.last = ms
	return strconv.FormatInt(ms, 10)
}

// NewIDGenerator returns the generator for a strategy name.
// An empty name selects the uuid strategy.
func NewIDGenerator(strategy string) (IDGenerator, error) {
	switch strategy {
	case "", IDStrategyUUID:
		return UUIDGenerator{}, nil
	case IDStrategyTimestamp:
		return &TimestampGenerator{}, nil
	default:
		return nil, fmt.Errorf("unknown id strategy %q (want %s or %s)", strategy, IDStrategyUUID, IDStrategyTimestamp)
	}
}
