package store

import "github.com/leapstack-labs/recordkeep/pkg/core"

// LoadStatus describes how a Load obtained its list.
type LoadStatus int

const (
	// StatusOK means the file was read and decoded.
	StatusOK LoadStatus = iota
	// StatusMissing means the file does not exist yet or is empty.
	StatusMissing
	// StatusReadFailed means the file could not be read; the list is empty.
	StatusReadFailed
	// StatusCorrupt means the file could not be decoded; the list is empty.
	StatusCorrupt
)

func (s LoadStatus) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusMissing:
		return "missing"
	case StatusReadFailed:
		return "read_failed"
	case StatusCorrupt:
		return "corrupt"
	default:
		return "unknown"
	}
}

// Degraded reports whether the list stands in for data that exists but
// could not be used.
func (s LoadStatus) Degraded() bool {
	return s == StatusReadFailed || s == StatusCorrupt
}

// LoadResult is the outcome of Store.Load. Records is never nil.
type LoadResult struct {
	Records core.RecordList
	Status  LoadStatus
	Err     error
}

// ModifyResult is the outcome of one Store.Modify cycle.
type ModifyResult struct {
	// Load is the result of the read half of the cycle.
	Load LoadResult
	// Before and After are the list lengths around the mutation.
	Before int
	After  int
	// Saved is true when the mutated list was written successfully.
	Saved bool
	// SaveErr is set when a write was attempted and failed.
	SaveErr error
}

// Degraded reports whether the cycle hit a read, decode or write problem.
func (r ModifyResult) Degraded() bool {
	return r.Load.Status.Degraded() || r.SaveErr != nil
}
