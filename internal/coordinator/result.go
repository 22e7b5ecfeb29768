package coordinator

import (
	"github.com/leapstack-labs/recordkeep/internal/store"
	"github.com/leapstack-labs/recordkeep/pkg/core"
)

// Op names a mutating operation.
type Op string

// Mutating operations reported to observers.
const (
	OpCreate Op = "create"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

// Change describes a successful mutation.
type Change struct {
	Op       Op
	ID       string
	Degraded []string
}

// StoreResult is the outcome of one mutation against one store.
type StoreResult struct {
	Key     string
	Found   bool
	Load    store.LoadResult
	SaveErr error
	Before  int
	After   int
}

// Degraded reports whether the store's data could not be read or written.
func (r StoreResult) Degraded() bool {
	return r.Load.Status.Degraded() || r.SaveErr != nil
}

// Result is the outcome of a mutation across both stores.
type Result struct {
	// Record is the created or updated record. It is zero for deletes.
	Record core.Record
	// Stores holds one entry per store, primary first.
	Stores []StoreResult
}

// Degraded reports whether any store was degraded.
func (r Result) Degraded() bool {
	for _, s := range r.Stores {
		if s.Degraded() {
			return true
		}
	}
	return false
}

// DegradedStores returns the keys of degraded stores in store order.
func (r Result) DegradedStores() []string {
	var keys []string
	for _, s := range r.Stores {
		if s.Degraded() {
			keys = append(keys, s.Key)
		}
	}
	return keys
}

func (r Result) anyFound() bool {
	for _, s := range r.Stores {
		if s.Found {
			return true
		}
	}
	return false
}

// StoreSnapshot is one store's list as read by ListAll.
type StoreSnapshot struct {
	Key  string
	Load store.LoadResult
}

// Snapshot holds both stores' lists, primary first.
type Snapshot struct {
	Stores []StoreSnapshot
}

// Lists returns the lists keyed by store key.
func (s Snapshot) Lists() map[string]core.RecordList {
	out := make(map[string]core.RecordList, len(s.Stores))
	for _, st := range s.Stores {
		out[st.Key] = st.Load.Records
	}
	return out
}

// Keys returns the store keys in store order.
func (s Snapshot) Keys() []string {
	keys := make([]string, len(s.Stores))
	for i, st := range s.Stores {
		keys[i] = st.Key
	}
	return keys
}

// Get returns the list for key, or nil when key is unknown.
func (s Snapshot) Get(key string) core.RecordList {
	for _, st := range s.Stores {
		if st.Key == key {
			return st.Load.Records
		}
	}
	return nil
}
