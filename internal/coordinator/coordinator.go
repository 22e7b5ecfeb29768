package coordinator

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/leapstack-labs/recordkeep/internal/store"
	"github.com/leapstack-labs/recordkeep/pkg/core"
)

// Coordinator fans record operations out to a primary and a secondary store.
type Coordinator struct {
	stores    []*store.Store
	ids       core.IDGenerator
	logger    *slog.Logger
	observers []func(Change)
}

// New creates a Coordinator over two stores.
func New(primary, secondary *store.Store, opts ...Option) *Coordinator {
	c := &Coordinator{
		stores: []*store.Store{primary, secondary},
		ids:    core.UUIDGenerator{},
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Stores returns the primary and secondary stores.
func (c *Coordinator) Stores() (primary, secondary *store.Store) {
	return c.stores[0], c.stores[1]
}

// ListAll loads both stores independently and returns them unmerged.
func (c *Coordinator) ListAll(ctx context.Context) Snapshot {
	snap := Snapshot{Stores: make([]StoreSnapshot, len(c.stores))}
	for i, s := range c.stores {
		snap.Stores[i] = StoreSnapshot{Key: s.Key(), Load: s.Load()}
	}
	c.logger.DebugContext(ctx, "listed records", "stores", len(snap.Stores))
	return snap
}

// Create appends a new record with a generated id to both stores. The record
// is returned even when one or both saves failed.
func (c *Coordinator) Create(ctx context.Context, name, email string) (Result, error) {
	if name == "" {
		return Result{}, fmt.Errorf("%w: missing name", ErrValidation)
	}
	if email == "" {
		return Result{}, fmt.Errorf("%w: missing email", ErrValidation)
	}

	rec := core.Record{ID: c.ids.NewID(), Name: name, Email: email}
	res := c.apply(func(list core.RecordList) (core.RecordList, bool, bool) {
		return append(list, rec), true, true
	})
	res.Record = rec

	c.finish(ctx, OpCreate, rec.ID, res)
	return res, nil
}

// Update replaces name and email on the first record with id in each store.
// A store is written only when it holds the id. ErrNotFound is returned when
// neither store does.
func (c *Coordinator) Update(ctx context.Context, id, name, email string) (Result, error) {
	rec := core.Record{ID: id, Name: name, Email: email}
	res := c.apply(func(list core.RecordList) (core.RecordList, bool, bool) {
		i := list.IndexOf(id)
		if i < 0 {
			return list, false, false
		}
		list[i].Name = name
		list[i].Email = email
		return list, true, true
	})
	res.Record = rec

	if !res.anyFound() {
		c.logDegraded(ctx, OpUpdate, id, res)
		return res, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	c.finish(ctx, OpUpdate, id, res)
	return res, nil
}

// Delete removes every record with id from each store. Each store is
// rewritten even when nothing matched. ErrNotFound is returned when no
// store shrank.
func (c *Coordinator) Delete(ctx context.Context, id string) (Result, error) {
	res := c.apply(func(list core.RecordList) (core.RecordList, bool, bool) {
		next := list.Without(id)
		return next, len(next) < len(list), true
	})

	if !res.anyFound() {
		c.logDegraded(ctx, OpDelete, id, res)
		return res, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	c.finish(ctx, OpDelete, id, res)
	return res, nil
}

// apply runs mutate against every store in order. mutate returns the new
// list, whether the target was found and whether the list must be written.
// A failure in one store never stops the next.
func (c *Coordinator) apply(mutate func(core.RecordList) (core.RecordList, bool, bool)) Result {
	res := Result{Stores: make([]StoreResult, 0, len(c.stores))}
	for _, s := range c.stores {
		var found bool
		mod := s.Modify(func(list core.RecordList) (core.RecordList, bool) {
			next, ok, write := mutate(list)
			found = ok
			return next, write
		})
		res.Stores = append(res.Stores, StoreResult{
			Key:     s.Key(),
			Found:   found,
			Load:    mod.Load,
			SaveErr: mod.SaveErr,
			Before:  mod.Before,
			After:   mod.After,
		})
	}
	return res
}

func (c *Coordinator) finish(ctx context.Context, op Op, id string, res Result) {
	c.logDegraded(ctx, op, id, res)
	c.logger.InfoContext(ctx, "record "+string(op)+"d", "id", id)

	change := Change{Op: op, ID: id, Degraded: res.DegradedStores()}
	for _, fn := range c.observers {
		fn(change)
	}
}

func (c *Coordinator) logDegraded(ctx context.Context, op Op, id string, res Result) {
	for _, s := range res.Stores {
		if !s.Degraded() {
			continue
		}
		attrs := []any{
			"op", op,
			"id", id,
			"store", s.Key,
			"load_status", s.Load.Status.String(),
		}
		if s.Load.Err != nil {
			attrs = append(attrs, "load_error", s.Load.Err)
		}
		if s.SaveErr != nil {
			attrs = append(attrs, "save_error", s.SaveErr)
		}
		c.logger.WarnContext(ctx, "store degraded", attrs...)
	}
}
