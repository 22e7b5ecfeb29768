// Package features provides shared test utilities for UI feature tests.
package features

import (
	"context"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/recordkeep/internal/codec"
	"github.com/leapstack-labs/recordkeep/internal/coordinator"
	"github.com/leapstack-labs/recordkeep/internal/store"
	"github.com/leapstack-labs/recordkeep/internal/testutil"
	"github.com/leapstack-labs/recordkeep/internal/ui/notifier"
	"github.com/leapstack-labs/recordkeep/pkg/core"
)

// TestFixture holds all dependencies needed for UI handler tests.
type TestFixture struct {
	Coordinator  *coordinator.Coordinator
	Primary      *store.Store
	Secondary    *store.Store
	Notifier     *notifier.Notifier
	SessionStore *sessions.CookieStore
	Dir          string
}

// SetupTestFixture creates json and xml stores in a temp directory seeded
// with the given lists, and a coordinator that broadcasts its changes.
func SetupTestFixture(t *testing.T, primary, secondary core.RecordList) *TestFixture {
	t.Helper()

	logger := testutil.NewTestLogger(t)
	dir := t.TempDir()

	f := &TestFixture{
		Primary:      store.New(store.Config{Key: "json", Path: filepath.Join(dir, "data.json")}, codec.JSON{}, logger),
		Secondary:    store.New(store.Config{Key: "xml", Path: filepath.Join(dir, "data.xml")}, codec.XML{}, logger),
		Notifier:     notifier.New(),
		SessionStore: NewTestSessionStore(),
		Dir:          dir,
	}
	if primary != nil {
		require.NoError(t, f.Primary.Save(primary))
	}
	if secondary != nil {
		require.NoError(t, f.Secondary.Save(secondary))
	}

	f.Coordinator = coordinator.New(f.Primary, f.Secondary,
		coordinator.WithLogger(logger),
		coordinator.WithObserver(func(c coordinator.Change) {
			f.Notifier.Broadcast(notifier.Event{Source: notifier.SourceCoordinator, Op: string(c.Op), ID: c.ID})
		}),
	)
	return f
}

// RequestWithPathParam wraps a request with chi URL params.
func RequestWithPathParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		rctx = chi.NewRouteContext()
	}
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// RequestWithTimeout wraps a request with a context timeout.
func RequestWithTimeout(t *testing.T, r *http.Request, timeout time.Duration) *http.Request {
	t.Helper()
	ctx, cancel := context.WithTimeout(r.Context(), timeout)
	t.Cleanup(cancel)
	return r.WithContext(ctx)
}

// NewTestSessionStore creates a session store for testing.
func NewTestSessionStore() *sessions.CookieStore {
	return sessions.NewCookieStore([]byte("test-secret-key-32-bytes-long!!"))
}
