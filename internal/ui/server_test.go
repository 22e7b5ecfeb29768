package ui

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/recordkeep/internal/coordinator"
	"github.com/leapstack-labs/recordkeep/internal/testutil"
	"github.com/leapstack-labs/recordkeep/internal/ui/features"
	"github.com/leapstack-labs/recordkeep/internal/ui/notifier"
	"github.com/leapstack-labs/recordkeep/pkg/core"
)

func TestServer_Handler(t *testing.T) {
	fixture := features.SetupTestFixture(t, core.RecordList{{ID: "1", Name: "A", Email: "a@x.com"}}, nil)

	logger, logs := testutil.NewCaptureLogger(t)
	srv := NewServer(Config{
		Coordinator: fixture.Coordinator,
		Notifier:    fixture.Notifier,
		Logger:      logger,
	})

	h, err := srv.Handler()
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/records", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"json":[{"id":"1","name":"A","email":"a@x.com"}],"xml":[]}`, rec.Body.String())

	line := logs.String()
	assert.Contains(t, line, "http request")
	assert.Contains(t, line, "path=/api/records")
	assert.Contains(t, line, "status=200")
	assert.Contains(t, line, "request_id=")
}

func TestNewServer_Defaults(t *testing.T) {
	srv := NewServer(Config{})

	assert.NotNil(t, srv.Notifier())
	assert.NotNil(t, srv.logger)
	assert.Equal(t, defaultReadHeaderTimeout, srv.readHeaderTimeout)
	assert.Equal(t, defaultShutdownTimeout, srv.shutdownTimeout)
}

func TestObserveChanges(t *testing.T) {
	n := notifier.New()
	ch := n.Subscribe()
	defer n.Unsubscribe(ch)

	ObserveChanges(n)(coordinator.Change{Op: coordinator.OpDelete, ID: "7"})

	select {
	case ev := <-ch:
		assert.Equal(t, notifier.Event{Source: notifier.SourceCoordinator, Op: "delete", ID: "7"}, ev)
	case <-time.After(100 * time.Millisecond):
		t.Fatal("no event")
	}
}

func TestServer_WatchDataFiles(t *testing.T) {
	fixture := features.SetupTestFixture(t, nil, nil)

	srv := NewServer(Config{
		Coordinator: fixture.Coordinator,
		Notifier:    fixture.Notifier,
		Watch:       true,
		WatchFiles:  []string{fixture.Primary.Path(), fixture.Secondary.Path()},
		Logger:      testutil.NewTestLogger(t),
	})

	ch := fixture.Notifier.Subscribe()
	defer fixture.Notifier.Unsubscribe(ch)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.watchDataFiles(ctx) }()

	// Give the watcher time to register.
	time.Sleep(100 * time.Millisecond)

	// Unrelated files in the same directory are ignored.
	require.NoError(t, os.WriteFile(fixture.Dir+"/notes.txt", []byte("x"), 0o600))
	require.NoError(t, os.WriteFile(fixture.Primary.Path(), []byte(`[{"id":"9","name":"Z","email":"z@x.com"}]`), 0o600))

	select {
	case ev := <-ch:
		assert.Equal(t, notifier.SourceWatch, ev.Source)
		assert.True(t, strings.HasSuffix(ev.File, "data.json"), "file %q", ev.File)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not broadcast")
	}

	cancel()
	assert.NoError(t, <-done)
}
