package records

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/recordkeep/internal/testutil"
	"github.com/leapstack-labs/recordkeep/internal/ui/features"
	"github.com/leapstack-labs/recordkeep/internal/ui/notifier"
	"github.com/leapstack-labs/recordkeep/pkg/core"
)

// =============================================================================
// Test Setup Helpers
// =============================================================================

var (
	alice = core.Record{ID: "1", Name: "Alice", Email: "a@x.com"}
	bob   = core.Record{ID: "2", Name: "Bob", Email: "b@y.com"}
)

func setupTestHandlers(t *testing.T, primary, secondary core.RecordList) (*Handlers, *features.TestFixture) {
	t.Helper()

	fixture := features.SetupTestFixture(t, primary, secondary)

	handlers := NewHandlers(
		fixture.Coordinator,
		fixture.SessionStore,
		fixture.Notifier,
		testutil.NewTestLogger(t),
		false, // isDev
	)

	return handlers, fixture
}

func signalsRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Datastar-Request", "true")
	return req
}

// =============================================================================
// RecordsPage Tests
// =============================================================================

func TestRecordsPage(t *testing.T) {
	tests := []struct {
		name      string
		primary   core.RecordList
		secondary core.RecordList
		wantBody  []string
	}{
		{
			name: "empty stores",
			wantBody: []string{
				"<!doctype html>",
				"<title>Records - recordkeep</title>",
				"data-init",
				"/records/updates",
				`id="records-app"`,
				"No records.",
				"/static/app.css",
			},
		},
		{
			name:      "both lists rendered",
			primary:   core.RecordList{alice},
			secondary: core.RecordList{bob},
			wantBody: []string{
				"Alice (a@x.com)",
				"Bob (b@y.com)",
				`id="store-json"`,
				`id="store-xml"`,
				"Edit from this list",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _ := setupTestHandlers(t, tt.primary, tt.secondary)

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rec := httptest.NewRecorder()

			h.RecordsPage(rec, req)

			assert.Equal(t, http.StatusOK, rec.Code)
			body := rec.Body.String()
			for _, want := range tt.wantBody {
				assert.Contains(t, body, want, "response should contain %q", want)
			}
		})
	}
}

func TestRecordsPage_EscapesContent(t *testing.T) {
	h, _ := setupTestHandlers(t, core.RecordList{{ID: "x", Name: "<script>alert(1)</script>", Email: "e@x.com"}}, nil)

	rec := httptest.NewRecorder()
	h.RecordsPage(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	body := rec.Body.String()
	assert.NotContains(t, body, "<script>alert(1)</script>")
	assert.Contains(t, body, "&lt;script&gt;alert(1)&lt;/script&gt;")
}

func TestRecordsPage_EditControlsOnActiveListOnly(t *testing.T) {
	h, _ := setupTestHandlers(t, core.RecordList{alice}, core.RecordList{bob})

	rec := httptest.NewRecorder()
	h.RecordsPage(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	body := rec.Body.String()
	assert.Contains(t, body, "/records/1/edit")
	assert.NotContains(t, body, "/records/2/edit")
}

// =============================================================================
// RecordsUpdates Tests - SSE endpoint for live updates only
// =============================================================================

func TestRecordsUpdates_SendsUpdateOnBroadcast(t *testing.T) {
	h, fixture := setupTestHandlers(t, core.RecordList{alice}, nil)

	req := httptest.NewRequest(http.MethodGet, "/records/updates", nil)
	ctx, cancel := context.WithTimeout(req.Context(), 300*time.Millisecond)
	defer cancel()
	req = req.WithContext(ctx)

	rec := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		h.RecordsUpdates(rec, req)
		close(done)
	}()

	time.Sleep(50 * time.Millisecond)
	fixture.Notifier.Broadcast(notifier.Event{Source: notifier.SourceWatch, File: fixture.Primary.Path()})

	<-done

	body := rec.Body.String()
	assert.GreaterOrEqual(t, strings.Count(body, "event:"), 1, "should have at least 1 SSE event from broadcast")
	assert.Contains(t, body, "Alice (a@x.com)")
}

func TestRecordsUpdates_NoInitialState(t *testing.T) {
	h, _ := setupTestHandlers(t, core.RecordList{alice}, nil)

	req := httptest.NewRequest(http.MethodGet, "/records/updates", nil)
	ctx, cancel := context.WithTimeout(req.Context(), 50*time.Millisecond)
	defer cancel()
	req = req.WithContext(ctx)

	rec := httptest.NewRecorder()
	h.RecordsUpdates(rec, req)

	assert.Equal(t, 0, strings.Count(rec.Body.String(), "event:"), "should have no SSE events without broadcast")
}

func TestRecordsUpdates_CoordinatorMutationBroadcasts(t *testing.T) {
	h, fixture := setupTestHandlers(t, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/records/updates", nil)
	ctx, cancel := context.WithTimeout(req.Context(), 300*time.Millisecond)
	defer cancel()
	req = req.WithContext(ctx)

	rec := httptest.NewRecorder()
	done := make(chan struct{})
	go func() {
		h.RecordsUpdates(rec, req)
		close(done)
	}()

	time.Sleep(50 * time.Millisecond)
	_, err := fixture.Coordinator.Create(context.Background(), "Carol", "c@x.com")
	require.NoError(t, err)

	<-done
	assert.Contains(t, rec.Body.String(), "Carol (c@x.com)")
}

// =============================================================================
// Mutation Tests
// =============================================================================

func TestCreateRecord(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantBody []string
		wantLen  int
	}{
		{
			name:     "valid",
			body:     `{"name":"Alice","email":"a@x.com"}`,
			wantBody: []string{"Record created successfully!", "Alice (a@x.com)", "datastar-patch-signals"},
			wantLen:  1,
		},
		{
			name:     "missing email",
			body:     `{"name":"Alice","email":""}`,
			wantBody: []string{"Failed to create record: Name and email are required", "message error"},
			wantLen:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, fixture := setupTestHandlers(t, nil, nil)

			rec := httptest.NewRecorder()
			h.CreateRecord(rec, signalsRequest(http.MethodPost, "/records", tt.body))

			body := rec.Body.String()
			for _, want := range tt.wantBody {
				assert.Contains(t, body, want)
			}
			assert.Len(t, fixture.Primary.Load().Records, tt.wantLen)
			assert.Len(t, fixture.Secondary.Load().Records, tt.wantLen)
		})
	}
}

func TestCreateRecord_BadSignals(t *testing.T) {
	h, _ := setupTestHandlers(t, nil, nil)

	rec := httptest.NewRecorder()
	h.CreateRecord(rec, signalsRequest(http.MethodPost, "/records", `{`))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestEditRecord(t *testing.T) {
	h, _ := setupTestHandlers(t, core.RecordList{alice}, core.RecordList{bob})

	t.Run("found in active list", func(t *testing.T) {
		req := features.RequestWithPathParam(httptest.NewRequest(http.MethodGet, "/records/1/edit", nil), "id", "1")
		rec := httptest.NewRecorder()

		h.EditRecord(rec, req)

		body := rec.Body.String()
		assert.Contains(t, body, "datastar-patch-signals")
		assert.Contains(t, body, `"editName":"Alice"`)
		assert.Contains(t, body, `"editId":"1"`)
	})

	t.Run("only in other list", func(t *testing.T) {
		req := features.RequestWithPathParam(httptest.NewRequest(http.MethodGet, "/records/2/edit", nil), "id", "2")
		rec := httptest.NewRecorder()

		h.EditRecord(rec, req)

		assert.Contains(t, rec.Body.String(), "Record not found")
	})
}

func TestUpdateRecord(t *testing.T) {
	h, fixture := setupTestHandlers(t, core.RecordList{alice}, core.RecordList{alice})

	req := signalsRequest(http.MethodPut, "/records/1", `{"editId":"1","editName":"Alicia","editEmail":"al@x.com"}`)
	req = features.RequestWithPathParam(req, "id", "1")
	rec := httptest.NewRecorder()

	h.UpdateRecord(rec, req)

	assert.Contains(t, rec.Body.String(), "Record updated successfully!")
	want := core.RecordList{{ID: "1", Name: "Alicia", Email: "al@x.com"}}
	assert.Equal(t, want, fixture.Primary.Load().Records)
	assert.Equal(t, want, fixture.Secondary.Load().Records)
}

func TestUpdateRecord_NotFound(t *testing.T) {
	h, _ := setupTestHandlers(t, nil, nil)

	req := signalsRequest(http.MethodPut, "/records/9", `{"editName":"X","editEmail":"x@x.com"}`)
	req = features.RequestWithPathParam(req, "id", "9")
	rec := httptest.NewRecorder()

	h.UpdateRecord(rec, req)

	assert.Contains(t, rec.Body.String(), "Failed to update record: Record not found")
}

func TestDeleteRecord(t *testing.T) {
	h, fixture := setupTestHandlers(t, core.RecordList{alice, bob}, core.RecordList{alice})

	req := features.RequestWithPathParam(httptest.NewRequest(http.MethodDelete, "/records/1", nil), "id", "1")
	rec := httptest.NewRecorder()

	h.DeleteRecord(rec, req)

	assert.Contains(t, rec.Body.String(), "Record 1 deleted successfully!")
	assert.Equal(t, core.RecordList{bob}, fixture.Primary.Load().Records)
	assert.Empty(t, fixture.Secondary.Load().Records)

	rec = httptest.NewRecorder()
	h.DeleteRecord(rec, features.RequestWithPathParam(httptest.NewRequest(http.MethodDelete, "/records/1", nil), "id", "1"))
	assert.Contains(t, rec.Body.String(), "Failed to delete record: Record not found")
}

// =============================================================================
// SelectView Tests
// =============================================================================

func TestSelectView(t *testing.T) {
	h, _ := setupTestHandlers(t, core.RecordList{alice}, core.RecordList{bob})

	req := features.RequestWithPathParam(httptest.NewRequest(http.MethodPost, "/records/view/xml", nil), "key", "xml")
	rec := httptest.NewRecorder()

	h.SelectView(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies, "session cookie should be set")
	assert.Contains(t, rec.Body.String(), "/records/2/edit")

	// The saved preference drives the next page render.
	page := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range cookies {
		page.AddCookie(c)
	}
	rec = httptest.NewRecorder()
	h.RecordsPage(rec, page)

	body := rec.Body.String()
	assert.Contains(t, body, "/records/2/edit")
	assert.NotContains(t, body, "/records/1/edit")
}

func TestSelectView_UnknownKey(t *testing.T) {
	h, _ := setupTestHandlers(t, nil, nil)

	req := features.RequestWithPathParam(httptest.NewRequest(http.MethodPost, "/records/view/csv", nil), "key", "csv")
	rec := httptest.NewRecorder()

	h.SelectView(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
