package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/recordkeep/internal/codec"
	"github.com/leapstack-labs/recordkeep/internal/coordinator"
	"github.com/leapstack-labs/recordkeep/internal/store"
	"github.com/leapstack-labs/recordkeep/internal/testutil"
	"github.com/leapstack-labs/recordkeep/pkg/core"
)

type testAPI struct {
	router    chi.Router
	primary   *store.Store
	secondary *store.Store
}

func setupTestAPI(t *testing.T) *testAPI {
	t.Helper()
	dir := t.TempDir()
	logger := testutil.NewTestLogger(t)

	primary := store.New(store.Config{Key: "json", Path: filepath.Join(dir, "data.json")}, codec.JSON{}, logger)
	secondary := store.New(store.Config{Key: "xml", Path: filepath.Join(dir, "data.xml")}, codec.XML{}, logger)
	coord := coordinator.New(primary, secondary, coordinator.WithLogger(logger))

	r := chi.NewRouter()
	SetupRoutes(r, coord, logger)
	return &testAPI{router: r, primary: primary, secondary: secondary}
}

func (a *testAPI) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), "body: %s", rec.Body.String())
	return v
}

func TestListRecords_Empty(t *testing.T) {
	a := setupTestAPI(t)

	rec := a.do(t, http.MethodGet, "/api/records", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")
	assert.JSONEq(t, `{"json":[],"xml":[]}`, rec.Body.String())
}

func TestListRecords_Unmerged(t *testing.T) {
	a := setupTestAPI(t)
	require.NoError(t, a.primary.Save(core.RecordList{{ID: "1", Name: "A", Email: "a@x.com"}}))
	require.NoError(t, a.secondary.Save(core.RecordList{{ID: "2", Name: "B", Email: "b@x.com"}}))

	rec := a.do(t, http.MethodGet, "/api/records", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{
		"json": [{"id":"1","name":"A","email":"a@x.com"}],
		"xml":  [{"id":"2","name":"B","email":"b@x.com"}]
	}`, rec.Body.String())
}

func TestCreateRecord(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantMsg    string
	}{
		{"valid", `{"name":"Alice","email":"a@x.com"}`, http.StatusCreated, ""},
		{"missing name", `{"email":"a@x.com"}`, http.StatusBadRequest, MsgRequired},
		{"missing email", `{"name":"Alice"}`, http.StatusBadRequest, MsgRequired},
		{"empty name", `{"name":"","email":"a@x.com"}`, http.StatusBadRequest, MsgRequired},
		{"not json", `name=Alice`, http.StatusBadRequest, MsgInvalidBody},
		{"empty body", ``, http.StatusBadRequest, MsgInvalidBody},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := setupTestAPI(t)

			rec := a.do(t, http.MethodPost, "/api/records", tt.body)
			assert.Equal(t, tt.wantStatus, rec.Code)

			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, decodeBody[Message](t, rec).Message)
				assert.NoFileExists(t, a.primary.Path())
				assert.NoFileExists(t, a.secondary.Path())
				return
			}

			created := decodeBody[core.Record](t, rec)
			assert.NotEmpty(t, created.ID)
			assert.Equal(t, "Alice", created.Name)
			assert.Equal(t, "a@x.com", created.Email)
			assert.Empty(t, rec.Header().Get(DegradedHeader))

			assert.Equal(t, core.RecordList{created}, a.primary.Load().Records)
			assert.Equal(t, core.RecordList{created}, a.secondary.Load().Records)
		})
	}
}

func TestUpdateRecord(t *testing.T) {
	a := setupTestAPI(t)
	require.NoError(t, a.primary.Save(core.RecordList{{ID: "1", Name: "A", Email: "a@x.com"}}))

	t.Run("found in one store", func(t *testing.T) {
		rec := a.do(t, http.MethodPut, "/api/records/1", `{"name":"A2","email":"a2@x.com"}`)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, MsgUpdated, decodeBody[Message](t, rec).Message)
		assert.Equal(t, "A2", a.primary.Load().Records[0].Name)
		assert.Empty(t, a.secondary.Load().Records)
	})

	t.Run("not found", func(t *testing.T) {
		rec := a.do(t, http.MethodPut, "/api/records/nope", `{"name":"X","email":"x@x.com"}`)

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, MsgNotFound, decodeBody[Message](t, rec).Message)
	})

	t.Run("invalid body", func(t *testing.T) {
		rec := a.do(t, http.MethodPut, "/api/records/1", `{`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, MsgInvalidBody, decodeBody[Message](t, rec).Message)
	})
}

func TestDeleteRecord(t *testing.T) {
	a := setupTestAPI(t)
	rec := a.do(t, http.MethodPost, "/api/records", `{"name":"Bob","email":"b@y.com"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	id := decodeBody[core.Record](t, rec).ID

	rec = a.do(t, http.MethodDelete, "/api/records/"+id, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, MsgDeleted, decodeBody[Message](t, rec).Message)

	// Deleting again is a clean not-found.
	rec = a.do(t, http.MethodDelete, "/api/records/"+id, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, MsgNotFound, decodeBody[Message](t, rec).Message)

	assert.Empty(t, a.primary.Load().Records)
	assert.Empty(t, a.secondary.Load().Records)
}

func TestDegradedHeader(t *testing.T) {
	a := setupTestAPI(t)
	require.NoError(t, os.WriteFile(a.secondary.Path(), []byte("<records><record>"), 0o600))

	rec := a.do(t, http.MethodPost, "/api/records", `{"name":"Alice","email":"a@x.com"}`)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "xml", rec.Header().Get(DegradedHeader))
}

func TestDrift(t *testing.T) {
	a := setupTestAPI(t)
	require.NoError(t, a.primary.Save(core.RecordList{{ID: "1", Name: "A", Email: "a@x.com"}}))

	rec := a.do(t, http.MethodGet, "/api/records/drift", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	report := decodeBody[coordinator.DriftReport](t, rec)
	assert.Equal(t, []string{"1"}, report.OnlyInPrimary)
	assert.Empty(t, report.OnlyInSecondary)
	assert.False(t, report.Clean())
}

func TestUnknownMethod(t *testing.T) {
	a := setupTestAPI(t)

	rec := a.do(t, http.MethodPatch, "/api/records/1", `{}`)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
