package coordinator

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/recordkeep/pkg/core"
)

func TestCoordinator_DriftClean(t *testing.T) {
	f := setupCoordinator(t)
	ctx := context.Background()

	_, err := f.coord.Create(ctx, "Alice", "a@x.com")
	require.NoError(t, err)

	report := f.coord.Drift(ctx)
	assert.True(t, report.Clean())
	require.Len(t, report.Stores, 2)
	assert.Equal(t, DriftStore{Key: "json", Status: "ok", Count: 1}, report.Stores[0])
	assert.Equal(t, DriftStore{Key: "xml", Status: "ok", Count: 1}, report.Stores[1])
}

func TestCoordinator_DriftDetected(t *testing.T) {
	f := setupCoordinator(t)
	require.NoError(t, f.primary.Save(core.RecordList{
		{ID: "1", Name: "A", Email: "a@x.com"},
		{ID: "2", Name: "B", Email: "b@x.com"},
		{ID: "3", Name: "C", Email: "c@x.com"},
		{ID: "3", Name: "C", Email: "c@x.com"},
	}))
	require.NoError(t, f.secondary.Save(core.RecordList{
		{ID: "2", Name: "B", Email: "changed@x.com"},
		{ID: "3", Name: "C", Email: "c@x.com"},
		{ID: "4", Name: "D", Email: "d@x.com"},
	}))

	report := f.coord.Drift(context.Background())
	assert.False(t, report.Clean())
	assert.Equal(t, []string{"1"}, report.OnlyInPrimary)
	assert.Equal(t, []string{"4"}, report.OnlyInSecondary)
	require.Len(t, report.Differing, 1)
	assert.Equal(t, "2", report.Differing[0].ID)
	assert.Equal(t, "b@x.com", report.Differing[0].Primary.Email)
	assert.Equal(t, "changed@x.com", report.Differing[0].Secondary.Email)
	assert.Equal(t, map[string][]string{"json": {"3"}}, report.Duplicates)
}

func TestCoordinator_DriftEmpty(t *testing.T) {
	f := setupCoordinator(t)

	report := f.coord.Drift(context.Background())
	assert.True(t, report.Clean())
	assert.NotNil(t, report.OnlyInPrimary)
	assert.Equal(t, "missing", report.Stores[0].Status)
}
