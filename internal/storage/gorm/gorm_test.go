package gormstorage

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/OCAP2/csvmap/internal/storage"
	"github.com/OCAP2/csvmap/pkg/core"
)

var dbSeq atomic.Uint64

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:gormstorage_%d?mode=memory&cache=shared", dbSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func record(source string, names ...string) *core.ImportRecord {
	rec := &core.ImportRecord{
		ImportSummary: core.ImportSummary{
			Source:        source,
			ImportedAt:    time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC),
			AcceptedCount: len(names),
			TotalCount:    len(names) + 1,
			Groups:        []core.GroupSummary{{Name: core.DefaultGroup, Count: len(names), Color: "#e74c3c"}},
		},
	}
	for i, n := range names {
		rec.Markers = append(rec.Markers, core.MarkerDescriptor{
			Index: i * 2, Name: n, Latitude: 10 + float64(i), Longitude: 100 + float64(i),
			Color: "#e74c3c", Group: core.DefaultGroup,
		})
	}
	return rec
}

func TestBackend_SaveAndGet(t *testing.T) {
	b := New(setupTestDB(t), nil)
	require.NoError(t, b.Init())

	rec := record("cities.csv", "A", "B", "C")
	require.NoError(t, b.SaveImport(rec))
	require.NotZero(t, rec.ID)

	got, err := b.GetImport(rec.ID)
	require.NoError(t, err)
	assert.Equal(t, "cities.csv", got.Source)
	assert.Equal(t, 3, got.AcceptedCount)
	assert.Equal(t, 4, got.TotalCount)
	assert.Equal(t, rec.Groups, got.Groups)
	require.Len(t, got.Markers, 3)
	assert.Equal(t, rec.Markers, got.Markers)
	assert.True(t, rec.ImportedAt.Equal(got.ImportedAt))
}

func TestBackend_GetImportNotFound(t *testing.T) {
	b := New(setupTestDB(t), nil)
	require.NoError(t, b.Init())

	_, err := b.GetImport(42)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestBackend_ListImportsNewestFirst(t *testing.T) {
	b := New(setupTestDB(t), nil)
	require.NoError(t, b.Init())

	for _, src := range []string{"a.csv", "b.csv", "c.csv"} {
		require.NoError(t, b.SaveImport(record(src, "X")))
	}

	all, err := b.ListImports(0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "c.csv", all[0].Source)
	assert.Equal(t, "a.csv", all[2].Source)
	assert.Len(t, all[0].Groups, 1)

	two, err := b.ListImports(2)
	require.NoError(t, err)
	assert.Len(t, two, 2)
}

func TestBackend_CloseIsNoop(t *testing.T) {
	b := New(setupTestDB(t), nil)
	assert.NoError(t, b.Close())
	assert.NotNil(t, b.DB())
}
