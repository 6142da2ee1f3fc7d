package database

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OCAP2/csvmap/internal/model"
)

func TestConnectSqlite_InMemoryAndSetup(t *testing.T) {
	m := NewManager(zerolog.Nop())
	require.NoError(t, m.ConnectSqlite("", ""))
	t.Cleanup(func() { _ = m.Close() })

	assert.True(t, m.IsValid)
	require.NoError(t, m.Setup())
	assert.True(t, m.DB.Migrator().HasTable(&model.Import{}))
	assert.True(t, m.DB.Migrator().HasTable(&model.ImportMarker{}))
}

func TestConnectSqlite_SeparateMemoryDatabases(t *testing.T) {
	a := NewManager(zerolog.Nop())
	require.NoError(t, a.ConnectSqlite("", ""))
	t.Cleanup(func() { _ = a.Close() })
	require.NoError(t, a.Setup())
	require.NoError(t, a.DB.Create(&model.Import{Source: "a.csv"}).Error)

	b := NewManager(zerolog.Nop())
	require.NoError(t, b.ConnectSqlite("", ""))
	t.Cleanup(func() { _ = b.Close() })
	require.NoError(t, b.Setup())

	var count int64
	require.NoError(t, b.DB.Model(&model.Import{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestSetup_NotConnected(t *testing.T) {
	m := NewManager(zerolog.Nop())
	require.Error(t, m.Setup())
}

func TestDumpMemoryToDisk(t *testing.T) {
	dump := filepath.Join(t.TempDir(), "archive.db")

	m := NewManager(zerolog.Nop())
	require.NoError(t, m.ConnectSqlite("", dump))
	t.Cleanup(func() { _ = m.Close() })
	require.NoError(t, m.Setup())
	require.NoError(t, m.DB.Create(&model.Import{Source: "cities.csv", AcceptedCount: 3}).Error)

	require.NoError(t, m.DumpMemoryToDisk())
	// a second dump replaces the first
	require.NoError(t, m.DumpMemoryToDisk())

	info, err := os.Stat(dump)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))

	disk := NewManager(zerolog.Nop())
	require.NoError(t, disk.ConnectSqlite(dump, ""))
	t.Cleanup(func() { _ = disk.Close() })

	var imp model.Import
	require.NoError(t, disk.DB.First(&imp).Error)
	assert.Equal(t, "cities.csv", imp.Source)
	assert.Equal(t, 3, imp.AcceptedCount)
}

func TestDumpMemoryDBToDisk_NoPath(t *testing.T) {
	err := DumpMemoryDBToDisk(nil, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "path not set")
}

func TestClose_NotConnected(t *testing.T) {
	assert.NoError(t, NewManager(zerolog.Nop()).Close())
}
