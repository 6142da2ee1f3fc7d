package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(body), 0644))
	return dir
}

func TestLoad_WithValidConfigFile(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := writeConfig(t, `{
		"logLevel": "debug",
		"server": { "address": "127.0.0.1:9000" },
		"db": { "host": "10.0.0.1", "port": "5433" }
	}`)

	err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "debug", viper.GetString("logLevel"))
	assert.Equal(t, "127.0.0.1:9000", viper.GetString("server.address"))
	assert.Equal(t, "10.0.0.1", viper.GetString("db.host"))
	assert.Equal(t, "5433", viper.GetString("db.port"))
}

func TestLoad_DefaultValues(t *testing.T) {
	t.Cleanup(viper.Reset)

	require.NoError(t, Load(writeConfig(t, `{}`)))

	assert.Equal(t, "info", viper.GetString("logLevel"))
	assert.Equal(t, "./csvmaplogs", viper.GetString("logsDir"))
	assert.Equal(t, "localhost", viper.GetString("db.host"))
	assert.Equal(t, "5432", viper.GetString("db.port"))
	assert.Equal(t, "postgres", viper.GetString("db.username"))
	assert.Equal(t, "postgres", viper.GetString("db.password"))
	assert.Equal(t, "csvmap", viper.GetString("db.database"))
	assert.Equal(t, false, viper.GetBool("graylog.enabled"))
	assert.Equal(t, "localhost:12201", viper.GetString("graylog.address"))
	assert.Equal(t, false, viper.GetBool("influx.enabled"))
	assert.Equal(t, time.Minute, viper.GetDuration("monitor.interval"))
}

func TestLoad_MissingFile(t *testing.T) {
	t.Cleanup(viper.Reset)

	err := Load("/nonexistent/path")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")

	// defaults are still registered
	assert.Equal(t, ":8080", viper.GetString("server.address"))
}

func TestGetString(t *testing.T) {
	t.Cleanup(viper.Reset)
	viper.Set("testKey", "testValue")
	assert.Equal(t, "testValue", GetString("testKey"))
}

func TestGetInt(t *testing.T) {
	t.Cleanup(viper.Reset)
	viper.Set("testInt", 42)
	assert.Equal(t, 42, GetInt("testInt"))
}

func TestGetBool(t *testing.T) {
	t.Cleanup(viper.Reset)
	viper.Set("testBool", true)
	assert.Equal(t, true, GetBool("testBool"))
}

func TestGetDuration(t *testing.T) {
	t.Cleanup(viper.Reset)
	viper.Set("testDuration", "90s")
	assert.Equal(t, 90*time.Second, GetDuration("testDuration"))
}

func TestGetServerConfig_Defaults(t *testing.T) {
	t.Cleanup(viper.Reset)
	SetDefaults()

	cfg := GetServerConfig()
	assert.Equal(t, ":8080", cfg.Address)
	assert.Equal(t, "release", cfg.Mode)
	assert.Equal(t, int64(32<<20), cfg.MaxUploadBytes)
}

func TestGetMapConfig_Defaults(t *testing.T) {
	t.Cleanup(viper.Reset)
	SetDefaults()

	cfg := GetMapConfig()
	assert.Equal(t, 15.87, cfg.CenterLat)
	assert.Equal(t, 100.9925, cfg.CenterLng)
	assert.Equal(t, 6, cfg.Zoom)
	assert.Equal(t, 14, cfg.FocusZoom)
	assert.Equal(t, "categorical", cfg.Palette)
	assert.Equal(t, DefaultBaseLayers, cfg.BaseLayers)
}

func TestGetMapConfig_CustomLayers(t *testing.T) {
	t.Cleanup(viper.Reset)

	require.NoError(t, Load(writeConfig(t, `{
		"map": {
			"palette": "sequential",
			"baseLayers": [
				{ "name": "Topo", "url": "https://tiles.example/{z}/{x}/{y}.png", "attribution": "Example" }
			]
		}
	}`)))

	cfg := GetMapConfig()
	assert.Equal(t, "sequential", cfg.Palette)
	require.Len(t, cfg.BaseLayers, 1)
	assert.Equal(t, "Topo", cfg.BaseLayers[0].Name)
	assert.Equal(t, "Example", cfg.BaseLayers[0].Attribution)
}

func TestGetStorageConfig_Defaults(t *testing.T) {
	t.Cleanup(viper.Reset)
	require.NoError(t, Load(writeConfig(t, `{}`)))

	cfg := GetStorageConfig()
	assert.Equal(t, "memory", cfg.Type)
	assert.Equal(t, "./imports", cfg.Memory.OutputDir)
	assert.Equal(t, false, cfg.Memory.ExportGeoJSON)
	assert.Equal(t, true, cfg.Memory.CompressOutput)
	assert.Equal(t, 3*time.Minute, cfg.SQLite.DumpInterval)
	assert.Equal(t, "./csvmap.db", cfg.SQLite.DumpPath)
}

func TestGetStorageConfig_Override(t *testing.T) {
	t.Cleanup(viper.Reset)

	require.NoError(t, Load(writeConfig(t, `{
		"storage": {
			"type": "sqlite",
			"memory": { "outputDir": "/tmp/out", "compressOutput": false },
			"sqlite": { "dumpInterval": "10m", "dumpPath": "/tmp/archive.db" }
		}
	}`)))

	sc := GetStorageConfig()
	assert.Equal(t, "sqlite", sc.Type)
	assert.Equal(t, "/tmp/out", sc.Memory.OutputDir)
	assert.Equal(t, false, sc.Memory.CompressOutput)
	assert.Equal(t, 10*time.Minute, sc.SQLite.DumpInterval)
	assert.Equal(t, "/tmp/archive.db", sc.SQLite.DumpPath)
}

func TestGetGeocoderConfig_Defaults(t *testing.T) {
	t.Cleanup(viper.Reset)
	SetDefaults()

	cfg := GetGeocoderConfig()
	assert.True(t, cfg.Enabled)
	assert.Equal(t, "https://nominatim.openstreetmap.org", cfg.URL)
	assert.Equal(t, "csvmap/1.0", cfg.UserAgent)
	assert.Equal(t, 10*time.Second, cfg.Timeout)
	assert.Equal(t, 5, cfg.Limit)
}

func TestGetOTelConfig_Override(t *testing.T) {
	t.Cleanup(viper.Reset)

	require.NoError(t, Load(writeConfig(t, `{
		"otel": { "enabled": true, "serviceName": "my-service", "exportInterval": "5s" }
	}`)))

	oc := GetOTelConfig()
	assert.Equal(t, true, oc.Enabled)
	assert.Equal(t, "my-service", oc.ServiceName)
	assert.Equal(t, 5*time.Second, oc.ExportInterval)
}

func TestGetInfluxConfig_Defaults(t *testing.T) {
	t.Cleanup(viper.Reset)
	SetDefaults()

	ic := GetInfluxConfig()
	assert.False(t, ic.Enabled)
	assert.Equal(t, "http", ic.Protocol)
	assert.Equal(t, "8086", ic.Port)
	assert.Equal(t, "csvmap_imports", ic.Bucket)
}

func TestGetDBConfig(t *testing.T) {
	t.Cleanup(viper.Reset)

	require.NoError(t, Load(writeConfig(t, `{ "db": { "host": "db.internal", "password": "s3cret" } }`)))

	dc := GetDBConfig()
	assert.Equal(t, "db.internal", dc.Host)
	assert.Equal(t, "5432", dc.Port)
	assert.Equal(t, "postgres", dc.Username)
	assert.Equal(t, "s3cret", dc.Password)
	assert.Equal(t, "csvmap", dc.Database)
}
