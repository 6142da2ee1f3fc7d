package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OCAP2/csvmap/internal/config"
	"github.com/OCAP2/csvmap/internal/storage/memory"
	sqlitestorage "github.com/OCAP2/csvmap/internal/storage/sqlite"
)

// setupConfigDir writes a config that keeps logs inside a temp dir.
func setupConfigDir(t *testing.T) string {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	cfg := `{"logLevel":"debug","logsDir":"` + filepath.ToSlash(filepath.Join(dir, "logs")) + `"}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.ConfigFileName), []byte(cfg), 0644))
	return dir
}

func writeInput(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

const cities = "name,lat,lng,group\nBangkok,13.7563,100.5018,Central\nChiang Mai,18.7883,98.9853,North\nNowhere,,,North\n"

func TestRun_UnknownCommand(t *testing.T) {
	var stdout, stderr bytes.Buffer
	assert.Equal(t, 2, run([]string{"bogus"}, &stdout, &stderr))
	assert.Contains(t, stderr.String(), `unknown command "bogus"`)
}

func TestRun_Help(t *testing.T) {
	var stdout, stderr bytes.Buffer
	assert.Equal(t, 0, run([]string{"help"}, &stdout, &stderr))
	assert.Contains(t, stdout.String(), "csvmap render")
}

func TestCheck_Success(t *testing.T) {
	dir := setupConfigDir(t)
	input := writeInput(t, dir, "cities.csv", cities)

	var stdout, stderr bytes.Buffer
	code := run([]string{"check", "-config", dir, input}, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())

	out := stdout.String()
	assert.Contains(t, out, "Successfully loaded 2 points from 3 records in 2 groups")
	assert.Contains(t, out, "  Central: 1 (")
	assert.Contains(t, out, "  North: 1 (")
	assert.Contains(t, out, "Rejected: 1 of 3 records")
	assert.Contains(t, out, "Columns:\n  latitude: lat\n  longitude: lng\n  name: name\n  group: group\n")
	assert.Regexp(t, `Extent: \d+\.\d km`, out)

	logs, err := os.ReadDir(filepath.Join(dir, "logs"))
	require.NoError(t, err)
	assert.Len(t, logs, 1)
}

func TestCheck_Failures(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"no valid data", "name,lat,lng\nA,,\n", "Error processing data: No valid coordinate data found in CSV"},
		{"no records", "name,lat,lng\n", "No data found in CSV file"},
		{"parse failure", "name,lat,lng\nA,1\n", "CSV parsing errors: "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := setupConfigDir(t)
			input := writeInput(t, dir, "bad.csv", tt.content)

			var stdout, stderr bytes.Buffer
			assert.Equal(t, 1, run([]string{"check", input, "-config", dir}, &stdout, &stderr))
			assert.Contains(t, stdout.String(), tt.want)
		})
	}
}

func TestCheck_MissingFile(t *testing.T) {
	dir := setupConfigDir(t)

	var stdout, stderr bytes.Buffer
	code := run([]string{"check", "-config", dir, filepath.Join(dir, "missing.csv")}, &stdout, &stderr)
	assert.Equal(t, 1, code)
	assert.Contains(t, stdout.String(), "Error reading file: ")
}

func TestCheck_NoInput(t *testing.T) {
	var stdout, stderr bytes.Buffer
	assert.Equal(t, 2, run([]string{"check"}, &stdout, &stderr))
	assert.Contains(t, stderr.String(), "missing input file")
}

func TestRender_WritesPage(t *testing.T) {
	dir := setupConfigDir(t)
	input := writeInput(t, dir, "cities.csv", cities)

	var stdout, stderr bytes.Buffer
	code := run([]string{"render", "-config", dir, input}, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())

	page, err := os.ReadFile(filepath.Join(dir, "cities.html"))
	require.NoError(t, err)
	assert.Contains(t, string(page), "Bangkok")
	assert.Contains(t, stdout.String(), "Wrote ")
}

func TestRender_CustomOutput(t *testing.T) {
	dir := setupConfigDir(t)
	input := writeInput(t, dir, "cities.csv", cities)
	output := filepath.Join(dir, "out", "map.html")

	var stdout, stderr bytes.Buffer
	code := run([]string{"render", "-config", dir, input, "-o", output, "-title", "Cities"}, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())

	page, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Contains(t, string(page), "<title>Cities</title>")
}

func TestRender_FailureWritesNothing(t *testing.T) {
	dir := setupConfigDir(t)
	input := writeInput(t, dir, "bad.csv", "name,lat,lng\nA,,\n")

	var stdout, stderr bytes.Buffer
	assert.Equal(t, 1, run([]string{"render", "-config", dir, input}, &stdout, &stderr))

	_, err := os.Stat(filepath.Join(dir, "bad.html"))
	assert.True(t, os.IsNotExist(err))
}

func TestCreateStorageBackend(t *testing.T) {
	a := newApp(setupConfigDir(t), false)
	defer a.close()
	log := a.logger

	b, err := createStorageBackend(config.StorageConfig{Type: "memory"}, log, a.zerolog)
	require.NoError(t, err)
	assert.IsType(t, &memory.Backend{}, b)

	b, err = createStorageBackend(config.StorageConfig{Type: "sqlite"}, log, a.zerolog)
	require.NoError(t, err)
	assert.IsType(t, &sqlitestorage.Backend{}, b)
	require.NoError(t, b.Init())
	require.NoError(t, b.Close())

	_, err = createStorageBackend(config.StorageConfig{Type: "redis"}, log, a.zerolog)
	assert.ErrorContains(t, err, `unknown storage type "redis"`)
}

func TestServe_StopsOnCancel(t *testing.T) {
	dir := setupConfigDir(t)
	a := newApp(dir, false)
	defer a.close()
	viper.Set("server.address", "127.0.0.1:0")
	viper.Set("geocoder.enabled", false)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.NoError(t, a.serve(ctx))
}
