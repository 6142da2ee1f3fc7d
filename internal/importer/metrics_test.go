package importer

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Metrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	out := map[string]metricdata.Metrics{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m
		}
	}
	return out
}

func sumOf(t *testing.T, m metricdata.Metrics) int64 {
	t.Helper()
	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok, "metric %s is not an int64 sum", m.Name)
	var total int64
	for _, dp := range sum.DataPoints {
		total += dp.Value
	}
	return total
}

func TestMetrics_RecordImport(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	m, err := NewMetrics(provider.Meter("csvmap"))
	require.NoError(t, err)

	svc, _ := newService(WithRecorder(m))
	_, err = svc.Import(context.Background(), "cities.csv", strings.NewReader(citiesCSV))
	require.NoError(t, err)
	_, err = svc.Import(context.Background(), "bad.csv", strings.NewReader("lat,lng\nx,y\n"))
	require.Error(t, err)

	got := collect(t, reader)
	require.Contains(t, got, "csvmap.imports")
	assert.Equal(t, int64(2), sumOf(t, got["csvmap.imports"]))
	assert.Equal(t, int64(3), sumOf(t, got["csvmap.records.accepted"]))
	assert.Equal(t, int64(2), sumOf(t, got["csvmap.records.rejected"]))
	assert.Contains(t, got, "csvmap.import.duration")
}
