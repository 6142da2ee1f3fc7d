package importer

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics records imports as OpenTelemetry instruments.
type Metrics struct {
	imports  metric.Int64Counter
	accepted metric.Int64Counter
	rejected metric.Int64Counter
	duration metric.Float64Histogram
}

// NewMetrics creates the import instruments on meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	var (
		m   Metrics
		err error
	)
	if m.imports, err = meter.Int64Counter("csvmap.imports",
		metric.WithDescription("Number of file imports by result")); err != nil {
		return nil, fmt.Errorf("failed to create imports counter: %w", err)
	}
	if m.accepted, err = meter.Int64Counter("csvmap.records.accepted",
		metric.WithDescription("Records turned into markers")); err != nil {
		return nil, fmt.Errorf("failed to create accepted counter: %w", err)
	}
	if m.rejected, err = meter.Int64Counter("csvmap.records.rejected",
		metric.WithDescription("Records skipped for missing or invalid coordinates")); err != nil {
		return nil, fmt.Errorf("failed to create rejected counter: %w", err)
	}
	if m.duration, err = meter.Float64Histogram("csvmap.import.duration",
		metric.WithDescription("Import duration"),
		metric.WithUnit("ms")); err != nil {
		return nil, fmt.Errorf("failed to create duration histogram: %w", err)
	}
	return &m, nil
}

// RecordImport implements Recorder.
func (m *Metrics) RecordImport(ctx context.Context, o *Outcome) {
	result := "success"
	if o.Err != nil {
		result = string(o.Kind)
	}
	attrs := metric.WithAttributes(attribute.String("result", result))

	m.imports.Add(ctx, 1, attrs)
	m.duration.Record(ctx, float64(o.Duration.Microseconds())/1000, attrs)
	if o.State != nil {
		m.accepted.Add(ctx, int64(o.State.AcceptedCount))
		m.rejected.Add(ctx, int64(o.State.RejectedCount()))
	}
}
