package influx

import (
	"context"
	"time"

	influxdb2_write "github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/OCAP2/csvmap/internal/importer"
)

// ImportPoint builds the point describing one finished import.
func ImportPoint(o *importer.Outcome, at time.Time) *influxdb2_write.Point {
	result := "success"
	if o.Err != nil {
		result = string(o.Kind)
		if result == "" {
			result = "error"
		}
	}

	p := influxdb2_write.NewPointWithMeasurement(MeasurementImports).
		AddTag("app", AppTag).
		AddTag("result", result).
		AddField("duration_ms", float64(o.Duration.Microseconds())/1000).
		SetTime(at)
	if o.Source != "" {
		p.AddTag("source", o.Source)
	}
	if o.State != nil {
		p.AddField("accepted", o.State.AcceptedCount).
			AddField("total", o.State.TotalCount).
			AddField("rejected", o.State.RejectedCount()).
			AddField("groups", o.State.Groups.Len())
	}
	if len(o.RowErrors) > 0 {
		p.AddField("row_errors", len(o.RowErrors))
	}
	return p
}

// StatusPoint builds the periodic status point written by the monitor.
func StatusPoint(accepted, total, groups, clients, imports int, at time.Time) *influxdb2_write.Point {
	return influxdb2_write.NewPointWithMeasurement(MeasurementStatus).
		AddTag("app", AppTag).
		AddField("accepted", accepted).
		AddField("total", total).
		AddField("groups", groups).
		AddField("clients", clients).
		AddField("imports", imports).
		SetTime(at)
}

// RecordImport implements importer.Recorder.
func (m *Manager) RecordImport(_ context.Context, o *importer.Outcome) {
	if err := m.WritePoint(ImportPoint(o, time.Now())); err != nil {
		m.Logger.Error().Err(err).Str("import", o.ID).Msg("Failed to write import point")
	}
}
