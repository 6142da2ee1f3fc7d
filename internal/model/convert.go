package model

import (
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"

	"github.com/OCAP2/csvmap/internal/geo"
	"github.com/OCAP2/csvmap/pkg/core"
)

// ImportFromCore converts an import record into its database rows.
// Markers whose position cannot be projected keep an empty Position.
func ImportFromCore(rec *core.ImportRecord) (Import, error) {
	groups, err := json.Marshal(rec.Groups)
	if err != nil {
		return Import{}, fmt.Errorf("failed to encode groups: %w", err)
	}

	out := Import{
		ID:            rec.ID,
		Source:        rec.Source,
		ImportedAt:    rec.ImportedAt,
		AcceptedCount: rec.AcceptedCount,
		TotalCount:    rec.TotalCount,
		GroupCount:    len(rec.Groups),
		Groups:        datatypes.JSON(groups),
		Markers:       make([]ImportMarker, 0, len(rec.Markers)),
	}
	for _, m := range rec.Markers {
		out.Markers = append(out.Markers, MarkerFromCore(m))
	}
	return out, nil
}

// MarkerFromCore converts one descriptor.
func MarkerFromCore(m core.MarkerDescriptor) ImportMarker {
	row := ImportMarker{
		InputIndex:  m.Index,
		Name:        m.Name,
		Description: m.Description,
		Color:       m.Color,
		GroupName:   m.Group,
		Latitude:    m.Latitude,
		Longitude:   m.Longitude,
		Geohash:     geo.Geohash(m.Latitude, m.Longitude),
	}
	if p, err := geo.Coords3857From4326(m.Longitude, m.Latitude); err == nil {
		row.Position = p
	}
	return row
}

// SummaryToCore converts an import row, ignoring its markers.
func SummaryToCore(i Import) (core.ImportSummary, error) {
	s := core.ImportSummary{
		ID:            i.ID,
		Source:        i.Source,
		ImportedAt:    i.ImportedAt,
		AcceptedCount: i.AcceptedCount,
		TotalCount:    i.TotalCount,
		Groups:        []core.GroupSummary{},
	}
	if len(i.Groups) > 0 {
		if err := json.Unmarshal(i.Groups, &s.Groups); err != nil {
			return s, fmt.Errorf("failed to decode groups of import %d: %w", i.ID, err)
		}
	}
	return s, nil
}

// ImportToCore converts an import row with its markers.
func ImportToCore(i Import) (*core.ImportRecord, error) {
	summary, err := SummaryToCore(i)
	if err != nil {
		return nil, err
	}
	rec := &core.ImportRecord{
		ImportSummary: summary,
		Markers:       make([]core.MarkerDescriptor, 0, len(i.Markers)),
	}
	for _, m := range i.Markers {
		rec.Markers = append(rec.Markers, MarkerToCore(m))
	}
	return rec, nil
}

// MarkerToCore converts one marker row.
func MarkerToCore(m ImportMarker) core.MarkerDescriptor {
	return core.MarkerDescriptor{
		Index:       m.InputIndex,
		Name:        m.Name,
		Latitude:    m.Latitude,
		Longitude:   m.Longitude,
		Description: m.Description,
		Color:       m.Color,
		Group:       m.GroupName,
	}
}
