package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OCAP2/csvmap/internal/geo"
	"github.com/OCAP2/csvmap/pkg/core"
)

func sampleRecord() *core.ImportRecord {
	return &core.ImportRecord{
		ImportSummary: core.ImportSummary{
			Source:        "cities.csv",
			ImportedAt:    time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
			AcceptedCount: 2,
			TotalCount:    3,
			Groups: []core.GroupSummary{
				{Name: "Cities", Count: 1, Color: "#e74c3c"},
				{Name: "Islands", Count: 1, Color: "#2ecc71"},
			},
		},
		Markers: []core.MarkerDescriptor{
			{Index: 0, Name: "Bangkok", Latitude: 13.7563, Longitude: 100.5018, Color: "#e74c3c", Group: "Cities"},
			{Index: 2, Name: "Phuket", Latitude: 7.8804, Longitude: 98.3923, Description: "Island", Color: "#2ecc71", Group: "Islands"},
		},
	}
}

func TestTableNames(t *testing.T) {
	assert.Equal(t, "imports", (&Import{}).TableName())
	assert.Equal(t, "import_markers", (&ImportMarker{}).TableName())
	assert.Len(t, DatabaseModels, 2)
}

func TestImportFromCore(t *testing.T) {
	row, err := ImportFromCore(sampleRecord())
	require.NoError(t, err)

	assert.Equal(t, "cities.csv", row.Source)
	assert.Equal(t, 2, row.AcceptedCount)
	assert.Equal(t, 3, row.TotalCount)
	assert.Equal(t, 2, row.GroupCount)
	assert.JSONEq(t, `[{"name":"Cities","count":1,"color":"#e74c3c"},{"name":"Islands","count":1,"color":"#2ecc71"}]`, string(row.Groups))
	require.Len(t, row.Markers, 2)

	phuket := row.Markers[1]
	assert.Equal(t, 2, phuket.InputIndex)
	assert.Equal(t, "Islands", phuket.GroupName)
	assert.Equal(t, geo.Geohash(7.8804, 98.3923), phuket.Geohash)

	lng, lat, err := geo.Coords4326From3857(phuket.Position)
	require.NoError(t, err)
	assert.InDelta(t, 98.3923, lng, 1e-6)
	assert.InDelta(t, 7.8804, lat, 1e-6)
}

func TestImportToCore_RoundTrip(t *testing.T) {
	rec := sampleRecord()
	row, err := ImportFromCore(rec)
	require.NoError(t, err)
	row.ID = 7

	got, err := ImportToCore(row)
	require.NoError(t, err)

	assert.Equal(t, uint(7), got.ID)
	assert.Equal(t, rec.Groups, got.Groups)
	assert.Equal(t, rec.Markers, got.Markers)
	assert.Equal(t, rec.ImportedAt, got.ImportedAt)
}

func TestSummaryToCore_EmptyGroups(t *testing.T) {
	s, err := SummaryToCore(Import{ID: 1, Source: "x.csv"})
	require.NoError(t, err)
	assert.NotNil(t, s.Groups)
	assert.Empty(t, s.Groups)
}

func TestSummaryToCore_BadGroups(t *testing.T) {
	_, err := SummaryToCore(Import{ID: 3, Groups: []byte("{not json")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "import 3")
}
