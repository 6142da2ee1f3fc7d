// pkg/core/marker.go
package core

import "time"

// DefaultGroup is the group label of records that carry none.
const DefaultGroup = "Default"

// MarkerDescriptor is the normalized form of one accepted record.
type MarkerDescriptor struct {
	Index       int     `json:"index"` // 0-based position in the original input
	Name        string  `json:"name"`
	Latitude    float64 `json:"lat"`
	Longitude   float64 `json:"lng"`
	Description string  `json:"description"`
	Color       string  `json:"color"`
	Group       string  `json:"group"`
}

// LatLng returns the descriptor position as a [lat, lng] pair.
func (m MarkerDescriptor) LatLng() [2]float64 {
	return [2]float64{m.Latitude, m.Longitude}
}

// GroupSummary is the legend entry of one group.
type GroupSummary struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
	Color string `json:"color"`
}

// ImportSummary describes one archived import.
type ImportSummary struct {
	ID            uint           `json:"id"`
	Source        string         `json:"source"`
	ImportedAt    time.Time      `json:"importedAt"`
	AcceptedCount int            `json:"acceptedCount"`
	TotalCount    int            `json:"totalCount"`
	Groups        []GroupSummary `json:"groups"`
}

// ImportRecord is an archived import with its markers.
type ImportRecord struct {
	ImportSummary
	Markers []MarkerDescriptor `json:"markers"`
}
