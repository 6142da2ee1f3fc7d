// Package search filters markers by name and decides how each one is drawn
// while a query is active.
package search

import (
	"strings"

	"github.com/samber/lo"

	"github.com/OCAP2/csvmap/pkg/core"
)

// Style is a circle-marker style override.
type Style struct {
	Radius  float64 `json:"radius"`
	Weight  float64 `json:"weight,omitempty"`
	Opacity float64 `json:"opacity,omitempty"`
}

// Marker styles used while searching.
var (
	StyleDefault = Style{Radius: 8, Weight: 2, Opacity: 1}
	StyleNormal  = Style{Radius: 8}
	StyleMatch   = Style{Radius: 12, Weight: 4}
	StyleDimmed  = Style{Radius: 6, Weight: 1, Opacity: 0.5}
)

// FocusZoom is the zoom level used when a query has a single match.
const FocusZoom = 14

// Hit is the style decision for one marker.
type Hit struct {
	Index   int    `json:"index"`
	Name    string `json:"name"`
	Matched bool   `json:"matched"`
	Style   Style  `json:"style"`
}

// Focus tells the map to center on a marker and open its popup.
type Focus struct {
	Index     int     `json:"index"`
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lng"`
	Zoom      int     `json:"zoom"`
	OpenPopup bool    `json:"openPopup"`
}

// Result is the outcome of one query.
type Result struct {
	Query   string `json:"query"`
	Matches int    `json:"matches"`
	Hits    []Hit  `json:"hits"`
	Focus   *Focus `json:"focus,omitempty"`
}

// Normalize lowercases and trims a query.
func Normalize(query string) string {
	return strings.ToLower(strings.TrimSpace(query))
}

// Filter styles every marker for query. An empty query restores the
// normal radius; otherwise matching names are enlarged and the rest
// dimmed. A single match is focused at zoomLevel (FocusZoom when 0).
func Filter(markers []core.MarkerDescriptor, query string, zoomLevel int) Result {
	q := Normalize(query)
	if zoomLevel <= 0 {
		zoomLevel = FocusZoom
	}

	res := Result{Query: q, Hits: make([]Hit, 0, len(markers))}
	if q == "" {
		res.Hits = lo.Map(markers, func(m core.MarkerDescriptor, _ int) Hit {
			return Hit{Index: m.Index, Name: m.Name, Style: StyleNormal}
		})
		return res
	}

	matched := lo.Filter(markers, func(m core.MarkerDescriptor, _ int) bool {
		return Matches(m, q)
	})
	res.Matches = len(matched)

	for _, m := range markers {
		hit := Hit{Index: m.Index, Name: m.Name, Style: StyleDimmed}
		if Matches(m, q) {
			hit.Matched = true
			hit.Style = StyleMatch
		}
		res.Hits = append(res.Hits, hit)
	}

	if len(matched) == 1 {
		m := matched[0]
		res.Focus = &Focus{
			Index:     m.Index,
			Latitude:  m.Latitude,
			Longitude: m.Longitude,
			Zoom:      zoomLevel,
			OpenPopup: true,
		}
	}
	return res
}

// Reset returns every marker to its default style, as when the search
// box is cleared with Escape.
func Reset(markers []core.MarkerDescriptor) Result {
	return Result{
		Hits: lo.Map(markers, func(m core.MarkerDescriptor, _ int) Hit {
			return Hit{Index: m.Index, Name: m.Name, Style: StyleDefault}
		}),
	}
}

// Matches reports whether the marker name contains an already normalized
// query.
func Matches(m core.MarkerDescriptor, q string) bool {
	return strings.Contains(strings.ToLower(m.Name), q)
}
