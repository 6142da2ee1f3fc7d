// Package render turns a map state into the view model the map page draws:
// styled circle markers with popups, one overlay layer per group, a legend,
// the viewport bounds and a status line.
package render

import (
	"fmt"
	"time"

	"github.com/OCAP2/csvmap/internal/config"
	"github.com/OCAP2/csvmap/internal/geo"
	"github.com/OCAP2/csvmap/internal/normalize"
	"github.com/OCAP2/csvmap/internal/search"
	"github.com/OCAP2/csvmap/pkg/core"
)

// StatusType selects the status bar styling.
type StatusType string

const (
	StatusInfo    StatusType = "info"
	StatusSuccess StatusType = "success"
	StatusError   StatusType = "error"
)

// Status is the message shown in the status bar.
type Status struct {
	Type    StatusType `json:"type"`
	Message string     `json:"message"`
}

// FitPadding is the pixel padding used when fitting the viewport to the
// markers.
var FitPadding = [2]int{20, 20}

// MarkerStyle is the circle-marker style of an accepted descriptor.
type MarkerStyle struct {
	Color       string  `json:"color"`
	FillColor   string  `json:"fillColor"`
	Radius      float64 `json:"radius"`
	FillOpacity float64 `json:"fillOpacity"`
	Weight      float64 `json:"weight"`
	Opacity     float64 `json:"opacity"`
}

// Popup is the payload shown when a marker is clicked.
type Popup struct {
	Name          string `json:"name"`
	Description   string `json:"description,omitempty"`
	Coordinates   string `json:"coordinates"`
	StreetViewURL string `json:"streetViewUrl"`
}

// Marker is one drawable marker.
type Marker struct {
	Index     int         `json:"index"`
	Name      string      `json:"name"`
	Latitude  float64     `json:"lat"`
	Longitude float64     `json:"lng"`
	Group     string      `json:"group"`
	Style     MarkerStyle `json:"style"`
	Popup     Popup       `json:"popup"`
}

// Bounds holds everything needed to fit the viewport.
type Bounds struct {
	Points   core.BoundingSet `json:"points"`
	Region   geo.Region       `json:"region"`
	Corners  [2][2]float64    `json:"corners"`
	ExtentKm float64          `json:"extentKm"`
	Padding  [2]int           `json:"padding"`
}

// Styles carries the search styles to the page so the browser applies the
// same values search.Filter returns.
type Styles struct {
	Default   search.Style `json:"default"`
	Normal    search.Style `json:"normal"`
	Match     search.Style `json:"match"`
	Dimmed    search.Style `json:"dimmed"`
	FocusZoom int          `json:"focusZoom"`
}

// View is the complete model of the map page.
type View struct {
	Source        string              `json:"source,omitempty"`
	ImportedAt    *time.Time          `json:"importedAt,omitempty"`
	AcceptedCount int                 `json:"acceptedCount"`
	TotalCount    int                 `json:"totalCount"`
	Markers       []Marker            `json:"markers"`
	Layers        []core.GroupSummary `json:"layers"`
	Bounds        *Bounds             `json:"bounds,omitempty"`
	Status        Status              `json:"status"`
	Center        [2]float64          `json:"center"`
	Zoom          int                 `json:"zoom"`
	BaseLayers    []config.TileLayer  `json:"baseLayers"`
	Search        Styles              `json:"search"`
}

// BuildView renders state into a View. A nil or empty state yields the
// welcome view with the configured initial center and zoom.
func BuildView(state *core.MapState, mapCfg config.MapConfig) View {
	palette := normalize.PaletteByName(mapCfg.Palette)
	focusZoom := mapCfg.FocusZoom
	if focusZoom <= 0 {
		focusZoom = search.FocusZoom
	}
	baseLayers := mapCfg.BaseLayers
	if len(baseLayers) == 0 {
		baseLayers = config.DefaultBaseLayers
	}

	v := View{
		Markers:    []Marker{},
		Layers:     []core.GroupSummary{},
		Status:     WelcomeStatus(),
		Center:     [2]float64{mapCfg.CenterLat, mapCfg.CenterLng},
		Zoom:       mapCfg.Zoom,
		BaseLayers: baseLayers,
		Search: Styles{
			Default:   search.StyleDefault,
			Normal:    search.StyleNormal,
			Match:     search.StyleMatch,
			Dimmed:    search.StyleDimmed,
			FocusZoom: focusZoom,
		},
	}
	if state.Empty() {
		return v
	}

	importedAt := state.ImportedAt
	v.Source = state.Source
	v.ImportedAt = &importedAt
	v.AcceptedCount = state.AcceptedCount
	v.TotalCount = state.TotalCount
	v.Markers = make([]Marker, 0, len(state.Accepted))
	for _, m := range state.Accepted {
		v.Markers = append(v.Markers, MarkerOf(m))
	}
	v.Layers = state.Groups.Summaries(palette.First())

	region := geo.RegionOf(state.Bounds)
	v.Bounds = &Bounds{
		Points:   state.Bounds,
		Region:   region,
		Corners:  region.Corners(),
		ExtentKm: region.DiagonalKm(),
		Padding:  FitPadding,
	}
	v.Center = region.Center()
	v.Status = SuccessStatus(state)
	return v
}

// WithStatus returns a copy of v showing status instead.
func (v View) WithStatus(status Status) View {
	v.Status = status
	return v
}

// MarkerOf builds the drawable marker of one descriptor.
func MarkerOf(m core.MarkerDescriptor) Marker {
	return Marker{
		Index:     m.Index,
		Name:      m.Name,
		Latitude:  m.Latitude,
		Longitude: m.Longitude,
		Group:     m.Group,
		Style: MarkerStyle{
			Color:       m.Color,
			FillColor:   m.Color,
			Radius:      8,
			FillOpacity: 0.8,
			Weight:      2,
			Opacity:     1,
		},
		Popup: Popup{
			Name:          m.Name,
			Description:   m.Description,
			Coordinates:   geo.FormatLatLng(m.Latitude, m.Longitude),
			StreetViewURL: geo.StreetViewURL(m.Latitude, m.Longitude),
		},
	}
}

// SuccessStatus is the status shown after a successful import.
func SuccessStatus(state *core.MapState) Status {
	return Status{
		Type: StatusSuccess,
		Message: fmt.Sprintf("Successfully loaded %d points from %d records in %d groups",
			state.AcceptedCount, state.TotalCount, state.Groups.Len()),
	}
}
