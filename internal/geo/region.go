package geo

import (
	"github.com/golang/geo/r2"
	"github.com/golang/geo/s2"

	"github.com/OCAP2/csvmap/pkg/core"
)

const earthRadiusKm = 6371.0088

// Region is the smallest lat/lng rectangle containing a BoundingSet.
// Coordinates are taken as given, out-of-range values included.
type Region struct {
	South float64 `json:"south"`
	West  float64 `json:"west"`
	North float64 `json:"north"`
	East  float64 `json:"east"`
	Empty bool    `json:"empty"`
}

// RegionOf computes the Region of a BoundingSet.
func RegionOf(bounds core.BoundingSet) Region {
	rect := r2.EmptyRect()
	for _, p := range bounds {
		rect = rect.AddPoint(r2.Point{X: p[1], Y: p[0]})
	}
	if rect.IsEmpty() {
		return Region{Empty: true}
	}
	lo, hi := rect.Lo(), rect.Hi()
	return Region{South: lo.Y, West: lo.X, North: hi.Y, East: hi.X}
}

// Center returns the midpoint of the region as [lat, lng].
func (r Region) Center() [2]float64 {
	return [2]float64{(r.South + r.North) / 2, (r.West + r.East) / 2}
}

// Corners returns the region in the [[south, west], [north, east]] shape
// map widgets expect.
func (r Region) Corners() [2][2]float64 {
	return [2][2]float64{{r.South, r.West}, {r.North, r.East}}
}

// DiagonalKm returns the great-circle distance between the south-west and
// north-east corners, 0 for empty or invalid regions.
func (r Region) DiagonalKm() float64 {
	if r.Empty {
		return 0
	}
	sw := s2.LatLngFromDegrees(r.South, r.West)
	ne := s2.LatLngFromDegrees(r.North, r.East)
	if !sw.IsValid() || !ne.IsValid() {
		return 0
	}
	return sw.Distance(ne).Radians() * earthRadiusKm
}
