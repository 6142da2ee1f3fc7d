package geo

import (
	"errors"
	"fmt"
	"strconv"

	geohash "github.com/TomiHiltunen/geohash-golang"
	geom "github.com/peterstace/simplefeatures/geom"
	"github.com/wroge/wgs84"
)

// GEO POINTS
// Archived markers are stored as EPSG:3857 points, matching the tile
// projection, because SQLite has no spatial awareness and we read points
// back through the inherent Scan function. Geometry is stored as WKB.

// ErrInvalidCoordinates is returned when the coordinates are invalid
var ErrInvalidCoordinates = errors.New("invalid coordinates provided")

// StreetViewBaseURL opens street-level imagery at a coordinate.
const StreetViewBaseURL = "https://www.google.com/maps?q=&layer=c&cbll="

// GeohashPrecision is the length of geohashes exposed to clients.
const GeohashPrecision = 9

// Coords3857From4326 creates a Web-Mercator point from a longitude and latitude
func Coords3857From4326(
	longitude float64,
	latitude float64,
) (
	point geom.Point,
	err error,
) {
	epsg := wgs84.EPSG()
	f := epsg.Transform(4326, 3857)
	x, y, _ := f(longitude, latitude, 0)
	point, err = geom.NewPoint(
		geom.Coordinates{
			XY:   geom.XY{X: x, Y: y},
			Type: geom.DimXY,
		},
	)
	return point, err
}

// Coords4326From3857 reverses Coords3857From4326.
func Coords4326From3857(point geom.Point) (longitude, latitude float64, err error) {
	c, ok := point.Coordinates()
	if !ok {
		return 0, 0, ErrInvalidCoordinates
	}
	epsg := wgs84.EPSG()
	f := epsg.Transform(3857, 4326)
	longitude, latitude, _ = f(c.X, c.Y, 0)
	return longitude, latitude, nil
}

// FormatCoordinate renders a coordinate with 6 decimal places.
func FormatCoordinate(v float64) string {
	return fmt.Sprintf("%.6f", v)
}

// FormatLatLng renders "lat, lng" with 6 decimal places each.
func FormatLatLng(lat, lng float64) string {
	return FormatCoordinate(lat) + ", " + FormatCoordinate(lng)
}

// StreetViewURL returns the street-level imagery link for a coordinate.
func StreetViewURL(lat, lng float64) string {
	return StreetViewBaseURL +
		strconv.FormatFloat(lat, 'f', -1, 64) + "," +
		strconv.FormatFloat(lng, 'f', -1, 64)
}

// Geohash encodes a coordinate with GeohashPrecision characters.
func Geohash(lat, lng float64) string {
	return geohash.EncodeWithPrecision(lat, lng, GeohashPrecision)
}
