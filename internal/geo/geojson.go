package geo

import (
	"fmt"

	geom "github.com/peterstace/simplefeatures/geom"

	"github.com/OCAP2/csvmap/pkg/core"
)

// Feature converts one descriptor into a GeoJSON point feature.
func Feature(m core.MarkerDescriptor) (geom.GeoJSONFeature, error) {
	pt, err := geom.NewPoint(geom.Coordinates{
		XY:   geom.XY{X: m.Longitude, Y: m.Latitude},
		Type: geom.DimXY,
	})
	if err != nil {
		return geom.GeoJSONFeature{}, fmt.Errorf("marker %d: %w", m.Index, err)
	}
	return geom.GeoJSONFeature{
		Geometry: pt.AsGeometry(),
		ID:       m.Index,
		Properties: map[string]interface{}{
			"name":        m.Name,
			"description": m.Description,
			"color":       m.Color,
			"group":       m.Group,
			"geohash":     Geohash(m.Latitude, m.Longitude),
		},
	}, nil
}

// Features converts a list of descriptors, stopping at the first one that
// is not a valid point.
func Features(markers []core.MarkerDescriptor) (geom.GeoJSONFeatureCollection, error) {
	fc := geom.GeoJSONFeatureCollection{}
	for _, m := range markers {
		f, err := Feature(m)
		if err != nil {
			return nil, err
		}
		fc = append(fc, f)
	}
	return fc, nil
}

// FeatureCollection converts every accepted descriptor of state.
func FeatureCollection(state *core.MapState) (geom.GeoJSONFeatureCollection, error) {
	if state == nil {
		return geom.GeoJSONFeatureCollection{}, nil
	}
	return Features(state.Accepted)
}
