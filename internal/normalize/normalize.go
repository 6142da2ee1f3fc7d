// Package normalize turns loosely-typed CSV records into marker
// descriptors grouped into layers.
package normalize

import (
	"errors"
	"fmt"

	"github.com/OCAP2/csvmap/pkg/core"
)

// ErrNoValidData is returned when not a single record carries usable
// coordinates.
var ErrNoValidData = errors.New("no valid coordinate data found in CSV")

// Normalizer converts records using a fixed palette.
type Normalizer struct {
	palette Palette
}

// New creates a Normalizer. An empty palette selects Categorical.
func New(palette Palette) *Normalizer {
	if len(palette) == 0 {
		palette = Categorical
	}
	return &Normalizer{palette: palette}
}

// Normalize runs a Normalizer with the categorical palette.
func Normalize(records []core.RawRecord) (*core.MapState, error) {
	return New(Categorical).Normalize("", records)
}

// Normalize builds a fresh MapState from records. Invalid records are
// skipped; the error is ErrNoValidData when none is accepted, in which
// case the returned state is empty but usable.
func (n *Normalizer) Normalize(source string, records []core.RawRecord) (*core.MapState, error) {
	state := core.NewMapState(source)
	state.TotalCount = len(records)

	for i, rec := range records {
		m, ok := n.Descriptor(i, rec)
		if !ok {
			continue
		}
		state.Accepted = append(state.Accepted, m)
		state.Groups.Add(m)
		state.Bounds = append(state.Bounds, m.LatLng())
	}
	state.AcceptedCount = len(state.Accepted)

	if state.AcceptedCount == 0 {
		return state, ErrNoValidData
	}
	return state, nil
}

// Descriptor normalizes the record at input position index. It reports
// false when the record lacks a finite latitude or longitude.
func (n *Normalizer) Descriptor(index int, rec core.RawRecord) (core.MarkerDescriptor, bool) {
	lat, ok := coordinate(LatitudeField, rec)
	if !ok {
		return core.MarkerDescriptor{}, false
	}
	lng, ok := coordinate(LongitudeField, rec)
	if !ok {
		return core.MarkerDescriptor{}, false
	}

	return core.MarkerDescriptor{
		Index:       index,
		Name:        NameField.Text(rec, fmt.Sprintf("Point %d", index+1)),
		Latitude:    lat,
		Longitude:   lng,
		Description: DescriptionField.Text(rec, ""),
		Color:       ColorField.Text(rec, n.palette.At(index)),
		Group:       GroupField.Text(rec, core.DefaultGroup),
	}, true
}

func coordinate(f Field, rec core.RawRecord) (float64, bool) {
	v, _, ok := f.Lookup(rec)
	if !ok {
		return 0, false
	}
	return v.Float()
}
