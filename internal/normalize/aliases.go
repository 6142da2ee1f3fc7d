package normalize

import "github.com/OCAP2/csvmap/pkg/core"

// Field is one logical column together with the header names it may
// appear under, in precedence order. Keys are matched exactly.
type Field struct {
	Name    string
	Aliases []string
}

// Header aliases accepted for each logical field.
var (
	LatitudeField    = Field{Name: "latitude", Aliases: []string{"lat", "latitude", "y", "LAT", "LATITUDE"}}
	LongitudeField   = Field{Name: "longitude", Aliases: []string{"lng", "lon", "longitude", "x", "LNG", "LON", "LONGITUDE"}}
	NameField        = Field{Name: "name", Aliases: []string{"name", "NAME", "title", "TITLE"}}
	DescriptionField = Field{Name: "description", Aliases: []string{"description", "DESC", "details"}}
	ColorField       = Field{Name: "color", Aliases: []string{"color", "COLOR"}}
	GroupField       = Field{Name: "group", Aliases: []string{"group", "GROUP", "category", "CATEGORY"}}
)

// Fields lists every logical field in display order.
var Fields = []Field{LatitudeField, LongitudeField, NameField, DescriptionField, ColorField, GroupField}

// Lookup returns the value of the first present alias and the alias it
// was found under.
func (f Field) Lookup(rec core.RawRecord) (core.Value, string, bool) {
	for _, key := range f.Aliases {
		v := rec.Get(key)
		if v.Present() {
			return v, key, true
		}
	}
	return core.Null(), "", false
}

// Text returns the first present alias rendered as text, or def.
func (f Field) Text(rec core.RawRecord, def string) string {
	if v, _, ok := f.Lookup(rec); ok {
		return v.Text()
	}
	return def
}

// Matches reports which of the given header names are recognized aliases,
// keyed by logical field name.
func Matches(headers []string) map[string][]string {
	known := make(map[string]string)
	for _, f := range Fields {
		for _, a := range f.Aliases {
			known[a] = f.Name
		}
	}

	out := make(map[string][]string)
	for _, h := range headers {
		if name, ok := known[h]; ok {
			out[name] = append(out[name], h)
		}
	}
	return out
}
