package normalize

import "strings"

// Palette is a fixed ordered list of fallback marker colors.
type Palette []string

// Built-in color schemes.
var (
	Categorical = Palette{"#e74c3c", "#3498db", "#2ecc71", "#f39c12", "#9b59b6", "#1abc9c", "#e67e22", "#34495e"}
	Sequential  = Palette{"#feedde", "#fdbe85", "#fd8d3c", "#e6550d", "#a63603"}
)

// PaletteByName returns the named scheme, falling back to Categorical.
func PaletteByName(name string) Palette {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "sequential":
		return Sequential
	default:
		return Categorical
	}
}

// At returns the color for an absolute input position.
func (p Palette) At(index int) string {
	if len(p) == 0 {
		return ""
	}
	i := index % len(p)
	if i < 0 {
		i += len(p)
	}
	return p[i]
}

// First returns the first color of the palette.
func (p Palette) First() string {
	return p.At(0)
}
