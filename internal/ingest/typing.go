package ingest

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/OCAP2/csvmap/pkg/core"
)

var floatPattern = regexp.MustCompile(`^\s*-?(\d+\.?|\.\d+|\d+\.\d+)([eE][-+]?\d+)?\s*$`)

// maxExactFloat bounds the numbers converted by Infer. Larger literals,
// typically long numeric ids, cannot round-trip through a float64 and
// stay strings.
const maxExactFloat = 1 << 53

// Infer converts a raw cell into a typed value: empty cells are Null,
// true/false literals (lower or upper case) are Bool, decimal literals
// strictly between -2^53 and 2^53 are Number and anything else stays String.
func Infer(cell string) core.Value {
	switch cell {
	case "":
		return core.Null()
	case "true", "TRUE":
		return core.Bool(true)
	case "false", "FALSE":
		return core.Bool(false)
	}

	if floatPattern.MatchString(cell) {
		f, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
		if err == nil && math.Abs(f) < maxExactFloat {
			return core.Number(f)
		}
	}
	return core.String(cell)
}
