// pkg/core/value.go
package core

import (
	"math"
	"strconv"
	"strings"
)

// ValueKind is the dynamic type of a parsed cell.
type ValueKind uint8

const (
	KindNull ValueKind = iota
	KindString
	KindNumber
	KindBool
)

func (k ValueKind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	default:
		return "null"
	}
}

// Value is one loosely-typed cell of a parsed row.
// The zero Value is Null.
type Value struct {
	Kind ValueKind
	Str  string
	Num  float64
	Bool bool
}

// Null returns an absent value.
func Null() Value { return Value{} }

// String returns a text value.
func String(s string) Value { return Value{Kind: KindString, Str: s} }

// Number returns a numeric value.
func Number(f float64) Value { return Value{Kind: KindNumber, Num: f} }

// Bool returns a boolean value.
func Bool(b bool) Value { return Value{Kind: KindBool, Bool: b} }

// IsNull reports whether the value is absent.
func (v Value) IsNull() bool {
	return v.Kind == KindNull
}

// Present reports whether the value counts as supplied: not null and,
// for text, not blank. A numeric zero is present.
func (v Value) Present() bool {
	switch v.Kind {
	case KindNull:
		return false
	case KindString:
		return strings.TrimSpace(v.Str) != ""
	default:
		return true
	}
}

// Text renders the value for display.
func (v Value) Text() string {
	switch v.Kind {
	case KindString:
		return v.Str
	case KindNumber:
		return strconv.FormatFloat(v.Num, 'f', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.Bool)
	default:
		return ""
	}
}

// Float returns the value as a finite float64.
// Text must parse as a whole; booleans and nulls never convert.
func (v Value) Float() (float64, bool) {
	var f float64
	switch v.Kind {
	case KindNumber:
		f = v.Num
	case KindString:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v.Str), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// MarshalJSON encodes the value as its natural JSON scalar.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case KindString:
		return []byte(strconv.Quote(v.Str)), nil
	case KindNumber:
		if math.IsNaN(v.Num) || math.IsInf(v.Num, 0) {
			return []byte("null"), nil
		}
		return []byte(strconv.FormatFloat(v.Num, 'f', -1, 64)), nil
	case KindBool:
		return []byte(strconv.FormatBool(v.Bool)), nil
	default:
		return []byte("null"), nil
	}
}

// RawRecord is one parsed row keyed by header name.
type RawRecord map[string]Value

// Get returns the value stored under key, Null if absent.
func (r RawRecord) Get(key string) Value {
	if r == nil {
		return Null()
	}
	return r[key]
}
