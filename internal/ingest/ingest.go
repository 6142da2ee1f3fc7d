// Package ingest reads tabular files into loosely-typed records: the first
// row is the header, blank lines are skipped and cells are dynamically
// typed.
package ingest

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/OCAP2/csvmap/pkg/core"
)

var (
	// ErrParse marks structural problems reported by the parser.
	ErrParse = errors.New("CSV parsing errors")
	// ErrNoRecords is returned when a file holds a header but no data rows.
	ErrNoRecords = errors.New("no data found in CSV file")
)

// Row error codes.
const (
	CodeTooFewFields  = "TooFewFields"
	CodeTooManyFields = "TooManyFields"
	CodeInvalidQuotes = "InvalidQuotes"
)

// RowError is one problem found while parsing. Row is the 0-based data
// row index, -1 for file-level errors.
type RowError struct {
	Row     int    `json:"row"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ParseError carries every RowError of a rejected file.
type ParseError struct {
	Errors []RowError
}

func (e *ParseError) Error() string {
	if len(e.Errors) == 0 {
		return ErrParse.Error()
	}
	return fmt.Sprintf("%s: %s", ErrParse, e.Errors[0].Message)
}

func (e *ParseError) Unwrap() error {
	return ErrParse
}

// Result is the parser output.
type Result struct {
	Headers []string
	Records []core.RawRecord
	Errors  []RowError
}

// Err returns a *ParseError when the parser reported any error, or
// ErrNoRecords when no data row was found.
func (r *Result) Err() error {
	if len(r.Errors) > 0 {
		return &ParseError{Errors: r.Errors}
	}
	if len(r.Records) == 0 {
		return ErrNoRecords
	}
	return nil
}

// Format is a supported input format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// DetectFormat picks the format from a file name.
func DetectFormat(name string) Format {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xlsm":
		return FormatXLSX
	default:
		return FormatCSV
	}
}

// Parse reads r in the format implied by name.
func Parse(name string, r io.Reader) (*Result, error) {
	switch DetectFormat(name) {
	case FormatXLSX:
		return ParseXLSX(r)
	default:
		return ParseCSV(r)
	}
}

// ParseFile opens and parses a local file.
func ParseFile(path string) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	return Parse(filepath.Base(path), f)
}

// uniqueHeaders renames repeated header names to name_1, name_2, ...
func uniqueHeaders(headers []string) []string {
	seen := make(map[string]int, len(headers))
	out := make([]string, len(headers))
	for i, h := range headers {
		name := h
		for seen[name] > 0 {
			name = fmt.Sprintf("%s_%d", h, seen[h])
			seen[h]++
		}
		seen[name]++
		out[i] = name
	}
	return out
}

// buildRecord zips a row with the headers. Missing trailing cells are Null.
func buildRecord(headers []string, cells []string) core.RawRecord {
	rec := make(core.RawRecord, len(headers))
	for i, h := range headers {
		if i < len(cells) {
			rec[h] = Infer(cells[i])
		} else {
			rec[h] = core.Null()
		}
	}
	return rec
}
