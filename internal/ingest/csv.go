package ingest

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"github.com/OCAP2/csvmap/pkg/core"
)

const utf8BOM = "\ufeff"

// ParseCSV reads comma separated text.
func ParseCSV(r io.Reader) (*Result, error) {
	br := bufio.NewReader(r)
	if bom, err := br.Peek(len(utf8BOM)); err == nil && string(bom) == utf8BOM {
		_, _ = br.Discard(len(utf8BOM))
	}

	reader := csv.NewReader(br)
	reader.FieldsPerRecord = -1

	res := &Result{Records: []core.RawRecord{}}

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return res, nil
	}
	if err != nil {
		var pe *csv.ParseError
		if errors.As(err, &pe) {
			res.Errors = append(res.Errors, rowErrorFrom(-1, pe))
			return res, nil
		}
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	res.Headers = uniqueHeaders(header)

	for row := 0; ; row++ {
		cells, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				res.Errors = append(res.Errors, rowErrorFrom(row, pe))
				continue
			}
			return nil, fmt.Errorf("failed to read row %d: %w", row, err)
		}

		switch {
		case len(cells) < len(res.Headers):
			res.Errors = append(res.Errors, RowError{
				Row:     row,
				Code:    CodeTooFewFields,
				Message: fmt.Sprintf("Too few fields: expected %d fields but parsed %d", len(res.Headers), len(cells)),
			})
		case len(cells) > len(res.Headers):
			res.Errors = append(res.Errors, RowError{
				Row:     row,
				Code:    CodeTooManyFields,
				Message: fmt.Sprintf("Too many fields: expected %d fields but parsed %d", len(res.Headers), len(cells)),
			})
		}

		res.Records = append(res.Records, buildRecord(res.Headers, cells))
	}

	return res, nil
}

func rowErrorFrom(row int, pe *csv.ParseError) RowError {
	return RowError{Row: row, Code: CodeInvalidQuotes, Message: pe.Error()}
}
