package ingest

import (
	"fmt"
	"io"

	"github.com/OCAP2/csvmap/pkg/core"
	"github.com/xuri/excelize/v2"
)

// ParseXLSX reads the first sheet of a workbook. Rows are typed the same
// way as CSV cells, using their formatted text.
func ParseXLSX(r io.Reader) (*Result, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	res := &Result{Records: []core.RawRecord{}}

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return res, nil
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}

	headerSeen := false
	row := 0
	for _, cells := range rows {
		if isBlankRow(cells) {
			continue
		}
		if !headerSeen {
			res.Headers = uniqueHeaders(cells)
			headerSeen = true
			continue
		}

		if len(cells) > len(res.Headers) {
			res.Errors = append(res.Errors, RowError{
				Row:     row,
				Code:    CodeTooManyFields,
				Message: fmt.Sprintf("Too many fields: expected %d fields but parsed %d", len(res.Headers), len(cells)),
			})
		}
		// Trailing empty cells are not stored in the sheet, so short rows
		// are padded with Null instead of being reported.
		res.Records = append(res.Records, buildRecord(res.Headers, cells))
		row++
	}

	return res, nil
}

func isBlankRow(cells []string) bool {
	return len(cells) == 0 || (len(cells) == 1 && cells[0] == "")
}
