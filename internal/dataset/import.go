package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ReadCSV parses a table whose first column is X and whose remaining columns
// are one series each, named by the header row. Blank cells are skipped.
func ReadCSV(r io.Reader, name string) (*Dataset, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	return fromRows(rows, name, "")
}

// ReadXLSX parses the first sheet (or the named one) of a workbook using the
// same layout as ReadCSV.
func ReadXLSX(r io.Reader, name, sheet string) (*Dataset, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, ErrNoData
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	return fromRows(rows, name, sheet)
}

func fromRows(rows [][]string, name, sheet string) (*Dataset, error) {
	if len(rows) < 2 {
		return nil, ErrNoData
	}

	header := rows[0]
	if len(header) < 2 {
		return nil, ErrNoSeries
	}

	ds := &Dataset{Name: name, Series: make([]Series, len(header)-1)}
	for i := range ds.Series {
		ds.Series[i].Name = strings.TrimSpace(header[i+1])
		if ds.Series[i].Name == "" {
			ds.Series[i].Name = fmt.Sprintf("series-%d", i+1)
		}
	}

	for r, row := range rows[1:] {
		if len(row) == 0 || strings.TrimSpace(row[0]) == "" {
			continue
		}
		x, err := strconv.ParseFloat(strings.TrimSpace(row[0]), 64)
		if err != nil {
			return nil, &ImportError{Sheet: sheet, Row: r + 2, Column: header[0], Err: err}
		}
		for c := 1; c < len(row) && c < len(header); c++ {
			cell := strings.TrimSpace(row[c])
			if cell == "" {
				continue
			}
			y, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, &ImportError{Sheet: sheet, Row: r + 2, Column: header[c], Err: err}
			}
			ds.Series[c-1].Points = append(ds.Series[c-1].Points, DataPoint{X: x, Y: y})
		}
	}

	if ds.PointCount() == 0 {
		return nil, ErrNoData
	}

	// Range slicing needs X ascending; input files are not always ordered.
	for i := range ds.Series {
		pts := ds.Series[i].Points
		sort.SliceStable(pts, func(a, b int) bool { return pts[a].X < pts[b].X })
	}

	return ds, nil
}
