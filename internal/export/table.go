// Package export writes datasets back out as tables in the layout the
// importers read: the first column is X and every other column is a series.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"slices"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/inamate/chartgeo/internal/dataset"
)

// rows builds the header and one row per distinct X, ascending. Cells of
// series with no point at that X are blank.
func rows(ds *dataset.Dataset) [][]string {
	header := make([]string, 0, len(ds.Series)+1)
	header = append(header, "x")
	var xs []float64
	for _, s := range ds.Series {
		header = append(header, s.Name)
		for _, p := range s.Points {
			xs = append(xs, p.X)
		}
	}
	slices.Sort(xs)
	xs = slices.Compact(xs)

	out := make([][]string, 0, len(xs)+1)
	out = append(out, header)
	cursor := make([]int, len(ds.Series))
	for _, x := range xs {
		row := make([]string, len(header))
		row[0] = formatFloat(x)
		for i, s := range ds.Series {
			// Series are sorted by X, so each cursor only moves forward.
			for cursor[i] < len(s.Points) && s.Points[cursor[i]].X < x {
				cursor[i]++
			}
			if cursor[i] < len(s.Points) && s.Points[cursor[i]].X == x {
				row[i+1] = formatFloat(s.Points[cursor[i]].Y)
				cursor[i]++
			}
		}
		out = append(out, row)
	}
	return out
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func WriteCSV(w io.Writer, ds *dataset.Dataset) error {
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(rows(ds)); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}

// WriteXLSX writes a single-sheet workbook named after the dataset.
func WriteXLSX(w io.Writer, ds *dataset.Dataset) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := sheetName(ds.Name)
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("name sheet: %w", err)
	}

	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		return fmt.Errorf("open sheet: %w", err)
	}
	for r, row := range rows(ds) {
		cells := make([]any, len(row))
		for c, v := range row {
			if r == 0 || v == "" {
				cells[c] = v
				continue
			}
			n, _ := strconv.ParseFloat(v, 64)
			cells[c] = n
		}
		cell, err := excelize.CoordinatesToCellName(1, r+1)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, cells); err != nil {
			return fmt.Errorf("write row %d: %w", r+1, err)
		}
	}
	if err := sw.Flush(); err != nil {
		return fmt.Errorf("flush sheet: %w", err)
	}
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// sheetName fits name to Excel's 31 character limit and forbidden set.
func sheetName(name string) string {
	clean := []rune(sanitize(name))
	if len(clean) == 0 {
		return "data"
	}
	if len(clean) > 31 {
		clean = clean[:31]
	}
	return string(clean)
}

func sanitize(name string) string {
	out := make([]rune, 0, len(name))
	for _, r := range name {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			out = append(out, r)
		} else {
			out = append(out, '-')
		}
	}
	return string(out)
}
