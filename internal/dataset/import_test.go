package dataset

import (
	"bytes"
	"errors"
	"strconv"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestReadCSV(t *testing.T) {
	in := "x,temp,humidity\n3,20.5,40\n1,19,\n2,21,42\n"
	ds, err := ReadCSV(strings.NewReader(in), "weather")
	if err != nil {
		t.Fatalf("ReadCSV failed: %v", err)
	}
	if len(ds.Series) != 2 {
		t.Fatalf("expected 2 series, got %d", len(ds.Series))
	}
	if ds.Series[0].Name != "temp" || ds.Series[1].Name != "humidity" {
		t.Errorf("unexpected names %q, %q", ds.Series[0].Name, ds.Series[1].Name)
	}
	if got := ds.Series[0].Len(); got != 3 {
		t.Errorf("temp has %d points, want 3", got)
	}
	if got := ds.Series[1].Len(); got != 2 {
		t.Errorf("humidity has %d points, want 2 (blank skipped)", got)
	}
	for i, p := range ds.Series[0].Points {
		if p.X != float64(i+1) {
			t.Errorf("temp point %d has x=%v, want sorted %d", i, p.X, i+1)
		}
	}
}

func TestReadCSVErrors(t *testing.T) {
	_, err := ReadCSV(strings.NewReader("x,y\n1,abc\n"), "bad")
	var ie *ImportError
	if !errors.As(err, &ie) {
		t.Fatalf("expected ImportError, got %v", err)
	}
	if ie.Row != 2 || ie.Column != "y" {
		t.Errorf("error at row %d column %q, want row 2 column y", ie.Row, ie.Column)
	}
	if !errors.Is(err, strconv.ErrSyntax) {
		t.Errorf("expected wrapped strconv.ErrSyntax, got %v", err)
	}

	if _, err := ReadCSV(strings.NewReader("x,y\n"), "empty"); !errors.Is(err, ErrNoData) {
		t.Errorf("expected ErrNoData, got %v", err)
	}
	if _, err := ReadCSV(strings.NewReader("x\n1\n"), "noseries"); !errors.Is(err, ErrNoSeries) {
		t.Errorf("expected ErrNoSeries, got %v", err)
	}
}

func TestReadXLSX(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Sheet1"
	f.SetCellValue(sheet, "A1", "x")
	f.SetCellValue(sheet, "B1", "load")
	for i := 0; i < 5; i++ {
		row := strconv.Itoa(i + 2)
		f.SetCellValue(sheet, "A"+row, i)
		f.SetCellValue(sheet, "B"+row, float64(i)*1.5)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatalf("write workbook: %v", err)
	}

	ds, err := ReadXLSX(&buf, "workbook", "")
	if err != nil {
		t.Fatalf("ReadXLSX failed: %v", err)
	}
	if len(ds.Series) != 1 || ds.Series[0].Len() != 5 {
		t.Fatalf("unexpected dataset shape: %+v", ds.Series)
	}
	if got := ds.Series[0].Points[4].Y; got != 6 {
		t.Errorf("last y = %v, want 6", got)
	}
}

func TestSampleDatasetDeterministic(t *testing.T) {
	a := NewSampleDataset("ds_a", SampleOptions{Series: 3, Points: 500, Seed: 7})
	b := NewSampleDataset("ds_b", SampleOptions{Series: 3, Points: 500, Seed: 7})
	if a.PointCount() != 1500 {
		t.Fatalf("expected 1500 points, got %d", a.PointCount())
	}
	for s := range a.Series {
		for i := range a.Series[s].Points {
			pa, pb := a.Series[s].Points[i], b.Series[s].Points[i]
			if pa.X != pb.X || pa.Y != pb.Y {
				t.Fatalf("series %d point %d differs between equal seeds", s, i)
			}
		}
	}
}
