package export

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"

	"github.com/inamate/chartgeo/internal/api"
	"github.com/inamate/chartgeo/internal/dataset"
)

func raggedDataset() *dataset.Dataset {
	return &dataset.Dataset{
		ID:   "ds_1",
		Name: "temps / daily",
		Series: []dataset.Series{
			{Name: "inside", Points: []dataset.DataPoint{{X: 1, Y: 20}, {X: 2, Y: 21.5}, {X: 4, Y: 19}}},
			{Name: "outside", Points: []dataset.DataPoint{{X: 2, Y: -3}, {X: 3, Y: 0.25}}},
		},
	}
}

func TestWriteCSVAlignsSeries(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, raggedDataset()); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	want := "x,inside,outside\n1,20,\n2,21.5,-3\n3,,0.25\n4,19,\n"
	if buf.String() != want {
		t.Errorf("csv =\n%s\nwant\n%s", buf.String(), want)
	}
}

func TestWriteXLSXReadsBack(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteXLSX(&buf, raggedDataset()); err != nil {
		t.Fatalf("WriteXLSX: %v", err)
	}
	got, err := dataset.ReadXLSX(&buf, "back", "")
	if err != nil {
		t.Fatalf("ReadXLSX: %v", err)
	}
	if len(got.Series) != 2 || got.Series[0].Len() != 3 || got.Series[1].Len() != 2 {
		t.Fatalf("read back %+v", got.Series)
	}
	if p := got.Series[1].Points[1]; p.X != 3 || p.Y != 0.25 {
		t.Errorf("outside[1] = %+v", p)
	}
}

func TestSheetName(t *testing.T) {
	tests := []struct{ in, want string }{
		{"", "data"},
		{"sales", "sales"},
		{"a/b:c", "a-b-c"},
		{strings.Repeat("x", 40), strings.Repeat("x", 31)},
	}
	for _, tt := range tests {
		if got := sheetName(tt.in); got != tt.want {
			t.Errorf("sheetName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

type fakeSource struct {
	ds *dataset.Dataset
}

func (f fakeSource) Get(ctx context.Context, id, ownerID string) (*dataset.Dataset, error) {
	if f.ds == nil || id != f.ds.ID {
		return nil, api.ErrNotFound
	}
	return f.ds, nil
}

func TestExportHandler(t *testing.T) {
	pts := make([]dataset.DataPoint, 1000)
	for i := range pts {
		pts[i] = dataset.DataPoint{X: float64(i), Y: float64(i % 11)}
	}
	src := fakeSource{ds: &dataset.Dataset{ID: "ds_big", Name: "big", Series: []dataset.Series{{Name: "s", Points: pts}}}}

	r := mux.NewRouter()
	r.HandleFunc("/datasets/{datasetId}/export", NewHandler(src).Export)

	tests := []struct {
		name     string
		url      string
		want     int
		wantRows int
	}{
		{"csv", "/datasets/ds_big/export", http.StatusOK, 1001},
		{"decimated csv", "/datasets/ds_big/export?mode=lttb&maxPoints=100", http.StatusOK, 101},
		{"xlsx", "/datasets/ds_big/export?format=xlsx", http.StatusOK, -1},
		{"bad format", "/datasets/ds_big/export?format=pdf", http.StatusBadRequest, -1},
		{"bad mode", "/datasets/ds_big/export?mode=magic", http.StatusBadRequest, -1},
		{"missing", "/datasets/ds_nope/export", http.StatusNotFound, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.url, nil))
			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d: %s", rec.Code, tt.want, rec.Body)
			}
			if tt.wantRows >= 0 {
				if got := strings.Count(rec.Body.String(), "\n"); got != tt.wantRows {
					t.Errorf("rows = %d, want %d", got, tt.wantRows)
				}
			}
			if rec.Code == http.StatusOK && !strings.Contains(rec.Header().Get("Content-Disposition"), "big.") {
				t.Errorf("disposition = %q", rec.Header().Get("Content-Disposition"))
			}
		})
	}
}
