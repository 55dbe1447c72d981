package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/inamate/chartgeo/internal/api"
	"github.com/inamate/chartgeo/internal/auth"
	"github.com/inamate/chartgeo/internal/dataset"
	"github.com/inamate/chartgeo/internal/decimate"
)

// Source loads a dataset on behalf of its owner.
type Source interface {
	Get(ctx context.Context, id, ownerID string) (*dataset.Dataset, error)
}

type Handler struct {
	source Source
}

func NewHandler(source Source) *Handler {
	return &Handler{source: source}
}

// Export handles GET /api/datasets/{datasetId}/export?format=csv|xlsx.
// An optional mode (and maxPoints) decimates each series first.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())
	datasetID := mux.Vars(r)["datasetId"]
	q := r.URL.Query()

	format := q.Get("format")
	if format == "" {
		format = "csv"
	}
	if format != "csv" && format != "xlsx" {
		http.Error(w, "invalid format: must be csv or xlsx", http.StatusBadRequest)
		return
	}

	ds, err := h.source.Get(r.Context(), datasetID, userID)
	if err != nil {
		if errors.Is(err, api.ErrNotFound) {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		slog.Error("load dataset for export", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	if m := q.Get("mode"); m != "" {
		mode, err := decimate.ParseMode(m)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		cfg := decimate.DefaultConfig()
		cfg.Mode = mode
		cfg.Threshold = 0
		if n, err := strconv.Atoi(q.Get("maxPoints")); err == nil && n > 0 {
			cfg.MaxVisiblePoints = n
		}
		ds = decimated(ds, cfg)
	}

	var buf bytes.Buffer
	contentType := "text/csv"
	if format == "xlsx" {
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
		err = WriteXLSX(&buf, ds)
	} else {
		err = WriteCSV(&buf, ds)
	}
	if err != nil {
		slog.Error("export failed", "format", format, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.%s"`, sheetName(ds.Name), format))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	buf.WriteTo(w)

	slog.Info("export complete", "dataset", ds.ID, "format", format, "size", buf.Len())
}

func decimated(ds *dataset.Dataset, cfg decimate.Config) *dataset.Dataset {
	out := *ds
	out.Series = make([]dataset.Series, len(ds.Series))
	for i, s := range ds.Series {
		out.Series[i] = dataset.Series{Name: s.Name, Points: decimate.ApplyPoints(s.Points, cfg, decimate.View{})}
	}
	return &out
}
