package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"mime"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/inamate/chartgeo/internal/auth"
	"github.com/inamate/chartgeo/internal/bounds"
	"github.com/inamate/chartgeo/internal/dataset"
	"github.com/inamate/chartgeo/internal/decimate"
)

const maxUploadSize = 20 << 20 // 20MB

type Handler struct {
	service  *Service
	defaults decimate.Config
}

// NewHandler serves datasets; defaults seeds every decimate request.
func NewHandler(service *Service, defaults decimate.Config) *Handler {
	return &Handler{service: service, defaults: defaults}
}

// Routes mounts the dataset endpoints on r.
func (h *Handler) Routes(r *mux.Router) {
	r.HandleFunc("/datasets", h.List).Methods("GET")
	r.HandleFunc("/datasets", h.Create).Methods("POST")
	r.HandleFunc("/datasets/{datasetId}", h.Get).Methods("GET")
	r.HandleFunc("/datasets/{datasetId}", h.Delete).Methods("DELETE")
	r.HandleFunc("/datasets/{datasetId}/decimate", h.Decimate).Methods("POST")
}

// Create accepts either a JSON dataset or a multipart upload with a "file"
// field holding a .csv or .xlsx table.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)

	var ds *dataset.Dataset
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		if err := r.ParseMultipartForm(maxUploadSize); err != nil {
			writeError(w, http.StatusBadRequest, "file too large (max 20MB)")
			return
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			writeError(w, http.StatusBadRequest, "missing file field")
			return
		}
		defer file.Close()

		ds, err = Import(file, header.Filename, r.FormValue("name"))
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	} else {
		ds = &dataset.Dataset{}
		if err := json.NewDecoder(r.Body).Decode(ds); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	created, err := h.service.Create(r.Context(), ds, userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	slog.Info("dataset created", "dataset", created.ID, "series", len(created.Series), "points", created.PointCount())
	writeJSON(w, http.StatusCreated, created)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())

	list, err := h.service.List(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())
	datasetID := mux.Vars(r)["datasetId"]

	ds, err := h.service.Get(r.Context(), datasetID, userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ds)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())
	datasetID := mux.Vars(r)["datasetId"]

	if err := h.service.Delete(r.Context(), datasetID, userID); err != nil {
		handleServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// decimateRequest overrides the handler defaults field by field.
type decimateRequest struct {
	decimate.Config
	XMin   *float64 `json:"xMin,omitempty"`
	XMax   *float64 `json:"xMax,omitempty"`
	Pixels float64  `json:"pixels,omitempty"`
}

type decimateResponse struct {
	DatasetID string            `json:"datasetId"`
	Mode      decimate.Mode     `json:"mode"`
	Series    []DecimatedSeries `json:"series"`
}

func (h *Handler) Decimate(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())
	datasetID := mux.Vars(r)["datasetId"]

	req := decimateRequest{Config: h.defaults}
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	var view decimate.View
	view.Pixels = req.Pixels
	if req.XMin != nil && req.XMax != nil {
		view.X = bounds.Bounds{Min: *req.XMin, Max: *req.XMax}
	}

	series, err := h.service.Decimate(r.Context(), datasetID, userID, req.Config, view)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, decimateResponse{DatasetID: datasetID, Mode: req.Mode, Series: series})
}

func handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, ErrInvalidDataset):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		slog.Error("service error", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
