// Package api serves the dataset REST endpoints.
package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/inamate/chartgeo/internal/dataset"
	"github.com/inamate/chartgeo/internal/decimate"
	"github.com/inamate/chartgeo/internal/store"
	"github.com/inamate/chartgeo/internal/typeid"
)

var (
	ErrNotFound          = errors.New("dataset not found")
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrInvalidDataset    = errors.New("invalid dataset")
)

// DatasetStore is the slice of store.Store the API needs.
type DatasetStore interface {
	CreateDataset(ctx context.Context, ds *dataset.Dataset) error
	ListDatasets(ctx context.Context, ownerID string) ([]store.DatasetSummary, error)
	GetDataset(ctx context.Context, id, ownerID string) (*dataset.Dataset, error)
	DeleteDataset(ctx context.Context, id, ownerID string) error
}

type Service struct {
	store DatasetStore
}

func NewService(s DatasetStore) *Service {
	return &Service{store: s}
}

// Create assigns an id and owner to ds and stores it.
func (s *Service) Create(ctx context.Context, ds *dataset.Dataset, ownerID string) (*dataset.Dataset, error) {
	if err := validate(ds); err != nil {
		return nil, err
	}
	ds.ID = typeid.NewDatasetID()
	ds.OwnerID = ownerID
	if err := s.store.CreateDataset(ctx, ds); err != nil {
		return nil, fmt.Errorf("create dataset: %w", err)
	}
	return ds, nil
}

func (s *Service) List(ctx context.Context, ownerID string) ([]store.DatasetSummary, error) {
	list, err := s.store.ListDatasets(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []store.DatasetSummary{}
	}
	return list, nil
}

func (s *Service) Get(ctx context.Context, id, ownerID string) (*dataset.Dataset, error) {
	if typeid.Validate(id, typeid.PrefixDataset) != nil {
		return nil, ErrNotFound
	}
	ds, err := s.store.GetDataset(ctx, id, ownerID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return ds, nil
}

func (s *Service) Delete(ctx context.Context, id, ownerID string) error {
	if typeid.Validate(id, typeid.PrefixDataset) != nil {
		return ErrNotFound
	}
	if err := s.store.DeleteDataset(ctx, id, ownerID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

// DecimatedSeries is one series after decimation.
type DecimatedSeries struct {
	Name          string              `json:"name"`
	Total         int                 `json:"total"`
	Indices       []int               `json:"indices"`
	Points        []dataset.DataPoint `json:"points"`
	AreaDeviation float64             `json:"areaDeviation"`
}

// Decimate reduces every series of a stored dataset.
func (s *Service) Decimate(ctx context.Context, id, ownerID string, cfg decimate.Config, view decimate.View) ([]DecimatedSeries, error) {
	ds, err := s.Get(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}
	return DecimateDataset(ds, cfg, view), nil
}

// DecimateDataset applies cfg to each series of ds.
func DecimateDataset(ds *dataset.Dataset, cfg decimate.Config, view decimate.View) []DecimatedSeries {
	out := make([]DecimatedSeries, len(ds.Series))
	for i, series := range ds.Series {
		indices := decimate.Apply(series.Points, cfg, view)
		if indices == nil {
			indices = []int{}
		}
		kept := dataset.Select(series.Points, indices)
		out[i] = DecimatedSeries{
			Name:          series.Name,
			Total:         series.Len(),
			Indices:       indices,
			Points:        kept,
			AreaDeviation: decimate.AreaDeviation(series.Points, kept),
		}
	}
	return out
}

// Import parses an uploaded table, choosing the reader by file extension.
func Import(r io.Reader, filename, name string) (*dataset.Dataset, error) {
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	}
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return dataset.ReadCSV(r, name)
	case ".xlsx":
		return dataset.ReadXLSX(r, name, "")
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(filename))
	}
}

func validate(ds *dataset.Dataset) error {
	if strings.TrimSpace(ds.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidDataset)
	}
	if len(ds.Series) == 0 {
		return fmt.Errorf("%w: %w", ErrInvalidDataset, dataset.ErrNoSeries)
	}
	for _, s := range ds.Series {
		for i := 1; i < len(s.Points); i++ {
			if s.Points[i].X < s.Points[i-1].X {
				return fmt.Errorf("%w: series %q is not sorted by x", ErrInvalidDataset, s.Name)
			}
		}
	}
	return nil
}
