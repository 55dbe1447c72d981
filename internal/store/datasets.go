package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/inamate/chartgeo/internal/dataset"
)

const timeFormat = "2006-01-02T15:04:05Z"

// DatasetSummary is a dataset without its points.
type DatasetSummary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	SeriesCount int    `json:"seriesCount"`
	PointCount  int    `json:"pointCount"`
	CreatedAt   string `json:"createdAt"`
}

// CreateDataset stores ds and fills in its CreatedAt.
func (s *Store) CreateDataset(ctx context.Context, ds *dataset.Dataset) error {
	series, err := json.Marshal(ds.Series)
	if err != nil {
		return fmt.Errorf("marshal series: %w", err)
	}

	var created time.Time
	err = s.db.QueryRow(ctx,
		`INSERT INTO datasets (id, owner_id, name, series, series_count, point_count)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING created_at`,
		ds.ID, ds.OwnerID, ds.Name, series, len(ds.Series), ds.PointCount(),
	).Scan(&created)
	if err != nil {
		if isDuplicateKeyError(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("create dataset: %w", err)
	}
	ds.CreatedAt = created.UTC().Format(timeFormat)
	return nil
}

func (s *Store) ListDatasets(ctx context.Context, ownerID string) ([]DatasetSummary, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, name, series_count, point_count, created_at
		 FROM datasets WHERE owner_id = $1
		 ORDER BY created_at DESC`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("list datasets: %w", err)
	}

	summaries, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (DatasetSummary, error) {
		var d DatasetSummary
		var created time.Time
		err := row.Scan(&d.ID, &d.Name, &d.SeriesCount, &d.PointCount, &created)
		d.CreatedAt = created.UTC().Format(timeFormat)
		return d, err
	})
	if err != nil {
		return nil, fmt.Errorf("list datasets: %w", err)
	}
	return summaries, nil
}

// GetDataset loads a dataset owned by ownerID.
func (s *Store) GetDataset(ctx context.Context, id, ownerID string) (*dataset.Dataset, error) {
	var (
		ds      dataset.Dataset
		series  []byte
		created time.Time
	)
	err := s.db.QueryRow(ctx,
		`SELECT id, owner_id, name, series, created_at
		 FROM datasets WHERE id = $1 AND owner_id = $2`,
		id, ownerID,
	).Scan(&ds.ID, &ds.OwnerID, &ds.Name, &series, &created)
	if err != nil {
		return nil, fmt.Errorf("get dataset: %w", notFound(err))
	}
	if err := json.Unmarshal(series, &ds.Series); err != nil {
		return nil, fmt.Errorf("decode series: %w", err)
	}
	ds.CreatedAt = created.UTC().Format(timeFormat)
	return &ds, nil
}

func (s *Store) DeleteDataset(ctx context.Context, id, ownerID string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM datasets WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete dataset: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
