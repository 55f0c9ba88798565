package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"

	"underwriting_engine/pkg/models"
)

// SizingRepository is the persistence contract the orchestrator depends on.
// The pgx-backed SizingRepo is the production implementation; tests inject
// in-memory substitutes.
type SizingRepository interface {
	SaveRun(ctx context.Context, run *models.SizingRun) error
	LoadRun(ctx context.Context, id string) (*models.SizingRun, error)
	ListRecent(ctx context.Context, limit int) ([]models.RunHeader, error)
}

// SizingRepo stores each sizing run as a JSONB blob keyed by run id.
//
// Schema assumption (managed by migrations, not this package):
//
//	CREATE TABLE IF NOT EXISTS sizing_runs (
//	  id TEXT PRIMARY KEY,
//	  project_name TEXT,
//	  run_json JSONB,
//	  created_at TIMESTAMPTZ
//	);
type SizingRepo struct{}

// NewSizingRepo creates a new repository instance.
func NewSizingRepo() *SizingRepo {
	return &SizingRepo{}
}

// SaveRun persists a run, upserting on id so a re-run with a pinned id
// replaces its previous payload.
func (r *SizingRepo) SaveRun(ctx context.Context, run *models.SizingRun) error {
	pool := GetPool()
	if pool == nil {
		return fmt.Errorf("database pool not initialized")
	}

	jsonData, err := json.Marshal(run)
	if err != nil {
		return fmt.Errorf("failed to marshal sizing run: %w", err)
	}

	query := `
		INSERT INTO sizing_runs (id, project_name, run_json, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id)
		DO UPDATE SET
			project_name = EXCLUDED.project_name,
			run_json = EXCLUDED.run_json,
			created_at = EXCLUDED.created_at;
	`

	_, err = pool.Exec(ctx, query, run.ID, run.ProjectName, jsonData, run.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save sizing run: %w", err)
	}
	return nil
}

// LoadRun retrieves a stored run by id.
func (r *SizingRepo) LoadRun(ctx context.Context, id string) (*models.SizingRun, error) {
	pool := GetPool()
	if pool == nil {
		return nil, fmt.Errorf("database pool not initialized")
	}

	query := `SELECT run_json FROM sizing_runs WHERE id = $1`

	var jsonData []byte
	err := pool.QueryRow(ctx, query, id).Scan(&jsonData)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("no sizing run found for id %s", id)
		}
		return nil, fmt.Errorf("failed to load sizing run: %w", err)
	}

	var run models.SizingRun
	if err := json.Unmarshal(jsonData, &run); err != nil {
		return nil, fmt.Errorf("failed to unmarshal sizing run: %w", err)
	}
	return &run, nil
}

// ListRecent returns headers for the most recent runs, newest first.
func (r *SizingRepo) ListRecent(ctx context.Context, limit int) ([]models.RunHeader, error) {
	pool := GetPool()
	if pool == nil {
		return nil, fmt.Errorf("database pool not initialized")
	}
	if limit <= 0 {
		limit = 20
	}

	query := `SELECT id, project_name, created_at FROM sizing_runs ORDER BY created_at DESC LIMIT $1`

	rows, err := pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list sizing runs: %w", err)
	}
	defer rows.Close()

	headers := make([]models.RunHeader, 0, limit)
	for rows.Next() {
		var h models.RunHeader
		if err := rows.Scan(&h.ID, &h.ProjectName, &h.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan sizing run row: %w", err)
		}
		headers = append(headers, h)
	}
	return headers, rows.Err()
}
