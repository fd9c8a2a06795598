package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"netops-cockpit/internal/model"
)

type SyncRunRepository struct {
	pool *pgxpool.Pool
}

func NewSyncRunRepository(pool *pgxpool.Pool) *SyncRunRepository {
	return &SyncRunRepository{pool: pool}
}

func (r *SyncRunRepository) Create(ctx context.Context, run model.SyncRun) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO sync_runs
		 (id, status, total_devices, processed_devices, error_text, requested_by, created_at, started_at, finished_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		run.ID, run.Status, run.Total, run.Processed, run.Error, run.RequestedBy,
		run.CreatedAt, run.StartedAt, run.FinishedAt)
	if err != nil {
		return fmt.Errorf("insert sync run: %w", err)
	}
	return nil
}

func (r *SyncRunRepository) Update(ctx context.Context, run model.SyncRun) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE sync_runs
		 SET status = $2, total_devices = $3, processed_devices = $4,
		     error_text = $5, started_at = $6, finished_at = $7
		 WHERE id = $1`,
		run.ID, run.Status, run.Total, run.Processed, run.Error, run.StartedAt, run.FinishedAt)
	if err != nil {
		return fmt.Errorf("update sync run: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrSyncRunNotFound
	}
	return nil
}

func (r *SyncRunRepository) Get(ctx context.Context, id string) (model.SyncRun, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT id, status, total_devices, processed_devices, error_text, requested_by,
		        created_at, started_at, finished_at
		 FROM sync_runs WHERE id = $1`, id)

	run, err := scanSyncRun(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.SyncRun{}, model.ErrSyncRunNotFound
	}
	if err != nil {
		return model.SyncRun{}, fmt.Errorf("query sync run %s: %w", id, err)
	}
	return run, nil
}

func (r *SyncRunRepository) Recent(ctx context.Context, limit int) ([]model.SyncRun, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	rows, err := r.pool.Query(ctx,
		`SELECT id, status, total_devices, processed_devices, error_text, requested_by,
		        created_at, started_at, finished_at
		 FROM sync_runs ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("query sync runs: %w", err)
	}
	defer rows.Close()

	runs := make([]model.SyncRun, 0, limit)
	for rows.Next() {
		run, err := scanSyncRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan sync run: %w", err)
		}
		runs = append(runs, run)
	}

	return runs, rows.Err()
}

func scanSyncRun(row pgx.Row) (model.SyncRun, error) {
	var run model.SyncRun
	err := row.Scan(&run.ID, &run.Status, &run.Total, &run.Processed, &run.Error,
		&run.RequestedBy, &run.CreatedAt, &run.StartedAt, &run.FinishedAt)
	return run, err
}
