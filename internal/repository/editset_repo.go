package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"netops-cockpit/internal/model"
)

type EditSetRepository struct {
	pool *pgxpool.Pool
}

func NewEditSetRepository(pool *pgxpool.Pool) *EditSetRepository {
	return &EditSetRepository{pool: pool}
}

func (r *EditSetRepository) Create(ctx context.Context, set *model.EditSet) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO edit_sets (id, owner, created_at, updated_at)
		 VALUES ($1, $2, $3, $4)`,
		set.ID, set.Owner, set.CreatedAt, set.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert edit set: %w", err)
	}
	return nil
}

func (r *EditSetRepository) Get(ctx context.Context, id string) (*model.EditSet, error) {
	var owner string
	var createdAt, updatedAt time.Time
	err := r.pool.QueryRow(ctx,
		`SELECT owner, created_at, updated_at FROM edit_sets WHERE id = $1`, id).
		Scan(&owner, &createdAt, &updatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrEditSetNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query edit set %s: %w", id, err)
	}

	set := model.NewEditSet(id, owner, createdAt)
	set.UpdatedAt = updatedAt

	rows, err := r.pool.Query(ctx,
		`SELECT device_id, fields FROM edit_set_items
		 WHERE edit_set_id = $1 ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("query edit set items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var deviceID string
		var raw []byte
		if err := rows.Scan(&deviceID, &raw); err != nil {
			return nil, fmt.Errorf("scan edit set item: %w", err)
		}

		var fields map[string]any
		if err := json.Unmarshal(raw, &fields); err != nil {
			return nil, fmt.Errorf("decode edit set item %s: %w", deviceID, err)
		}
		set.Upsert(deviceID, fields)
	}

	return set, rows.Err()
}

// UpsertItem replaces a device's pending partial wholesale, keeping its
// position when it already exists and appending otherwise.
func (r *EditSetRepository) UpsertItem(ctx context.Context, setID string, deviceID string, fields map[string]any, now time.Time) error {
	raw, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("marshal edit fields: %w", err)
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin edit upsert: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	tag, err := tx.Exec(ctx, `UPDATE edit_sets SET updated_at = $2 WHERE id = $1`, setID, now)
	if err != nil {
		return fmt.Errorf("touch edit set: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrEditSetNotFound
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO edit_set_items (edit_set_id, device_id, fields, position)
		 VALUES ($1, $2, $3,
		         (SELECT COALESCE(MAX(position), -1) + 1 FROM edit_set_items WHERE edit_set_id = $1))
		 ON CONFLICT (edit_set_id, device_id) DO UPDATE SET fields = EXCLUDED.fields`,
		setID, deviceID, raw)
	if err != nil {
		return fmt.Errorf("upsert edit set item: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit edit upsert: %w", err)
	}
	return nil
}

func (r *EditSetRepository) DeleteItem(ctx context.Context, setID string, deviceID string, now time.Time) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM edit_set_items WHERE edit_set_id = $1 AND device_id = $2`,
		setID, deviceID)
	if err != nil {
		return fmt.Errorf("delete edit set item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrDeviceNotFound
	}

	if _, err := r.pool.Exec(ctx, `UPDATE edit_sets SET updated_at = $2 WHERE id = $1`, setID, now); err != nil {
		return fmt.Errorf("touch edit set: %w", err)
	}
	return nil
}

// Clear drops all pending edits but keeps the set itself.
func (r *EditSetRepository) Clear(ctx context.Context, setID string, now time.Time) error {
	tag, err := r.pool.Exec(ctx, `UPDATE edit_sets SET updated_at = $2 WHERE id = $1`, setID, now)
	if err != nil {
		return fmt.Errorf("touch edit set: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrEditSetNotFound
	}

	if _, err := r.pool.Exec(ctx, `DELETE FROM edit_set_items WHERE edit_set_id = $1`, setID); err != nil {
		return fmt.Errorf("clear edit set items: %w", err)
	}
	return nil
}

func (r *EditSetRepository) Delete(ctx context.Context, setID string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM edit_sets WHERE id = $1`, setID)
	if err != nil {
		return fmt.Errorf("delete edit set: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrEditSetNotFound
	}
	return nil
}
