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

type DeviceRepository struct {
	pool *pgxpool.Pool
}

func NewDeviceRepository(pool *pgxpool.Pool) *DeviceRepository {
	return &DeviceRepository{pool: pool}
}

// ReplaceAll swaps the whole snapshot table for the given device set in one
// transaction, so readers never observe a half-synced inventory.
func (r *DeviceRepository) ReplaceAll(ctx context.Context, devices []model.DeviceSnapshot) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin snapshot refresh: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM device_snapshots`); err != nil {
		return fmt.Errorf("clear device snapshots: %w", err)
	}

	for _, d := range devices {
		payload, err := json.Marshal(d.Payload)
		if err != nil {
			return fmt.Errorf("marshal device payload %s: %w", d.ID, err)
		}

		_, err = tx.Exec(ctx,
			`INSERT INTO device_snapshots
			 (id, name, role, location, status, primary_ip4, payload, synced_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			d.ID, d.Name, d.Role, d.Location, d.Status, d.PrimaryIP4, payload, d.SyncedAt)
		if err != nil {
			return fmt.Errorf("insert device snapshot %s: %w", d.ID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit snapshot refresh: %w", err)
	}
	return nil
}

// List returns every device payload, name-ordered. Filtering and paging
// happen in the tabular layer over this full snapshot.
func (r *DeviceRepository) List(ctx context.Context) ([]model.Record, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT payload FROM device_snapshots ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("query device snapshots: %w", err)
	}
	defer rows.Close()

	records := make([]model.Record, 0)
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scan device snapshot: %w", err)
		}

		var rec model.Record
		if err := json.Unmarshal(payload, &rec); err != nil {
			return nil, fmt.Errorf("decode device payload: %w", err)
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}

func (r *DeviceRepository) Get(ctx context.Context, id string) (model.Record, error) {
	var payload []byte
	err := r.pool.QueryRow(ctx,
		`SELECT payload FROM device_snapshots WHERE id = $1`, id).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrDeviceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query device snapshot %s: %w", id, err)
	}

	var rec model.Record
	if err := json.Unmarshal(payload, &rec); err != nil {
		return nil, fmt.Errorf("decode device payload: %w", err)
	}
	return rec, nil
}

func (r *DeviceRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM device_snapshots`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count device snapshots: %w", err)
	}
	return count, nil
}

// LastSyncedAt reports the snapshot's freshness; zero time when empty.
func (r *DeviceRepository) LastSyncedAt(ctx context.Context) (time.Time, error) {
	var ts *time.Time
	if err := r.pool.QueryRow(ctx, `SELECT MAX(synced_at) FROM device_snapshots`).Scan(&ts); err != nil {
		return time.Time{}, fmt.Errorf("query snapshot freshness: %w", err)
	}
	if ts == nil {
		return time.Time{}, nil
	}
	return *ts, nil
}
