package service

import (
	"context"
	"time"

	"netops-cockpit/internal/model"
	"netops-cockpit/internal/nautobot"
)

// Upstream is the slice of the Nautobot client the services depend on.
type Upstream interface {
	Devices(ctx context.Context, q nautobot.DeviceQuery) ([]model.Record, error)
	Locations(ctx context.Context) ([]model.Location, error)
	Namespaces(ctx context.Context) ([]model.Namespace, error)
	Stats(ctx context.Context) (model.Stats, error)
}

// DeviceStore persists the synced inventory snapshot.
type DeviceStore interface {
	ReplaceAll(ctx context.Context, devices []model.DeviceSnapshot) error
	List(ctx context.Context) ([]model.Record, error)
	Get(ctx context.Context, id string) (model.Record, error)
	Count(ctx context.Context) (int, error)
	LastSyncedAt(ctx context.Context) (time.Time, error)
}

// EditSetStore persists pending bulk edits.
type EditSetStore interface {
	Create(ctx context.Context, set *model.EditSet) error
	Get(ctx context.Context, id string) (*model.EditSet, error)
	UpsertItem(ctx context.Context, setID string, deviceID string, fields map[string]any, now time.Time) error
	DeleteItem(ctx context.Context, setID string, deviceID string, now time.Time) error
	Clear(ctx context.Context, setID string, now time.Time) error
	Delete(ctx context.Context, setID string) error
}

// SyncRunStore persists sync run lifecycles.
type SyncRunStore interface {
	Create(ctx context.Context, run model.SyncRun) error
	Update(ctx context.Context, run model.SyncRun) error
	Get(ctx context.Context, id string) (model.SyncRun, error)
	Recent(ctx context.Context, limit int) ([]model.SyncRun, error)
}

// AuditStore records and queries the audit trail.
type AuditStore interface {
	Log(ctx context.Context, entry model.AuditEntry) error
	Query(ctx context.Context, query model.AuditQuery) ([]model.AuditEntry, model.Meta, error)
}
