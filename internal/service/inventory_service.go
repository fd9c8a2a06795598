package service

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"netops-cockpit/internal/model"
	"netops-cockpit/internal/nautobot"
	"netops-cockpit/internal/tabular"
	"netops-cockpit/pkg/apierror"
)

// DeviceListQuery carries the dashboard's device table state: one predicate
// per filterable column, the role checkbox set, and the page window.
type DeviceListQuery struct {
	Name     string
	Location string
	Status   string
	Query    string

	// Checked / unchecked role names; roles in neither list stay visible.
	Roles        []string
	ExcludeRoles []string

	Source string // "snapshot" (default) or "live"
	Page   int    // 1-based
	Limit  int
}

type InventoryService struct {
	store    DeviceStore
	upstream Upstream
}

func NewInventoryService(store DeviceStore, upstream Upstream) *InventoryService {
	return &InventoryService{store: store, upstream: upstream}
}

// ListDevices resolves the record list (snapshot first, live on demand or
// when no sync has run yet), filters it, and returns the requested page.
func (s *InventoryService) ListDevices(ctx context.Context, q DeviceListQuery) ([]model.Record, model.Meta, error) {
	records, err := s.resolveRecords(ctx, q.Source)
	if err != nil {
		return nil, model.Meta{}, err
	}

	preds := tabular.Predicates{
		"name":     {Value: strings.TrimSpace(q.Name)},
		"location": {Value: strings.TrimSpace(q.Location), Exact: true},
		"status":   {Value: strings.TrimSpace(q.Status), Exact: true},
	}
	if query := strings.TrimSpace(q.Query); query != "" {
		preds["name"] = tabular.Predicate{Value: query}
	}

	filtered := tabular.Filter(records, preds, roleSelection(q.Roles, q.ExcludeRoles))

	limit := q.Limit
	if limit <= 0 {
		limit = 50
	}
	if limit > 500 {
		limit = 500
	}

	page := tabular.ClampPage(q.Page-1, len(filtered), limit)
	window := tabular.Paginate(len(filtered), page, limit)

	meta := model.Meta{
		Page:       page + 1,
		Limit:      limit,
		Total:      len(filtered),
		TotalPages: window.TotalPages,
	}

	return tabular.Slice(filtered, page, limit), meta, nil
}

func (s *InventoryService) GetDevice(ctx context.Context, id string) (model.Record, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apierror.BadRequest("device id is required", "device_id")
	}

	rec, err := s.store.Get(ctx, id)
	if err == nil {
		return rec, nil
	}
	if !errors.Is(err, model.ErrDeviceNotFound) {
		return nil, err
	}

	// Not in the snapshot; the device may have been onboarded since the
	// last sync, so fall through to the upstream before giving up.
	live, liveErr := s.upstream.Devices(ctx, nautobot.DeviceQuery{})
	if liveErr != nil {
		return nil, model.ErrDeviceNotFound
	}
	for _, rec := range live {
		if rec.ID() == id {
			return rec, nil
		}
	}
	return nil, model.ErrDeviceNotFound
}

// SnapshotAge reports how stale the local snapshot is; ok is false when no
// sync has completed yet.
func (s *InventoryService) SnapshotAge(ctx context.Context) (time.Duration, bool, error) {
	syncedAt, err := s.store.LastSyncedAt(ctx)
	if err != nil {
		return 0, false, err
	}
	if syncedAt.IsZero() {
		return 0, false, nil
	}
	return time.Since(syncedAt), true, nil
}

func (s *InventoryService) resolveRecords(ctx context.Context, source string) ([]model.Record, error) {
	switch strings.ToLower(strings.TrimSpace(source)) {
	case "", "snapshot":
		records, err := s.store.List(ctx)
		if err != nil {
			return nil, err
		}
		if len(records) > 0 {
			return records, nil
		}
		// Empty snapshot means no sync has run; serve live rather than
		// presenting an empty inventory.
		return s.upstream.Devices(ctx, nautobot.DeviceQuery{})
	case "live":
		return s.upstream.Devices(ctx, nautobot.DeviceQuery{})
	default:
		return nil, apierror.New("BAD_REQUEST", "source must be one of: snapshot|live", source, http.StatusBadRequest)
	}
}

func roleSelection(roles []string, excluded []string) tabular.MultiSelect {
	if len(roles) == 0 && len(excluded) == 0 {
		return tabular.MultiSelect{}
	}

	include := make(map[string]bool, len(roles)+len(excluded))
	for _, role := range excluded {
		if role = strings.TrimSpace(role); role != "" {
			include[role] = false
		}
	}
	for _, role := range roles {
		if role = strings.TrimSpace(role); role != "" {
			include[role] = true
		}
	}

	return tabular.MultiSelect{Field: "role", Include: include}
}
