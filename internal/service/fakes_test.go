package service

import (
	"context"
	"sync"
	"time"

	"netops-cockpit/internal/model"
	"netops-cockpit/internal/nautobot"
)

type fakeUpstream struct {
	mu         sync.Mutex
	devices    []model.Record
	locations  []model.Location
	namespaces []model.Namespace
	stats      model.Stats
	err        error
	calls      int
}

func (f *fakeUpstream) Devices(_ context.Context, _ nautobot.DeviceQuery) ([]model.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.devices, nil
}

func (f *fakeUpstream) Locations(_ context.Context) ([]model.Location, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.locations, nil
}

func (f *fakeUpstream) Namespaces(_ context.Context) ([]model.Namespace, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.namespaces, nil
}

func (f *fakeUpstream) Stats(_ context.Context) (model.Stats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return model.Stats{}, f.err
	}
	return f.stats, nil
}

func (f *fakeUpstream) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeDeviceStore struct {
	mu       sync.Mutex
	records  []model.Record
	syncedAt time.Time
	err      error
}

func (f *fakeDeviceStore) ReplaceAll(_ context.Context, devices []model.DeviceSnapshot) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.records = nil
	for _, d := range devices {
		f.records = append(f.records, d.Payload)
		f.syncedAt = d.SyncedAt
	}
	return nil
}

func (f *fakeDeviceStore) List(_ context.Context) ([]model.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.records, nil
}

func (f *fakeDeviceStore) Get(_ context.Context, id string) (model.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, rec := range f.records {
		if rec.ID() == id {
			return rec, nil
		}
	}
	return nil, model.ErrDeviceNotFound
}

func (f *fakeDeviceStore) Count(_ context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.records), nil
}

func (f *fakeDeviceStore) LastSyncedAt(_ context.Context) (time.Time, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.syncedAt, nil
}

type fakeEditSetStore struct {
	mu   sync.Mutex
	sets map[string]*model.EditSet
}

func newFakeEditSetStore() *fakeEditSetStore {
	return &fakeEditSetStore{sets: map[string]*model.EditSet{}}
}

func (f *fakeEditSetStore) Create(_ context.Context, set *model.EditSet) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sets[set.ID] = set
	return nil
}

func (f *fakeEditSetStore) Get(_ context.Context, id string) (*model.EditSet, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	set, ok := f.sets[id]
	if !ok {
		return nil, model.ErrEditSetNotFound
	}
	return set, nil
}

func (f *fakeEditSetStore) UpsertItem(_ context.Context, setID string, deviceID string, fields map[string]any, now time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	set, ok := f.sets[setID]
	if !ok {
		return model.ErrEditSetNotFound
	}
	set.Upsert(deviceID, fields)
	set.UpdatedAt = now
	return nil
}

func (f *fakeEditSetStore) DeleteItem(_ context.Context, setID string, deviceID string, now time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	set, ok := f.sets[setID]
	if !ok {
		return model.ErrEditSetNotFound
	}
	if !set.Remove(deviceID) {
		return model.ErrDeviceNotFound
	}
	set.UpdatedAt = now
	return nil
}

func (f *fakeEditSetStore) Clear(_ context.Context, setID string, now time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	set, ok := f.sets[setID]
	if !ok {
		return model.ErrEditSetNotFound
	}
	set.Clear()
	set.UpdatedAt = now
	return nil
}

func (f *fakeEditSetStore) Delete(_ context.Context, setID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.sets[setID]; !ok {
		return model.ErrEditSetNotFound
	}
	delete(f.sets, setID)
	return nil
}

type fakeSyncRunStore struct {
	mu   sync.Mutex
	runs map[string]model.SyncRun
}

func newFakeSyncRunStore() *fakeSyncRunStore {
	return &fakeSyncRunStore{runs: map[string]model.SyncRun{}}
}

func (f *fakeSyncRunStore) Create(_ context.Context, run model.SyncRun) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.runs[run.ID] = run
	return nil
}

func (f *fakeSyncRunStore) Update(_ context.Context, run model.SyncRun) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.runs[run.ID]; !ok {
		return model.ErrSyncRunNotFound
	}
	f.runs[run.ID] = run
	return nil
}

func (f *fakeSyncRunStore) Get(_ context.Context, id string) (model.SyncRun, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	run, ok := f.runs[id]
	if !ok {
		return model.SyncRun{}, model.ErrSyncRunNotFound
	}
	return run, nil
}

func (f *fakeSyncRunStore) Recent(_ context.Context, limit int) ([]model.SyncRun, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	runs := make([]model.SyncRun, 0, len(f.runs))
	for _, run := range f.runs {
		runs = append(runs, run)
	}
	if limit > 0 && len(runs) > limit {
		runs = runs[:limit]
	}
	return runs, nil
}

type fakeAuditStore struct {
	mu      sync.Mutex
	entries []model.AuditEntry
}

func (f *fakeAuditStore) Log(_ context.Context, entry model.AuditEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, entry)
	return nil
}

func (f *fakeAuditStore) Query(_ context.Context, _ model.AuditQuery) ([]model.AuditEntry, model.Meta, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]model.AuditEntry, len(f.entries))
	copy(out, f.entries)
	return out, model.Meta{Page: 1, Limit: 50, Total: len(out), TotalPages: 1}, nil
}
