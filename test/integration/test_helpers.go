//go:build integration

package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"netops-cockpit/internal/cache"
	"netops-cockpit/internal/config"
	"netops-cockpit/internal/event"
	"netops-cockpit/internal/handler"
	"netops-cockpit/internal/model"
	"netops-cockpit/internal/nautobot"
	"netops-cockpit/internal/router"
	"netops-cockpit/internal/service"
)

// nautobotFixture is the device inventory the fake Nautobot serves.
var nautobotFixture = []map[string]any{
	{
		"id":   "dev1",
		"name": "core-sw-01",
		"role": map[string]any{"name": "core"},
		"location": map[string]any{"name": "Berlin"},
		"primary_ip4": map[string]any{"address": "10.0.0.1/24"},
		"status": map[string]any{"name": "Active"},
		"device_type": map[string]any{"model": "C9500"},
	},
	{
		"id":   "dev2",
		"name": "edge-rt-01",
		"role": map[string]any{"name": "edge"},
		"location": map[string]any{"name": "Amsterdam"},
		"primary_ip4": map[string]any{"address": "10.0.1.1/24"},
		"status": map[string]any{"name": "Planned"},
		"device_type": map[string]any{"model": "ASR1001"},
	},
	{
		"id":   "dev3",
		"name": "access-sw-01",
		"role": map[string]any{"name": "access"},
		"location": map[string]any{"name": "Berlin"},
		"primary_ip4": map[string]any{"address": "10.0.2.1/24"},
		"status": map[string]any{"name": "Active"},
		"device_type": map[string]any{"model": "C9300"},
	},
}

// newFakeNautobot serves just enough GraphQL for the client under test.
func newFakeNautobot(t *testing.T) *httptest.Server {
	t.Helper()

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/" {
			w.Header().Set("API-Version", "2.4")
			w.WriteHeader(http.StatusOK)
			return
		}

		require.Equal(t, "/api/graphql/", r.URL.Path)
		require.Equal(t, "Token test-token", r.Header.Get("Authorization"))

		var payload struct {
			Query     string         `json:"query"`
			Variables map[string]any `json:"variables"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))

		var data map[string]any
		switch {
		case strings.Contains(payload.Query, "ip_addresses"):
			data = map[string]any{
				"devices":      idsOf(nautobotFixture),
				"locations":    []map[string]any{{"id": "loc1"}, {"id": "loc2"}},
				"namespaces":   []map[string]any{{"id": "ns1"}},
				"ip_addresses": []map[string]any{{"id": "ip1"}, {"id": "ip2"}, {"id": "ip3"}},
				"prefixes":     []map[string]any{{"id": "pfx1"}},
			}
		case strings.Contains(payload.Query, "query locations"):
			data = map[string]any{
				"locations": []map[string]any{
					{"id": "loc1", "name": "Berlin", "description": ""},
					{"id": "loc2", "name": "Rack 1", "description": "", "parent": map[string]any{"id": "loc1", "name": "Berlin"}},
				},
			}
		case strings.Contains(payload.Query, "namespaces"):
			data = map[string]any{
				"namespaces": []map[string]any{
					{"id": "ns1", "name": "Global", "description": "default namespace"},
				},
			}
		case strings.Contains(payload.Query, "devices_by_name"):
			data = map[string]any{"devices": filterByName(payload.Variables)}
		default:
			data = map[string]any{"devices": nautobotFixture}
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"data": data})
	}))
}

func idsOf(devices []map[string]any) []map[string]any {
	out := make([]map[string]any, 0, len(devices))
	for _, d := range devices {
		out = append(out, map[string]any{"id": d["id"]})
	}
	return out
}

func filterByName(vars map[string]any) []map[string]any {
	filters, _ := vars["name_filter"].([]any)
	if len(filters) == 0 {
		return nautobotFixture
	}
	needle, _ := filters[0].(string)
	needle = strings.ToLower(needle)

	out := make([]map[string]any, 0)
	for _, d := range nautobotFixture {
		name, _ := d["name"].(string)
		if strings.Contains(strings.ToLower(name), needle) {
			out = append(out, d)
		}
	}
	return out
}

type okDatabase struct{}

func (okDatabase) Health(_ context.Context) error { return nil }

type testEnv struct {
	server  *httptest.Server
	devices *memDeviceStore
	runs    *memSyncRunStore
	audit   *memAuditStore
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	upstreamServer := newFakeNautobot(t)
	t.Cleanup(upstreamServer.Close)

	client := nautobot.NewClient(upstreamServer.URL, "test-token", 10*time.Second)

	devices := &memDeviceStore{}
	editSets := newMemEditSetStore()
	runs := newMemSyncRunStore()
	audit := &memAuditStore{}

	metadataCache := cache.New(10 * time.Minute)
	bus := event.NewBus()

	inventoryService := service.NewInventoryService(devices, client)
	locationService := service.NewLocationService(client, metadataCache)
	metadataService := service.NewMetadataService(client, metadataCache)
	editSetService := service.NewEditSetService(editSets, bus)
	exportService := service.NewExportService(editSets, bus)
	syncService := service.NewSyncService(client, devices, runs, bus, metadataService.InvalidateCache, time.Minute)
	auditService := service.NewAuditService(audit)

	auditCtx, auditCancel := context.WithCancel(context.Background())
	t.Cleanup(auditCancel)
	go auditService.ConsumeEvents(auditCtx, bus)

	cfg := &config.Config{
		ServerPort:         "8080",
		RequestTimeout:     30 * time.Second,
		CORSOrigins:        []string{"*"},
		RateLimitRPM:       1000,
		ExportRateLimitRPM: 1000,
	}

	server := httptest.NewServer(router.New(
		cfg,
		handler.NewHealthHandler(okDatabase{}, client, inventoryService),
		handler.NewInventoryHandler(inventoryService),
		handler.NewLocationHandler(locationService),
		handler.NewMetadataHandler(metadataService),
		handler.NewEditSetHandler(editSetService),
		handler.NewExportHandler(exportService),
		handler.NewSyncHandler(syncService),
		handler.NewAuditHandler(auditService),
	))
	t.Cleanup(server.Close)

	return &testEnv{server: server, devices: devices, runs: runs, audit: audit}
}

func doJSON(t *testing.T, method string, url string, body any) *http.Response {
	t.Helper()

	var reader *bytes.Reader
	if body == nil {
		reader = bytes.NewReader([]byte{})
	} else {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	req.Header.Set("X-Actor", "ops")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)

	return resp
}

func decodeEnvelope(t *testing.T, resp *http.Response, data any) (bool, *model.Meta) {
	t.Helper()
	defer resp.Body.Close()

	var envelope struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
		Meta    *model.Meta     `json:"meta"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	if data != nil && len(envelope.Data) > 0 {
		require.NoError(t, json.Unmarshal(envelope.Data, data))
	}

	return envelope.Success, envelope.Meta
}

type memDeviceStore struct {
	mu       sync.Mutex
	records  []model.Record
	syncedAt time.Time
}

func (m *memDeviceStore) ReplaceAll(_ context.Context, devices []model.DeviceSnapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = nil
	for _, d := range devices {
		m.records = append(m.records, d.Payload)
		m.syncedAt = d.SyncedAt
	}
	return nil
}

func (m *memDeviceStore) List(_ context.Context) ([]model.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.Record, len(m.records))
	copy(out, m.records)
	return out, nil
}

func (m *memDeviceStore) Get(_ context.Context, id string) (model.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, rec := range m.records {
		if rec.ID() == id {
			return rec, nil
		}
	}
	return nil, model.ErrDeviceNotFound
}

func (m *memDeviceStore) Count(_ context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.records), nil
}

func (m *memDeviceStore) LastSyncedAt(_ context.Context) (time.Time, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.syncedAt, nil
}

type memEditSetStore struct {
	mu   sync.Mutex
	sets map[string]*model.EditSet
}

func newMemEditSetStore() *memEditSetStore {
	return &memEditSetStore{sets: map[string]*model.EditSet{}}
}

func (m *memEditSetStore) Create(_ context.Context, set *model.EditSet) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sets[set.ID] = set
	return nil
}

func (m *memEditSetStore) Get(_ context.Context, id string) (*model.EditSet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	set, ok := m.sets[id]
	if !ok {
		return nil, model.ErrEditSetNotFound
	}
	return set, nil
}

func (m *memEditSetStore) UpsertItem(_ context.Context, setID string, deviceID string, fields map[string]any, now time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	set, ok := m.sets[setID]
	if !ok {
		return model.ErrEditSetNotFound
	}
	set.Upsert(deviceID, fields)
	set.UpdatedAt = now
	return nil
}

func (m *memEditSetStore) DeleteItem(_ context.Context, setID string, deviceID string, now time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	set, ok := m.sets[setID]
	if !ok {
		return model.ErrEditSetNotFound
	}
	if !set.Remove(deviceID) {
		return model.ErrDeviceNotFound
	}
	set.UpdatedAt = now
	return nil
}

func (m *memEditSetStore) Clear(_ context.Context, setID string, now time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	set, ok := m.sets[setID]
	if !ok {
		return model.ErrEditSetNotFound
	}
	set.Clear()
	set.UpdatedAt = now
	return nil
}

func (m *memEditSetStore) Delete(_ context.Context, setID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sets[setID]; !ok {
		return model.ErrEditSetNotFound
	}
	delete(m.sets, setID)
	return nil
}

type memSyncRunStore struct {
	mu   sync.Mutex
	runs map[string]model.SyncRun
}

func newMemSyncRunStore() *memSyncRunStore {
	return &memSyncRunStore{runs: map[string]model.SyncRun{}}
}

func (m *memSyncRunStore) Create(_ context.Context, run model.SyncRun) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runs[run.ID] = run
	return nil
}

func (m *memSyncRunStore) Update(_ context.Context, run model.SyncRun) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.runs[run.ID]; !ok {
		return model.ErrSyncRunNotFound
	}
	m.runs[run.ID] = run
	return nil
}

func (m *memSyncRunStore) Get(_ context.Context, id string) (model.SyncRun, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	run, ok := m.runs[id]
	if !ok {
		return model.SyncRun{}, model.ErrSyncRunNotFound
	}
	return run, nil
}

func (m *memSyncRunStore) Recent(_ context.Context, limit int) ([]model.SyncRun, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	runs := make([]model.SyncRun, 0, len(m.runs))
	for _, run := range m.runs {
		runs = append(runs, run)
	}
	if limit > 0 && len(runs) > limit {
		runs = runs[:limit]
	}
	return runs, nil
}

type memAuditStore struct {
	mu      sync.Mutex
	entries []model.AuditEntry
}

func (m *memAuditStore) Log(_ context.Context, entry model.AuditEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, entry)
	return nil
}

func (m *memAuditStore) Query(_ context.Context, _ model.AuditQuery) ([]model.AuditEntry, model.Meta, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.AuditEntry, len(m.entries))
	copy(out, m.entries)
	return out, model.Meta{Page: 1, Limit: 50, Total: len(out), TotalPages: 1}, nil
}
