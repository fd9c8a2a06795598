package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"netops-cockpit/internal/event"
	"netops-cockpit/internal/model"
	"netops-cockpit/internal/nautobot"
)

// SyncService pulls the device inventory from Nautobot into the local
// snapshot as a background job. One run at a time: the inventory refresh
// replaces the whole snapshot, so overlapping runs would only race.
type SyncService struct {
	upstream   Upstream
	devices    DeviceStore
	runs       SyncRunStore
	bus        event.Bus
	invalidate func()
	timeout    time.Duration

	mu     sync.Mutex
	active string

	queue chan string
	now   func() time.Time
}

func NewSyncService(upstream Upstream, devices DeviceStore, runs SyncRunStore, bus event.Bus, invalidate func(), timeout time.Duration) *SyncService {
	if timeout <= 0 {
		timeout = 10 * time.Minute
	}
	if invalidate == nil {
		invalidate = func() {}
	}

	s := &SyncService{
		upstream:   upstream,
		devices:    devices,
		runs:       runs,
		bus:        bus,
		invalidate: invalidate,
		timeout:    timeout,
		queue:      make(chan string, 16),
		now:        func() time.Time { return time.Now().UTC() },
	}

	go s.workerLoop()
	return s
}

func (s *SyncService) Start(ctx context.Context, requestedBy string) (model.SyncRun, error) {
	s.mu.Lock()
	if s.active != "" {
		s.mu.Unlock()
		return model.SyncRun{}, model.ErrSyncAlreadyRunning
	}

	run := model.SyncRun{
		ID:          uuid.NewString(),
		Status:      model.SyncStatusQueued,
		RequestedBy: requestedBy,
		CreatedAt:   s.now(),
	}
	s.active = run.ID
	s.mu.Unlock()

	if err := s.runs.Create(ctx, run); err != nil {
		s.mu.Lock()
		s.active = ""
		s.mu.Unlock()
		return model.SyncRun{}, err
	}

	s.queue <- run.ID
	return run, nil
}

func (s *SyncService) GetRun(ctx context.Context, id string) (model.SyncRun, error) {
	// The run id column is a UUID; screen malformed ids here so they read
	// as not found instead of a driver encoding error.
	if uuid.Validate(id) != nil {
		return model.SyncRun{}, model.ErrSyncRunNotFound
	}
	return s.runs.Get(ctx, id)
}

func (s *SyncService) RecentRuns(ctx context.Context, limit int) ([]model.SyncRun, error) {
	return s.runs.Recent(ctx, limit)
}

func (s *SyncService) workerLoop() {
	for runID := range s.queue {
		s.process(runID)

		s.mu.Lock()
		s.active = ""
		s.mu.Unlock()
	}
}

func (s *SyncService) process(runID string) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	run, err := s.runs.Get(ctx, runID)
	if err != nil {
		return
	}

	started := s.now()
	run.Status = model.SyncStatusRunning
	run.StartedAt = &started
	_ = s.runs.Update(ctx, run)
	s.publish(event.TypeSyncStarted, run)

	records, err := s.upstream.Devices(ctx, nautobot.DeviceQuery{})
	if err != nil {
		s.fail(ctx, run, err)
		return
	}

	run.Total = len(records)
	_ = s.runs.Update(ctx, run)
	s.publish(event.TypeSyncProgress, run)

	syncedAt := s.now()
	snapshots := make([]model.DeviceSnapshot, 0, len(records))
	for _, rec := range records {
		if rec.ID() == "" {
			continue
		}
		snapshots = append(snapshots, model.SnapshotFromRecord(rec, syncedAt))
	}

	if err := s.devices.ReplaceAll(ctx, snapshots); err != nil {
		s.fail(ctx, run, err)
		return
	}

	finished := s.now()
	run.Status = model.SyncStatusCompleted
	run.Processed = len(snapshots)
	run.FinishedAt = &finished
	_ = s.runs.Update(ctx, run)

	s.invalidate()
	s.publish(event.TypeSyncCompleted, run)
}

func (s *SyncService) fail(ctx context.Context, run model.SyncRun, cause error) {
	finished := s.now()
	run.Status = model.SyncStatusFailed
	run.Error = cause.Error()
	run.FinishedAt = &finished
	_ = s.runs.Update(ctx, run)
	s.publish(event.TypeSyncFailed, run)
}

func (s *SyncService) publish(t event.Type, run model.SyncRun) {
	s.bus.Publish(event.Event{
		ID:        uuid.NewString(),
		Type:      t,
		Payload:   run,
		Timestamp: s.now().Format(time.RFC3339Nano),
		ActorID:   run.RequestedBy,
	})
}
