package service

import (
	"context"
	"log/slog"
	"time"

	"netops-cockpit/internal/event"
	"netops-cockpit/internal/model"
)

type AuditService struct {
	store AuditStore
}

func NewAuditService(store AuditStore) *AuditService {
	return &AuditService{store: store}
}

func (s *AuditService) Log(ctx context.Context, entry model.AuditEntry) {
	if entry.OccurredAt == "" {
		entry.OccurredAt = time.Now().UTC().Format(time.RFC3339Nano)
	}
	if err := s.store.Log(ctx, entry); err != nil {
		slog.Error("failed to write audit entry", "action", entry.Action, "error", err)
	}
}

func (s *AuditService) Query(ctx context.Context, query model.AuditQuery) ([]model.AuditEntry, model.Meta, error) {
	return s.store.Query(ctx, query)
}

// ConsumeEvents turns bus events into audit entries until ctx is cancelled.
// Run it in its own goroutine; services then audit by publishing instead of
// writing trail rows themselves.
func (s *AuditService) ConsumeEvents(ctx context.Context, bus event.Bus) {
	events, unsubscribe := bus.Subscribe()
	defer unsubscribe()

	for {
		select {
		case <-ctx.Done():
			return
		case e, ok := <-events:
			if !ok {
				return
			}
			if entry, ok := entryFromEvent(e); ok {
				s.Log(ctx, entry)
			}
		}
	}
}

func entryFromEvent(e event.Event) (model.AuditEntry, bool) {
	entry := model.AuditEntry{
		OccurredAt: e.Timestamp,
		Actor:      model.AuditActor{Name: e.ActorID},
		Detail:     e.Payload,
	}

	switch e.Type {
	case event.TypeSyncCompleted:
		entry.Action = "inventory.sync"
		entry.Status = "success"
	case event.TypeSyncFailed:
		entry.Action = "inventory.sync"
		entry.Status = "failure"
		if run, ok := e.Payload.(model.SyncRun); ok {
			entry.Error = run.Error
			entry.Resource = run.ID
		}
	case event.TypeEditSetExported:
		entry.Action = "editset.export"
		entry.Status = "success"
	case event.TypeEditSetCleared:
		entry.Action = "editset.clear"
		entry.Status = "success"
	default:
		return model.AuditEntry{}, false
	}

	if run, ok := e.Payload.(model.SyncRun); ok {
		entry.Resource = run.ID
	}
	if payload, ok := e.Payload.(map[string]any); ok {
		if id, ok := payload["edit_set_id"].(string); ok {
			entry.Resource = id
		}
	}

	return entry, true
}
