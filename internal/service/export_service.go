package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"netops-cockpit/internal/csvexport"
	"netops-cockpit/internal/event"
	"netops-cockpit/internal/model"
)

type ExportService struct {
	sets EditSetStore
	bus  event.Bus
	now  func() time.Time
}

func NewExportService(sets EditSetStore, bus event.Bus) *ExportService {
	return &ExportService{sets: sets, bus: bus, now: func() time.Time { return time.Now().UTC() }}
}

type ExportResult struct {
	Filename string
	CSV      string
	Rows     int
}

// Export validates the edit set and renders it as a CSV document ready for
// the bulk-import pipeline. The set is left intact; clearing after a
// successful import is the client's call.
func (s *ExportService) Export(ctx context.Context, setID string, opts csvexport.Options, actor model.AuditActor) (ExportResult, error) {
	if err := validSetID(setID); err != nil {
		return ExportResult{}, err
	}

	set, err := s.sets.Get(ctx, setID)
	if err != nil {
		return ExportResult{}, err
	}

	if err := csvexport.Validate(set); err != nil {
		return ExportResult{}, err
	}

	raw, err := csvexport.Serialize(set, opts)
	if err != nil {
		return ExportResult{}, err
	}

	now := s.now()
	result := ExportResult{
		Filename: fmt.Sprintf("bulk-edit-%s-%s.csv", set.ID, now.Format("20060102-150405")),
		CSV:      raw,
		Rows:     set.Len(),
	}

	s.bus.Publish(event.Event{
		ID:        uuid.NewString(),
		Type:      event.TypeEditSetExported,
		Payload:   map[string]any{"edit_set_id": set.ID, "rows": result.Rows, "filename": result.Filename},
		Timestamp: now.Format(time.RFC3339Nano),
		ActorID:   actor.Name,
	})

	return result, nil
}
