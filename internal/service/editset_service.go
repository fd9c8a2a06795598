package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"netops-cockpit/internal/event"
	"netops-cockpit/internal/model"
	"netops-cockpit/pkg/apierror"
)

type EditSetService struct {
	store EditSetStore
	bus   event.Bus
	now   func() time.Time
}

func NewEditSetService(store EditSetStore, bus event.Bus) *EditSetService {
	return &EditSetService{store: store, bus: bus, now: func() time.Time { return time.Now().UTC() }}
}

func (s *EditSetService) Create(ctx context.Context, owner string) (*model.EditSet, error) {
	set := model.NewEditSet(uuid.NewString(), strings.TrimSpace(owner), s.now())
	if err := s.store.Create(ctx, set); err != nil {
		return nil, err
	}
	return set, nil
}

// validSetID screens the id before it reaches the store. The backing
// column is a UUID, so a malformed id can only ever mean no such set.
func validSetID(id string) error {
	if uuid.Validate(strings.TrimSpace(id)) != nil {
		return model.ErrEditSetNotFound
	}
	return nil
}

func (s *EditSetService) Get(ctx context.Context, id string) (*model.EditSet, error) {
	if strings.TrimSpace(id) == "" {
		return nil, apierror.BadRequest("edit set id is required", "id")
	}
	if err := validSetID(id); err != nil {
		return nil, err
	}
	return s.store.Get(ctx, id)
}

// UpsertDevice replaces the device's pending partial wholesale; merging
// with earlier edits is the caller's concern. The id field never belongs
// in the partial since it keys the row.
func (s *EditSetService) UpsertDevice(ctx context.Context, setID string, deviceID string, fields map[string]any) error {
	deviceID = strings.TrimSpace(deviceID)
	if deviceID == "" {
		return apierror.BadRequest("device id is required", "device_id")
	}
	if err := validSetID(setID); err != nil {
		return err
	}
	if fields == nil {
		fields = map[string]any{}
	}
	delete(fields, "id")

	return s.store.UpsertItem(ctx, setID, deviceID, fields, s.now())
}

func (s *EditSetService) RemoveDevice(ctx context.Context, setID string, deviceID string) error {
	if err := validSetID(setID); err != nil {
		return err
	}
	return s.store.DeleteItem(ctx, setID, strings.TrimSpace(deviceID), s.now())
}

func (s *EditSetService) Clear(ctx context.Context, setID string, actor model.AuditActor) error {
	if err := validSetID(setID); err != nil {
		return err
	}
	now := s.now()
	if err := s.store.Clear(ctx, setID, now); err != nil {
		return err
	}

	s.bus.Publish(event.Event{
		ID:        uuid.NewString(),
		Type:      event.TypeEditSetCleared,
		Payload:   map[string]any{"edit_set_id": setID},
		Timestamp: now.Format(time.RFC3339Nano),
		ActorID:   actor.Name,
	})

	return nil
}

func (s *EditSetService) Delete(ctx context.Context, setID string) error {
	if err := validSetID(setID); err != nil {
		return err
	}
	return s.store.Delete(ctx, setID)
}
