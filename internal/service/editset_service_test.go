package service

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"netops-cockpit/internal/csvexport"
	"netops-cockpit/internal/event"
	"netops-cockpit/internal/model"
)

func TestEditSetService(t *testing.T) {
	t.Parallel()

	t.Run("create and upsert", func(t *testing.T) {
		store := newFakeEditSetStore()
		svc := NewEditSetService(store, event.NewBus())

		set, err := svc.Create(context.Background(), "ops")
		require.NoError(t, err)
		require.NotEmpty(t, set.ID)

		require.NoError(t, svc.UpsertDevice(context.Background(), set.ID, "dev1", map[string]any{"status": "Active"}))
		require.NoError(t, svc.UpsertDevice(context.Background(), set.ID, "dev2", map[string]any{"location": "Berlin"}))

		got, err := svc.Get(context.Background(), set.ID)
		require.NoError(t, err)
		require.Equal(t, []string{"dev1", "dev2"}, got.DeviceIDs())
	})

	t.Run("upsert replaces wholesale and keeps position", func(t *testing.T) {
		store := newFakeEditSetStore()
		svc := NewEditSetService(store, event.NewBus())
		set, _ := svc.Create(context.Background(), "ops")

		require.NoError(t, svc.UpsertDevice(context.Background(), set.ID, "dev1", map[string]any{"status": "Active", "location": "Berlin"}))
		require.NoError(t, svc.UpsertDevice(context.Background(), set.ID, "dev2", map[string]any{"status": "Planned"}))
		require.NoError(t, svc.UpsertDevice(context.Background(), set.ID, "dev1", map[string]any{"status": "Offline"}))

		got, _ := svc.Get(context.Background(), set.ID)
		require.Equal(t, []string{"dev1", "dev2"}, got.DeviceIDs())
		require.Equal(t, map[string]any{"status": "Offline"}, got.Fields("dev1"))
	})

	t.Run("id field is stripped from partials", func(t *testing.T) {
		store := newFakeEditSetStore()
		svc := NewEditSetService(store, event.NewBus())
		set, _ := svc.Create(context.Background(), "ops")

		require.NoError(t, svc.UpsertDevice(context.Background(), set.ID, "dev1", map[string]any{"id": "dev1", "status": "Active"}))

		got, _ := svc.Get(context.Background(), set.ID)
		require.Equal(t, map[string]any{"status": "Active"}, got.Fields("dev1"))
	})

	t.Run("unknown set", func(t *testing.T) {
		svc := NewEditSetService(newFakeEditSetStore(), event.NewBus())
		err := svc.UpsertDevice(context.Background(), uuid.NewString(), "dev1", map[string]any{"a": 1})
		require.ErrorIs(t, err, model.ErrEditSetNotFound)
	})

	t.Run("malformed set id reads as not found", func(t *testing.T) {
		store := newFakeEditSetStore()
		svc := NewEditSetService(store, event.NewBus())

		_, err := svc.Get(context.Background(), "not-a-uuid")
		require.ErrorIs(t, err, model.ErrEditSetNotFound)

		err = svc.UpsertDevice(context.Background(), "not-a-uuid", "dev1", map[string]any{"status": "Active"})
		require.ErrorIs(t, err, model.ErrEditSetNotFound)

		err = svc.Clear(context.Background(), "not-a-uuid", model.AuditActor{})
		require.ErrorIs(t, err, model.ErrEditSetNotFound)

		err = svc.Delete(context.Background(), "not-a-uuid")
		require.ErrorIs(t, err, model.ErrEditSetNotFound)
	})

	t.Run("remove and clear", func(t *testing.T) {
		store := newFakeEditSetStore()
		svc := NewEditSetService(store, event.NewBus())
		set, _ := svc.Create(context.Background(), "ops")
		_ = svc.UpsertDevice(context.Background(), set.ID, "dev1", map[string]any{"status": "a"})
		_ = svc.UpsertDevice(context.Background(), set.ID, "dev2", map[string]any{"status": "b"})

		require.NoError(t, svc.RemoveDevice(context.Background(), set.ID, "dev1"))
		got, _ := svc.Get(context.Background(), set.ID)
		require.Equal(t, []string{"dev2"}, got.DeviceIDs())

		require.NoError(t, svc.Clear(context.Background(), set.ID, model.AuditActor{Name: "ops"}))
		got, _ = svc.Get(context.Background(), set.ID)
		require.Zero(t, got.Len())
	})

	t.Run("clear publishes event", func(t *testing.T) {
		store := newFakeEditSetStore()
		bus := event.NewBus()
		events, unsubscribe := bus.Subscribe()
		defer unsubscribe()

		svc := NewEditSetService(store, bus)
		set, _ := svc.Create(context.Background(), "ops")
		_ = svc.UpsertDevice(context.Background(), set.ID, "dev1", map[string]any{"status": "a"})

		require.NoError(t, svc.Clear(context.Background(), set.ID, model.AuditActor{Name: "ops"}))

		e := <-events
		require.Equal(t, event.TypeEditSetCleared, e.Type)
		require.Equal(t, "ops", e.ActorID)
	})
}

func TestExportService(t *testing.T) {
	t.Parallel()

	t.Run("export renders csv and publishes event", func(t *testing.T) {
		store := newFakeEditSetStore()
		bus := event.NewBus()
		events, unsubscribe := bus.Subscribe()
		defer unsubscribe()

		sets := NewEditSetService(store, event.NewBus())
		set, _ := sets.Create(context.Background(), "ops")
		_ = sets.UpsertDevice(context.Background(), set.ID, "dev1", map[string]any{"status": "Planned, Pending"})

		svc := NewExportService(store, bus)
		result, err := svc.Export(context.Background(), set.ID, csvexport.Options{}, model.AuditActor{Name: "ops"})
		require.NoError(t, err)
		require.True(t, strings.HasPrefix(result.Filename, "bulk-edit-"+set.ID))
		require.Equal(t, 1, result.Rows)
		require.Equal(t, "id,status\ndev1,\"Planned, Pending\"", result.CSV)

		e := <-events
		require.Equal(t, event.TypeEditSetExported, e.Type)
		require.Equal(t, "ops", e.ActorID)
	})

	t.Run("empty set refuses export", func(t *testing.T) {
		store := newFakeEditSetStore()
		sets := NewEditSetService(store, event.NewBus())
		set, _ := sets.Create(context.Background(), "ops")

		svc := NewExportService(store, event.NewBus())
		_, err := svc.Export(context.Background(), set.ID, csvexport.Options{}, model.AuditActor{})
		require.ErrorIs(t, err, csvexport.ErrNoModifications)
	})

	t.Run("entry with no fields refuses export", func(t *testing.T) {
		store := newFakeEditSetStore()
		sets := NewEditSetService(store, event.NewBus())
		set, _ := sets.Create(context.Background(), "ops")
		_ = sets.UpsertDevice(context.Background(), set.ID, "dev1", map[string]any{})

		svc := NewExportService(store, event.NewBus())
		_, err := svc.Export(context.Background(), set.ID, csvexport.Options{}, model.AuditActor{})

		var emptyErr *csvexport.EmptyFieldSetError
		require.ErrorAs(t, err, &emptyErr)
		require.Equal(t, "dev1", emptyErr.DeviceID)
	})

	t.Run("unknown set", func(t *testing.T) {
		svc := NewExportService(newFakeEditSetStore(), event.NewBus())
		_, err := svc.Export(context.Background(), uuid.NewString(), csvexport.Options{}, model.AuditActor{})
		require.ErrorIs(t, err, model.ErrEditSetNotFound)
	})

	t.Run("malformed set id reads as not found", func(t *testing.T) {
		svc := NewExportService(newFakeEditSetStore(), event.NewBus())
		_, err := svc.Export(context.Background(), "not-a-uuid", csvexport.Options{}, model.AuditActor{})
		require.ErrorIs(t, err, model.ErrEditSetNotFound)
	})
}
