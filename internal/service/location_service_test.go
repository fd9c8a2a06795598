package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"netops-cockpit/internal/cache"
	"netops-cockpit/internal/model"
)

func TestLocationService(t *testing.T) {
	t.Parallel()

	locations := []model.Location{
		{ID: "l2", Name: "Rack 1", Parent: &model.LocationRef{ID: "l1", Name: "Berlin"}},
		{ID: "l1", Name: "Berlin"},
		{ID: "l3", Name: "Amsterdam"},
	}

	t.Run("paths built and sorted", func(t *testing.T) {
		svc := NewLocationService(&fakeUpstream{locations: locations}, cache.New(time.Minute))

		got, err := svc.List(context.Background())
		require.NoError(t, err)
		require.Len(t, got, 3)
		require.Equal(t, "Amsterdam", got[0].DisplayPath)
		require.Equal(t, "Berlin", got[1].DisplayPath)
		require.Equal(t, "Berlin → Rack 1", got[2].DisplayPath)
		require.Equal(t, "l2", got[2].ID)
	})

	t.Run("second call served from cache", func(t *testing.T) {
		upstream := &fakeUpstream{locations: locations}
		svc := NewLocationService(upstream, cache.New(time.Minute))

		_, err := svc.List(context.Background())
		require.NoError(t, err)
		_, err = svc.List(context.Background())
		require.NoError(t, err)
		require.Equal(t, 1, upstream.callCount())
	})

	t.Run("upstream errors propagate", func(t *testing.T) {
		svc := NewLocationService(&fakeUpstream{err: model.ErrUpstreamUnavailable}, cache.New(time.Minute))
		_, err := svc.List(context.Background())
		require.ErrorIs(t, err, model.ErrUpstreamUnavailable)
	})
}
