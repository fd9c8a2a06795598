package tabular

import (
	"testing"

	"github.com/stretchr/testify/require"

	"netops-cockpit/internal/model"
)

func filterFixture() []model.Record {
	return []model.Record{
		{
			"id":          "dev1",
			"name":        "core-sw-01",
			"role":        map[string]any{"name": "switch"},
			"location":    map[string]any{"name": "Berlin"},
			"status":      map[string]any{"name": "Active"},
			"primary_ip4": map[string]any{"address": "10.0.0.1/24"},
			"tags":        []any{"core", "mgmt"},
		},
		{
			"id":       "dev2",
			"name":     "edge-fw-01",
			"role":     map[string]any{"name": "firewall"},
			"location": map[string]any{"name": "Munich"},
			"status":   map[string]any{"name": "Planned"},
		},
		{
			"id":       "dev3",
			"name":     "core-rtr-01",
			"role":     map[string]any{"name": "router"},
			"location": map[string]any{"name": "Berlin"},
			"status":   map[string]any{"name": "Active"},
		},
	}
}

func TestFilter(t *testing.T) {
	t.Parallel()

	t.Run("identity when no predicates active", func(t *testing.T) {
		records := filterFixture()
		got := Filter(records, Predicates{}, MultiSelect{})
		require.Equal(t, records, got)
	})

	t.Run("empty predicate values are inactive", func(t *testing.T) {
		records := filterFixture()
		got := Filter(records, Predicates{"name": {Value: ""}, "status": {Value: "", Exact: true}}, MultiSelect{})
		require.Equal(t, records, got)
	})

	t.Run("substring match is case-insensitive", func(t *testing.T) {
		got := Filter(filterFixture(), Predicates{"name": {Value: "CORE"}}, MultiSelect{})
		require.Len(t, got, 2)
		require.Equal(t, "dev1", got[0].ID())
		require.Equal(t, "dev3", got[1].ID())
	})

	t.Run("exact match is case-sensitive", func(t *testing.T) {
		got := Filter(filterFixture(), Predicates{"status": {Value: "Active", Exact: true}}, MultiSelect{})
		require.Len(t, got, 2)

		got = Filter(filterFixture(), Predicates{"status": {Value: "active", Exact: true}}, MultiSelect{})
		require.Empty(t, got)
	})

	t.Run("predicates AND together", func(t *testing.T) {
		got := Filter(filterFixture(), Predicates{
			"name":     {Value: "core"},
			"location": {Value: "Berlin", Exact: true},
			"role":     {Value: "rout"},
		}, MultiSelect{})
		require.Len(t, got, 1)
		require.Equal(t, "dev3", got[0].ID())
	})

	t.Run("nested references resolve to name and address", func(t *testing.T) {
		got := Filter(filterFixture(), Predicates{"primary_ip4": {Value: "10.0.0"}}, MultiSelect{})
		require.Len(t, got, 1)
		require.Equal(t, "dev1", got[0].ID())
	})

	t.Run("arrays resolve comma-joined", func(t *testing.T) {
		got := Filter(filterFixture(), Predicates{"tags": {Value: "core, mgmt"}}, MultiSelect{})
		require.Len(t, got, 1)
	})

	t.Run("missing field fails non-empty predicates without panicking", func(t *testing.T) {
		got := Filter(filterFixture(), Predicates{"platform": {Value: "ios"}}, MultiSelect{})
		require.Empty(t, got)
	})

	t.Run("multi-select keeps checked and unknown values", func(t *testing.T) {
		sel := MultiSelect{Field: "role", Include: map[string]bool{
			"switch":   true,
			"firewall": false,
		}}

		got := Filter(filterFixture(), Predicates{}, sel)
		require.Len(t, got, 2)
		// router is absent from the map: visible by default.
		require.Equal(t, "dev1", got[0].ID())
		require.Equal(t, "dev3", got[1].ID())
	})

	t.Run("idempotent", func(t *testing.T) {
		preds := Predicates{"location": {Value: "Berlin", Exact: true}}
		once := Filter(filterFixture(), preds, MultiSelect{})
		twice := Filter(once, preds, MultiSelect{})
		require.Equal(t, once, twice)
	})
}
