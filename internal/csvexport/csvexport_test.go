package csvexport

import (
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"netops-cockpit/internal/model"
)

func newSet(t *testing.T) *model.EditSet {
	t.Helper()
	return model.NewEditSet("set1", "ops", time.Now().UTC())
}

func TestValidate(t *testing.T) {
	t.Parallel()

	t.Run("empty set", func(t *testing.T) {
		require.ErrorIs(t, Validate(newSet(t)), ErrNoModifications)
		require.ErrorIs(t, Validate(nil), ErrNoModifications)
	})

	t.Run("entry without fields", func(t *testing.T) {
		set := newSet(t)
		set.Upsert("dev1", map[string]any{"status": "Active"})
		set.Upsert("dev2", map[string]any{})

		err := Validate(set)
		var emptyErr *EmptyFieldSetError
		require.ErrorAs(t, err, &emptyErr)
		require.Equal(t, "dev2", emptyErr.DeviceID)
	})

	t.Run("valid set", func(t *testing.T) {
		set := newSet(t)
		set.Upsert("dev1", map[string]any{"status": "Active"})
		require.NoError(t, Validate(set))
	})
}

func TestSerialize(t *testing.T) {
	t.Parallel()

	t.Run("empty set fails", func(t *testing.T) {
		_, err := Serialize(newSet(t), Options{})
		require.ErrorIs(t, err, ErrEmptyInput)
	})

	t.Run("quotes values containing commas", func(t *testing.T) {
		set := newSet(t)
		set.Upsert("dev1", map[string]any{"status": "Planned, Pending"})

		got, err := Serialize(set, Options{})
		require.NoError(t, err)
		require.Equal(t, "id,status\ndev1,\"Planned, Pending\"", got)
	})

	t.Run("doubles embedded quotes", func(t *testing.T) {
		set := newSet(t)
		set.Upsert("dev1", map[string]any{"comments": `say "hi"`})

		got, err := Serialize(set, Options{})
		require.NoError(t, err)
		require.Equal(t, "id,comments\ndev1,\"say \"\"hi\"\"\"", got)
	})

	t.Run("column union covers all edits and missing cells are empty", func(t *testing.T) {
		set := newSet(t)
		set.Upsert("dev1", map[string]any{"status": "Active"})
		set.Upsert("dev2", map[string]any{"location": "Berlin"})

		got, err := Serialize(set, Options{})
		require.NoError(t, err)

		lines := strings.Split(got, "\n")
		require.Equal(t, "id,location,status", lines[0])
		require.Equal(t, "dev1,,Active", lines[1])
		require.Equal(t, "dev2,Berlin,", lines[2])
	})

	t.Run("rows follow edit insertion order", func(t *testing.T) {
		set := newSet(t)
		set.Upsert("dev3", map[string]any{"status": "a"})
		set.Upsert("dev1", map[string]any{"status": "b"})
		set.Upsert("dev2", map[string]any{"status": "c"})

		got, err := Serialize(set, Options{})
		require.NoError(t, err)

		lines := strings.Split(got, "\n")
		require.Equal(t, "dev3,a", lines[1])
		require.Equal(t, "dev1,b", lines[2])
		require.Equal(t, "dev2,c", lines[3])
	})

	t.Run("interface columns appear only for primary_ip4 edits", func(t *testing.T) {
		iface := &InterfaceConfig{Name: "mgmt0", Type: "virtual", Status: "active"}

		set := newSet(t)
		set.Upsert("dev1", map[string]any{"status": "Active"})
		got, err := Serialize(set, Options{Interface: iface, Namespace: "Global"})
		require.NoError(t, err)
		require.Equal(t, "id,status", strings.Split(got, "\n")[0])

		set.Upsert("dev2", map[string]any{"primary_ip4": "10.0.0.5/24"})
		got, err = Serialize(set, Options{Interface: iface, Namespace: "Global"})
		require.NoError(t, err)

		lines := strings.Split(got, "\n")
		require.Equal(t, "id,primary_ip4,status,interface_name,interface_type,interface_status,ip_namespace", lines[0])
		require.Equal(t, "dev1,,Active,mgmt0,virtual,active,Global", lines[1])
		require.Equal(t, "dev2,10.0.0.5/24,,mgmt0,virtual,active,Global", lines[2])
	})

	t.Run("namespace column requires interface config", func(t *testing.T) {
		set := newSet(t)
		set.Upsert("dev1", map[string]any{"primary_ip4": "10.0.0.5/24"})

		got, err := Serialize(set, Options{Namespace: "Global"})
		require.NoError(t, err)
		require.Equal(t, "id,primary_ip4", strings.Split(got, "\n")[0])
	})

	t.Run("nested values resolve before writing", func(t *testing.T) {
		set := newSet(t)
		set.Upsert("dev1", map[string]any{
			"status":      map[string]any{"name": "Active"},
			"primary_ip4": map[string]any{"address": "10.0.0.9/24"},
			"tags":        []string{"core", "mgmt"},
		})

		got, err := Serialize(set, Options{})
		require.NoError(t, err)

		lines := strings.Split(got, "\n")
		require.Equal(t, "id,primary_ip4,status,tags", lines[0])
		require.Equal(t, "dev1,10.0.0.9/24,Active,\"core, mgmt\"", lines[1])
	})

	t.Run("round-trips through a CSV reader", func(t *testing.T) {
		set := newSet(t)
		set.Upsert("dev1", map[string]any{"status": "Planned, Pending", "comments": "line1\nline2"})
		set.Upsert("dev2", map[string]any{"status": `odd "quoted" value`})

		raw, err := Serialize(set, Options{})
		require.NoError(t, err)

		parsed, err := csv.NewReader(strings.NewReader(raw)).ReadAll()
		require.NoError(t, err)
		require.Len(t, parsed, 3)
		require.Equal(t, []string{"id", "comments", "status"}, parsed[0])
		require.Equal(t, []string{"dev1", "line1\nline2", "Planned, Pending"}, parsed[1])
		require.Equal(t, []string{"dev2", "", `odd "quoted" value`}, parsed[2])
	})
}
