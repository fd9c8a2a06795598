//go:build integration

package integration

import (
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"netops-cockpit/internal/model"
)

func createEditSet(t *testing.T, env *testEnv) string {
	t.Helper()

	resp := doJSON(t, http.MethodPost, env.server.URL+"/api/v1/editsets", nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var set model.EditSet
	success, _ := decodeEnvelope(t, resp, &set)
	require.True(t, success)
	require.NotEmpty(t, set.ID)

	return set.ID
}

func TestEditSetLifecycle(t *testing.T) {
	env := newTestEnv(t)
	setID := createEditSet(t, env)

	upsert := doJSON(t, http.MethodPut, env.server.URL+"/api/v1/editsets/"+setID+"/devices/dev1", map[string]any{"status": "Planned"})
	defer upsert.Body.Close()
	require.Equal(t, http.StatusOK, upsert.StatusCode)

	upsert2 := doJSON(t, http.MethodPut, env.server.URL+"/api/v1/editsets/"+setID+"/devices/dev2", map[string]any{"location": "Berlin"})
	defer upsert2.Body.Close()
	require.Equal(t, http.StatusOK, upsert2.StatusCode)

	getResp := doJSON(t, http.MethodGet, env.server.URL+"/api/v1/editsets/"+setID, nil)
	require.Equal(t, http.StatusOK, getResp.StatusCode)

	var set model.EditSet
	success, _ := decodeEnvelope(t, getResp, &set)
	require.True(t, success)
	require.Equal(t, []string{"dev1", "dev2"}, set.DeviceIDs())

	remove := doJSON(t, http.MethodDelete, env.server.URL+"/api/v1/editsets/"+setID+"/devices/dev1", nil)
	defer remove.Body.Close()
	require.Equal(t, http.StatusOK, remove.StatusCode)

	clear := doJSON(t, http.MethodDelete, env.server.URL+"/api/v1/editsets/"+setID, nil)
	defer clear.Body.Close()
	require.Equal(t, http.StatusOK, clear.StatusCode)

	getResp = doJSON(t, http.MethodGet, env.server.URL+"/api/v1/editsets/"+setID, nil)
	var cleared model.EditSet
	_, _ = decodeEnvelope(t, getResp, &cleared)
	require.Zero(t, cleared.Len())
}

func TestEditSetExportDownloadsCSV(t *testing.T) {
	env := newTestEnv(t)
	setID := createEditSet(t, env)

	upsert := doJSON(t, http.MethodPut, env.server.URL+"/api/v1/editsets/"+setID+"/devices/dev1", map[string]any{"status": "Planned, Pending"})
	defer upsert.Body.Close()
	require.Equal(t, http.StatusOK, upsert.StatusCode)

	resp := doJSON(t, http.MethodPost, env.server.URL+"/api/v1/editsets/"+setID+"/export", nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "text/csv; charset=utf-8", resp.Header.Get("Content-Type"))
	require.Contains(t, resp.Header.Get("Content-Disposition"), "bulk-edit-"+setID)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Equal(t, "id,status\ndev1,\"Planned, Pending\"", string(raw))
}

func TestEditSetExportWithInterfaceColumns(t *testing.T) {
	env := newTestEnv(t)
	setID := createEditSet(t, env)

	upsert := doJSON(t, http.MethodPut, env.server.URL+"/api/v1/editsets/"+setID+"/devices/dev1", map[string]any{"primary_ip4": "10.0.9.1/24"})
	defer upsert.Body.Close()
	require.Equal(t, http.StatusOK, upsert.StatusCode)

	body := map[string]any{
		"interface": map[string]any{"name": "Loopback0", "type": "virtual", "status": "Active"},
		"namespace": "Global",
	}
	resp := doJSON(t, http.MethodPost, env.server.URL+"/api/v1/editsets/"+setID+"/export", body)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Equal(t,
		"id,primary_ip4,interface_name,interface_type,interface_status,ip_namespace\n"+
			"dev1,10.0.9.1/24,Loopback0,virtual,Active,Global",
		string(raw))
}

func TestEditSetExportRejectsEmptySet(t *testing.T) {
	env := newTestEnv(t)
	setID := createEditSet(t, env)

	resp := doJSON(t, http.MethodPost, env.server.URL+"/api/v1/editsets/"+setID+"/export", nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestEditSetUnknownIDReturns404(t *testing.T) {
	env := newTestEnv(t)

	resp := doJSON(t, http.MethodGet, env.server.URL+"/api/v1/editsets/ghost", nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}
