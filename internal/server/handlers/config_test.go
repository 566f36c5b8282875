package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cliftbar/mapviewer/internal/models"
)

func TestConfigHandler_GetActive_Defaults(t *testing.T) {
	store := setupTestStorage(t)
	h := NewConfigHandler(setupTestLogger(), setupConfigService(t, store))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/config", nil)
	w := httptest.NewRecorder()
	h.GetActive(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var cfg models.Config
	require.NoError(t, json.NewDecoder(w.Body).Decode(&cfg))
	assert.Equal(t, models.DefaultConfig(), cfg)
}

func TestConfigHandler_SaveActive(t *testing.T) {
	store := setupTestStorage(t)
	h := NewConfigHandler(setupTestLogger(), setupConfigService(t, store))

	body := `{"defaultZoom":15,"initialLat":48.8,"initialLon":2.3,` +
		`"activeBaseMapId":"topo","activeOverlayIds":["hillshade"],"offlineMode":true,"theme":"DARK"}`
	req := httptest.NewRequest(http.MethodPut, "/api/v1/config", strings.NewReader(body))
	w := httptest.NewRecorder()
	h.SaveActive(w, req)
	require.Equal(t, http.StatusNoContent, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/config", nil)
	w = httptest.NewRecorder()
	h.GetActive(w, req)

	var cfg models.Config
	require.NoError(t, json.NewDecoder(w.Body).Decode(&cfg))
	assert.Equal(t, 15, cfg.DefaultZoom)
	assert.Equal(t, "topo", cfg.ActiveBaseMapID)
	assert.Equal(t, models.ThemeDark, cfg.Theme)
}

func TestConfigHandler_Profiles(t *testing.T) {
	store := setupTestStorage(t)
	h := NewConfigHandler(setupTestLogger(), setupConfigService(t, store))

	body := `{"defaultZoom":9,"initialLat":1,"initialLon":2,` +
		`"activeBaseMapId":"osm","offlineMode":false,"theme":"LIGHT"}`
	req := httptest.NewRequest(http.MethodPut, "/api/v1/profiles/alpine", strings.NewReader(body))
	req.SetPathValue("name", "alpine")
	w := httptest.NewRecorder()
	h.SaveProfile(w, req)
	require.Equal(t, http.StatusNoContent, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/profiles", nil)
	w = httptest.NewRecorder()
	h.ListProfiles(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var names []string
	require.NoError(t, json.NewDecoder(w.Body).Decode(&names))
	assert.Contains(t, names, "alpine")

	req = httptest.NewRequest(http.MethodGet, "/api/v1/profiles/alpine", nil)
	req.SetPathValue("name", "alpine")
	w = httptest.NewRecorder()
	h.GetProfile(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var cfg models.Config
	require.NoError(t, json.NewDecoder(w.Body).Decode(&cfg))
	assert.Equal(t, 9, cfg.DefaultZoom)
}

func TestConfigHandler_Activate(t *testing.T) {
	store := setupTestStorage(t)
	svc := setupConfigService(t, store)
	h := NewConfigHandler(setupTestLogger(), svc)

	body := `{"defaultZoom":7,"initialLat":1,"initialLon":2,` +
		`"activeBaseMapId":"satellite","offlineMode":false,"theme":"SYSTEM"}`
	req := httptest.NewRequest(http.MethodPut, "/api/v1/profiles/field", strings.NewReader(body))
	req.SetPathValue("name", "field")
	w := httptest.NewRecorder()
	h.SaveProfile(w, req)
	require.Equal(t, http.StatusNoContent, w.Code)

	req = httptest.NewRequest(http.MethodPost, "/api/v1/profiles/field/activate", nil)
	req.SetPathValue("name", "field")
	w = httptest.NewRecorder()
	h.Activate(w, req)
	require.Equal(t, http.StatusNoContent, w.Code)

	assert.Equal(t, "satellite", svc.Active().ActiveBaseMapID)
}

func TestConfigHandler_DeleteProfile(t *testing.T) {
	store := setupTestStorage(t)
	h := NewConfigHandler(setupTestLogger(), setupConfigService(t, store))

	body := `{"defaultZoom":9,"initialLat":1,"initialLon":2,` +
		`"activeBaseMapId":"osm","offlineMode":false,"theme":"LIGHT"}`
	req := httptest.NewRequest(http.MethodPut, "/api/v1/profiles/tmp", strings.NewReader(body))
	req.SetPathValue("name", "tmp")
	w := httptest.NewRecorder()
	h.SaveProfile(w, req)
	require.Equal(t, http.StatusNoContent, w.Code)

	req = httptest.NewRequest(http.MethodDelete, "/api/v1/profiles/tmp", nil)
	req.SetPathValue("name", "tmp")
	w = httptest.NewRecorder()
	h.DeleteProfile(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestConfigHandler_DeleteProfile_ActiveIsProtected(t *testing.T) {
	store := setupTestStorage(t)
	h := NewConfigHandler(setupTestLogger(), setupConfigService(t, store))

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/profiles/"+models.ActiveProfile, nil)
	req.SetPathValue("name", models.ActiveProfile)
	w := httptest.NewRecorder()
	h.DeleteProfile(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
