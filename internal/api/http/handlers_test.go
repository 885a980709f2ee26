package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/WebDesk/backend/internal/domain/registry"
	"github.com/GriffinCanCode/WebDesk/backend/internal/domain/session"
	"github.com/GriffinCanCode/WebDesk/backend/internal/domain/settings"
	"github.com/GriffinCanCode/WebDesk/backend/internal/domain/shell"
	"github.com/GriffinCanCode/WebDesk/backend/internal/domain/window"
	"github.com/GriffinCanCode/WebDesk/backend/internal/infrastructure/kv"
	"github.com/GriffinCanCode/WebDesk/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/WebDesk/backend/internal/providers/notes"
	"github.com/GriffinCanCode/WebDesk/backend/internal/providers/terminal"
	"github.com/GriffinCanCode/WebDesk/backend/internal/service"
	"github.com/GriffinCanCode/WebDesk/backend/internal/shared/types"
)

type testEnv struct {
	router   *gin.Engine
	windows  *window.Manager
	settings *settings.Store
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	apps := registry.Default()
	wm := window.NewManager(apps, window.Config{}).WithJitter(func() float64 { return 0 })
	store := settings.NewStore()
	adapter := session.NewAdapter(kv.NewMemory(), nil, nil)

	services := service.NewRegistry()
	require.NoError(t, services.Register(terminal.NewProvider()))
	require.NoError(t, services.Register(notes.NewProvider(adapter, nil)))

	h := NewHandlers(Deps{
		Windows:  wm,
		Surface:  shell.NewSurface(wm, apps, shell.Config{}),
		Apps:     apps,
		Settings: store,
		Services: services,
		Adapter:  adapter,
		Metrics:  monitoring.NewMetrics(),
	})

	router := gin.New()
	h.Register(router)
	return &testEnv{router: router, windows: wm, settings: store}
}

func (e *testEnv) do(t *testing.T, method, path string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)

	var resp map[string]interface{}
	if w.Header().Get("Content-Type") == "application/json; charset=utf-8" {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	}
	return w, resp
}

func (e *testEnv) open(t *testing.T, appID string) string {
	t.Helper()
	w, resp := e.do(t, http.MethodPost, "/windows", gin.H{"app_id": appID})
	require.Equal(t, http.StatusOK, w.Code)
	return resp["window_id"].(string)
}

func TestRootAndHealth(t *testing.T) {
	env := newTestEnv(t)

	w, resp := env.do(t, http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "online", resp["status"])
	assert.Equal(t, "WebDesk", resp["service"])

	w, resp = env.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "healthy", resp["status"])
	assert.Equal(t, false, resp["logged_in"])
}

func TestListApps(t *testing.T) {
	env := newTestEnv(t)

	w, resp := env.do(t, http.MethodGet, "/apps", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, resp["apps"], 5)
	assert.Len(t, resp["pinned"], 2)
}

func TestOpenWindow(t *testing.T) {
	env := newTestEnv(t)

	t.Run("opens an app", func(t *testing.T) {
		w, resp := env.do(t, http.MethodPost, "/windows", gin.H{"app_id": "notes"})
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, true, resp["success"])

		win := resp["window"].(map[string]interface{})
		assert.Equal(t, "notes", win["appId"])
		assert.Equal(t, "Notes", win["title"])
		assert.Equal(t, true, win["isVisible"])
	})

	t.Run("unknown app", func(t *testing.T) {
		w, resp := env.do(t, http.MethodPost, "/windows", gin.H{"app_id": "paint"})
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, resp["error"], "unknown app")
	})

	t.Run("missing app id", func(t *testing.T) {
		w, _ := env.do(t, http.MethodPost, "/windows", gin.H{})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("invalid app id", func(t *testing.T) {
		w, _ := env.do(t, http.MethodPost, "/windows", gin.H{"app_id": "../etc"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("singleton reuses its window", func(t *testing.T) {
		first := env.open(t, "settings")
		second := env.open(t, "settings")
		assert.Equal(t, first, second)
	})
}

func TestGetWindow(t *testing.T) {
	env := newTestEnv(t)
	id := env.open(t, "terminal")

	w, resp := env.do(t, http.MethodGet, "/windows/"+id, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, id, resp["window"].(map[string]interface{})["id"])
	assert.NotNil(t, resp["frame"])

	w, _ = env.do(t, http.MethodGet, "/windows/missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestWindowLifecycle(t *testing.T) {
	env := newTestEnv(t)
	id := env.open(t, "notes")

	_, resp := env.do(t, http.MethodPost, "/windows/"+id+"/minimize", nil)
	assert.Equal(t, true, resp["success"])
	win, _ := env.windows.Get(id)
	assert.True(t, win.IsMinimized)
	_, active := env.windows.Active()
	assert.False(t, active)

	_, resp = env.do(t, http.MethodPost, "/windows/"+id+"/restore", nil)
	assert.Equal(t, true, resp["success"])
	win, _ = env.windows.Get(id)
	assert.False(t, win.IsMinimized)
	assert.True(t, win.IsVisible)

	_, resp = env.do(t, http.MethodPost, "/windows/"+id+"/toggle-maximize", nil)
	assert.Equal(t, true, resp["success"])
	win, _ = env.windows.Get(id)
	assert.True(t, win.IsMaximized)

	env.do(t, http.MethodPost, "/windows/"+id+"/toggle-maximize", nil)
	win, _ = env.windows.Get(id)
	assert.False(t, win.IsMaximized)

	w, resp := env.do(t, http.MethodDelete, "/windows/"+id, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, resp["success"])
	assert.Nil(t, resp["window"])
	assert.Empty(t, env.windows.State().Windows)
}

func TestLifecycleMissingWindow(t *testing.T) {
	env := newTestEnv(t)

	for _, path := range []string{"/focus", "/minimize", "/maximize", "/restore"} {
		w, resp := env.do(t, http.MethodPost, "/windows/nope"+path, nil)
		assert.Equal(t, http.StatusOK, w.Code, path)
		assert.Equal(t, false, resp["success"], path)
	}

	w, resp := env.do(t, http.MethodDelete, "/windows/nope", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, resp["success"])
}

func TestFocusWindow(t *testing.T) {
	env := newTestEnv(t)
	first := env.open(t, "notes")
	second := env.open(t, "terminal")

	active, _ := env.windows.Active()
	assert.Equal(t, second, active.ID)

	_, resp := env.do(t, http.MethodPost, "/windows/"+first+"/focus", nil)
	assert.Equal(t, true, resp["success"])

	active, _ = env.windows.Active()
	assert.Equal(t, first, active.ID)

	a, _ := env.windows.Get(first)
	b, _ := env.windows.Get(second)
	assert.Greater(t, a.ZIndex, b.ZIndex)
}

func TestMoveResizeDrag(t *testing.T) {
	env := newTestEnv(t)
	id := env.open(t, "notes")

	_, resp := env.do(t, http.MethodPut, "/windows/"+id+"/position", gin.H{"x": 10, "y": 20})
	assert.Equal(t, true, resp["success"])
	win, _ := env.windows.Get(id)
	assert.Equal(t, 10.0, win.Geometry.X)
	assert.Equal(t, 20.0, win.Geometry.Y)

	_, resp = env.do(t, http.MethodPost, "/windows/"+id+"/drag", gin.H{"dx": 5, "dy": -100})
	assert.Equal(t, true, resp["success"])
	win, _ = env.windows.Get(id)
	assert.Equal(t, 15.0, win.Geometry.X)
	assert.Equal(t, 0.0, win.Geometry.Y)

	_, resp = env.do(t, http.MethodPut, "/windows/"+id+"/size", gin.H{"width": 10, "height": 10})
	assert.Equal(t, true, resp["success"])
	win, _ = env.windows.Get(id)
	assert.Equal(t, float64(shell.MinWindowWidth), win.Geometry.Width)
	assert.Equal(t, float64(shell.MinWindowHeight), win.Geometry.Height)

	w, _ := env.do(t, http.MethodPut, "/windows/"+id+"/position", gin.H{"x": 10})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestClickTaskbar(t *testing.T) {
	env := newTestEnv(t)

	_, resp := env.do(t, http.MethodPost, "/taskbar/file-explorer/click", nil)
	assert.Equal(t, string(shell.ActionOpen), resp["action"])
	assert.Equal(t, true, resp["success"])
	explorer := resp["window_id"].(string)

	_, resp = env.do(t, http.MethodPost, "/taskbar/file-explorer/click", nil)
	assert.Equal(t, string(shell.ActionRestore), resp["action"])
	assert.Equal(t, explorer, resp["window_id"])

	env.open(t, "browser")
	_, resp = env.do(t, http.MethodPost, "/taskbar/file-explorer/click", nil)
	assert.Equal(t, string(shell.ActionFocus), resp["action"])
	assert.Equal(t, true, resp["success"])
	active, _ := env.windows.Active()
	assert.Equal(t, explorer, active.ID)

	env.windows.Minimize(explorer)
	_, resp = env.do(t, http.MethodPost, "/taskbar/file-explorer/click", nil)
	assert.Equal(t, string(shell.ActionRestore), resp["action"])
	win, _ := env.windows.Get(explorer)
	assert.False(t, win.IsMinimized)

	w, _ := env.do(t, http.MethodPost, "/taskbar/paint/click", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestQuickSettings(t *testing.T) {
	env := newTestEnv(t)

	_, resp := env.do(t, http.MethodGet, "/quick-settings", nil)
	quick := resp["quick_settings"].(map[string]interface{})
	assert.Equal(t, true, quick["wifi"])
	assert.Equal(t, false, quick["bluetooth"])
	assert.Equal(t, float64(70), quick["brightness"])
	assert.Equal(t, float64(50), quick["volume"])
	assert.Equal(t, float64(100), resp["max_level"])

	_, resp = env.do(t, http.MethodPost, "/quick-settings/wifi/toggle", nil)
	assert.Equal(t, false, resp["quick_settings"].(map[string]interface{})["wifi"])
	_, resp = env.do(t, http.MethodPost, "/quick-settings/bluetooth/toggle", nil)
	assert.Equal(t, true, resp["quick_settings"].(map[string]interface{})["bluetooth"])

	w, resp := env.do(t, http.MethodPut, "/quick-settings/brightness", gin.H{"level": 180})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(100), resp["quick_settings"].(map[string]interface{})["brightness"])

	_, resp = env.do(t, http.MethodPut, "/quick-settings/volume", gin.H{"level": -3})
	assert.Equal(t, float64(0), resp["quick_settings"].(map[string]interface{})["volume"])

	_, resp = env.do(t, http.MethodPut, "/quick-settings/volume", gin.H{"level": 0})
	assert.Equal(t, float64(0), resp["quick_settings"].(map[string]interface{})["volume"])

	w, _ = env.do(t, http.MethodPut, "/quick-settings/volume", gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	assert.Equal(t, types.QuickSettings{WiFi: false, Bluetooth: true, Brightness: 100, Volume: 0}, env.settings.Quick())

	_, resp = env.do(t, http.MethodGet, "/settings", nil)
	assert.NotNil(t, resp["settings"].(map[string]interface{})["quickSettings"])
}

func TestDesktop(t *testing.T) {
	env := newTestEnv(t)
	env.open(t, "terminal")

	w, resp := env.do(t, http.MethodGet, "/desktop", nil)
	require.Equal(t, http.StatusOK, w.Code)

	desktop := resp["desktop"].(map[string]interface{})
	assert.Len(t, desktop["windows"], 1)
	assert.NotEmpty(t, desktop["taskbar"])
	assert.NotNil(t, resp["palette"])
}

func TestSettings(t *testing.T) {
	env := newTestEnv(t)

	w, resp := env.do(t, http.MethodGet, "/settings", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, resp["wallpapers"], len(settings.DefaultWallpapers))
	assert.Len(t, resp["accent_colors"], len(settings.AccentColors))

	_, resp = env.do(t, http.MethodPost, "/settings/theme/toggle", nil)
	assert.Equal(t, "dark", resp["settings"].(map[string]interface{})["theme"])

	w, _ = env.do(t, http.MethodPut, "/settings/theme", gin.H{"theme": "sepia"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = env.do(t, http.MethodPut, "/settings/wallpaper", gin.H{"wallpaper": settings.DefaultWallpapers[2]})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, settings.DefaultWallpapers[2], env.settings.Get().Wallpaper)

	w, resp = env.do(t, http.MethodPut, "/settings/accent", gin.H{"color": "#D13438"})
	assert.Equal(t, http.StatusOK, w.Code)
	palette := resp["palette"].(map[string]interface{})
	assert.Equal(t, "#D13438", palette["primary"])
	assert.NotEqual(t, "#D13438", palette["pressed"])

	w, _ = env.do(t, http.MethodPut, "/settings/accent", gin.H{"color": "red"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateSettingsIsAtomic(t *testing.T) {
	env := newTestEnv(t)
	before := env.settings.Get()

	w, _ := env.do(t, http.MethodPut, "/settings", gin.H{"theme": "dark", "accentColor": "nope"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, before, env.settings.Get())

	w, resp := env.do(t, http.MethodPut, "/settings", gin.H{"theme": "dark", "accentColor": "#00B7C3"})
	assert.Equal(t, http.StatusOK, w.Code)
	updated := resp["settings"].(map[string]interface{})
	assert.Equal(t, "dark", updated["theme"])
	assert.Equal(t, "#00B7C3", updated["accentColor"])
}

func TestLoginLogout(t *testing.T) {
	env := newTestEnv(t)

	w, resp := env.do(t, http.MethodPost, "/session/login", gin.H{"password": "  "})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Password cannot be empty.", resp["error"])
	assert.False(t, env.settings.Get().IsLoggedIn)

	_, resp = env.do(t, http.MethodPost, "/session/login", gin.H{"password": "hunter2"})
	assert.Equal(t, true, resp["logged_in"])
	assert.True(t, env.settings.Get().IsLoggedIn)

	_, resp = env.do(t, http.MethodPost, "/session/logout", nil)
	assert.Equal(t, false, resp["logged_in"])
	assert.False(t, env.settings.Get().IsLoggedIn)
}

func TestListServices(t *testing.T) {
	env := newTestEnv(t)

	w, resp := env.do(t, http.MethodGet, "/services", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, resp["services"], 2)

	_, resp = env.do(t, http.MethodGet, "/services?category=system", nil)
	assert.Empty(t, resp["services"])

	w, _ = env.do(t, http.MethodGet, "/services?category=bogus", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestExecuteService(t *testing.T) {
	env := newTestEnv(t)
	term := env.open(t, "terminal")
	note := env.open(t, "notes")

	t.Run("runs a tool for its window", func(t *testing.T) {
		w, resp := env.do(t, http.MethodPost, "/services/execute", gin.H{
			"tool_id":     "terminal.run",
			"params":      gin.H{"command": "echo hi"},
			"instance_id": term,
		})
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, true, resp["success"])
		data := resp["data"].(map[string]interface{})
		assert.Equal(t, []interface{}{"> echo hi", "hi"}, data["appended"])
	})

	t.Run("rejects a window of another app", func(t *testing.T) {
		_, resp := env.do(t, http.MethodPost, "/services/execute", gin.H{
			"tool_id":     "terminal.run",
			"params":      gin.H{"command": "help"},
			"instance_id": note,
		})
		assert.Equal(t, false, resp["success"])
		assert.Contains(t, resp["error"], "is not a terminal window")
	})

	t.Run("rejects a missing window", func(t *testing.T) {
		_, resp := env.do(t, http.MethodPost, "/services/execute", gin.H{
			"tool_id":     "notes.load",
			"instance_id": "gone",
		})
		assert.Equal(t, false, resp["success"])
		assert.Equal(t, "window not found: gone", resp["error"])
	})

	t.Run("unknown service", func(t *testing.T) {
		_, resp := env.do(t, http.MethodPost, "/services/execute", gin.H{"tool_id": "paint.draw"})
		assert.Equal(t, false, resp["success"])
		assert.Equal(t, "service not found: paint", resp["error"])
	})

	t.Run("invalid tool id", func(t *testing.T) {
		w, _ := env.do(t, http.MethodPost, "/services/execute", gin.H{"tool_id": "bad tool"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestStateExportImport(t *testing.T) {
	source := newTestEnv(t)
	source.open(t, "terminal")
	source.open(t, "notes")
	source.do(t, http.MethodPost, "/settings/theme/toggle", nil)

	w, _ := source.do(t, http.MethodGet, "/state/export", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/gzip", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), ArchiveFilename)
	archive := w.Body.Bytes()
	require.NotEmpty(t, archive)

	target := newTestEnv(t)
	req := httptest.NewRequest(http.MethodPost, "/state/import", bytes.NewReader(archive))
	rec := httptest.NewRecorder()
	target.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, true, resp["success"])
	assert.Equal(t, 2.0, resp["windows"])

	assert.Len(t, target.windows.State().Windows, 2)
	assert.Equal(t, "dark", string(target.settings.Get().Theme))
}

func TestStateImportRejectsGarbage(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodPost, "/state/import", bytes.NewReader([]byte("not gzip")))
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStreamLogs(t *testing.T) {
	env := newTestEnv(t)

	w, resp := env.do(t, http.MethodPost, "/logs", gin.H{
		"source": "ui",
		"entries": []gin.H{
			{"id": "1", "level": "error", "message": "boom", "context": gin.H{"app": "notes"}},
			{"id": "2", "level": "info", "message": "ok"},
		},
	})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2.0, resp["entries_received"])

	w, _ = env.do(t, http.MethodPost, "/logs", gin.H{"source": "kernel", "entries": []gin.H{{"id": "1"}}})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = env.do(t, http.MethodPost, "/logs", gin.H{"source": "ui"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMetricsJSON(t *testing.T) {
	env := newTestEnv(t)

	w, resp := env.do(t, http.MethodGet, "/metrics/json", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotNil(t, resp["backend"])
	assert.NotNil(t, resp["windows"])
}
