package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"plantcare/config"
	"plantcare/pkg/app"
	assistantCtrlImp "plantcare/pkg/assistant/controllerImp"
	healthCtrlImp "plantcare/pkg/health/controllerImp"
	plantCtrlImp "plantcare/pkg/plant/controllerImp"
	schedCtrlImp "plantcare/pkg/schedule/controllerImp"
)

func newServer(t *testing.T) *echo.Echo {
	t.Helper()
	env := map[string]string{
		"DB_PATH":           filepath.Join(t.TempDir(), "router.db"),
		"REMINDERS_ENABLED": "false",
	}
	a, err := app.New(config.FromEnv(func(k string) string { return env[k] }), zap.NewNop(), app.Options{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	return New(echo.New(), zap.NewNop(),
		plantCtrlImp.New(a.Plants),
		schedCtrlImp.New(a.Schedule, a.Transcript),
		assistantCtrlImp.New(a.Facade),
		healthCtrlImp.NewHealthCtrl(a.DB, nil),
	)
}

func do(e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestRoutes(t *testing.T) {
	e := newServer(t)

	rec := do(e, http.MethodPost, "/assistant/tools/add_plant", `{"name":"Fernie","type":"Boston fern"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var reply struct {
		Status string `json:"status"`
		Text   string `json:"text"`
		Data   struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &reply))
	require.Equal(t, "ok", reply.Status, reply.Text)

	rec = do(e, http.MethodGet, "/plants/due", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), reply.Data.ID)

	rec = do(e, http.MethodPost, "/plants/"+reply.Data.ID+"/issues", `{"description":"brown tips"}`)
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = do(e, http.MethodPost, "/assistant/tools/record_watering", `{"plant_id":"ghost"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"not_found"`)

	rec = do(e, http.MethodPost, "/assistant/tools/add_plant", `{"name":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(e, http.MethodGet, "/assistant/tools", "")
	assert.Contains(t, rec.Body.String(), "schedule_reminder")

	rec = do(e, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID))

	rec = do(e, http.MethodPost, "/assistant/tools/check_due", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(e, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "plantcare_store_plants_total")
}
