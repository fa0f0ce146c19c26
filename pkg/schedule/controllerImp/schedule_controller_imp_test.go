package controllerImp

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

	"plantcare/database"
	"plantcare/entities"
	"plantcare/pkg/notify"
	"plantcare/pkg/schedule/repositoryImp"
	"plantcare/pkg/schedule/serviceImp"
)

func newServer(t *testing.T) *echo.Echo {
	t.Helper()
	db, err := database.OpenSQLite(filepath.Join(t.TempDir(), "sched.db"))
	require.NoError(t, err)
	h := New(serviceImp.NewScheduleService(repositoryImp.New(db), nil), notify.NewTranscript(db))

	e := echo.New()
	e.POST("/reminders", h.Create)
	e.GET("/reminders", h.List)
	e.DELETE("/reminders/:id", h.Cancel)
	e.POST("/reminders/:id/snooze", h.Snooze)
	e.GET("/transcript", h.Transcript)
	return e
}

func do(e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestReminderRoutes(t *testing.T) {
	e := newServer(t)

	rec := do(e, http.MethodPost, "/reminders", `{"after":"30s","plant_id":"p1","description":"water Fernie"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var rem entities.Reminder
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rem))
	assert.Equal(t, "p1", rem.PlantID)
	assert.Equal(t, entities.TriggerAfter, rem.TriggerKind)

	rec = do(e, http.MethodPost, "/reminders/"+rem.ID+"/snooze", `{"duration":"5m"}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(e, http.MethodGet, "/reminders", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list []entities.Reminder
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Len(t, list, 1)

	rec = do(e, http.MethodDelete, "/reminders/"+rem.ID, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = do(e, http.MethodDelete, "/reminders/"+rem.ID, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(e, http.MethodGet, "/transcript", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCreateRejectsBadTriggers(t *testing.T) {
	e := newServer(t)

	rec := do(e, http.MethodPost, "/reminders", `{"cron":"not a cron","description":"x"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid trigger")

	rec = do(e, http.MethodPost, "/reminders", `{"after":"soon","description":"x"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid trigger")

	rec = do(e, http.MethodPost, "/reminders", `{"after":"1m","cron":"@daily","description":"x"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
