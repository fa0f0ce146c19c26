package controllerImp

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"plantcare/pkg/schedule/poller"
)

var appStart = time.Now()

// PollerStatus is satisfied by *poller.Poller. A nil value means reminders
// are disabled.
type PollerStatus interface {
	Status() poller.Status
}

type HealthCtrl struct {
	db     *gorm.DB
	poller PollerStatus
}

func NewHealthCtrl(db *gorm.DB, p PollerStatus) *HealthCtrl { return &HealthCtrl{db: db, poller: p} }

type check struct {
	OK  bool   `json:"ok"`
	Err string `json:"err,omitempty"`
}

func (h *HealthCtrl) pingDB(ctx context.Context) check {
	if h.db == nil {
		return check{Err: "gorm db is nil"}
	}
	sqlDB, err := h.db.DB()
	if err != nil {
		return check{Err: "db.DB(): " + err.Error()}
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return check{Err: "ping: " + err.Error()}
	}
	return check{OK: true}
}

func (h *HealthCtrl) Health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 800*time.Millisecond)
	defer cancel()

	db := h.pingDB(ctx)
	checks := map[string]any{"database": db}

	allOK := db.OK
	if h.poller != nil {
		st := h.poller.Status()
		checks["reminders"] = st
		allOK = allOK && st.Running
	} else {
		checks["reminders"] = map[string]any{"enabled": false}
	}

	status := http.StatusOK
	if !allOK {
		status = http.StatusServiceUnavailable
	}
	return c.JSON(status, map[string]any{
		"status":     map[string]any{"ok": allOK},
		"uptime_sec": int(time.Since(appStart).Seconds()),
		"checks":     checks,
		"time":       time.Now().Format(time.RFC3339),
	})
}
