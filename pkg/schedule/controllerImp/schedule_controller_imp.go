package controllerImp

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"plantcare/entities"
	"plantcare/pkg/apperr"
	"plantcare/pkg/schedule/controller"
	"plantcare/pkg/schedule/service"
	"plantcare/pkg/schedule/types"
)

// TranscriptReader is satisfied by notify.Transcript.
type TranscriptReader interface {
	Recent(ctx context.Context, limit int) ([]entities.TranscriptEntry, error)
}

type SchedCtrl struct {
	svc        service.ScheduleManager
	transcript TranscriptReader
}

func New(svc service.ScheduleManager, transcript TranscriptReader) controller.ReminderController {
	return &SchedCtrl{svc: svc, transcript: transcript}
}

func fail(c echo.Context, err error) error {
	return c.JSON(apperr.HTTPStatus(err), map[string]string{"error": err.Error()})
}

type createReq struct {
	types.Trigger
	PlantID     string `json:"plant_id"`
	Description string `json:"description"`
}

// UnmarshalJSON keeps the embedded Trigger decoder from swallowing the
// other fields.
func (r *createReq) UnmarshalJSON(b []byte) error {
	if err := json.Unmarshal(b, &r.Trigger); err != nil {
		return err
	}
	var rest struct {
		PlantID     string `json:"plant_id"`
		Description string `json:"description"`
	}
	if err := json.Unmarshal(b, &rest); err != nil {
		return err
	}
	r.PlantID, r.Description = rest.PlantID, rest.Description
	return nil
}

func (h *SchedCtrl) Create(c echo.Context) error {
	var req createReq
	if err := json.NewDecoder(c.Request().Body).Decode(&req); err != nil {
		if apperr.IsInvalidTrigger(err) {
			return fail(c, err)
		}
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "bad json"})
	}
	rem, err := h.svc.Schedule(c.Request().Context(), req.Trigger, req.PlantID, req.Description)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, rem)
}

func (h *SchedCtrl) List(c echo.Context) error {
	out, err := h.svc.ListReminders(c.Request().Context())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *SchedCtrl) Cancel(c echo.Context) error {
	if err := h.svc.Cancel(c.Request().Context(), c.Param("id")); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (h *SchedCtrl) Snooze(c echo.Context) error {
	var body struct {
		Duration string `json:"duration"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "bad json"})
	}
	d, err := time.ParseDuration(body.Duration)
	if err != nil {
		return fail(c, apperr.Validation("duration", "must be a duration like 10m"))
	}
	rem, err := h.svc.Snooze(c.Request().Context(), c.Param("id"), d)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, rem)
}

func (h *SchedCtrl) Transcript(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	out, err := h.transcript.Recent(c.Request().Context(), limit)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
