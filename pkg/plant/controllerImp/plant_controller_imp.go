package controllerImp

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"plantcare/pkg/apperr"
	"plantcare/pkg/plant/controller"
	"plantcare/pkg/plant/service"
)

type PlantCtrl struct{ svc service.PlantStore }

func New(svc service.PlantStore) controller.PlantController { return &PlantCtrl{svc} }

func fail(c echo.Context, err error) error {
	return c.JSON(apperr.HTTPStatus(err), map[string]string{"error": err.Error()})
}

func badJSON(c echo.Context) error {
	return c.JSON(http.StatusBadRequest, map[string]string{"error": "bad json"})
}

func (h *PlantCtrl) Create(c echo.Context) error {
	var req service.NewPlant
	if err := c.Bind(&req); err != nil {
		return badJSON(c)
	}
	p, err := h.svc.AddPlant(c.Request().Context(), req)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, p)
}

func (h *PlantCtrl) List(c echo.Context) error {
	ps, err := h.svc.ListPlants(c.Request().Context())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, ps)
}

func (h *PlantCtrl) Due(c echo.Context) error {
	ps, err := h.svc.ListPlantsDueForWatering(c.Request().Context())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, ps)
}

func (h *PlantCtrl) Get(c echo.Context) error {
	p, err := h.svc.GetPlant(c.Request().Context(), c.Param("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *PlantCtrl) Update(c echo.Context) error {
	var patch service.PlantPatch
	if err := c.Bind(&patch); err != nil {
		return badJSON(c)
	}
	p, err := h.svc.UpdatePlant(c.Request().Context(), c.Param("id"), patch)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *PlantCtrl) Delete(c echo.Context) error {
	p, err := h.svc.RemovePlant(c.Request().Context(), c.Param("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

type waterReq struct {
	Notes string `json:"notes"`
}

func (h *PlantCtrl) Water(c echo.Context) error {
	var req waterReq
	if err := c.Bind(&req); err != nil {
		return badJSON(c)
	}
	ev, err := h.svc.RecordWatering(c.Request().Context(), c.Param("id"), req.Notes)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, ev)
}

func (h *PlantCtrl) History(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	out, err := h.svc.GetWateringHistory(c.Request().Context(), c.Param("id"), limit)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

type issueReq struct {
	Description string `json:"description"`
	Diagnosis   string `json:"diagnosis"`
}

func (h *PlantCtrl) ReportIssue(c echo.Context) error {
	var req issueReq
	if err := c.Bind(&req); err != nil {
		return badJSON(c)
	}
	issue, err := h.svc.RecordHealthIssue(c.Request().Context(), c.Param("id"), req.Description, req.Diagnosis)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, issue)
}

func (h *PlantCtrl) Issues(c echo.Context) error {
	all, _ := strconv.ParseBool(c.QueryParam("include_resolved"))
	out, err := h.svc.ListHealthIssues(c.Request().Context(), c.Param("id"), all)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *PlantCtrl) ResolveIssue(c echo.Context) error {
	issue, err := h.svc.ResolveHealthIssue(c.Request().Context(), c.Param("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, issue)
}

func (h *PlantCtrl) Diagnose(c echo.Context) error {
	var req issueReq
	if err := c.Bind(&req); err != nil {
		return badJSON(c)
	}
	issue, err := h.svc.SetDiagnosis(c.Request().Context(), c.Param("id"), req.Diagnosis)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, issue)
}
