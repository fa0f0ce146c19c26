package controllerImp

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"plantcare/pkg/assistant/service"
	"plantcare/pkg/assistant/tools"
)

type AssistantCtrl struct{ f service.Facade }

func New(f service.Facade) *AssistantCtrl { return &AssistantCtrl{f} }

// Call always answers 200 with a Reply unless storage failed.
func (h *AssistantCtrl) Call(c echo.Context) error {
	body, err := io.ReadAll(io.LimitReader(c.Request().Body, 1<<20))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "bad body"})
	}
	if len(body) > 0 && !json.Valid(body) {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "bad json"})
	}
	reply, err := tools.Call(c.Request().Context(), h.f, c.Param("tool"), body)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, reply)
}

func (h *AssistantCtrl) Tools(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{"tools": tools.Names()})
}
