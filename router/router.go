package router

import (
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"plantcare/pkg/metrics"
	"plantcare/pkg/middleware"
	plantctrl "plantcare/pkg/plant/controller"
	schedctrl "plantcare/pkg/schedule/controller"
)

func New(
	e *echo.Echo,
	log *zap.Logger,
	plantCtrl plantctrl.PlantController,
	schedCtrl schedctrl.ReminderController,
	assistantCtrl interface {
		Call(echo.Context) error
		Tools(echo.Context) error
	},
	healthCtrl interface{ Health(echo.Context) error },
) *echo.Echo {
	e.Use(echoMiddleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(log))

	e.GET("/health", healthCtrl.Health)
	e.GET("/metrics", metrics.Handler())

	api := e.Group("")

	api.POST("/plants", plantCtrl.Create)
	api.GET("/plants", plantCtrl.List)
	api.GET("/plants/due", plantCtrl.Due)
	api.GET("/plants/:id", plantCtrl.Get)
	api.PATCH("/plants/:id", plantCtrl.Update)
	api.DELETE("/plants/:id", plantCtrl.Delete)

	api.POST("/plants/:id/waterings", plantCtrl.Water)
	api.GET("/plants/:id/waterings", plantCtrl.History)

	api.POST("/plants/:id/issues", plantCtrl.ReportIssue)
	api.GET("/plants/:id/issues", plantCtrl.Issues)
	api.POST("/issues/:id/resolve", plantCtrl.ResolveIssue)
	api.PUT("/issues/:id/diagnosis", plantCtrl.Diagnose)

	api.POST("/reminders", schedCtrl.Create)
	api.GET("/reminders", schedCtrl.List)
	api.DELETE("/reminders/:id", schedCtrl.Cancel)
	api.POST("/reminders/:id/snooze", schedCtrl.Snooze)
	api.GET("/transcript", schedCtrl.Transcript)

	g := e.Group("/assistant")
	g.GET("/tools", assistantCtrl.Tools)
	g.POST("/tools/:tool", assistantCtrl.Call)
	return e
}
