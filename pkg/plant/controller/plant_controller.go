package controller

import "github.com/labstack/echo/v4"

type PlantController interface {
	Create(c echo.Context) error
	List(c echo.Context) error
	Due(c echo.Context) error
	Get(c echo.Context) error
	Update(c echo.Context) error
	Delete(c echo.Context) error
	Water(c echo.Context) error
	History(c echo.Context) error
	ReportIssue(c echo.Context) error
	Issues(c echo.Context) error
	ResolveIssue(c echo.Context) error
	Diagnose(c echo.Context) error
}
