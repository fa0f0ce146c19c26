package controller

import "github.com/labstack/echo/v4"

type ReminderController interface {
	Create(c echo.Context) error
	List(c echo.Context) error
	Cancel(c echo.Context) error
	Snooze(c echo.Context) error
	Transcript(c echo.Context) error
}
