package controller

import "github.com/labstack/echo/v4"

type ReportController interface {
	List(c echo.Context) error
}
