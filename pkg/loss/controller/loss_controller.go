package controller

import "github.com/labstack/echo/v4"

type LossController interface {
	List(c echo.Context) error
	Get(c echo.Context) error
	Create(c echo.Context) error
	Update(c echo.Context) error
	Delete(c echo.Context) error
	Report(c echo.Context) error
	Export(c echo.Context) error
}
