package controller

import "github.com/labstack/echo/v4"

type AuthController interface {
	Login(c echo.Context) error
	Register(c echo.Context) error
	Verify(c echo.Context) error
	Logout(c echo.Context) error
	ChangePassword(c echo.Context) error
}
