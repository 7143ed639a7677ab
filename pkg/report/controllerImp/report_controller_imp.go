package controllerImp

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"agrovision/entities"
	"agrovision/pkg/middleware"
	"agrovision/pkg/pagination"
	"agrovision/pkg/report/controller"
	"agrovision/pkg/report/service"
)

var sortable = pagination.Sortable{"dataGeracao": "generated_at"}

type ReportCtrl struct{ s service.ReportService }

func New(s service.ReportService) controller.ReportController { return &ReportCtrl{s} }

func (h *ReportCtrl) List(c echo.Context) error {
	p, err := pagination.Parse(c.QueryParams(), sortable, "dataGeracao")
	if err != nil {
		return err
	}
	period := entities.ReportPeriod(c.QueryParam("periodo"))
	page, err := h.s.List(c.Request().Context(), middleware.PrincipalFrom(c), period, p)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, page)
}
