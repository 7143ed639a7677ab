package controllerImp

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"agrovision/entities"
	"agrovision/pkg/area/controller"
	"agrovision/pkg/area/repository"
	"agrovision/pkg/area/service"
	"agrovision/pkg/httpx"
	"agrovision/pkg/middleware"
	"agrovision/pkg/pagination"
)

var sortable = pagination.Sortable{
	"nome":        "name",
	"tamanho":     "size_ha",
	"tipo":        "type",
	"dataPlantio": "planting_date",
	"dataCriacao": "created_at",
}

type AreaCtrl struct{ s service.AreaService }

func New(s service.AreaService) controller.AreaController { return &AreaCtrl{s} }

func (h *AreaCtrl) List(c echo.Context) error {
	p, err := pagination.Parse(c.QueryParams(), sortable, "dataCriacao")
	if err != nil {
		return err
	}
	f := repository.Filter{
		ClientID: c.QueryParam("clienteId"),
		Type:     entities.AreaType(c.QueryParam("tipo")),
		Status:   entities.CultivationStatus(c.QueryParam("status")),
		Search:   c.QueryParam("search"),
	}
	page, err := h.s.List(c.Request().Context(), middleware.PrincipalFrom(c), f, p)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, page)
}

func (h *AreaCtrl) Get(c echo.Context) error {
	a, err := h.s.Get(c.Request().Context(), middleware.PrincipalFrom(c), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, a)
}

func (h *AreaCtrl) Create(c echo.Context) error {
	var req service.CreateInput
	if err := httpx.Bind(c, &req); err != nil {
		return err
	}
	a, err := h.s.Create(c.Request().Context(), middleware.PrincipalFrom(c), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, a)
}

func (h *AreaCtrl) Update(c echo.Context) error {
	var req service.UpdateInput
	if err := httpx.Bind(c, &req); err != nil {
		return err
	}
	a, err := h.s.Update(c.Request().Context(), middleware.PrincipalFrom(c), c.Param("id"), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, a)
}

func (h *AreaCtrl) Delete(c echo.Context) error {
	if err := h.s.Delete(c.Request().Context(), middleware.PrincipalFrom(c), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
