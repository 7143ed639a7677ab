package controllerImp

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"agrovision/entities"
	"agrovision/pkg/httpx"
	"agrovision/pkg/middleware"
	"agrovision/pkg/pagination"
	"agrovision/pkg/property/controller"
	"agrovision/pkg/property/repository"
	"agrovision/pkg/property/service"
)

var sortable = pagination.Sortable{
	"nome":          "name",
	"uf":            "uf",
	"municipio":     "municipality",
	"area_total_ha": "total_area_ha",
	"status":        "status",
	"dataCriacao":   "created_at",
}

type propertyCtrl struct{ s service.PropertyService }

func New(s service.PropertyService) controller.PropertyController { return &propertyCtrl{s: s} }

func (h *propertyCtrl) List(c echo.Context) error {
	p, err := pagination.Parse(c.QueryParams(), sortable, "dataCriacao")
	if err != nil {
		return err
	}
	f := repository.Filter{
		ClientID: c.QueryParam("clienteId"),
		Status:   entities.PropertyStatus(c.QueryParam("status")),
		UF:       c.QueryParam("uf"),
		Search:   c.QueryParam("search"),
	}
	page, err := h.s.List(c.Request().Context(), middleware.PrincipalFrom(c), f, p)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, page)
}

func (h *propertyCtrl) Get(c echo.Context) error {
	out, err := h.s.Get(c.Request().Context(), middleware.PrincipalFrom(c), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

func (h *propertyCtrl) Create(c echo.Context) error {
	var in service.CreateInput
	if err := httpx.Bind(c, &in); err != nil {
		return err
	}
	out, err := h.s.Create(c.Request().Context(), middleware.PrincipalFrom(c), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *propertyCtrl) Update(c echo.Context) error {
	var in service.UpdateInput
	if err := httpx.Bind(c, &in); err != nil {
		return err
	}
	out, err := h.s.Update(c.Request().Context(), middleware.PrincipalFrom(c), c.Param("id"), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

func (h *propertyCtrl) Delete(c echo.Context) error {
	if err := h.s.Delete(c.Request().Context(), middleware.PrincipalFrom(c), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
