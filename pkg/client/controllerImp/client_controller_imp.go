package controllerImp

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"agrovision/entities"
	"agrovision/pkg/client/controller"
	"agrovision/pkg/client/repository"
	"agrovision/pkg/client/service"
	"agrovision/pkg/httpx"
	"agrovision/pkg/middleware"
	"agrovision/pkg/pagination"
)

var sortable = pagination.Sortable{
	"nome":        "name",
	"email":       "email",
	"status":      "status",
	"areaTotal":   "total_area",
	"dataCriacao": "created_at",
}

type clientCtrl struct{ s service.ClientService }

func New(s service.ClientService) controller.ClientController { return &clientCtrl{s: s} }

func (h *clientCtrl) List(c echo.Context) error {
	p, err := pagination.Parse(c.QueryParams(), sortable, "dataCriacao")
	if err != nil {
		return err
	}
	f := repository.Filter{
		Search:         c.QueryParam("search"),
		Status:         entities.ClientStatus(c.QueryParam("status")),
		ProductionType: c.QueryParam("tipoProducao"),
		DocumentType:   entities.DocumentType(c.QueryParam("tipoDocumento")),
	}
	page, err := h.s.List(c.Request().Context(), middleware.PrincipalFrom(c), f, p)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, page)
}

func (h *clientCtrl) Get(c echo.Context) error {
	out, err := h.s.Get(c.Request().Context(), middleware.PrincipalFrom(c), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

func (h *clientCtrl) Create(c echo.Context) error {
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

func (h *clientCtrl) Update(c echo.Context) error {
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

func (h *clientCtrl) Delete(c echo.Context) error {
	if err := h.s.Delete(c.Request().Context(), middleware.PrincipalFrom(c), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
