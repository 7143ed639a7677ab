package controllerImp

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"agrovision/entities"
	"agrovision/pkg/apperr"
	"agrovision/pkg/httpx"
	"agrovision/pkg/middleware"
	"agrovision/pkg/pagination"
	"agrovision/pkg/pest/controller"
	"agrovision/pkg/pest/repository"
	"agrovision/pkg/pest/service"
)

var sortable = pagination.Sortable{
	"nome":          "name",
	"gravidade":     "severity",
	"dataDeteccao":  "detected_at",
	"dataResolucao": "resolved_at",
	"dataCriacao":   "created_at",
}

type PestCtrl struct{ s service.PestService }

func New(s service.PestService) controller.PestController { return &PestCtrl{s} }

func (h *PestCtrl) List(c echo.Context) error {
	p, err := pagination.Parse(c.QueryParams(), sortable, "dataDeteccao")
	if err != nil {
		return err
	}
	f := repository.Filter{
		CropID:   c.QueryParam("culturaId"),
		Severity: entities.Severity(c.QueryParam("gravidade")),
		Type:     entities.PestType(c.QueryParam("tipo")),
	}
	if v := c.QueryParam("ativas"); v != "" {
		if f.ActiveOnly, err = strconv.ParseBool(v); err != nil {
			return apperr.Validation("ativas deve ser true ou false")
		}
	}
	page, err := h.s.List(c.Request().Context(), middleware.PrincipalFrom(c), f, p)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, page)
}

func (h *PestCtrl) Get(c echo.Context) error {
	m, err := h.s.Get(c.Request().Context(), middleware.PrincipalFrom(c), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, m)
}

func (h *PestCtrl) Create(c echo.Context) error {
	var req service.CreateInput
	if err := httpx.Bind(c, &req); err != nil {
		return err
	}
	m, err := h.s.Create(c.Request().Context(), middleware.PrincipalFrom(c), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, m)
}

func (h *PestCtrl) Update(c echo.Context) error {
	var req service.UpdateInput
	if err := httpx.Bind(c, &req); err != nil {
		return err
	}
	m, err := h.s.Update(c.Request().Context(), middleware.PrincipalFrom(c), c.Param("id"), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, m)
}

func (h *PestCtrl) Delete(c echo.Context) error {
	if err := h.s.Delete(c.Request().Context(), middleware.PrincipalFrom(c), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
