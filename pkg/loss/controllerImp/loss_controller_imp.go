package controllerImp

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"agrovision/entities"
	"agrovision/pkg/httpx"
	"agrovision/pkg/loss/controller"
	"agrovision/pkg/loss/repository"
	"agrovision/pkg/loss/service"
	"agrovision/pkg/middleware"
	"agrovision/pkg/pagination"
)

const xlsxType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var sortable = pagination.Sortable{
	"dataOcorrencia": "occurred_at",
	"valorEstimado":  "estimated_value",
	"tipo":           "type",
	"status":         "status",
	"dataCriacao":    "created_at",
}

type lossCtrl struct{ s service.LossService }

func New(s service.LossService) controller.LossController { return &lossCtrl{s} }

func (h *lossCtrl) List(c echo.Context) error {
	p, err := pagination.Parse(c.QueryParams(), sortable, "dataOcorrencia")
	if err != nil {
		return err
	}
	f := repository.Filter{
		CropID: c.QueryParam("culturaId"),
		PestID: c.QueryParam("pragaId"),
		Type:   entities.LossType(c.QueryParam("tipo")),
		Status: entities.LossStatus(c.QueryParam("status")),
	}
	if v := c.QueryParam("dataInicio"); v != "" {
		if f.From, err = httpx.OptionalDate("dataInicio", &v); err != nil {
			return err
		}
	}
	if v := c.QueryParam("dataFim"); v != "" {
		if f.To, err = httpx.OptionalDate("dataFim", &v); err != nil {
			return err
		}
	}
	page, err := h.s.List(c.Request().Context(), middleware.PrincipalFrom(c), f, p)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, page)
}

func (h *lossCtrl) Get(c echo.Context) error {
	l, err := h.s.Get(c.Request().Context(), middleware.PrincipalFrom(c), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, l)
}

func (h *lossCtrl) Create(c echo.Context) error {
	var req service.CreateInput
	if err := httpx.Bind(c, &req); err != nil {
		return err
	}
	l, err := h.s.Create(c.Request().Context(), middleware.PrincipalFrom(c), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, l)
}

func (h *lossCtrl) Update(c echo.Context) error {
	var req service.UpdateInput
	if err := httpx.Bind(c, &req); err != nil {
		return err
	}
	l, err := h.s.Update(c.Request().Context(), middleware.PrincipalFrom(c), c.Param("id"), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, l)
}

func (h *lossCtrl) Delete(c echo.Context) error {
	if err := h.s.Delete(c.Request().Context(), middleware.PrincipalFrom(c), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// GET /losses/report?dataInicio=&dataFim=
func (h *lossCtrl) Report(c echo.Context) error {
	r, err := h.s.Report(c.Request().Context(), middleware.PrincipalFrom(c), c.QueryParam("dataInicio"), c.QueryParam("dataFim"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, r)
}

func (h *lossCtrl) Export(c echo.Context) error {
	start, end := c.QueryParam("dataInicio"), c.QueryParam("dataFim")
	var buf bytes.Buffer
	if err := h.s.Export(c.Request().Context(), middleware.PrincipalFrom(c), start, end, &buf); err != nil {
		return err
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="perdas_%s_%s.xlsx"`, start, end))
	return c.Blob(http.StatusOK, xlsxType, buf.Bytes())
}
