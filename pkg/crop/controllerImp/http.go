package controllerImp

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"agrovision/entities"
	"agrovision/pkg/crop/repository"
	csvc "agrovision/pkg/crop/service"
	"agrovision/pkg/httpx"
	"agrovision/pkg/middleware"
	"agrovision/pkg/pagination"
)

var sortable = pagination.Sortable{
	"nome":         "name",
	"dataPlantio":  "planting_date",
	"dataColheita": "harvest_date",
	"estadoAtual":  "stage",
	"dataCriacao":  "created_at",
}

type httpCtrl struct{ s csvc.Service }

func New(s csvc.Service) *httpCtrl { return &httpCtrl{s: s} }

// Register mounts the crop routes on g, which is expected to be authenticated.
func (h *httpCtrl) Register(g *echo.Group) {
	g.GET("", h.list)
	g.GET("/:id", h.get)
	g.POST("", h.create)
	g.PUT("/:id", h.patch)
	g.PATCH("/:id", h.patch)
	g.DELETE("/:id", h.remove)
}

func (h *httpCtrl) list(c echo.Context) error {
	p, err := pagination.Parse(c.QueryParams(), sortable, "dataPlantio")
	if err != nil {
		return err
	}
	f := repository.Filter{
		AreaID:   c.QueryParam("areaId"),
		ClientID: c.QueryParam("clienteId"),
		Stage:    entities.CropStage(c.QueryParam("estadoAtual")),
		Search:   c.QueryParam("search"),
	}
	if f.From, err = httpx.OptionalDate("dataInicio", query(c, "dataInicio")); err != nil {
		return err
	}
	if f.To, err = httpx.OptionalDate("dataFim", query(c, "dataFim")); err != nil {
		return err
	}
	page, err := h.s.List(c.Request().Context(), middleware.PrincipalFrom(c), f, p)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, page)
}

func (h *httpCtrl) get(c echo.Context) error {
	out, err := h.s.Get(c.Request().Context(), middleware.PrincipalFrom(c), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

func (h *httpCtrl) create(c echo.Context) error {
	var in csvc.CropInput
	if err := httpx.Bind(c, &in); err != nil {
		return err
	}
	out, err := h.s.Create(c.Request().Context(), middleware.PrincipalFrom(c), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *httpCtrl) patch(c echo.Context) error {
	var in csvc.CropPatch
	if err := httpx.Bind(c, &in); err != nil {
		return err
	}
	out, err := h.s.UpdatePartial(c.Request().Context(), middleware.PrincipalFrom(c), c.Param("id"), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

func (h *httpCtrl) remove(c echo.Context) error {
	if err := h.s.Delete(c.Request().Context(), middleware.PrincipalFrom(c), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func query(c echo.Context, name string) *string {
	v := c.QueryParam(name)
	return &v
}
