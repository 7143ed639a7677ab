package controllerImp

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"agrovision/entities"
	"agrovision/pkg/httpx"
	"agrovision/pkg/middleware"
	"agrovision/pkg/pagination"
	"agrovision/pkg/user/controller"
	"agrovision/pkg/user/repository"
	"agrovision/pkg/user/service"
)

var sortable = pagination.Sortable{
	"nome":        "name",
	"email":       "email",
	"role":        "role",
	"status":      "status",
	"ultimoLogin": "last_login_at",
	"dataCriacao": "created_at",
}

type userCtrl struct{ s service.UserService }

func New(s service.UserService) controller.UserController { return &userCtrl{s: s} }

func (h *userCtrl) List(c echo.Context) error {
	p, err := pagination.Parse(c.QueryParams(), sortable, "dataCriacao")
	if err != nil {
		return err
	}
	f := repository.Filter{
		Search:   c.QueryParam("search"),
		Role:     entities.Role(c.QueryParam("role")),
		Status:   entities.AccountStatus(c.QueryParam("status")),
		Scope:    entities.AccessScope(c.QueryParam("tipoAcesso")),
		ClientID: c.QueryParam("clienteId"),
	}
	page, err := h.s.List(c.Request().Context(), middleware.PrincipalFrom(c), f, p)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, page)
}

func (h *userCtrl) Get(c echo.Context) error {
	a, err := h.s.Get(c.Request().Context(), middleware.PrincipalFrom(c), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, a)
}

func (h *userCtrl) Create(c echo.Context) error {
	var in service.CreateInput
	if err := httpx.Bind(c, &in); err != nil {
		return err
	}
	a, err := h.s.Create(c.Request().Context(), middleware.PrincipalFrom(c), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, a)
}

func (h *userCtrl) Update(c echo.Context) error {
	var in service.UpdateInput
	if err := httpx.Bind(c, &in); err != nil {
		return err
	}
	a, err := h.s.Update(c.Request().Context(), middleware.PrincipalFrom(c), c.Param("id"), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, a)
}

func (h *userCtrl) Delete(c echo.Context) error {
	if err := h.s.Delete(c.Request().Context(), middleware.PrincipalFrom(c), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

type changePasswordReq struct {
	Current *string `json:"senhaAtual"`
	Next    string  `json:"novaSenha" validate:"required,min=6,max=72"`
}

func (h *userCtrl) ChangePassword(c echo.Context) error {
	var in changePasswordReq
	if err := httpx.Bind(c, &in); err != nil {
		return err
	}
	if err := h.s.ChangePassword(c.Request().Context(), middleware.PrincipalFrom(c), c.Param("id"), in.Current, in.Next); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Senha alterada com sucesso"})
}

func (h *userCtrl) ListByClient(c echo.Context) error {
	out, err := h.s.ListByClient(c.Request().Context(), middleware.PrincipalFrom(c), c.Param("clientId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"data": out})
}
