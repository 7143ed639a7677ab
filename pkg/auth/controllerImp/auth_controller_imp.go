package controllerImp

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"agrovision/entities"
	"agrovision/pkg/apperr"
	"agrovision/pkg/auth/controller"
	"agrovision/pkg/auth/service"
	"agrovision/pkg/httpx"
	"agrovision/pkg/middleware"
	userService "agrovision/pkg/user/service"
)

type authCtrl struct {
	auth   service.AuthService
	users  userService.UserService
	secure bool
}

// NewAuthController builds the /auth handlers. secure marks the session
// cookie Secure (production).
func NewAuthController(auth service.AuthService, users userService.UserService, secure bool) controller.AuthController {
	return &authCtrl{auth: auth, users: users, secure: secure}
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"senha"`
}

type loginResp struct {
	Message   string            `json:"message"`
	User      *entities.Account `json:"user"`
	Token     string            `json:"token"`
	ExpiresIn int64             `json:"expiresIn"` // seconds
}

func (h *authCtrl) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return apperr.Validation("JSON inválido")
	}
	res, err := h.auth.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}
	c.SetCookie(h.cookie(res.Token, res.ExpiresAt))
	return c.JSON(http.StatusOK, loginResp{
		Message:   "Login realizado com sucesso",
		User:      res.Account,
		Token:     res.Token,
		ExpiresIn: int64(h.auth.TokenLifetime() / time.Second),
	})
}

func (h *authCtrl) Register(c echo.Context) error {
	var in userService.CreateInput
	if err := httpx.Bind(c, &in); err != nil {
		return err
	}
	a, err := h.users.Create(c.Request().Context(), middleware.PrincipalFrom(c), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, echo.Map{"message": "Usuário criado com sucesso", "user": a})
}

func (h *authCtrl) Verify(c echo.Context) error {
	a, _ := middleware.AccountFrom(c)
	return c.JSON(http.StatusOK, echo.Map{"valid": true, "user": a})
}

func (h *authCtrl) Logout(c echo.Context) error {
	ck := h.cookie("", time.Unix(0, 0))
	ck.MaxAge = -1
	c.SetCookie(ck)
	return c.JSON(http.StatusOK, echo.Map{"message": "Logout realizado com sucesso"})
}

type changePasswordReq struct {
	Current string `json:"senhaAtual" validate:"required"`
	Next    string `json:"novaSenha" validate:"required,min=6,max=72"`
}

func (h *authCtrl) ChangePassword(c echo.Context) error {
	var req changePasswordReq
	if err := httpx.Bind(c, &req); err != nil {
		return err
	}
	p := middleware.PrincipalFrom(c)
	if err := h.users.ChangePassword(c.Request().Context(), p, p.AccountID, &req.Current, req.Next); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Senha alterada com sucesso"})
}

func (h *authCtrl) cookie(value string, expires time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     middleware.TokenCookie,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteStrictMode,
	}
}
