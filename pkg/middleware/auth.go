package middleware

import (
	"github.com/labstack/echo/v4"

	"agrovision/entities"
	"agrovision/pkg/access"
	"agrovision/pkg/apperr"
	"agrovision/pkg/auth/service"
	"agrovision/pkg/auth/token"
)

// TokenCookie is set by login next to the JSON token.
const TokenCookie = "token"

const (
	ctxAccount   = "account"
	ctxPrincipal = "principal"
)

// Authenticate reads the token from the Authorization header, falling back to
// the token cookie, and loads the live account behind it. Every protected
// route sits behind it.
func Authenticate(auth service.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, ok := token.FromHeader(c.Request().Header.Get(echo.HeaderAuthorization))
			if !ok {
				if ck, err := c.Cookie(TokenCookie); err == nil {
					raw = ck.Value
				}
			}
			a, err := auth.Authenticate(c.Request().Context(), raw)
			if err != nil {
				return err
			}
			c.Set(ctxAccount, a)
			c.Set(ctxPrincipal, access.FromAccount(a))
			return next(c)
		}
	}
}

// AccountFrom returns the account loaded by Authenticate.
func AccountFrom(c echo.Context) (*entities.Account, bool) {
	a, ok := c.Get(ctxAccount).(*entities.Account)
	return a, ok
}

// PrincipalFrom returns the caller. Handlers behind Authenticate can rely on
// it being set; elsewhere the zero Principal holds no permissions.
func PrincipalFrom(c echo.Context) access.Principal {
	p, _ := c.Get(ctxPrincipal).(access.Principal)
	return p
}

func principal(c echo.Context) (access.Principal, error) {
	p, ok := c.Get(ctxPrincipal).(access.Principal)
	if !ok {
		return p, apperr.Unauthenticated(service.MsgTokenMissing)
	}
	return p, nil
}
