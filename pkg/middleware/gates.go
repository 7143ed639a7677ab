package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"slices"

	"github.com/labstack/echo/v4"

	"agrovision/entities"
	"agrovision/pkg/apperr"
)

// RequireRoles lets through callers holding one of roles.
func RequireRoles(roles ...entities.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p, err := principal(c)
			if err != nil {
				return err
			}
			if !slices.Contains(roles, p.Role) {
				return apperr.Forbidden("Acesso negado para o papel " + string(p.Role))
			}
			return next(c)
		}
	}
}

// RequirePermission checks one cell of the permission matrix. Admins pass.
func RequirePermission(r entities.Resource, a entities.Action) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p, err := principal(c)
			if err != nil {
				return err
			}
			if err := p.Require(r, a); err != nil {
				return err
			}
			return next(c)
		}
	}
}

// RequireGlobal lets through callers with global access only.
func RequireGlobal() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p, err := principal(c)
			if err != nil {
				return err
			}
			if !p.IsGlobal() {
				return apperr.Forbidden("Acesso restrito a usuários com acesso global")
			}
			return next(c)
		}
	}
}

// RequireClientAccess looks for the client id in the path param, then the
// clienteId query param, then a clienteId field in a JSON body. Requests that
// name no client pass through; the service narrows them.
func RequireClientAccess(param string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p, err := principal(c)
			if err != nil {
				return err
			}
			id := c.Param(param)
			if id == "" {
				id = c.QueryParam("clienteId")
			}
			if id == "" {
				id = clientFromBody(c)
			}
			if id == "" {
				return next(c)
			}
			if err := p.RequireClient(id); err != nil {
				return err
			}
			return next(c)
		}
	}
}

// clientFromBody peeks at the JSON body and puts it back for Bind.
func clientFromBody(c echo.Context) string {
	req := c.Request()
	if req.Body == nil || req.ContentLength == 0 {
		return ""
	}
	body, err := io.ReadAll(req.Body)
	req.Body = io.NopCloser(bytes.NewReader(body))
	if err != nil {
		return ""
	}
	var peek struct {
		ClientID string `json:"clienteId"`
	}
	if json.Unmarshal(body, &peek) != nil {
		return ""
	}
	return peek.ClientID
}

// AccountLookup loads an account by id.
type AccountLookup func(ctx context.Context, id string) (*entities.Account, error)

// RequireSelfOrAdmin passes global admins, callers acting on their own
// account, and managers sharing a client with the target account.
func RequireSelfOrAdmin(param string, lookup AccountLookup) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p, err := principal(c)
			if err != nil {
				return err
			}
			id := c.Param(param)
			if (p.IsAdmin() && p.IsGlobal()) || id == p.AccountID {
				return next(c)
			}
			if p.Role == entities.RoleManager {
				target, err := lookup(c.Request().Context(), id)
				if err == nil && !target.IsGlobal() && (p.IsGlobal() || target.SharesClient(p.ClientIDs)) {
					return next(c)
				}
			}
			return apperr.Forbidden("Acesso negado")
		}
	}
}
