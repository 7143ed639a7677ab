package router

import (
	"github.com/labstack/echo/v4"

	"agrovision/entities"
	"agrovision/pkg/middleware"
)

type crud interface {
	List(echo.Context) error
	Get(echo.Context) error
	Create(echo.Context) error
	Update(echo.Context) error
	Delete(echo.Context) error
}

// Handlers are the controllers and gates New mounts.
type Handlers struct {
	Health interface{ Health(echo.Context) error }
	Auth   interface {
		Login(echo.Context) error
		Register(echo.Context) error
		Verify(echo.Context) error
		Logout(echo.Context) error
		ChangePassword(echo.Context) error
	}
	Users interface {
		crud
		ChangePassword(echo.Context) error
		ListByClient(echo.Context) error
	}
	Clients    crud
	Properties crud
	Areas      crud
	Crops      interface{ Register(*echo.Group) }
	Pests      crud
	Losses     interface {
		crud
		Report(echo.Context) error
		Export(echo.Context) error
	}
	Reports interface{ List(echo.Context) error }

	Authenticate echo.MiddlewareFunc
	LoginLimit   echo.MiddlewareFunc
	Accounts     middleware.AccountLookup
}

func New(e *echo.Echo, h Handlers) *echo.Echo {
	e.GET("/health", h.Health.Health)

	auth := e.Group("/api/auth")
	auth.POST("/login", h.Auth.Login, h.LoginLimit)
	auth.POST("/register", h.Auth.Register, h.Authenticate, middleware.RequireRoles(entities.RoleAdmin))
	auth.GET("/verify", h.Auth.Verify, h.Authenticate)
	auth.POST("/logout", h.Auth.Logout, h.Authenticate)
	auth.PUT("/change-password", h.Auth.ChangePassword, h.Authenticate)

	api := e.Group("/api", h.Authenticate)
	scoped := middleware.RequireClientAccess("clienteId")

	mount(api.Group("/clients"), h.Clients, middleware.RequireClientAccess("id"))
	mount(api.Group("/properties"), h.Properties, scoped)
	mount(api.Group("/areas"), h.Areas, scoped)
	h.Crops.Register(api.Group("/crops", scoped))
	mount(api.Group("/pests"), h.Pests, nil)

	losses := api.Group("/losses")
	losses.GET("/report", h.Losses.Report, middleware.RequirePermission(entities.ResourceReports, entities.ActionView))
	losses.GET("/report/export", h.Losses.Export, middleware.RequirePermission(entities.ResourceReports, entities.ActionExport))
	mount(losses, h.Losses, nil)

	users := api.Group("/users")
	users.GET("/by-client/:clientId", h.Users.ListByClient, middleware.RequireClientAccess("clientId"))
	users.PUT("/:id/change-password", h.Users.ChangePassword, middleware.RequireSelfOrAdmin("id", h.Accounts))
	mount(users, h.Users, nil)

	api.GET("/reports", h.Reports.List,
		middleware.RequireGlobal(),
		middleware.RequirePermission(entities.ResourceReports, entities.ActionView))

	return e
}

// mount registers the five CRUD routes, each behind gate when it is set.
func mount(g *echo.Group, c crud, gate echo.MiddlewareFunc) {
	var mw []echo.MiddlewareFunc
	if gate != nil {
		mw = append(mw, gate)
	}
	g.GET("", c.List, mw...)
	g.GET("/:id", c.Get, mw...)
	g.POST("", c.Create, mw...)
	g.PUT("/:id", c.Update, mw...)
	g.DELETE("/:id", c.Delete, mw...)
}
