package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"agrovision/entities"
	"agrovision/pkg/access"
	"agrovision/pkg/apperr"
)

var (
	globalAdmin = access.Principal{AccountID: "adm", Role: entities.RoleAdmin, Scope: entities.ScopeGlobal,
		Permissions: access.DefaultPermissions(entities.RoleAdmin)}
	manager = access.Principal{AccountID: "mgr", Role: entities.RoleManager, Scope: entities.ScopeClient,
		ClientIDs: []string{"c1"}, Permissions: access.DefaultPermissions(entities.RoleManager)}
	viewer = access.Principal{AccountID: "vw", Role: entities.RoleViewer, Scope: entities.ScopeClient,
		ClientIDs: []string{"c2"}, Permissions: access.DefaultPermissions(entities.RoleViewer)}
	orphan = access.Principal{AccountID: "or", Role: entities.RoleOperator, Scope: entities.ScopeClient,
		Permissions: access.DefaultPermissions(entities.RoleOperator)}
)

func ok(c echo.Context) error { return c.NoContent(http.StatusOK) }

// gate runs mw for a request as p and returns the apperr kind it failed with,
// or "" when the handler was reached.
func gate(t *testing.T, mw echo.MiddlewareFunc, p *access.Principal, req *http.Request, names, values []string) apperr.Kind {
	t.Helper()
	e := echo.New()
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetParamNames(names...)
	c.SetParamValues(values...)
	if p != nil {
		c.Set(ctxPrincipal, *p)
	}
	err := mw(ok)(c)
	if err == nil {
		return ""
	}
	ae, found := apperr.As(err)
	if !found {
		t.Fatalf("unexpected error %v", err)
	}
	return ae.Kind
}

func get(target string) *http.Request { return httptest.NewRequest(http.MethodGet, target, nil) }

func TestRequireRolesAndGlobal(t *testing.T) {
	tests := []struct {
		name string
		mw   echo.MiddlewareFunc
		p    *access.Principal
		want apperr.Kind
	}{
		{"admin role", RequireRoles(entities.RoleAdmin), &globalAdmin, ""},
		{"manager not admin", RequireRoles(entities.RoleAdmin), &manager, apperr.KindForbidden},
		{"no principal", RequireRoles(entities.RoleAdmin), nil, apperr.KindUnauthenticated},
		{"global", RequireGlobal(), &globalAdmin, ""},
		{"scoped", RequireGlobal(), &manager, apperr.KindForbidden},
		{"permission held", RequirePermission(entities.ResourceReports, entities.ActionExport), &manager, ""},
		{"permission missing", RequirePermission(entities.ResourceReports, entities.ActionExport), &viewer, apperr.KindForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := gate(t, tt.mw, tt.p, get("/"), nil, nil); got != tt.want {
				t.Errorf("kind = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRequireClientAccess(t *testing.T) {
	post := func(body string) *http.Request {
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
		r.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		return r
	}
	tests := []struct {
		name   string
		p      access.Principal
		req    *http.Request
		values []string
		want   apperr.Kind
	}{
		{"path param linked", manager, get("/"), []string{"c1"}, ""},
		{"path param foreign", manager, get("/"), []string{"c2"}, apperr.KindForbidden},
		{"query foreign", manager, get("/?clienteId=c2"), []string{""}, apperr.KindForbidden},
		{"body foreign", manager, post(`{"clienteId":"c2"}`), []string{""}, apperr.KindForbidden},
		{"body linked", manager, post(`{"clienteId":"c1"}`), []string{""}, ""},
		{"no client named", manager, get("/"), []string{""}, ""},
		{"global passes", globalAdmin, get("/?clienteId=c9"), []string{""}, ""},
		{"empty list", orphan, get("/?clienteId=c1"), []string{""}, apperr.KindForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := gate(t, RequireClientAccess("clienteId"), &tt.p, tt.req, []string{"clienteId"}, tt.values)
			if got != tt.want {
				t.Errorf("kind = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRequireSelfOrAdmin(t *testing.T) {
	accounts := map[string]*entities.Account{
		"shared":  {Base: entities.Base{ID: "shared"}, AccessScope: entities.ScopeClient, ClientIDs: []string{"c1"}},
		"foreign": {Base: entities.Base{ID: "foreign"}, AccessScope: entities.ScopeClient, ClientIDs: []string{"c2"}},
		"global":  {Base: entities.Base{ID: "global"}, AccessScope: entities.ScopeGlobal},
	}
	lookup := func(_ context.Context, id string) (*entities.Account, error) {
		if a, ok := accounts[id]; ok {
			return a, nil
		}
		return nil, errors.New("not found")
	}
	tests := []struct {
		name   string
		p      access.Principal
		target string
		want   apperr.Kind
	}{
		{"global admin", globalAdmin, "foreign", ""},
		{"self", viewer, "vw", ""},
		{"manager shares client", manager, "shared", ""},
		{"manager no shared client", manager, "foreign", apperr.KindForbidden},
		{"manager on global account", manager, "global", apperr.KindForbidden},
		{"manager unknown target", manager, "ghost", apperr.KindForbidden},
		{"viewer on other", viewer, "shared", apperr.KindForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := gate(t, RequireSelfOrAdmin("id", lookup), &tt.p, get("/"), []string{"id"}, []string{tt.target})
			if got != tt.want {
				t.Errorf("kind = %q, want %q", got, tt.want)
			}
		})
	}
}
