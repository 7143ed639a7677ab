// Package access decides what an authenticated account may do: permission
// flags per resource and action, and which clients it may act on.
package access

import (
	"fmt"
	"slices"

	"agrovision/entities"
	"agrovision/pkg/apperr"
)

// Principal is the caller as seen by services. It is built from the live
// account record on every request.
type Principal struct {
	AccountID   string
	Role        entities.Role
	Scope       entities.AccessScope
	ClientIDs   []string
	Permissions entities.Permissions
}

func FromAccount(a *entities.Account) Principal {
	return Principal{
		AccountID:   a.ID,
		Role:        a.Role,
		Scope:       a.AccessScope,
		ClientIDs:   slices.Clone(a.ClientIDs),
		Permissions: a.Permissions,
	}
}

func (p Principal) IsAdmin() bool  { return p.Role == entities.RoleAdmin }
func (p Principal) IsGlobal() bool { return p.Scope == entities.ScopeGlobal }

// Can reports the permission flag; admins hold every permission.
func (p Principal) Can(r entities.Resource, a entities.Action) bool {
	return p.IsAdmin() || p.Permissions.Allows(r, a)
}

// CanAccessClient is true for global accounts and for linked clients.
func (p Principal) CanAccessClient(clientID string) bool {
	return p.IsGlobal() || slices.Contains(p.ClientIDs, clientID)
}

// ClientFilter returns the client ids list queries must be limited to.
// restricted is false for global accounts.
func (p Principal) ClientFilter() (ids []string, restricted bool) {
	if p.IsGlobal() {
		return nil, false
	}
	return p.ClientIDs, true
}

func (p Principal) Require(r entities.Resource, a entities.Action) error {
	if p.Can(r, a) {
		return nil
	}
	return apperr.Forbidden(fmt.Sprintf("Permissão negada: %s.%s", r, a))
}

func (p Principal) RequireClient(clientID string) error {
	if p.IsGlobal() {
		return nil
	}
	if len(p.ClientIDs) == 0 {
		return apperr.Forbidden("Usuário não possui clientes vinculados")
	}
	if !slices.Contains(p.ClientIDs, clientID) {
		return apperr.Forbidden("Acesso negado a este cliente")
	}
	return nil
}

// RequireAny is the list-level check: a client-scoped caller with no linked
// clients can not list anything.
func (p Principal) RequireAny() error {
	if !p.IsGlobal() && len(p.ClientIDs) == 0 {
		return apperr.Forbidden("Usuário não possui clientes vinculados")
	}
	return nil
}
