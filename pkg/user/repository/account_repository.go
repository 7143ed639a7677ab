package repository

import (
	"context"
	"time"

	"agrovision/entities"
	"agrovision/pkg/pagination"
)

// Filter narrows account listings. When Restricted is set, only accounts
// linked to at least one of VisibleClients are returned.
type Filter struct {
	Search         string
	Role           entities.Role
	Status         entities.AccountStatus
	Scope          entities.AccessScope
	ClientID       string
	Restricted     bool
	VisibleClients []string
}

type AccountRepository interface {
	Create(ctx context.Context, a *entities.Account) error
	Save(ctx context.Context, a *entities.Account) error
	// FindByID skips soft-deleted accounts.
	FindByID(ctx context.Context, id string) (*entities.Account, error)
	FindByIDIncludingDeleted(ctx context.Context, id string) (*entities.Account, error)
	FindByEmail(ctx context.Context, email string) (*entities.Account, error)
	EmailTaken(ctx context.Context, email, exceptID string) (bool, error)
	List(ctx context.Context, f Filter, p pagination.Params) ([]entities.Account, int64, error)
	// ListActiveForClient returns active accounts that are global or linked to clientID.
	ListActiveForClient(ctx context.Context, clientID string) ([]entities.Account, error)
	FindGlobalAdmin(ctx context.Context) (*entities.Account, error)

	RecordFailedLogin(ctx context.Context, id string) (attempts int, err error)
	Lock(ctx context.Context, id string, until time.Time) error
	ResetLoginFailures(ctx context.Context, id string) error
	RecordLogin(ctx context.Context, id string, at time.Time) error
	UpdatePassword(ctx context.Context, id, hash string) error

	Delete(ctx context.Context, id string) error
}
