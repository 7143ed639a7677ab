package service

import (
	"context"

	"agrovision/entities"
	"agrovision/pkg/access"
	"agrovision/pkg/pagination"
	"agrovision/pkg/user/repository"
)

type CreateInput struct {
	Name        string                 `json:"nome" validate:"required,max=100"`
	Email       string                 `json:"email" validate:"required,email"`
	Password    string                 `json:"senha" validate:"required,min=6,max=72"`
	Phone       string                 `json:"telefone" validate:"max=32"`
	Avatar      string                 `json:"avatar"`
	Role        entities.Role          `json:"role" validate:"omitempty,oneof=admin manager operator viewer"`
	Status      entities.AccountStatus `json:"status" validate:"omitempty,oneof=ativo inativo suspenso"`
	Scope       entities.AccessScope   `json:"tipoAcesso" validate:"omitempty,oneof=global cliente-especifico"`
	ClientIDs   []string               `json:"clientesVinculados"`
	Permissions *entities.Permissions  `json:"permissoes"`
}

// UpdateInput is a partial update; nil fields are left alone.
type UpdateInput struct {
	Name        *string                 `json:"nome" validate:"omitempty,min=1,max=100"`
	Email       *string                 `json:"email" validate:"omitempty,email"`
	Phone       *string                 `json:"telefone" validate:"omitempty,max=32"`
	Avatar      *string                 `json:"avatar"`
	Role        *entities.Role          `json:"role" validate:"omitempty,oneof=admin manager operator viewer"`
	Status      *entities.AccountStatus `json:"status" validate:"omitempty,oneof=ativo inativo suspenso"`
	Scope       *entities.AccessScope   `json:"tipoAcesso" validate:"omitempty,oneof=global cliente-especifico"`
	ClientIDs   *[]string               `json:"clientesVinculados"`
	Permissions *entities.Permissions   `json:"permissoes"`
}

// ClientLookup reports which of the given client ids exist.
type ClientLookup interface {
	ExistingIDs(ctx context.Context, ids []string) ([]string, error)
}

type UserService interface {
	List(ctx context.Context, caller access.Principal, f repository.Filter, p pagination.Params) (pagination.Page[entities.Account], error)
	Get(ctx context.Context, caller access.Principal, id string) (*entities.Account, error)
	Create(ctx context.Context, caller access.Principal, in CreateInput) (*entities.Account, error)
	Update(ctx context.Context, caller access.Principal, id string, in UpdateInput) (*entities.Account, error)
	Delete(ctx context.Context, caller access.Principal, id string) error
	// ChangePassword needs current when callers change their own password.
	ChangePassword(ctx context.Context, caller access.Principal, id string, current *string, next string) error
	ListByClient(ctx context.Context, caller access.Principal, clientID string) ([]entities.Account, error)
}
