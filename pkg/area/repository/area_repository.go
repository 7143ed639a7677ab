package repository

import (
	"context"

	"agrovision/entities"
	"agrovision/pkg/pagination"
)

type Filter struct {
	ClientID   string
	Type       entities.AreaType
	Status     entities.CultivationStatus
	Search     string
	Restricted bool
	ClientIDs  []string
}

type AreaRepository interface {
	Create(ctx context.Context, a *entities.Area) error
	Save(ctx context.Context, a *entities.Area) error
	FindByID(ctx context.Context, id string) (*entities.Area, error)
	List(ctx context.Context, f Filter, p pagination.Params) ([]entities.Area, int64, error)
	Delete(ctx context.Context, id string) error
}
