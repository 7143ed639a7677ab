package repository

import (
	"context"

	"agrovision/entities"
	"agrovision/pkg/pagination"
)

type Filter struct {
	ClientID   string
	Status     entities.PropertyStatus
	UF         string
	Search     string
	Restricted bool
	ClientIDs  []string
}

type PropertyRepository interface {
	Create(ctx context.Context, p *entities.Property) error
	Save(ctx context.Context, p *entities.Property) error
	FindByID(ctx context.Context, id string) (*entities.Property, error)
	List(ctx context.Context, f Filter, p pagination.Params) ([]entities.Property, int64, error)
	Delete(ctx context.Context, id string) error
}
