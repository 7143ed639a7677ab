package repository

import (
	"context"

	"agrovision/entities"
	"agrovision/pkg/pagination"
)

type Filter struct {
	CropID     string
	Severity   entities.Severity
	Type       entities.PestType
	ActiveOnly bool
	Restricted bool
	ClientIDs  []string
}

type PestRepository interface {
	Create(ctx context.Context, p *entities.Pest) error
	Save(ctx context.Context, p *entities.Pest) error
	FindByID(ctx context.Context, id string) (*entities.Pest, error)
	List(ctx context.Context, f Filter, p pagination.Params) ([]entities.Pest, int64, error)
	Delete(ctx context.Context, id string) error
	// HasLosses reports whether any live loss cites the pest.
	HasLosses(ctx context.Context, id string) (bool, error)
}
