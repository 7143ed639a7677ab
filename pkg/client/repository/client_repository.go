package repository

import (
	"context"

	"agrovision/entities"
	"agrovision/pkg/pagination"
)

// Filter narrows client listings. Restricted limits results to IDs.
type Filter struct {
	Search         string
	Status         entities.ClientStatus
	ProductionType string
	DocumentType   entities.DocumentType
	Restricted     bool
	IDs            []string
}

type ClientRepository interface {
	Create(ctx context.Context, c *entities.Client) error
	Save(ctx context.Context, c *entities.Client) error
	FindByID(ctx context.Context, id string) (*entities.Client, error)
	EmailTaken(ctx context.Context, email, exceptID string) (bool, error)
	DocumentTaken(ctx context.Context, doc, exceptID string) (bool, error)
	List(ctx context.Context, f Filter, p pagination.Params) ([]entities.Client, int64, error)
	// ExistingIDs returns the subset of ids naming live clients.
	ExistingIDs(ctx context.Context, ids []string) ([]string, error)
	Delete(ctx context.Context, id string) error
}
