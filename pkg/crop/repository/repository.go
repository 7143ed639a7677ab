package repository

import (
	"context"
	"time"

	"agrovision/entities"
	"agrovision/pkg/pagination"
)

type Filter struct {
	AreaID     string
	ClientID   string
	Stage      entities.CropStage
	Search     string
	From, To   *time.Time // on PlantingDate, To exclusive
	Restricted bool
	ClientIDs  []string
}

type Repo interface {
	Create(ctx context.Context, c *entities.Crop) error
	Update(ctx context.Context, c *entities.Crop) error
	FindByID(ctx context.Context, id string) (*entities.Crop, error)
	List(ctx context.Context, f Filter, p pagination.Params) ([]entities.Crop, int64, error)
	Delete(ctx context.Context, id string) error
}
