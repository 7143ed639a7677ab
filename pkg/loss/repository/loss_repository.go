package repository

import (
	"context"
	"time"

	"agrovision/entities"
	"agrovision/pkg/pagination"
)

type Filter struct {
	CropID     string
	PestID     string
	Type       entities.LossType
	Status     entities.LossStatus
	From, To   *time.Time // on OccurredAt, To exclusive
	Restricted bool
	ClientIDs  []string
}

type LossRepository interface {
	Create(ctx context.Context, l *entities.Loss) error
	Save(ctx context.Context, l *entities.Loss) error
	FindByID(ctx context.Context, id string) (*entities.Loss, error)
	List(ctx context.Context, f Filter, p pagination.Params) ([]entities.Loss, int64, error)
	// All returns every loss matching f, oldest first.
	All(ctx context.Context, f Filter) ([]entities.Loss, error)
	Delete(ctx context.Context, id string) error
}
