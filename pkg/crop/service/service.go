package service

import (
	"context"

	"agrovision/entities"
	"agrovision/pkg/access"
	"agrovision/pkg/crop/repository"
	"agrovision/pkg/pagination"
)

// AreaLookup returns a NotFound error for unknown areas.
type AreaLookup interface {
	Find(ctx context.Context, id string) (*entities.Area, error)
}

type CropInput struct {
	AreaID       string             `json:"areaId" validate:"required"`
	Name         string             `json:"nome" validate:"required,max=100"`
	Variety      string             `json:"variedade" validate:"max=100"`
	PlantingDate string             `json:"dataPlantio" validate:"required"`
	HarvestDate  *string            `json:"dataColheita"`
	Stage        entities.CropStage `json:"estadoAtual" validate:"omitempty,oneof=plantada crescimento floração colhida"`
	Yield        *float64           `json:"produtividade" validate:"omitempty,gte=0"`
	Notes        string             `json:"observacoes"`
}

// CropPatch holds the fields to change; nil means keep.
type CropPatch struct {
	AreaID       *string             `json:"areaId" validate:"omitempty,min=1"`
	Name         *string             `json:"nome" validate:"omitempty,min=1,max=100"`
	Variety      *string             `json:"variedade" validate:"omitempty,max=100"`
	PlantingDate *string             `json:"dataPlantio"`
	HarvestDate  *string             `json:"dataColheita"`
	Stage        *entities.CropStage `json:"estadoAtual" validate:"omitempty,oneof=plantada crescimento floração colhida"`
	Yield        *float64            `json:"produtividade" validate:"omitempty,gte=0"`
	Notes        *string             `json:"observacoes"`
}

type Service interface {
	List(ctx context.Context, caller access.Principal, f repository.Filter, p pagination.Params) (pagination.Page[entities.Crop], error)
	Get(ctx context.Context, caller access.Principal, id string) (*entities.Crop, error)
	Create(ctx context.Context, caller access.Principal, in CropInput) (*entities.Crop, error)
	UpdatePartial(ctx context.Context, caller access.Principal, id string, patch CropPatch) (*entities.Crop, error)
	Delete(ctx context.Context, caller access.Principal, id string) error
	// Find loads a live crop without scope checks.
	Find(ctx context.Context, id string) (*entities.Crop, error)
}
