package service

import (
	"context"

	"agrovision/entities"
	"agrovision/pkg/access"
	"agrovision/pkg/area/repository"
	"agrovision/pkg/pagination"
)

type ClientChecker interface {
	Exists(ctx context.Context, id string) error
}

type CreateInput struct {
	ClientID        string                     `json:"clienteId" validate:"required"`
	Name            string                     `json:"nome" validate:"required,max=100"`
	SizeHa          float64                    `json:"tamanho" validate:"gt=0"`
	Location        entities.Location          `json:"localizacao"`
	Type            entities.AreaType          `json:"tipo" validate:"required,oneof=irrigada sequeiro"`
	Soil            string                     `json:"solo" validate:"max=60"`
	Irrigation      bool                       `json:"irrigacao"`
	CurrentCrop     string                     `json:"culturaAtual" validate:"max=100"`
	Status          entities.CultivationStatus `json:"statusCultivo" validate:"omitempty,oneof=preparando plantado crescimento colheita pousio"`
	PlantingDate    *string                    `json:"dataPlantio"`
	ExpectedHarvest *string                    `json:"previsaoColheita"`
	EstimatedYield  *float64                   `json:"produtividadeEstimada" validate:"omitempty,gte=0"`
	Slope           *float64                   `json:"declive" validate:"omitempty,gte=0,lte=100"`
	SoilPH          *float64                   `json:"phSolo" validate:"omitempty,gte=0,lte=14"`
	Notes           string                     `json:"observacoes"`
}

type UpdateInput struct {
	ClientID        *string                     `json:"clienteId" validate:"omitempty,min=1"`
	Name            *string                     `json:"nome" validate:"omitempty,min=1,max=100"`
	SizeHa          *float64                    `json:"tamanho" validate:"omitempty,gt=0"`
	Location        *entities.Location          `json:"localizacao"`
	Type            *entities.AreaType          `json:"tipo" validate:"omitempty,oneof=irrigada sequeiro"`
	Soil            *string                     `json:"solo" validate:"omitempty,max=60"`
	Irrigation      *bool                       `json:"irrigacao"`
	CurrentCrop     *string                     `json:"culturaAtual" validate:"omitempty,max=100"`
	Status          *entities.CultivationStatus `json:"statusCultivo" validate:"omitempty,oneof=preparando plantado crescimento colheita pousio"`
	PlantingDate    *string                     `json:"dataPlantio"`
	ExpectedHarvest *string                     `json:"previsaoColheita"`
	EstimatedYield  *float64                    `json:"produtividadeEstimada" validate:"omitempty,gte=0"`
	Slope           *float64                    `json:"declive" validate:"omitempty,gte=0,lte=100"`
	SoilPH          *float64                    `json:"phSolo" validate:"omitempty,gte=0,lte=14"`
	Notes           *string                     `json:"observacoes"`
}

type AreaService interface {
	List(ctx context.Context, caller access.Principal, f repository.Filter, p pagination.Params) (pagination.Page[entities.Area], error)
	Get(ctx context.Context, caller access.Principal, id string) (*entities.Area, error)
	Create(ctx context.Context, caller access.Principal, in CreateInput) (*entities.Area, error)
	Update(ctx context.Context, caller access.Principal, id string, in UpdateInput) (*entities.Area, error)
	Delete(ctx context.Context, caller access.Principal, id string) error
	// Find loads a live area without scope checks; callers check the client.
	Find(ctx context.Context, id string) (*entities.Area, error)
}
