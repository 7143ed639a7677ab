package service

import (
	"context"

	"agrovision/entities"
	"agrovision/pkg/access"
	"agrovision/pkg/pagination"
	"agrovision/pkg/pest/repository"
)

type CropLookup interface {
	Find(ctx context.Context, id string) (*entities.Crop, error)
}

type CreateInput struct {
	CropID     string            `json:"culturaId" validate:"required"`
	Name       string            `json:"nome" validate:"required,max=100"`
	Type       entities.PestType `json:"tipo" validate:"required,oneof=inseto fungo doença erva_daninha"`
	Severity   entities.Severity `json:"gravidade" validate:"required,oneof=baixa média alta"`
	DetectedAt string            `json:"dataDeteccao" validate:"required"`
	AffectedHa *float64          `json:"areaAfetada" validate:"omitempty,gte=0"`
	Treatment  string            `json:"tratamentoAplicado"`
	ResolvedAt *string           `json:"dataResolucao"`
	Notes      string            `json:"observacoes"`
}

type UpdateInput struct {
	CropID     *string            `json:"culturaId" validate:"omitempty,min=1"`
	Name       *string            `json:"nome" validate:"omitempty,min=1,max=100"`
	Type       *entities.PestType `json:"tipo" validate:"omitempty,oneof=inseto fungo doença erva_daninha"`
	Severity   *entities.Severity `json:"gravidade" validate:"omitempty,oneof=baixa média alta"`
	DetectedAt *string            `json:"dataDeteccao"`
	AffectedHa *float64           `json:"areaAfetada" validate:"omitempty,gte=0"`
	Treatment  *string            `json:"tratamentoAplicado"`
	ResolvedAt *string            `json:"dataResolucao"` // "" reopens
	Notes      *string            `json:"observacoes"`
}

type PestService interface {
	List(ctx context.Context, caller access.Principal, f repository.Filter, p pagination.Params) (pagination.Page[entities.Pest], error)
	Get(ctx context.Context, caller access.Principal, id string) (*entities.Pest, error)
	Create(ctx context.Context, caller access.Principal, in CreateInput) (*entities.Pest, error)
	Update(ctx context.Context, caller access.Principal, id string, in UpdateInput) (*entities.Pest, error)
	Delete(ctx context.Context, caller access.Principal, id string) error
	Find(ctx context.Context, id string) (*entities.Pest, error)
}
