package service

import (
	"context"

	"agrovision/entities"
	"agrovision/pkg/access"
	"agrovision/pkg/pagination"
	"agrovision/pkg/property/repository"
)

// ClientChecker returns a NotFound error for unknown clients.
type ClientChecker interface {
	Exists(ctx context.Context, id string) error
}

type CreateInput struct {
	ClientID           string                  `json:"clienteId" validate:"required"`
	Name               string                  `json:"nome" validate:"required,max=150"`
	Country            string                  `json:"pais" validate:"omitempty,len=2"`
	UF                 string                  `json:"uf" validate:"required,len=2"`
	Municipality       string                  `json:"municipio" validate:"required,max=100"`
	Address            string                  `json:"endereco" validate:"max=200"`
	ZipCode            string                  `json:"cep" validate:"max=9"`
	Geom               entities.Geometry       `json:"geom"`
	SRID               int                     `json:"srid" validate:"omitempty,gt=0"`
	TotalAreaHa        float64                 `json:"area_total_ha" validate:"gte=0"`
	Centroid           *entities.Point         `json:"centroide"`
	Status             entities.PropertyStatus `json:"status" validate:"omitempty,oneof=ativa inativa planejada"`
	OperationStart     *string                 `json:"data_inicio_operacao"`
	Tenure             entities.Tenure         `json:"regime_posse" validate:"omitempty,oneof=propria arrendada parceria"`
	OwnerDisplayName   string                  `json:"proprietario_exibicao" validate:"max=150"`
	ContractStart      *string                 `json:"contrato_inicio"`
	ContractEnd        *string                 `json:"contrato_fim"`
	ContractIdentifier string                  `json:"contrato_identificador" validate:"max=100"`
	CAR                string                  `json:"car" validate:"max=60"`
	CCIR               string                  `json:"ccir" validate:"max=60"`
	ManagerName        string                  `json:"gestor_nome" validate:"max=100"`
	ManagerContact     string                  `json:"gestor_contato" validate:"max=100"`
}

// UpdateInput is a pointer-field patch.
type UpdateInput struct {
	ClientID           *string                  `json:"clienteId" validate:"omitempty,min=1"`
	Name               *string                  `json:"nome" validate:"omitempty,min=1,max=150"`
	Country            *string                  `json:"pais" validate:"omitempty,len=2"`
	UF                 *string                  `json:"uf" validate:"omitempty,len=2"`
	Municipality       *string                  `json:"municipio" validate:"omitempty,min=1,max=100"`
	Address            *string                  `json:"endereco" validate:"omitempty,max=200"`
	ZipCode            *string                  `json:"cep" validate:"omitempty,max=9"`
	Geom               *entities.Geometry       `json:"geom"`
	SRID               *int                     `json:"srid" validate:"omitempty,gt=0"`
	TotalAreaHa        *float64                 `json:"area_total_ha" validate:"omitempty,gte=0"`
	Centroid           *entities.Point          `json:"centroide"`
	Status             *entities.PropertyStatus `json:"status" validate:"omitempty,oneof=ativa inativa planejada"`
	OperationStart     *string                  `json:"data_inicio_operacao"`
	Tenure             *entities.Tenure         `json:"regime_posse" validate:"omitempty,oneof=propria arrendada parceria"`
	OwnerDisplayName   *string                  `json:"proprietario_exibicao" validate:"omitempty,max=150"`
	ContractStart      *string                  `json:"contrato_inicio"`
	ContractEnd        *string                  `json:"contrato_fim"`
	ContractIdentifier *string                  `json:"contrato_identificador" validate:"omitempty,max=100"`
	CAR                *string                  `json:"car" validate:"omitempty,max=60"`
	CCIR               *string                  `json:"ccir" validate:"omitempty,max=60"`
	ManagerName        *string                  `json:"gestor_nome" validate:"omitempty,max=100"`
	ManagerContact     *string                  `json:"gestor_contato" validate:"omitempty,max=100"`
}

type PropertyService interface {
	List(ctx context.Context, caller access.Principal, f repository.Filter, p pagination.Params) (pagination.Page[entities.Property], error)
	Get(ctx context.Context, caller access.Principal, id string) (*entities.Property, error)
	Create(ctx context.Context, caller access.Principal, in CreateInput) (*entities.Property, error)
	Update(ctx context.Context, caller access.Principal, id string, in UpdateInput) (*entities.Property, error)
	Delete(ctx context.Context, caller access.Principal, id string) error
}
