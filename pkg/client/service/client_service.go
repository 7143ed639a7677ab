package service

import (
	"context"

	"agrovision/entities"
	"agrovision/pkg/access"
	"agrovision/pkg/client/repository"
	"agrovision/pkg/pagination"
)

type AddressInput struct {
	Street  string `json:"rua" validate:"max=200"`
	City    string `json:"cidade" validate:"max=100"`
	State   string `json:"estado" validate:"omitempty,len=2"`
	ZipCode string `json:"cep" validate:"max=9"`
}

func (a AddressInput) Address() entities.Address {
	return entities.Address{Street: a.Street, City: a.City, State: a.State, ZipCode: a.ZipCode}
}

type CreateInput struct {
	Name           string                `json:"nome" validate:"required,min=2,max=100"`
	Email          string                `json:"email" validate:"required,email"`
	Phone          string                `json:"telefone" validate:"max=32"`
	TaxDocument    string                `json:"cpfCnpj" validate:"max=18"`
	DocumentType   entities.DocumentType `json:"tipoDocumento" validate:"omitempty,oneof=CPF CNPJ"`
	Address        AddressInput          `json:"endereco"`
	ProductionType string                `json:"tipoProducao" validate:"max=60"`
	TotalArea      float64               `json:"areaTotal" validate:"gte=0"`
	Status         entities.ClientStatus `json:"status" validate:"omitempty,oneof=ativo inativo suspenso"`
}

type UpdateInput struct {
	Name           *string                `json:"nome" validate:"omitempty,min=2,max=100"`
	Email          *string                `json:"email" validate:"omitempty,email"`
	Phone          *string                `json:"telefone" validate:"omitempty,max=32"`
	TaxDocument    *string                `json:"cpfCnpj" validate:"omitempty,max=18"`
	DocumentType   *entities.DocumentType `json:"tipoDocumento" validate:"omitempty,oneof=CPF CNPJ"`
	Address        *AddressInput          `json:"endereco"`
	ProductionType *string                `json:"tipoProducao" validate:"omitempty,max=60"`
	TotalArea      *float64               `json:"areaTotal" validate:"omitempty,gte=0"`
	Status         *entities.ClientStatus `json:"status" validate:"omitempty,oneof=ativo inativo suspenso"`
}

type ClientService interface {
	List(ctx context.Context, caller access.Principal, f repository.Filter, p pagination.Params) (pagination.Page[entities.Client], error)
	Get(ctx context.Context, caller access.Principal, id string) (*entities.Client, error)
	Create(ctx context.Context, caller access.Principal, in CreateInput) (*entities.Client, error)
	Update(ctx context.Context, caller access.Principal, id string, in UpdateInput) (*entities.Client, error)
	Delete(ctx context.Context, caller access.Principal, id string) error
	// Exists is the parent check other modules run before attaching records.
	Exists(ctx context.Context, id string) error
}
