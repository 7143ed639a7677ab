package serviceImp

import (
	"context"
	"errors"
	"slices"
	"strings"
	"time"

	"gorm.io/gorm"

	"agrovision/entities"
	"agrovision/pkg/access"
	"agrovision/pkg/apperr"
	"agrovision/pkg/httpx"
	"agrovision/pkg/pagination"
	"agrovision/pkg/property"
	"agrovision/pkg/property/repository"
	"agrovision/pkg/property/service"
)

const msgNotFound = "Propriedade não encontrada"

type propertySvc struct {
	repo    repository.PropertyRepository
	clients service.ClientChecker
}

func New(repo repository.PropertyRepository, clients service.ClientChecker) service.PropertyService {
	return &propertySvc{repo: repo, clients: clients}
}

func (s *propertySvc) List(ctx context.Context, caller access.Principal, f repository.Filter, p pagination.Params) (pagination.Page[entities.Property], error) {
	var zero pagination.Page[entities.Property]
	if err := caller.Require(entities.ResourceAreas, entities.ActionView); err != nil {
		return zero, err
	}
	if err := caller.RequireAny(); err != nil {
		return zero, err
	}
	if f.ClientID != "" {
		if err := caller.RequireClient(f.ClientID); err != nil {
			return zero, err
		}
	}
	f.ClientIDs, f.Restricted = caller.ClientFilter()
	out, total, err := s.repo.List(ctx, f, p)
	if err != nil {
		return zero, apperr.Internal(err)
	}
	return pagination.NewPage(out, p, total), nil
}

func (s *propertySvc) Get(ctx context.Context, caller access.Principal, id string) (*entities.Property, error) {
	if err := caller.Require(entities.ResourceAreas, entities.ActionView); err != nil {
		return nil, err
	}
	return s.owned(ctx, caller, id)
}

func (s *propertySvc) Create(ctx context.Context, caller access.Principal, in service.CreateInput) (*entities.Property, error) {
	if err := caller.Require(entities.ResourceAreas, entities.ActionCreate); err != nil {
		return nil, err
	}
	if err := caller.RequireClient(in.ClientID); err != nil {
		return nil, err
	}
	if err := s.clients.Exists(ctx, in.ClientID); err != nil {
		return nil, err
	}

	p := &entities.Property{
		ClientID:           in.ClientID,
		Name:               strings.TrimSpace(in.Name),
		Country:            strings.ToUpper(in.Country),
		UF:                 strings.ToUpper(in.UF),
		Municipality:       in.Municipality,
		Address:            in.Address,
		ZipCode:            in.ZipCode,
		Geom:               in.Geom,
		SRID:               in.SRID,
		TotalAreaHa:        in.TotalAreaHa,
		Centroid:           in.Centroid,
		Status:             in.Status,
		Tenure:             in.Tenure,
		OwnerDisplayName:   in.OwnerDisplayName,
		ContractIdentifier: in.ContractIdentifier,
		CAR:                in.CAR,
		CCIR:               in.CCIR,
		ManagerName:        in.ManagerName,
		ManagerContact:     in.ManagerContact,
		CreatedBy:          caller.AccountID,
		UpdatedBy:          caller.AccountID,
	}
	if p.Country == "" {
		p.Country = "BR"
	}
	if p.SRID == 0 {
		p.SRID = 4326
	}
	if p.Status == "" {
		p.Status = entities.PropertyActive
	}
	if p.Tenure == "" {
		p.Tenure = entities.TenureOwned
	}
	var err error
	if p.OperationStart, err = httpx.OptionalDate("data_inicio_operacao", in.OperationStart); err != nil {
		return nil, err
	}
	if p.ContractStart, err = httpx.OptionalDate("contrato_inicio", in.ContractStart); err != nil {
		return nil, err
	}
	if p.ContractEnd, err = httpx.OptionalDate("contrato_fim", in.ContractEnd); err != nil {
		return nil, err
	}
	if err := s.check(p, true); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, apperr.Internal(err)
	}
	return p, nil
}

func (s *propertySvc) Update(ctx context.Context, caller access.Principal, id string, in service.UpdateInput) (*entities.Property, error) {
	if err := caller.Require(entities.ResourceAreas, entities.ActionEdit); err != nil {
		return nil, err
	}
	p, err := s.owned(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	if in.ClientID != nil && *in.ClientID != p.ClientID {
		if err := caller.RequireClient(*in.ClientID); err != nil {
			return nil, err
		}
		if err := s.clients.Exists(ctx, *in.ClientID); err != nil {
			return nil, err
		}
		p.ClientID = *in.ClientID
	}
	set(&p.Name, in.Name)
	set(&p.Municipality, in.Municipality)
	set(&p.Address, in.Address)
	set(&p.ZipCode, in.ZipCode)
	set(&p.SRID, in.SRID)
	set(&p.TotalAreaHa, in.TotalAreaHa)
	set(&p.Status, in.Status)
	set(&p.Tenure, in.Tenure)
	set(&p.OwnerDisplayName, in.OwnerDisplayName)
	set(&p.ContractIdentifier, in.ContractIdentifier)
	set(&p.CAR, in.CAR)
	set(&p.CCIR, in.CCIR)
	set(&p.ManagerName, in.ManagerName)
	set(&p.ManagerContact, in.ManagerContact)
	if in.Country != nil {
		p.Country = strings.ToUpper(*in.Country)
	}
	if in.UF != nil {
		p.UF = strings.ToUpper(*in.UF)
	}
	geomChanged := in.Geom != nil
	if geomChanged {
		p.Geom = *in.Geom
	}
	if in.Centroid != nil {
		p.Centroid = in.Centroid
	} else if geomChanged {
		p.Centroid = nil
	}
	if p.OperationStart, err = patchDate("data_inicio_operacao", p.OperationStart, in.OperationStart); err != nil {
		return nil, err
	}
	if p.ContractStart, err = patchDate("contrato_inicio", p.ContractStart, in.ContractStart); err != nil {
		return nil, err
	}
	if p.ContractEnd, err = patchDate("contrato_fim", p.ContractEnd, in.ContractEnd); err != nil {
		return nil, err
	}
	if err := s.check(p, geomChanged); err != nil {
		return nil, err
	}
	p.UpdatedBy = caller.AccountID
	if err := s.repo.Save(ctx, p); err != nil {
		return nil, apperr.Internal(err)
	}
	return p, nil
}

func (s *propertySvc) Delete(ctx context.Context, caller access.Principal, id string) error {
	if err := caller.Require(entities.ResourceAreas, entities.ActionDelete); err != nil {
		return err
	}
	if _, err := s.owned(ctx, caller, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound(msgNotFound)
		}
		return apperr.Internal(err)
	}
	return nil
}

// owned loads the property and checks scope on its stored client.
func (s *propertySvc) owned(ctx context.Context, caller access.Principal, id string) (*entities.Property, error) {
	p, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound(msgNotFound)
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if err := caller.RequireClient(p.ClientID); err != nil {
		return nil, err
	}
	return p, nil
}

// check validates the cross-field rules. withGeom also validates the footprint
// and fills a missing centroid.
func (s *propertySvc) check(p *entities.Property, withGeom bool) error {
	if !slices.Contains(entities.BrazilianStates, p.UF) {
		return apperr.Validation("uf inválida: " + p.UF)
	}
	if p.ContractStart != nil && p.ContractEnd != nil && p.ContractEnd.Before(*p.ContractStart) {
		return apperr.Validation("contrato_fim não pode ser anterior a contrato_inicio")
	}
	if (p.Tenure == entities.TenureLeased || p.Tenure == entities.TenurePartnership) && strings.TrimSpace(p.ContractIdentifier) == "" {
		return apperr.Validation("contrato_identificador é obrigatório para regime_posse " + string(p.Tenure))
	}
	if !withGeom {
		return nil
	}
	if _, err := property.ValidateGeometry(p.Geom); err != nil {
		return err
	}
	if p.Centroid == nil {
		c, err := property.Centroid(p.Geom)
		if err != nil {
			return apperr.Validation("geom inválido")
		}
		p.Centroid = c
	}
	if p.Centroid.Type != "Point" {
		return apperr.Validation("centroide.type deve ser Point")
	}
	return nil
}

func set[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

// patchDate: nil keeps cur, an empty string clears it.
func patchDate(field string, cur *time.Time, v *string) (*time.Time, error) {
	if v == nil {
		return cur, nil
	}
	return httpx.OptionalDate(field, v)
}
