package serviceImp

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"agrovision/entities"
	"agrovision/pkg/access"
	"agrovision/pkg/apperr"
	"agrovision/pkg/area/repository"
	"agrovision/pkg/area/service"
	"agrovision/pkg/httpx"
	"agrovision/pkg/pagination"
)

const msgNotFound = "Área não encontrada"

type areaSvc struct {
	r       repository.AreaRepository
	clients service.ClientChecker
}

func NewAreaService(r repository.AreaRepository, clients service.ClientChecker) service.AreaService {
	return &areaSvc{r: r, clients: clients}
}

func (s *areaSvc) List(ctx context.Context, caller access.Principal, f repository.Filter, p pagination.Params) (pagination.Page[entities.Area], error) {
	var zero pagination.Page[entities.Area]
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
	out, total, err := s.r.List(ctx, f, p)
	if err != nil {
		return zero, apperr.Internal(err)
	}
	return pagination.NewPage(out, p, total), nil
}

func (s *areaSvc) Get(ctx context.Context, caller access.Principal, id string) (*entities.Area, error) {
	if err := caller.Require(entities.ResourceAreas, entities.ActionView); err != nil {
		return nil, err
	}
	return s.owned(ctx, caller, id)
}

func (s *areaSvc) Create(ctx context.Context, caller access.Principal, in service.CreateInput) (*entities.Area, error) {
	if err := caller.Require(entities.ResourceAreas, entities.ActionCreate); err != nil {
		return nil, err
	}
	if err := caller.RequireClient(in.ClientID); err != nil {
		return nil, err
	}
	if err := s.clients.Exists(ctx, in.ClientID); err != nil {
		return nil, err
	}
	a := &entities.Area{
		ClientID:       in.ClientID,
		Name:           strings.TrimSpace(in.Name),
		SizeHa:         in.SizeHa,
		Location:       in.Location,
		Type:           in.Type,
		Soil:           in.Soil,
		Irrigation:     in.Irrigation,
		CurrentCrop:    in.CurrentCrop,
		Status:         in.Status,
		EstimatedYield: in.EstimatedYield,
		Slope:          in.Slope,
		SoilPH:         in.SoilPH,
		Notes:          in.Notes,
	}
	var err error
	if a.PlantingDate, err = httpx.OptionalDate("dataPlantio", in.PlantingDate); err != nil {
		return nil, err
	}
	if a.ExpectedHarvest, err = httpx.OptionalDate("previsaoColheita", in.ExpectedHarvest); err != nil {
		return nil, err
	}
	if err := check(a); err != nil {
		return nil, err
	}
	if err := s.r.Create(ctx, a); err != nil {
		return nil, apperr.Internal(err)
	}
	return a, nil
}

func (s *areaSvc) Update(ctx context.Context, caller access.Principal, id string, in service.UpdateInput) (*entities.Area, error) {
	if err := caller.Require(entities.ResourceAreas, entities.ActionEdit); err != nil {
		return nil, err
	}
	a, err := s.owned(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	if in.ClientID != nil && *in.ClientID != a.ClientID {
		if err := caller.RequireClient(*in.ClientID); err != nil {
			return nil, err
		}
		if err := s.clients.Exists(ctx, *in.ClientID); err != nil {
			return nil, err
		}
		a.ClientID = *in.ClientID
	}
	if in.Name != nil {
		a.Name = strings.TrimSpace(*in.Name)
	}
	if in.SizeHa != nil {
		a.SizeHa = *in.SizeHa
	}
	if in.Location != nil {
		a.Location = *in.Location
	}
	if in.Type != nil {
		a.Type = *in.Type
	}
	if in.Soil != nil {
		a.Soil = *in.Soil
	}
	if in.Irrigation != nil {
		a.Irrigation = *in.Irrigation
	}
	if in.CurrentCrop != nil {
		a.CurrentCrop = *in.CurrentCrop
	}
	if in.Status != nil {
		a.Status = *in.Status
	}
	if in.EstimatedYield != nil {
		a.EstimatedYield = in.EstimatedYield
	}
	if in.Slope != nil {
		a.Slope = in.Slope
	}
	if in.SoilPH != nil {
		a.SoilPH = in.SoilPH
	}
	if in.Notes != nil {
		a.Notes = *in.Notes
	}
	if in.PlantingDate != nil {
		if a.PlantingDate, err = httpx.OptionalDate("dataPlantio", in.PlantingDate); err != nil {
			return nil, err
		}
	}
	if in.ExpectedHarvest != nil {
		if a.ExpectedHarvest, err = httpx.OptionalDate("previsaoColheita", in.ExpectedHarvest); err != nil {
			return nil, err
		}
	}
	if err := check(a); err != nil {
		return nil, err
	}
	if err := s.r.Save(ctx, a); err != nil {
		return nil, apperr.Internal(err)
	}
	return a, nil
}

func (s *areaSvc) Delete(ctx context.Context, caller access.Principal, id string) error {
	if err := caller.Require(entities.ResourceAreas, entities.ActionDelete); err != nil {
		return err
	}
	if _, err := s.owned(ctx, caller, id); err != nil {
		return err
	}
	if err := s.r.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound(msgNotFound)
		}
		return apperr.Internal(err)
	}
	return nil
}

func (s *areaSvc) Find(ctx context.Context, id string) (*entities.Area, error) {
	a, err := s.r.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound(msgNotFound)
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return a, nil
}

func (s *areaSvc) owned(ctx context.Context, caller access.Principal, id string) (*entities.Area, error) {
	a, err := s.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := caller.RequireClient(a.ClientID); err != nil {
		return nil, err
	}
	return a, nil
}

func check(a *entities.Area) error {
	if a.SizeHa <= 0 {
		return apperr.Validation("tamanho deve ser maior que zero")
	}
	if a.PlantingDate != nil && a.ExpectedHarvest != nil && a.ExpectedHarvest.Before(*a.PlantingDate) {
		return apperr.Validation("previsaoColheita não pode ser anterior a dataPlantio")
	}
	if a.SoilPH != nil && (*a.SoilPH < 0 || *a.SoilPH > 14) {
		return apperr.Validation("phSolo deve estar entre 0 e 14")
	}
	return nil
}

