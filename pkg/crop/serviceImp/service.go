package serviceImp

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"agrovision/entities"
	"agrovision/pkg/access"
	"agrovision/pkg/apperr"
	"agrovision/pkg/crop/repository"
	svc "agrovision/pkg/crop/service"
	"agrovision/pkg/httpx"
	"agrovision/pkg/pagination"
)

const msgNotFound = "Cultura não encontrada"

type service struct {
	repo  repository.Repo
	areas svc.AreaLookup
	now   func() time.Time
}

func New(r repository.Repo, areas svc.AreaLookup) svc.Service {
	return &service{repo: r, areas: areas, now: time.Now}
}

func (s *service) List(ctx context.Context, caller access.Principal, f repository.Filter, p pagination.Params) (pagination.Page[entities.Crop], error) {
	var zero pagination.Page[entities.Crop]
	if err := caller.Require(entities.ResourceCrops, entities.ActionView); err != nil {
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
	if f.From != nil && f.To != nil && f.To.Before(*f.From) {
		return zero, apperr.Validation("dataFim não pode ser anterior a dataInicio")
	}
	if f.To != nil {
		end := f.To.AddDate(0, 0, 1)
		f.To = &end
	}
	f.ClientIDs, f.Restricted = caller.ClientFilter()
	list, total, err := s.repo.List(ctx, f, p)
	if err != nil {
		return zero, apperr.Internal(err)
	}
	return pagination.NewPage(list, p, total), nil
}

func (s *service) Get(ctx context.Context, caller access.Principal, id string) (*entities.Crop, error) {
	if err := caller.Require(entities.ResourceCrops, entities.ActionView); err != nil {
		return nil, err
	}
	return s.owned(ctx, caller, id)
}

func (s *service) Create(ctx context.Context, caller access.Principal, in svc.CropInput) (*entities.Crop, error) {
	if err := caller.Require(entities.ResourceCrops, entities.ActionCreate); err != nil {
		return nil, err
	}
	area, err := s.areas.Find(ctx, in.AreaID)
	if err != nil {
		return nil, err
	}
	if err := caller.RequireClient(area.ClientID); err != nil {
		return nil, err
	}
	planted, err := httpx.ParseDate("dataPlantio", in.PlantingDate)
	if err != nil {
		return nil, err
	}
	c := &entities.Crop{
		AreaID:       area.ID,
		ClientID:     area.ClientID,
		Name:         strings.TrimSpace(in.Name),
		Variety:      in.Variety,
		PlantingDate: planted,
		Stage:        in.Stage,
		Yield:        in.Yield,
		Notes:        in.Notes,
	}
	if c.HarvestDate, err = httpx.OptionalDate("dataColheita", in.HarvestDate); err != nil {
		return nil, err
	}
	// default status
	if c.Stage == "" {
		c.Stage = entities.StagePlanted
	}
	if err := s.settle(c); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, apperr.Internal(err)
	}
	return c, nil
}

func (s *service) UpdatePartial(ctx context.Context, caller access.Principal, id string, p svc.CropPatch) (*entities.Crop, error) {
	if err := caller.Require(entities.ResourceCrops, entities.ActionEdit); err != nil {
		return nil, err
	}
	cur, err := s.owned(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	if p.AreaID != nil && *p.AreaID != cur.AreaID {
		area, err := s.areas.Find(ctx, *p.AreaID)
		if err != nil {
			return nil, err
		}
		if err := caller.RequireClient(area.ClientID); err != nil {
			return nil, err
		}
		cur.AreaID, cur.ClientID = area.ID, area.ClientID
	}
	if p.Name != nil {
		cur.Name = strings.TrimSpace(*p.Name)
	}
	if p.Variety != nil {
		cur.Variety = *p.Variety
	}
	if p.PlantingDate != nil {
		if cur.PlantingDate, err = httpx.ParseDate("dataPlantio", *p.PlantingDate); err != nil {
			return nil, err
		}
	}
	if p.HarvestDate != nil {
		if cur.HarvestDate, err = httpx.OptionalDate("dataColheita", p.HarvestDate); err != nil {
			return nil, err
		}
	}
	if p.Stage != nil {
		if !cur.Stage.CanMoveTo(*p.Stage) {
			return nil, apperr.Validation("Transição de estado inválida: " + string(cur.Stage) + " → " + string(*p.Stage))
		}
		cur.Stage = *p.Stage
	}
	if p.Yield != nil {
		cur.Yield = p.Yield
	}
	if p.Notes != nil {
		cur.Notes = *p.Notes
	}
	if err := s.settle(cur); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, cur); err != nil {
		return nil, apperr.Internal(err)
	}
	return cur, nil
}

func (s *service) Delete(ctx context.Context, caller access.Principal, id string) error {
	if err := caller.Require(entities.ResourceCrops, entities.ActionDelete); err != nil {
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

func (s *service) Find(ctx context.Context, id string) (*entities.Crop, error) {
	c, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound(msgNotFound)
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return c, nil
}

func (s *service) owned(ctx context.Context, caller access.Principal, id string) (*entities.Crop, error) {
	c, err := s.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := caller.RequireClient(c.ClientID); err != nil {
		return nil, err
	}
	return c, nil
}

// settle stamps the harvest date of a harvested crop and checks the dates.
func (s *service) settle(c *entities.Crop) error {
	if c.Stage == entities.StageHarvested && c.HarvestDate == nil {
		y, m, d := s.now().Date()
		today := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
		c.HarvestDate = &today
	}
	if c.HarvestDate != nil && c.HarvestDate.Before(c.PlantingDate) {
		return apperr.Validation("dataColheita não pode ser anterior a dataPlantio")
	}
	return nil
}
