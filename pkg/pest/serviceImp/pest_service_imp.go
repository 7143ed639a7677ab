package serviceImp

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"agrovision/entities"
	"agrovision/pkg/access"
	"agrovision/pkg/apperr"
	"agrovision/pkg/httpx"
	"agrovision/pkg/pagination"
	repo "agrovision/pkg/pest/repository"
	"agrovision/pkg/pest/service"
)

const msgNotFound = "Praga não encontrada"

type pestSvc struct {
	r     repo.PestRepository
	crops service.CropLookup
}

func NewPestService(r repo.PestRepository, crops service.CropLookup) service.PestService {
	return &pestSvc{r: r, crops: crops}
}

func (s *pestSvc) List(ctx context.Context, caller access.Principal, f repo.Filter, p pagination.Params) (pagination.Page[entities.Pest], error) {
	var zero pagination.Page[entities.Pest]
	if err := caller.Require(entities.ResourceCrops, entities.ActionView); err != nil {
		return zero, err
	}
	if err := caller.RequireAny(); err != nil {
		return zero, err
	}
	if f.CropID != "" {
		if _, err := s.crop(ctx, caller, f.CropID); err != nil {
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

func (s *pestSvc) Get(ctx context.Context, caller access.Principal, id string) (*entities.Pest, error) {
	if err := caller.Require(entities.ResourceCrops, entities.ActionView); err != nil {
		return nil, err
	}
	return s.owned(ctx, caller, id)
}

func (s *pestSvc) Create(ctx context.Context, caller access.Principal, in service.CreateInput) (*entities.Pest, error) {
	if err := caller.Require(entities.ResourceCrops, entities.ActionCreate); err != nil {
		return nil, err
	}
	c, err := s.crop(ctx, caller, in.CropID)
	if err != nil {
		return nil, err
	}
	detected, err := httpx.ParseDate("dataDeteccao", in.DetectedAt)
	if err != nil {
		return nil, err
	}
	m := &entities.Pest{
		CropID:     c.ID,
		ClientID:   c.ClientID,
		Name:       strings.TrimSpace(in.Name),
		Type:       in.Type,
		Severity:   in.Severity,
		DetectedAt: detected,
		AffectedHa: in.AffectedHa,
		Treatment:  in.Treatment,
		Notes:      in.Notes,
	}
	if m.ResolvedAt, err = httpx.OptionalDate("dataResolucao", in.ResolvedAt); err != nil {
		return nil, err
	}
	if err := check(m); err != nil {
		return nil, err
	}
	if err := s.r.Create(ctx, m); err != nil {
		return nil, apperr.Internal(err)
	}
	return m, nil
}

func (s *pestSvc) Update(ctx context.Context, caller access.Principal, id string, in service.UpdateInput) (*entities.Pest, error) {
	if err := caller.Require(entities.ResourceCrops, entities.ActionEdit); err != nil {
		return nil, err
	}
	m, err := s.owned(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	if in.CropID != nil && *in.CropID != m.CropID {
		c, err := s.crop(ctx, caller, *in.CropID)
		if err != nil {
			return nil, err
		}
		linked, err := s.r.HasLosses(ctx, m.ID)
		if err != nil {
			return nil, apperr.Internal(err)
		}
		if linked {
			return nil, apperr.Validation("A praga possui perdas vinculadas e não pode mudar de cultura")
		}
		m.CropID, m.ClientID = c.ID, c.ClientID
	}
	if in.Name != nil {
		m.Name = strings.TrimSpace(*in.Name)
	}
	if in.Type != nil {
		m.Type = *in.Type
	}
	if in.Severity != nil {
		m.Severity = *in.Severity
	}
	if in.DetectedAt != nil {
		if m.DetectedAt, err = httpx.ParseDate("dataDeteccao", *in.DetectedAt); err != nil {
			return nil, err
		}
	}
	if in.AffectedHa != nil {
		m.AffectedHa = in.AffectedHa
	}
	if in.Treatment != nil {
		m.Treatment = *in.Treatment
	}
	if in.ResolvedAt != nil {
		if m.ResolvedAt, err = httpx.OptionalDate("dataResolucao", in.ResolvedAt); err != nil {
			return nil, err
		}
	}
	if in.Notes != nil {
		m.Notes = *in.Notes
	}
	if err := check(m); err != nil {
		return nil, err
	}
	if err := s.r.Save(ctx, m); err != nil {
		return nil, apperr.Internal(err)
	}
	return m, nil
}

func (s *pestSvc) Delete(ctx context.Context, caller access.Principal, id string) error {
	if err := caller.Require(entities.ResourceCrops, entities.ActionDelete); err != nil {
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

func (s *pestSvc) Find(ctx context.Context, id string) (*entities.Pest, error) {
	m, err := s.r.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound(msgNotFound)
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return m, nil
}

func (s *pestSvc) owned(ctx context.Context, caller access.Principal, id string) (*entities.Pest, error) {
	m, err := s.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := caller.RequireClient(m.ClientID); err != nil {
		return nil, err
	}
	return m, nil
}

// crop loads the parent crop and checks scope on its client.
func (s *pestSvc) crop(ctx context.Context, caller access.Principal, id string) (*entities.Crop, error) {
	c, err := s.crops.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := caller.RequireClient(c.ClientID); err != nil {
		return nil, err
	}
	return c, nil
}

func check(m *entities.Pest) error {
	if m.ResolvedAt != nil && m.ResolvedAt.Before(m.DetectedAt) {
		return apperr.Validation("dataResolucao não pode ser anterior a dataDeteccao")
	}
	return nil
}
