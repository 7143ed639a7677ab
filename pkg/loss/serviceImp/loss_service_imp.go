package serviceImp

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"agrovision/entities"
	"agrovision/pkg/access"
	"agrovision/pkg/apperr"
	"agrovision/pkg/httpx"
	repo "agrovision/pkg/loss/repository"
	"agrovision/pkg/loss/service"
	"agrovision/pkg/pagination"
)

const msgNotFound = "Perda não encontrada"

type lossSvc struct {
	r     repo.LossRepository
	crops service.CropLookup
	pests service.PestLookup
	log   zerolog.Logger
}

func NewLossService(r repo.LossRepository, crops service.CropLookup, pests service.PestLookup, log zerolog.Logger) service.LossService {
	return &lossSvc{r: r, crops: crops, pests: pests, log: log}
}

func (s *lossSvc) List(ctx context.Context, caller access.Principal, f repo.Filter, p pagination.Params) (pagination.Page[entities.Loss], error) {
	var zero pagination.Page[entities.Loss]
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
	if f.From != nil && f.To != nil && f.To.Before(*f.From) {
		return zero, apperr.Validation("dataFim não pode ser anterior a dataInicio")
	}
	if f.To != nil {
		end := f.To.AddDate(0, 0, 1)
		f.To = &end
	}
	f.ClientIDs, f.Restricted = caller.ClientFilter()
	out, total, err := s.r.List(ctx, f, p)
	if err != nil {
		return zero, apperr.Internal(err)
	}
	return pagination.NewPage(out, p, total), nil
}

func (s *lossSvc) Get(ctx context.Context, caller access.Principal, id string) (*entities.Loss, error) {
	if err := caller.Require(entities.ResourceCrops, entities.ActionView); err != nil {
		return nil, err
	}
	return s.owned(ctx, caller, id)
}

func (s *lossSvc) Create(ctx context.Context, caller access.Principal, in service.CreateInput) (*entities.Loss, error) {
	if err := caller.Require(entities.ResourceCrops, entities.ActionCreate); err != nil {
		return nil, err
	}
	c, err := s.crop(ctx, caller, in.CropID)
	if err != nil {
		return nil, err
	}
	occurred, err := httpx.ParseDate("dataOcorrencia", in.OccurredAt)
	if err != nil {
		return nil, err
	}
	l := &entities.Loss{
		CropID:         c.ID,
		ClientID:       c.ClientID,
		Type:           in.Type,
		Description:    strings.TrimSpace(in.Description),
		Quantity:       in.Quantity,
		Unit:           in.Unit,
		EstimatedValue: in.EstimatedValue,
		OccurredAt:     occurred,
		Prevention:     in.Prevention,
		Status:         in.Status,
		Notes:          in.Notes,
	}
	if l.Status == "" {
		l.Status = entities.LossRecorded
	}
	if in.PestID != nil && *in.PestID != "" {
		id := *in.PestID
		l.PestID = &id
	}
	if err := s.check(ctx, l); err != nil {
		return nil, err
	}
	if err := s.r.Create(ctx, l); err != nil {
		return nil, apperr.Internal(err)
	}
	s.log.Info().Str("loss_id", l.ID).Str("crop_id", l.CropID).Str("value", l.EstimatedValue.StringFixed(2)).Msg("loss recorded")
	return l, nil
}

func (s *lossSvc) Update(ctx context.Context, caller access.Principal, id string, in service.UpdateInput) (*entities.Loss, error) {
	if err := caller.Require(entities.ResourceCrops, entities.ActionEdit); err != nil {
		return nil, err
	}
	l, err := s.owned(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	if in.CropID != nil && *in.CropID != l.CropID {
		c, err := s.crop(ctx, caller, *in.CropID)
		if err != nil {
			return nil, err
		}
		l.CropID, l.ClientID = c.ID, c.ClientID
	}
	if in.PestID != nil {
		if *in.PestID == "" {
			l.PestID = nil
		} else {
			pid := *in.PestID
			l.PestID = &pid
		}
	}
	if in.Type != nil {
		l.Type = *in.Type
	}
	if in.Description != nil {
		l.Description = strings.TrimSpace(*in.Description)
	}
	if in.Quantity != nil {
		l.Quantity = *in.Quantity
	}
	if in.Unit != nil {
		l.Unit = *in.Unit
	}
	if in.EstimatedValue != nil {
		l.EstimatedValue = *in.EstimatedValue
	}
	if in.OccurredAt != nil {
		if l.OccurredAt, err = httpx.ParseDate("dataOcorrencia", *in.OccurredAt); err != nil {
			return nil, err
		}
	}
	if in.Prevention != nil {
		l.Prevention = *in.Prevention
	}
	if in.Status != nil {
		l.Status = *in.Status
	}
	if in.Notes != nil {
		l.Notes = *in.Notes
	}
	if err := s.check(ctx, l); err != nil {
		return nil, err
	}
	if err := s.r.Save(ctx, l); err != nil {
		return nil, apperr.Internal(err)
	}
	return l, nil
}

func (s *lossSvc) Delete(ctx context.Context, caller access.Principal, id string) error {
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

func (s *lossSvc) Report(ctx context.Context, caller access.Principal, start, end string) (*service.Report, error) {
	if err := caller.Require(entities.ResourceReports, entities.ActionView); err != nil {
		return nil, err
	}
	return s.report(ctx, caller, start, end)
}

func (s *lossSvc) Export(ctx context.Context, caller access.Principal, start, end string, w io.Writer) error {
	if err := caller.Require(entities.ResourceReports, entities.ActionExport); err != nil {
		return err
	}
	r, err := s.report(ctx, caller, start, end)
	if err != nil {
		return err
	}
	return WriteWorkbook(r, w)
}

// report sums the caller's losses that occurred between start and end,
// both days included.
func (s *lossSvc) report(ctx context.Context, caller access.Principal, start, end string) (*service.Report, error) {
	if err := caller.RequireAny(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(start) == "" || strings.TrimSpace(end) == "" {
		return nil, apperr.Validation("Data de início e fim são obrigatórias")
	}
	from, err := httpx.ParseDate("dataInicio", start)
	if err != nil {
		return nil, err
	}
	to, err := httpx.ParseDate("dataFim", end)
	if err != nil {
		return nil, err
	}
	if to.Before(from) {
		return nil, apperr.Validation("dataFim não pode ser anterior a dataInicio")
	}
	until := to.AddDate(0, 0, 1)
	f := repo.Filter{From: &from, To: &until}
	f.ClientIDs, f.Restricted = caller.ClientFilter()
	losses, err := s.r.All(ctx, f)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return service.NewReport(service.Period{Start: from, End: to}, losses), nil
}

func (s *lossSvc) owned(ctx context.Context, caller access.Principal, id string) (*entities.Loss, error) {
	l, err := s.r.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound(msgNotFound)
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if err := caller.RequireClient(l.ClientID); err != nil {
		return nil, err
	}
	return l, nil
}

func (s *lossSvc) crop(ctx context.Context, caller access.Principal, id string) (*entities.Crop, error) {
	c, err := s.crops.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := caller.RequireClient(c.ClientID); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *lossSvc) check(ctx context.Context, l *entities.Loss) error {
	if l.EstimatedValue.IsNegative() {
		return apperr.Validation("valorEstimado não pode ser negativo")
	}
	if l.Quantity < 0 {
		return apperr.Validation("quantidadeAfetada não pode ser negativa")
	}
	if l.PestID == nil {
		return nil
	}
	p, err := s.pests.Find(ctx, *l.PestID)
	if err != nil {
		return err
	}
	if p.CropID != l.CropID {
		return apperr.Validation("A praga informada não pertence a esta cultura")
	}
	return nil
}
