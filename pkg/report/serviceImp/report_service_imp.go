package serviceImp

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"agrovision/entities"
	"agrovision/pkg/access"
	"agrovision/pkg/apperr"
	"agrovision/pkg/pagination"
	repo "agrovision/pkg/report/repository"
	"agrovision/pkg/report/service"
)

type reportSvc struct {
	r   repo.ReportRepository
	log zerolog.Logger
	now func() time.Time
}

func NewReportService(r repo.ReportRepository, log zerolog.Logger) service.ReportService {
	return &reportSvc{r: r, log: log, now: time.Now}
}

func (s *reportSvc) Generate(ctx context.Context, period entities.ReportPeriod) (*entities.ReportSnapshot, error) {
	if !period.Valid() {
		return nil, apperr.Validation("periodo inválido: " + string(period))
	}
	snap, err := s.r.Collect(ctx)
	if err != nil {
		return nil, err
	}
	snap.Period = period
	snap.GeneratedAt = s.now().UTC()
	if err := s.r.Save(ctx, &snap); err != nil {
		return nil, err
	}
	s.log.Info().
		Str("periodo", string(period)).
		Int64("total_culturas", snap.TotalCrops).
		Int64("culturas_ativas", snap.ActiveCrops).
		Int64("total_perdas", snap.TotalLosses).
		Str("valor_total_perdas", snap.TotalLossValue.StringFixed(2)).
		Int64("pragas_ativas", snap.ActivePests).
		Msg("report generated")
	return &snap, nil
}

func (s *reportSvc) List(ctx context.Context, caller access.Principal, period entities.ReportPeriod, p pagination.Params) (pagination.Page[entities.ReportSnapshot], error) {
	var zero pagination.Page[entities.ReportSnapshot]
	if err := caller.Require(entities.ResourceReports, entities.ActionView); err != nil {
		return zero, err
	}
	if !caller.IsGlobal() {
		return zero, apperr.Forbidden("Acesso restrito a usuários com acesso global")
	}
	if period != "" && !period.Valid() {
		return zero, apperr.Validation("periodo deve ser diario, semanal ou mensal")
	}
	out, total, err := s.r.List(ctx, period, p)
	if err != nil {
		return zero, apperr.Internal(err)
	}
	return pagination.NewPage(out, p, total), nil
}
