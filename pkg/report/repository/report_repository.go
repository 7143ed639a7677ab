package repository

import (
	"context"

	"agrovision/entities"
	"agrovision/pkg/pagination"
)

type ReportRepository interface {
	// Collect counts the current totals across every client.
	Collect(ctx context.Context) (entities.ReportSnapshot, error)
	Save(ctx context.Context, s *entities.ReportSnapshot) error
	List(ctx context.Context, period entities.ReportPeriod, p pagination.Params) ([]entities.ReportSnapshot, int64, error)
}
