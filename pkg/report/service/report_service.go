package service

import (
	"context"

	"agrovision/entities"
	"agrovision/pkg/access"
	"agrovision/pkg/pagination"
)

type ReportService interface {
	// Generate collects the current totals and stores them as a snapshot.
	Generate(ctx context.Context, period entities.ReportPeriod) (*entities.ReportSnapshot, error)
	List(ctx context.Context, caller access.Principal, period entities.ReportPeriod, p pagination.Params) (pagination.Page[entities.ReportSnapshot], error)
}
