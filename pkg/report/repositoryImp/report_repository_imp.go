package repositoryImp

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"agrovision/entities"
	"agrovision/pkg/pagination"
	"agrovision/pkg/report/repository"
)

type reportRepo struct{ db *gorm.DB }

func New(db *gorm.DB) repository.ReportRepository { return &reportRepo{db} }

func (r *reportRepo) Collect(ctx context.Context) (entities.ReportSnapshot, error) {
	var s entities.ReportSnapshot
	db := r.db.WithContext(ctx)
	if err := db.Model(&entities.Crop{}).Count(&s.TotalCrops).Error; err != nil {
		return s, fmt.Errorf("count crops: %w", err)
	}
	if err := db.Model(&entities.Crop{}).Where("stage <> ?", entities.StageHarvested).Count(&s.ActiveCrops).Error; err != nil {
		return s, fmt.Errorf("count active crops: %w", err)
	}
	if err := db.Model(&entities.Loss{}).Count(&s.TotalLosses).Error; err != nil {
		return s, fmt.Errorf("count losses: %w", err)
	}
	if err := db.Model(&entities.Pest{}).Where("resolved_at IS NULL").Count(&s.ActivePests).Error; err != nil {
		return s, fmt.Errorf("count active pests: %w", err)
	}

	// summed in Go so the decimal stays exact
	var values []decimal.Decimal
	if err := db.Model(&entities.Loss{}).Pluck("estimated_value", &values).Error; err != nil {
		return s, fmt.Errorf("sum loss values: %w", err)
	}
	s.TotalLossValue = decimal.Sum(decimal.Zero, values...)
	return s, nil
}

func (r *reportRepo) Save(ctx context.Context, s *entities.ReportSnapshot) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *reportRepo) List(ctx context.Context, period entities.ReportPeriod, p pagination.Params) ([]entities.ReportSnapshot, int64, error) {
	q := r.db.WithContext(ctx).Model(&entities.ReportSnapshot{})
	if period != "" {
		q = q.Where("period = ?", period)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var out []entities.ReportSnapshot
	if err := p.Scope(q).Find(&out).Error; err != nil {
		return nil, 0, err
	}
	return out, total, nil
}
