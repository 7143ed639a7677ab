package repositoryImp

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"agrovision/entities"
	"agrovision/pkg/loss/repository"
	"agrovision/pkg/pagination"
)

type lossRepo struct{ db *gorm.DB }

func New(db *gorm.DB) repository.LossRepository { return &lossRepo{db} }

func (r *lossRepo) Create(ctx context.Context, l *entities.Loss) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *lossRepo) Save(ctx context.Context, l *entities.Loss) error {
	return r.db.WithContext(ctx).Save(l).Error
}

func (r *lossRepo) FindByID(ctx context.Context, id string) (*entities.Loss, error) {
	var l entities.Loss
	if err := r.db.WithContext(ctx).First(&l, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *lossRepo) filtered(ctx context.Context, f repository.Filter) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&entities.Loss{})
	if f.Restricted {
		q = q.Where("client_id IN ?", f.ClientIDs)
	}
	if f.CropID != "" {
		q = q.Where("crop_id = ?", f.CropID)
	}
	if f.PestID != "" {
		q = q.Where("pest_id = ?", f.PestID)
	}
	if f.Type != "" {
		q = q.Where("type = ?", f.Type)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.From != nil {
		q = q.Where("occurred_at >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("occurred_at < ?", *f.To)
	}
	return q
}

func (r *lossRepo) List(ctx context.Context, f repository.Filter, p pagination.Params) ([]entities.Loss, int64, error) {
	q := r.filtered(ctx, f)
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count losses: %w", err)
	}
	var out []entities.Loss
	if err := p.Scope(q).Find(&out).Error; err != nil {
		return nil, 0, fmt.Errorf("list losses: %w", err)
	}
	return out, total, nil
}

func (r *lossRepo) All(ctx context.Context, f repository.Filter) ([]entities.Loss, error) {
	var out []entities.Loss
	if err := r.filtered(ctx, f).Order("occurred_at ASC, id ASC").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("load losses: %w", err)
	}
	return out, nil
}

func (r *lossRepo) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&entities.Loss{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
