package repositoryImp

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"agrovision/entities"
	"agrovision/pkg/pagination"
	"agrovision/pkg/pest/repository"
)

type pestRepo struct{ db *gorm.DB }

func New(db *gorm.DB) repository.PestRepository { return &pestRepo{db} }

func (r *pestRepo) Create(ctx context.Context, p *entities.Pest) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *pestRepo) Save(ctx context.Context, p *entities.Pest) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *pestRepo) FindByID(ctx context.Context, id string) (*entities.Pest, error) {
	var p entities.Pest
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *pestRepo) List(ctx context.Context, f repository.Filter, p pagination.Params) ([]entities.Pest, int64, error) {
	q := r.db.WithContext(ctx).Model(&entities.Pest{})
	if f.Restricted {
		q = q.Where("client_id IN ?", f.ClientIDs)
	}
	if f.CropID != "" {
		q = q.Where("crop_id = ?", f.CropID)
	}
	if f.Severity != "" {
		q = q.Where("severity = ?", f.Severity)
	}
	if f.Type != "" {
		q = q.Where("type = ?", f.Type)
	}
	if f.ActiveOnly {
		q = q.Where("resolved_at IS NULL")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count pests: %w", err)
	}
	var out []entities.Pest
	if err := p.Scope(q).Find(&out).Error; err != nil {
		return nil, 0, fmt.Errorf("list pests: %w", err)
	}
	return out, total, nil
}

func (r *pestRepo) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&entities.Pest{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *pestRepo) HasLosses(ctx context.Context, id string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&entities.Loss{}).Where("pest_id = ?", id).Count(&n).Error
	return n > 0, err
}
