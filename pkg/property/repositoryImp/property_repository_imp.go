package repositoryImp

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"agrovision/database"
	"agrovision/entities"
	"agrovision/pkg/pagination"
	"agrovision/pkg/property/repository"
)

type propertyRepo struct{ db *gorm.DB }

func New(db *gorm.DB) repository.PropertyRepository { return &propertyRepo{db} }

func (r *propertyRepo) Create(ctx context.Context, p *entities.Property) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *propertyRepo) Save(ctx context.Context, p *entities.Property) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *propertyRepo) FindByID(ctx context.Context, id string) (*entities.Property, error) {
	var p entities.Property
	if err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *propertyRepo) List(ctx context.Context, f repository.Filter, p pagination.Params) ([]entities.Property, int64, error) {
	q := r.db.WithContext(ctx).Model(&entities.Property{})
	if f.Restricted {
		q = q.Where("client_id IN ?", f.ClientIDs)
	}
	if f.ClientID != "" {
		q = q.Where("client_id = ?", f.ClientID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.UF != "" {
		q = q.Where("uf = ?", strings.ToUpper(f.UF))
	}
	if f.Search != "" {
		like := database.Contains(f.Search)
		q = q.Where(`(name LIKE ? ESCAPE '\' OR municipality LIKE ? ESCAPE '\' OR car LIKE ? ESCAPE '\')`, like, like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count properties: %w", err)
	}
	var out []entities.Property
	if err := p.Scope(q).Find(&out).Error; err != nil {
		return nil, 0, fmt.Errorf("list properties: %w", err)
	}
	return out, total, nil
}

func (r *propertyRepo) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&entities.Property{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
