package repositoryImp

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"agrovision/database"
	"agrovision/entities"
	"agrovision/pkg/crop/repository"
	"agrovision/pkg/pagination"
)

type sqliteRepo struct{ db *gorm.DB }

func New(db *gorm.DB) repository.Repo { return &sqliteRepo{db: db} }

func (r *sqliteRepo) Create(ctx context.Context, c *entities.Crop) error {
	return r.db.WithContext(ctx).Create(c).Error
}

// Update keeps the crop's pests and losses on the crop's client.
func (r *sqliteRepo) Update(ctx context.Context, c *entities.Crop) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(c).Error; err != nil {
			return err
		}
		return database.ReassignCropChildren(tx, []string{c.ID}, c.ClientID)
	})
}

func (r *sqliteRepo) FindByID(ctx context.Context, id string) (*entities.Crop, error) {
	var out entities.Crop
	if err := r.db.WithContext(ctx).First(&out, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *sqliteRepo) List(ctx context.Context, f repository.Filter, p pagination.Params) ([]entities.Crop, int64, error) {
	q := r.db.WithContext(ctx).Model(&entities.Crop{})
	if f.Restricted {
		q = q.Where("client_id IN ?", f.ClientIDs)
	}
	if f.AreaID != "" {
		q = q.Where("area_id = ?", f.AreaID)
	}
	if f.ClientID != "" {
		q = q.Where("client_id = ?", f.ClientID)
	}
	if f.Stage != "" {
		q = q.Where("stage = ?", f.Stage)
	}
	if f.Search != "" {
		like := database.Contains(f.Search)
		q = q.Where(`(name LIKE ? ESCAPE '\' OR variety LIKE ? ESCAPE '\')`, like, like)
	}
	if f.From != nil {
		q = q.Where("planting_date >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("planting_date < ?", *f.To)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count crops: %w", err)
	}
	var list []entities.Crop
	if err := p.Scope(q).Find(&list).Error; err != nil {
		return nil, 0, fmt.Errorf("list crops: %w", err)
	}
	return list, total, nil
}

func (r *sqliteRepo) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&entities.Crop{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
