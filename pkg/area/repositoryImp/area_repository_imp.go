package repositoryImp

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"agrovision/database"
	"agrovision/entities"
	"agrovision/pkg/area/repository"
	"agrovision/pkg/pagination"
)

type areaRepo struct{ db *gorm.DB }

func New(db *gorm.DB) repository.AreaRepository { return &areaRepo{db} }

func (r *areaRepo) Create(ctx context.Context, a *entities.Area) error {
	return r.db.WithContext(ctx).Create(a).Error
}

// Save also moves the area's crops, and their pests and losses, to the
// area's client.
func (r *areaRepo) Save(ctx context.Context, a *entities.Area) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(a).Error; err != nil {
			return err
		}
		err := tx.Unscoped().Model(&entities.Crop{}).
			Where("area_id = ? AND client_id <> ?", a.ID, a.ClientID).
			Update("client_id", a.ClientID).Error
		if err != nil {
			return fmt.Errorf("reassign crops: %w", err)
		}
		crops := tx.Unscoped().Model(&entities.Crop{}).Select("id").Where("area_id = ?", a.ID)
		return database.ReassignCropChildren(tx, crops, a.ClientID)
	})
}

func (r *areaRepo) FindByID(ctx context.Context, id string) (*entities.Area, error) {
	var a entities.Area
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&a).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *areaRepo) List(ctx context.Context, f repository.Filter, p pagination.Params) ([]entities.Area, int64, error) {
	q := r.db.WithContext(ctx).Model(&entities.Area{})
	if f.Restricted {
		q = q.Where("client_id IN ?", f.ClientIDs)
	}
	if f.ClientID != "" {
		q = q.Where("client_id = ?", f.ClientID)
	}
	if f.Type != "" {
		q = q.Where("type = ?", f.Type)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Search != "" {
		like := database.Contains(f.Search)
		q = q.Where(`(name LIKE ? ESCAPE '\' OR current_crop LIKE ? ESCAPE '\' OR soil LIKE ? ESCAPE '\')`, like, like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count areas: %w", err)
	}
	var out []entities.Area
	if err := p.Scope(q).Find(&out).Error; err != nil {
		return nil, 0, fmt.Errorf("list areas: %w", err)
	}
	return out, total, nil
}

func (r *areaRepo) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&entities.Area{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
