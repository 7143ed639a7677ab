package repositoryImp

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"agrovision/database"
	"agrovision/entities"
	"agrovision/pkg/client/repository"
	"agrovision/pkg/pagination"
)

type clientRepo struct{ db *gorm.DB }

func New(db *gorm.DB) repository.ClientRepository { return &clientRepo{db} }

func (r *clientRepo) Create(ctx context.Context, c *entities.Client) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *clientRepo) Save(ctx context.Context, c *entities.Client) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *clientRepo) FindByID(ctx context.Context, id string) (*entities.Client, error) {
	var c entities.Client
	if err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *clientRepo) taken(ctx context.Context, column, value, exceptID string) (bool, error) {
	var n int64
	q := r.db.WithContext(ctx).Model(&entities.Client{}).Where(column+" = ?", value)
	if exceptID != "" {
		q = q.Where("id <> ?", exceptID)
	}
	if err := q.Count(&n).Error; err != nil {
		return false, fmt.Errorf("count clients by %s: %w", column, err)
	}
	return n > 0, nil
}

func (r *clientRepo) EmailTaken(ctx context.Context, email, exceptID string) (bool, error) {
	return r.taken(ctx, "email", email, exceptID)
}

func (r *clientRepo) DocumentTaken(ctx context.Context, doc, exceptID string) (bool, error) {
	return r.taken(ctx, "cpf_cnpj", doc, exceptID)
}

func (r *clientRepo) List(ctx context.Context, f repository.Filter, p pagination.Params) ([]entities.Client, int64, error) {
	q := r.db.WithContext(ctx).Model(&entities.Client{})
	if f.Restricted {
		q = q.Where("id IN ?", f.IDs)
	}
	if f.Search != "" {
		like := database.Contains(f.Search)
		q = q.Where(`(name LIKE ? ESCAPE '\' OR email LIKE ? ESCAPE '\' OR cpf_cnpj LIKE ? ESCAPE '\')`, like, like, like)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.ProductionType != "" {
		q = q.Where("production_type = ?", f.ProductionType)
	}
	if f.DocumentType != "" {
		q = q.Where("document_type = ?", f.DocumentType)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count clients: %w", err)
	}
	var out []entities.Client
	if err := p.Scope(q).Find(&out).Error; err != nil {
		return nil, 0, fmt.Errorf("list clients: %w", err)
	}
	return out, total, nil
}

func (r *clientRepo) ExistingIDs(ctx context.Context, ids []string) ([]string, error) {
	var out []string
	if len(ids) == 0 {
		return out, nil
	}
	if err := r.db.WithContext(ctx).Model(&entities.Client{}).Where("id IN ?", ids).Pluck("id", &out).Error; err != nil {
		return nil, fmt.Errorf("lookup client ids: %w", err)
	}
	return out, nil
}

func (r *clientRepo) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&entities.Client{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
