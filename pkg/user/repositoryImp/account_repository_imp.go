package repositoryImp

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"agrovision/database"
	"agrovision/entities"
	"agrovision/pkg/pagination"
	"agrovision/pkg/user/repository"
)

type accountRepo struct{ db *gorm.DB }

func New(db *gorm.DB) repository.AccountRepository { return &accountRepo{db} }

func (r *accountRepo) Create(ctx context.Context, a *entities.Account) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *accountRepo) Save(ctx context.Context, a *entities.Account) error {
	return r.db.WithContext(ctx).Save(a).Error
}

func (r *accountRepo) FindByID(ctx context.Context, id string) (*entities.Account, error) {
	var a entities.Account
	if err := r.db.WithContext(ctx).First(&a, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *accountRepo) FindByIDIncludingDeleted(ctx context.Context, id string) (*entities.Account, error) {
	var a entities.Account
	if err := r.db.WithContext(ctx).Unscoped().First(&a, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *accountRepo) FindByEmail(ctx context.Context, email string) (*entities.Account, error) {
	var a entities.Account
	if err := r.db.WithContext(ctx).First(&a, "email = ?", email).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *accountRepo) EmailTaken(ctx context.Context, email, exceptID string) (bool, error) {
	var n int64
	q := r.db.WithContext(ctx).Model(&entities.Account{}).Where("email = ?", email)
	if exceptID != "" {
		q = q.Where("id <> ?", exceptID)
	}
	if err := q.Count(&n).Error; err != nil {
		return false, fmt.Errorf("count accounts by email: %w", err)
	}
	return n > 0, nil
}

func (r *accountRepo) List(ctx context.Context, f repository.Filter, p pagination.Params) ([]entities.Account, int64, error) {
	q := r.db.WithContext(ctx).Model(&entities.Account{})
	if f.Search != "" {
		like := database.Contains(f.Search)
		q = q.Where(`(name LIKE ? ESCAPE '\' OR email LIKE ? ESCAPE '\')`, like, like)
	}
	if f.Role != "" {
		q = q.Where("role = ?", f.Role)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Scope != "" {
		q = q.Where("access_scope = ?", f.Scope)
	}
	if f.ClientID != "" {
		q = q.Where(database.JSONArrayHas("accounts.client_ids"), f.ClientID)
	}
	if f.Restricted {
		if len(f.VisibleClients) == 0 {
			return []entities.Account{}, 0, nil
		}
		q = q.Where(database.JSONArrayHasAny("accounts.client_ids"), f.VisibleClients)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count accounts: %w", err)
	}
	var out []entities.Account
	if err := p.Scope(q).Find(&out).Error; err != nil {
		return nil, 0, fmt.Errorf("list accounts: %w", err)
	}
	return out, total, nil
}

func (r *accountRepo) ListActiveForClient(ctx context.Context, clientID string) ([]entities.Account, error) {
	var out []entities.Account
	err := r.db.WithContext(ctx).
		Where("status = ?", entities.AccountActive).
		Where("(access_scope = ? OR "+database.JSONArrayHas("accounts.client_ids")+")", entities.ScopeGlobal, clientID).
		Order("name asc").
		Find(&out).Error
	return out, err
}

func (r *accountRepo) FindGlobalAdmin(ctx context.Context) (*entities.Account, error) {
	var a entities.Account
	err := r.db.WithContext(ctx).
		Where("role = ? AND access_scope = ?", entities.RoleAdmin, entities.ScopeGlobal).
		Order("created_at asc").
		First(&a).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// RecordFailedLogin increments the counter in place and returns the new value.
func (r *accountRepo) RecordFailedLogin(ctx context.Context, id string) (int, error) {
	db := r.db.WithContext(ctx)
	res := db.Model(&entities.Account{}).Where("id = ?", id).
		UpdateColumn("failed_logins", gorm.Expr("failed_logins + 1"))
	if res.Error != nil {
		return 0, fmt.Errorf("increment failed logins: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return 0, gorm.ErrRecordNotFound
	}
	var attempts int
	if err := db.Model(&entities.Account{}).Where("id = ?", id).Select("failed_logins").Row().Scan(&attempts); err != nil {
		return 0, fmt.Errorf("read failed logins: %w", err)
	}
	return attempts, nil
}

func (r *accountRepo) Lock(ctx context.Context, id string, until time.Time) error {
	return r.db.WithContext(ctx).Model(&entities.Account{}).Where("id = ?", id).
		UpdateColumn("locked_until", until).Error
}

func (r *accountRepo) ResetLoginFailures(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Model(&entities.Account{}).Where("id = ?", id).
		UpdateColumns(map[string]any{"failed_logins": 0, "locked_until": nil}).Error
}

func (r *accountRepo) RecordLogin(ctx context.Context, id string, at time.Time) error {
	return r.db.WithContext(ctx).Model(&entities.Account{}).Where("id = ?", id).
		UpdateColumns(map[string]any{"failed_logins": 0, "locked_until": nil, "last_login_at": at}).Error
}

func (r *accountRepo) UpdatePassword(ctx context.Context, id, hash string) error {
	res := r.db.WithContext(ctx).Model(&entities.Account{}).Where("id = ?", id).
		Updates(map[string]any{"password_hash": hash})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *accountRepo) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&entities.Account{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
