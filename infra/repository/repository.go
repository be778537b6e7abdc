package repository

import (
	"context"
	"time"

	"github.com/amirasaad/txnimport/pkg/domain"
	"github.com/amirasaad/txnimport/pkg/domain/account"
	"github.com/amirasaad/txnimport/pkg/domain/user"
	"github.com/amirasaad/txnimport/pkg/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) repository.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Get(ctx context.Context, id uuid.UUID) (*user.User, error) {
	var m User
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, MapGormErrorToDomain(err)
	}
	return mapUserModelToDomain(&m), nil
}

func (r *userRepository) Create(ctx context.Context, u *user.User) error {
	m := mapUserDomainToModel(u)
	return WrapError(func() error {
		return r.db.WithContext(ctx).Create(&m).Error
	})
}

func (r *userRepository) Update(ctx context.Context, u *user.User) error {
	u.UpdatedAt = time.Now().UTC()
	result := r.db.WithContext(ctx).Model(&User{}).Where("id = ?", u.ID).Updates(map[string]any{
		"username":   u.Username,
		"first_name": u.FirstName,
		"last_name":  u.LastName,
		"updated_at": u.UpdatedAt,
	})
	if result.Error != nil {
		return MapGormErrorToDomain(result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

type accountRepository struct {
	db *gorm.DB
}

func NewAccountRepository(db *gorm.DB) repository.AccountRepository {
	return &accountRepository{db: db}
}

func (r *accountRepository) Get(ctx context.Context, userID uuid.UUID, id uint) (*account.BankAccount, error) {
	var m BankAccount
	err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&m).Error
	if err != nil {
		return nil, MapGormErrorToDomain(err)
	}
	return mapAccountModelToDomain(&m), nil
}

func (r *accountRepository) GetByIBAN(ctx context.Context, userID uuid.UUID, iban string) (*account.BankAccount, error) {
	var m BankAccount
	err := r.db.WithContext(ctx).
		Where("iban = ? AND user_id = ?", account.NormalizeIBAN(iban), userID).
		First(&m).Error
	if err != nil {
		return nil, MapGormErrorToDomain(err)
	}
	return mapAccountModelToDomain(&m), nil
}

func (r *accountRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*account.BankAccount, error) {
	var models []BankAccount
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("id").Find(&models).Error; err != nil {
		return nil, MapGormErrorToDomain(err)
	}
	out := make([]*account.BankAccount, 0, len(models))
	for i := range models {
		out = append(out, mapAccountModelToDomain(&models[i]))
	}
	return out, nil
}

func (r *accountRepository) Create(ctx context.Context, a *account.BankAccount) error {
	m := mapAccountDomainToModel(a)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return MapGormErrorToDomain(err)
	}
	a.ID = m.ID
	a.CreatedAt = m.CreatedAt
	a.UpdatedAt = m.UpdatedAt
	return nil
}

func (r *accountRepository) Delete(ctx context.Context, userID uuid.UUID, id uint) error {
	result := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&BankAccount{})
	if result.Error != nil {
		return MapGormErrorToDomain(result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *accountRepository) ClearMain(ctx context.Context, userID uuid.UUID) error {
	return WrapError(func() error {
		return r.db.WithContext(ctx).Model(&BankAccount{}).
			Where("user_id = ?", userID).
			Update("main_account", false).Error
	})
}

func (r *accountRepository) MarkMain(ctx context.Context, userID uuid.UUID, id uint) error {
	result := r.db.WithContext(ctx).Model(&BankAccount{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("main_account", true)
	if result.Error != nil {
		return MapGormErrorToDomain(result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
