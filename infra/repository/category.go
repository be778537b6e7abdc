package repository

import (
	"context"

	"github.com/amirasaad/txnimport/pkg/domain/category"
	"github.com/amirasaad/txnimport/pkg/domain/transaction"
	"github.com/amirasaad/txnimport/pkg/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type categoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) repository.CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) FirstOrCreate(ctx context.Context, c *category.Category) (*category.Category, error) {
	var m Category
	err := r.db.WithContext(ctx).
		Where(Category{Name: c.Name, Importer: c.Importer, CreatedBy: c.CreatedBy}).
		Attrs(Category{Icon: c.Icon, TxnType: string(c.Direction)}).
		FirstOrCreate(&m).Error
	if err != nil {
		return nil, MapGormErrorToDomain(err)
	}
	return mapCategoryModelToDomain(&m), nil
}

func (r *categoryRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*category.Category, error) {
	var models []Category
	if err := r.db.WithContext(ctx).Where("created_by = ?", userID).Order("id").Find(&models).Error; err != nil {
		return nil, MapGormErrorToDomain(err)
	}
	out := make([]*category.Category, 0, len(models))
	for i := range models {
		out = append(out, mapCategoryModelToDomain(&models[i]))
	}
	return out, nil
}

func (r *categoryRepository) IncomeNames(ctx context.Context, userID uuid.UUID) ([]string, error) {
	var names []string
	err := r.db.WithContext(ctx).Model(&Category{}).
		Where("created_by = ? AND txn_type = ?", userID, string(transaction.DirectionIn)).
		Distinct().
		Order("name").
		Pluck("name", &names).Error
	if err != nil {
		return nil, MapGormErrorToDomain(err)
	}
	return names, nil
}
