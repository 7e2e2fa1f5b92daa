package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/sportsapparel/sport-apparel-admin/internal/domain"
)

type SubcategoryRepo struct{ db *gorm.DB }

func NewSubcategoryRepo(db *gorm.DB) *SubcategoryRepo { return &SubcategoryRepo{db: db} }

func (r *SubcategoryRepo) Save(ctx context.Context, sc *domain.Subcategory) error {
	return r.db.WithContext(ctx).Omit("Category").Save(sc).Error
}

func (r *SubcategoryRepo) FindByID(ctx context.Context, id uint) (*domain.Subcategory, error) {
	var sc domain.Subcategory
	if err := r.db.WithContext(ctx).Preload("Category").First(&sc, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &sc, nil
}

func (r *SubcategoryRepo) ListByCategory(ctx context.Context, categoryID uint) ([]domain.Subcategory, error) {
	var list []domain.Subcategory
	if err := r.db.WithContext(ctx).Where("category_id = ?", categoryID).Order("created_at asc").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *SubcategoryRepo) SlugExists(ctx context.Context, categoryID uint, s string, excludeID uint) (bool, error) {
	var count int64
	q := r.db.WithContext(ctx).Model(&domain.Subcategory{}).
		Where("category_id = ? AND slug = ?", categoryID, s)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Delete cascades subcategory → products → product_images in one
// transaction.
func (r *SubcategoryRepo) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var sc domain.Subcategory
		if err := tx.First(&sc, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrNotFound
			}
			return err
		}
		if err := deleteProductsOfSubcategories(tx, []uint{id}); err != nil {
			return err
		}
		return tx.Delete(&domain.Subcategory{}, "id = ?", id).Error
	})
}
