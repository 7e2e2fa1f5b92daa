package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/sportsapparel/sport-apparel-admin/internal/domain"
)

type CategoryRepo struct{ db *gorm.DB }

func NewCategoryRepo(db *gorm.DB) *CategoryRepo { return &CategoryRepo{db: db} }

func (r *CategoryRepo) Save(ctx context.Context, c *domain.Category) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *CategoryRepo) FindByID(ctx context.Context, id uint) (*domain.Category, error) {
	var c domain.Category
	if err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *CategoryRepo) List(ctx context.Context) ([]domain.Category, error) {
	var list []domain.Category
	if err := r.db.WithContext(ctx).Order("created_at asc").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *CategoryRepo) SlugExists(ctx context.Context, slug string, excludeID uint) (bool, error) {
	var count int64
	q := r.db.WithContext(ctx).Model(&domain.Category{}).Where("slug = ?", slug)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Delete cascades category → subcategories → products → product_images in
// one transaction. Gallery rows stay; they are independently owned.
func (r *CategoryRepo) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var c domain.Category
		if err := tx.First(&c, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrNotFound
			}
			return err
		}
		var subIDs []uint
		if err := tx.Model(&domain.Subcategory{}).Where("category_id = ?", id).Pluck("id", &subIDs).Error; err != nil {
			return err
		}
		if len(subIDs) > 0 {
			if err := deleteProductsOfSubcategories(tx, subIDs); err != nil {
				return err
			}
			if err := tx.Where("category_id = ?", id).Delete(&domain.Subcategory{}).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&domain.Category{}, "id = ?", id).Error
	})
}

// deleteProductsOfSubcategories removes products under the given
// subcategories together with their image associations. Runs inside the
// caller's transaction.
func deleteProductsOfSubcategories(tx *gorm.DB, subIDs []uint) error {
	var productIDs []string
	if err := tx.Model(&domain.Product{}).Where("subcategory_id IN ?", subIDs).Pluck("id", &productIDs).Error; err != nil {
		return err
	}
	if len(productIDs) == 0 {
		return nil
	}
	if err := tx.Where("product_id IN ?", productIDs).Delete(&domain.ProductImage{}).Error; err != nil {
		return err
	}
	return tx.Where("subcategory_id IN ?", subIDs).Delete(&domain.Product{}).Error
}
