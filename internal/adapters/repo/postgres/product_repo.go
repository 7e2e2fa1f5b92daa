package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sportsapparel/sport-apparel-admin/internal/domain"
)

type ProductRepo struct{ db *gorm.DB }

func NewProductRepo(db *gorm.DB) *ProductRepo { return &ProductRepo{db: db} }

func (r *ProductRepo) Save(ctx context.Context, p *domain.Product) error {
	return r.db.WithContext(ctx).Omit("Thumbnail", "Subcategory").Save(p).Error
}

func (r *ProductRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	var p domain.Product
	err := r.db.WithContext(ctx).
		Preload("Thumbnail").
		Preload("Subcategory").
		Preload("Subcategory.Category").
		First(&p, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *ProductRepo) List(ctx context.Context, f domain.ProductFilter) ([]domain.Product, int64, error) {
	q := r.db.WithContext(ctx).Model(&domain.Product{})
	if !f.IncludeInactive {
		q = q.Where("is_active = ?", true)
	}
	if f.SubcategoryID != 0 {
		q = q.Where("subcategory_id = ?", f.SubcategoryID)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.PageSize <= 0 {
		f.PageSize = 10
	}
	var list []domain.Product
	err := q.Order("created_at desc").
		Offset((f.Page - 1) * f.PageSize).
		Limit(f.PageSize).
		Preload("Thumbnail").
		Preload("Subcategory").
		Preload("Subcategory.Category").
		Find(&list).Error
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (r *ProductRepo) SlugExists(ctx context.Context, s string, excludeID uuid.UUID) (bool, error) {
	var count int64
	q := r.db.WithContext(ctx).Model(&domain.Product{}).Where("slug = ?", s)
	if excludeID != uuid.Nil {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Delete removes the product and its image associations atomically. The
// referenced gallery rows survive.
func (r *ProductRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var p domain.Product
		if err := tx.First(&p, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrNotFound
			}
			return err
		}
		if err := tx.Where("product_id = ?", id).Delete(&domain.ProductImage{}).Error; err != nil {
			return err
		}
		return tx.Delete(&domain.Product{}, "id = ?", id).Error
	})
}

func (r *ProductRepo) ListImages(ctx context.Context, productID uuid.UUID) ([]domain.ProductImage, error) {
	var list []domain.ProductImage
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("display_order asc").
		Preload("Image").
		Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

// ReplaceImages swaps the whole association set: delete-all-then-insert,
// display order renumbered from 0, one transaction so concurrent readers
// never see a gap.
func (r *ProductRepo) ReplaceImages(ctx context.Context, productID uuid.UUID, imageIDs []uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", productID).Delete(&domain.ProductImage{}).Error; err != nil {
			return err
		}
		if len(imageIDs) == 0 {
			return nil
		}
		rows := make([]domain.ProductImage, len(imageIDs))
		for i, imgID := range imageIDs {
			rows[i] = domain.ProductImage{ProductID: productID, ImageID: imgID, DisplayOrder: i}
		}
		return tx.Create(&rows).Error
	})
}

// AppendImages adds associations starting after the current highest
// display order.
func (r *ProductRepo) AppendImages(ctx context.Context, productID uuid.UUID, imageIDs []uint) ([]domain.ProductImage, error) {
	if len(imageIDs) == 0 {
		return nil, nil
	}
	var rows []domain.ProductImage
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var max *int
		if err := tx.Model(&domain.ProductImage{}).
			Where("product_id = ?", productID).
			Select("MAX(display_order)").Scan(&max).Error; err != nil {
			return err
		}
		next := 0
		if max != nil {
			next = *max + 1
		}
		rows = make([]domain.ProductImage, len(imageIDs))
		for i, imgID := range imageIDs {
			rows[i] = domain.ProductImage{ProductID: productID, ImageID: imgID, DisplayOrder: next + i}
		}
		return tx.Create(&rows).Error
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *ProductRepo) CategoryCounts(ctx context.Context) ([]domain.CategoryProductCount, error) {
	var rows []domain.CategoryProductCount
	err := r.db.WithContext(ctx).Table("categories").
		Select("categories.id AS id, categories.name AS name, categories.slug AS slug, COUNT(products.id) AS product_count").
		Joins("LEFT JOIN subcategories ON subcategories.category_id = categories.id").
		Joins("LEFT JOIN products ON products.subcategory_id = subcategories.id AND products.is_active = ?", true).
		Group("categories.id, categories.name, categories.slug").
		Order("categories.id asc").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
