package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/sportsapparel/sport-apparel-admin/internal/domain"
)

type AdminRepo struct{ db *gorm.DB }

func NewAdminRepo(db *gorm.DB) *AdminRepo { return &AdminRepo{db: db} }

func (r *AdminRepo) Counts(ctx context.Context) (domain.DashboardCounts, error) {
	var c domain.DashboardCounts
	db := r.db.WithContext(ctx)
	if err := db.Model(&domain.Product{}).Count(&c.Products).Error; err != nil {
		return c, err
	}
	if err := db.Model(&domain.ContactMessage{}).Count(&c.Messages).Error; err != nil {
		return c, err
	}
	if err := db.Model(&domain.Category{}).Count(&c.Categories).Error; err != nil {
		return c, err
	}
	if err := db.Model(&domain.Subcategory{}).Count(&c.Subcategories).Error; err != nil {
		return c, err
	}
	if err := db.Model(&domain.GalleryImage{}).Count(&c.Images).Error; err != nil {
		return c, err
	}
	return c, nil
}

// Reset wipes the catalog in dependency order so no foreign key is left
// dangling mid-way. One transaction; contact messages are untouched.
func (r *AdminRepo) Reset(ctx context.Context) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, model := range []any{
			&domain.ProductImage{},
			&domain.Product{},
			&domain.GalleryImage{},
			&domain.Subcategory{},
			&domain.Category{},
		} {
			if err := tx.Where("1 = 1").Delete(model).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
