package domain

import (
	"context"
	"time"
)

// SEO holds the discoverability metadata generated for every catalog entity.
type SEO struct {
	MetaTitle       string `gorm:"size:180" json:"metaTitle"`
	MetaDescription string `gorm:"size:255" json:"metaDescription"`
	Keywords        string `gorm:"type:text" json:"keywords"`
	CanonicalURL    string `gorm:"size:255" json:"canonicalUrl"`
}

type Category struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"size:180;not null" json:"name"`
	Slug        string `gorm:"uniqueIndex;size:140;not null" json:"slug"`
	Description string `gorm:"type:text" json:"description"`
	Image       string `gorm:"size:255" json:"image"`
	SEO         SEO    `gorm:"embedded" json:"seo"`

	Subcategories []Subcategory `json:"subcategories,omitempty"`
	CreatedAt     time.Time     `json:"createdAt"`
}

type Subcategory struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"size:180;not null" json:"name"`
	Slug        string `gorm:"size:140;index:idx_subcategories_category_slug,unique;not null" json:"slug"`
	CategoryID  uint   `gorm:"index:idx_subcategories_category_slug,unique" json:"categoryId"`
	Description string `gorm:"type:text" json:"description"`
	Image       string `gorm:"size:255" json:"image"`
	SEO         SEO    `gorm:"embedded" json:"seo"`

	Category  *Category `json:"category,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

type CategoryRepo interface {
	Save(ctx context.Context, c *Category) error
	FindByID(ctx context.Context, id uint) (*Category, error)
	List(ctx context.Context) ([]Category, error)
	SlugExists(ctx context.Context, slug string, excludeID uint) (bool, error)
	// Delete removes the category and every descendant subcategory, product
	// and product-image association in one transaction.
	Delete(ctx context.Context, id uint) error
}

type SubcategoryRepo interface {
	Save(ctx context.Context, sc *Subcategory) error
	FindByID(ctx context.Context, id uint) (*Subcategory, error)
	ListByCategory(ctx context.Context, categoryID uint) ([]Subcategory, error)
	SlugExists(ctx context.Context, categoryID uint, slug string, excludeID uint) (bool, error)
	// Delete removes the subcategory, its products and their image
	// associations in one transaction.
	Delete(ctx context.Context, id uint) error
}
