package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Product struct {
	ID             uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	Name           string            `gorm:"size:180;not null" json:"name"`
	Slug           string            `gorm:"uniqueIndex;size:140;not null" json:"slug"`
	Description    string            `gorm:"type:text" json:"description"`
	Details        map[string]string `gorm:"type:jsonb;serializer:json" json:"details,omitempty"`
	MinOrder       string            `gorm:"size:60" json:"minOrder"`
	DeliveryInfo   string            `gorm:"size:255" json:"deliveryInfo"`
	WhatsappNumber string            `gorm:"size:30;not null" json:"whatsappNumber"`
	ThumbnailID    *uint             `gorm:"index" json:"thumbnailId"`
	SubcategoryID  uint              `gorm:"index" json:"subcategoryId"`
	IsActive       bool              `gorm:"default:true;index" json:"isActive"`
	SEO            SEO               `gorm:"embedded" json:"seo"`
	StructuredData *StructuredData   `gorm:"type:jsonb;serializer:json" json:"structuredData,omitempty"`

	Thumbnail   *GalleryImage `gorm:"foreignKey:ThumbnailID" json:"thumbnail,omitempty"`
	Subcategory *Subcategory  `json:"subcategory,omitempty"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}

// StructuredData is the schema.org Product descriptor embedded in product
// rows. A typed shape instead of a free-form blob.
type StructuredData struct {
	Context     string `json:"@context"`
	Type        string `json:"@type"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Image       string `json:"image,omitempty"`
	Offers      *Offer `json:"offers,omitempty"`
}

type Offer struct {
	Type          string `json:"@type"`
	Price         string `json:"price"`
	PriceCurrency string `json:"priceCurrency"`
}

// ProductImage associates a gallery image with a product at a position.
// DisplayOrder values for one product are contiguous starting at 0.
type ProductImage struct {
	ProductID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"productId"`
	ImageID      uint      `gorm:"primaryKey" json:"imageId"`
	DisplayOrder int       `gorm:"not null;default:0" json:"displayOrder"`

	Image *GalleryImage `gorm:"foreignKey:ImageID" json:"image,omitempty"`
}

type ProductFilter struct {
	Page            int
	PageSize        int
	SubcategoryID   uint
	IncludeInactive bool
}

// CategoryProductCount is the per-category active product tally returned
// alongside product listings.
type CategoryProductCount struct {
	ID           uint   `json:"id"`
	Name         string `json:"name"`
	Slug         string `json:"slug"`
	ProductCount int64  `json:"productCount"`
}

type ProductRepo interface {
	Save(ctx context.Context, p *Product) error
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)
	List(ctx context.Context, f ProductFilter) ([]Product, int64, error)
	SlugExists(ctx context.Context, slug string, excludeID uuid.UUID) (bool, error)
	// Delete removes the product and its image associations in one
	// transaction. Gallery rows are never touched.
	Delete(ctx context.Context, id uuid.UUID) error

	ListImages(ctx context.Context, productID uuid.UUID) ([]ProductImage, error)
	// ReplaceImages swaps the whole association set for the product inside
	// one transaction, renumbering display order from 0.
	ReplaceImages(ctx context.Context, productID uuid.UUID, imageIDs []uint) error
	// AppendImages adds associations after the current highest display order.
	AppendImages(ctx context.Context, productID uuid.UUID, imageIDs []uint) ([]ProductImage, error)

	CategoryCounts(ctx context.Context) ([]CategoryProductCount, error)
}
