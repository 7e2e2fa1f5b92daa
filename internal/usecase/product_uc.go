package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/sportsapparel/sport-apparel-admin/internal/domain"
	"github.com/sportsapparel/sport-apparel-admin/internal/imageset"
	"github.com/sportsapparel/sport-apparel-admin/internal/seo"
	"github.com/sportsapparel/sport-apparel-admin/internal/slug"
)

type ProductUC struct {
	Products      domain.ProductRepo
	Subcategories domain.SubcategoryRepo
	Gallery       domain.GalleryRepo
	BaseURL       string
}

type ProductInput struct {
	Name           string            `json:"name"`
	Description    string            `json:"description"`
	Details        map[string]string `json:"details"`
	MinOrder       string            `json:"minOrder"`
	DeliveryInfo   string            `json:"deliveryInfo"`
	WhatsappNumber string            `json:"whatsappNumber"`
	ThumbnailID    *uint             `json:"thumbnailId"`
	SubcategoryID  uint              `json:"subcategoryId"`
	Price          string            `json:"price"`
}

type ProductPatch struct {
	Name           *string            `json:"name"`
	Description    *string            `json:"description"`
	Details        *map[string]string `json:"details"`
	MinOrder       *string            `json:"minOrder"`
	DeliveryInfo   *string            `json:"deliveryInfo"`
	WhatsappNumber *string            `json:"whatsappNumber"`
	ThumbnailID    *uint              `json:"thumbnailId"`
	SubcategoryID  *uint              `json:"subcategoryId"`
	IsActive       *bool              `json:"isActive"`
	// ImageIDs, when present, becomes the product's whole image set in the
	// given order. Omitting the field leaves the set untouched.
	ImageIDs *[]uint `json:"images"`
}

// ProductDetail is a product with its ordered image associations resolved.
type ProductDetail struct {
	domain.Product
	Images []domain.ProductImage `json:"images"`
}

type ProductListing struct {
	Products   []domain.Product              `json:"products"`
	Total      int64                         `json:"total"`
	Page       int                           `json:"page"`
	PageSize   int                           `json:"pageSize"`
	Categories []domain.CategoryProductCount `json:"categories"`
}

func (uc *ProductUC) List(ctx context.Context, f domain.ProductFilter) (*ProductListing, error) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize < 1 {
		f.PageSize = 10
	}
	items, total, err := uc.Products.List(ctx, f)
	if err != nil {
		return nil, err
	}
	counts, err := uc.Products.CategoryCounts(ctx)
	if err != nil {
		return nil, err
	}
	return &ProductListing{
		Products:   items,
		Total:      total,
		Page:       f.Page,
		PageSize:   f.PageSize,
		Categories: counts,
	}, nil
}

func (uc *ProductUC) Get(ctx context.Context, id uuid.UUID) (*ProductDetail, error) {
	p, err := uc.Products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	imgs, err := uc.Products.ListImages(ctx, id)
	if err != nil {
		return nil, err
	}
	return &ProductDetail{Product: *p, Images: imgs}, nil
}

// Create validates the references before touching the products table: a
// missing subcategory or thumbnail means nothing is inserted. Slug
// collisions are resolved by suffixing, never rejected.
func (uc *ProductUC) Create(ctx context.Context, in ProductInput) (*domain.Product, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.Invalid("product name is required")
	}
	if strings.TrimSpace(in.WhatsappNumber) == "" {
		return nil, domain.Invalid("whatsappNumber is required")
	}
	if in.SubcategoryID == 0 {
		return nil, domain.Invalid("subcategoryId is required")
	}
	sub, err := uc.Subcategories.FindByID(ctx, in.SubcategoryID)
	if err != nil {
		return nil, err
	}
	var thumbURL string
	if in.ThumbnailID != nil {
		thumb, err := uc.Gallery.FindByID(ctx, *in.ThumbnailID)
		if err != nil {
			return nil, err
		}
		thumbURL = thumb.ImageURL
	}

	base, err := slug.Make(name)
	if err != nil {
		return nil, domain.Invalid("product name must contain letters or digits")
	}
	s, err := slug.Unique(base, func(candidate string) (bool, error) {
		return uc.Products.SlugExists(ctx, candidate, uuid.Nil)
	})
	if err != nil {
		if errors.Is(err, slug.ErrExhausted) {
			return nil, domain.ErrConflict
		}
		return nil, err
	}

	p := &domain.Product{
		ID:             uuid.New(),
		Name:           name,
		Slug:           s,
		Description:    strings.TrimSpace(in.Description),
		Details:        in.Details,
		MinOrder:       strings.TrimSpace(in.MinOrder),
		DeliveryInfo:   strings.TrimSpace(in.DeliveryInfo),
		WhatsappNumber: strings.TrimSpace(in.WhatsappNumber),
		ThumbnailID:    in.ThumbnailID,
		SubcategoryID:  sub.ID,
		IsActive:       true,
	}
	p.SEO = seo.ForEntity(uc.BaseURL, "product", name, p.Description, s, strings.ToLower(sub.Name))
	p.StructuredData = seo.ProductStructuredData(name, p.Description, thumbURL, in.Price)
	if err := uc.Products.Save(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Update applies a partial patch and, when the patch carries an image
// list, swaps the product's whole image set in one transaction.
func (uc *ProductUC) Update(ctx context.Context, id uuid.UUID, patch ProductPatch) (*domain.Product, error) {
	p, err := uc.Products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	renamed := false
	if patch.Name != nil && strings.TrimSpace(*patch.Name) != "" && *patch.Name != p.Name {
		p.Name = strings.TrimSpace(*patch.Name)
		renamed = true
	}
	if patch.Description != nil {
		p.Description = strings.TrimSpace(*patch.Description)
	}
	if patch.Details != nil {
		p.Details = *patch.Details
	}
	if patch.MinOrder != nil {
		p.MinOrder = strings.TrimSpace(*patch.MinOrder)
	}
	if patch.DeliveryInfo != nil {
		p.DeliveryInfo = strings.TrimSpace(*patch.DeliveryInfo)
	}
	if patch.WhatsappNumber != nil {
		if strings.TrimSpace(*patch.WhatsappNumber) == "" {
			return nil, domain.Invalid("whatsappNumber cannot be empty")
		}
		p.WhatsappNumber = strings.TrimSpace(*patch.WhatsappNumber)
	}
	if patch.ThumbnailID != nil {
		if _, err := uc.Gallery.FindByID(ctx, *patch.ThumbnailID); err != nil {
			return nil, err
		}
		p.ThumbnailID = patch.ThumbnailID
	}
	if patch.SubcategoryID != nil && *patch.SubcategoryID != p.SubcategoryID {
		sub, err := uc.Subcategories.FindByID(ctx, *patch.SubcategoryID)
		if err != nil {
			return nil, err
		}
		p.SubcategoryID = sub.ID
		p.Subcategory = nil
	}
	if renamed {
		base, err := slug.Make(p.Name)
		if err != nil {
			return nil, domain.Invalid("product name must contain letters or digits")
		}
		s, err := slug.Unique(base, func(candidate string) (bool, error) {
			return uc.Products.SlugExists(ctx, candidate, p.ID)
		})
		if err != nil {
			if errors.Is(err, slug.ErrExhausted) {
				return nil, domain.ErrConflict
			}
			return nil, err
		}
		p.Slug = s
	}
	if renamed || patch.Description != nil {
		extra := ""
		if p.Subcategory != nil {
			extra = strings.ToLower(p.Subcategory.Name)
		}
		var thumbURL string
		if p.Thumbnail != nil {
			thumbURL = p.Thumbnail.ImageURL
		}
		var price string
		if p.StructuredData != nil && p.StructuredData.Offers != nil {
			price = p.StructuredData.Offers.Price
		}
		if extra != "" {
			p.SEO = seo.ForEntity(uc.BaseURL, "product", p.Name, p.Description, p.Slug, extra)
		} else {
			p.SEO = seo.ForEntity(uc.BaseURL, "product", p.Name, p.Description, p.Slug)
		}
		p.StructuredData = seo.ProductStructuredData(p.Name, p.Description, thumbURL, price)
	}
	if err := uc.Products.Save(ctx, p); err != nil {
		return nil, err
	}
	if patch.ImageIDs != nil {
		set := imageset.New(*patch.ImageIDs...)
		if err := uc.verifyGalleryIDs(ctx, set.IDs()); err != nil {
			return nil, err
		}
		if err := uc.Products.ReplaceImages(ctx, p.ID, set.IDs()); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func (uc *ProductUC) Delete(ctx context.Context, id uuid.UUID) error {
	return uc.Products.Delete(ctx, id)
}

// AssociateImages appends gallery images to the product after its current
// last position. Every referenced gallery row must exist.
func (uc *ProductUC) AssociateImages(ctx context.Context, productID uuid.UUID, galleryIDs []uint) ([]domain.ProductImage, error) {
	if len(galleryIDs) == 0 {
		return nil, domain.Invalid("galleryIds must not be empty")
	}
	if _, err := uc.Products.FindByID(ctx, productID); err != nil {
		return nil, err
	}
	set := imageset.New(galleryIDs...)
	if err := uc.verifyGalleryIDs(ctx, set.IDs()); err != nil {
		return nil, err
	}
	return uc.Products.AppendImages(ctx, productID, set.IDs())
}

func (uc *ProductUC) verifyGalleryIDs(ctx context.Context, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	n, err := uc.Gallery.CountByIDs(ctx, ids)
	if err != nil {
		return err
	}
	if n != int64(len(ids)) {
		return domain.ErrNotFound
	}
	return nil
}
