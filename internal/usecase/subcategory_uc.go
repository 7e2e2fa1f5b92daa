package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/sportsapparel/sport-apparel-admin/internal/domain"
	"github.com/sportsapparel/sport-apparel-admin/internal/seo"
	"github.com/sportsapparel/sport-apparel-admin/internal/slug"
)

type SubcategoryUC struct {
	Subcategories domain.SubcategoryRepo
	Categories    domain.CategoryRepo
	BaseURL       string
}

type SubcategoryInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Image       string `json:"image"`
	CategoryID  uint   `json:"categoryId"`
}

type SubcategoryPatch struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Image       *string `json:"image"`
	CategoryID  *uint   `json:"categoryId"`
}

func (uc *SubcategoryUC) ListByCategory(ctx context.Context, categoryID uint) ([]domain.Subcategory, error) {
	return uc.Subcategories.ListByCategory(ctx, categoryID)
}

// Create validates the parent category first: a subcategory under a
// nonexistent category is NotFound and inserts nothing. Slug uniqueness is
// scoped to the parent.
func (uc *SubcategoryUC) Create(ctx context.Context, in SubcategoryInput) (*domain.Subcategory, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.Invalid("subcategory name is required")
	}
	if in.CategoryID == 0 {
		return nil, domain.Invalid("category id is required")
	}
	parent, err := uc.Categories.FindByID(ctx, in.CategoryID)
	if err != nil {
		return nil, err
	}
	s, err := slug.Make(name)
	if err != nil {
		return nil, domain.Invalid("subcategory name must contain letters or digits")
	}
	exists, err := uc.Subcategories.SlugExists(ctx, in.CategoryID, s, 0)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrConflict
	}
	sc := &domain.Subcategory{
		Name:        name,
		Slug:        s,
		CategoryID:  in.CategoryID,
		Description: strings.TrimSpace(in.Description),
		Image:       strings.TrimSpace(in.Image),
	}
	sc.SEO = seo.ForEntity(uc.BaseURL, "subcategory", name, sc.Description, s,
		strings.Fields(strings.ToLower(parent.Name))...)
	if err := uc.Subcategories.Save(ctx, sc); err != nil {
		return nil, err
	}
	return sc, nil
}

func (uc *SubcategoryUC) Update(ctx context.Context, id uint, patch SubcategoryPatch) (*domain.Subcategory, error) {
	sc, err := uc.Subcategories.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if patch.CategoryID != nil && *patch.CategoryID != sc.CategoryID {
		if _, err := uc.Categories.FindByID(ctx, *patch.CategoryID); err != nil {
			return nil, err
		}
		sc.CategoryID = *patch.CategoryID
		sc.Category = nil
	}
	renamed := false
	if patch.Name != nil && strings.TrimSpace(*patch.Name) != "" && *patch.Name != sc.Name {
		sc.Name = strings.TrimSpace(*patch.Name)
		renamed = true
	}
	if patch.Description != nil {
		sc.Description = strings.TrimSpace(*patch.Description)
	}
	if patch.Image != nil {
		sc.Image = strings.TrimSpace(*patch.Image)
	}
	// moving between categories can collide in the new scope, so the slug
	// is re-resolved on rename or move
	if renamed || patch.CategoryID != nil {
		base, err := slug.Make(sc.Name)
		if err != nil {
			return nil, domain.Invalid("subcategory name must contain letters or digits")
		}
		s, err := slug.Unique(base, func(candidate string) (bool, error) {
			return uc.Subcategories.SlugExists(ctx, sc.CategoryID, candidate, sc.ID)
		})
		if err != nil {
			if errors.Is(err, slug.ErrExhausted) {
				return nil, domain.ErrConflict
			}
			return nil, err
		}
		sc.Slug = s
	}
	if renamed || patch.Description != nil {
		var extra []string
		if sc.Category != nil {
			extra = strings.Fields(strings.ToLower(sc.Category.Name))
		}
		sc.SEO = seo.ForEntity(uc.BaseURL, "subcategory", sc.Name, sc.Description, sc.Slug, extra...)
	}
	if err := uc.Subcategories.Save(ctx, sc); err != nil {
		return nil, err
	}
	return sc, nil
}

func (uc *SubcategoryUC) Delete(ctx context.Context, id uint) error {
	return uc.Subcategories.Delete(ctx, id)
}
