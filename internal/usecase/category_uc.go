package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/sportsapparel/sport-apparel-admin/internal/domain"
	"github.com/sportsapparel/sport-apparel-admin/internal/seo"
	"github.com/sportsapparel/sport-apparel-admin/internal/slug"
)

type CategoryUC struct {
	Categories domain.CategoryRepo
	BaseURL    string
}

type CategoryInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Image       string `json:"image"`
}

type CategoryPatch struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Image       *string `json:"image"`
}

func (uc *CategoryUC) List(ctx context.Context) ([]domain.Category, error) {
	return uc.Categories.List(ctx)
}

func (uc *CategoryUC) Get(ctx context.Context, id uint) (*domain.Category, error) {
	return uc.Categories.FindByID(ctx, id)
}

// Create derives the slug from the name and rejects a name whose slug is
// already taken: category slugs are globally unique and duplicates are a
// conflict, not a reason to suffix.
func (uc *CategoryUC) Create(ctx context.Context, in CategoryInput) (*domain.Category, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.Invalid("category name is required")
	}
	s, err := slug.Make(name)
	if err != nil {
		return nil, domain.Invalid("category name must contain letters or digits")
	}
	exists, err := uc.Categories.SlugExists(ctx, s, 0)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrConflict
	}
	c := &domain.Category{
		Name:        name,
		Slug:        s,
		Description: strings.TrimSpace(in.Description),
		Image:       strings.TrimSpace(in.Image),
	}
	c.SEO = seo.ForEntity(uc.BaseURL, "category", name, c.Description, s)
	if err := uc.Categories.Save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Update applies a partial patch. The slug is recomputed only when the
// name changes, suffixing past other categories' slugs.
func (uc *CategoryUC) Update(ctx context.Context, id uint, patch CategoryPatch) (*domain.Category, error) {
	c, err := uc.Categories.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	renamed := false
	if patch.Name != nil && strings.TrimSpace(*patch.Name) != "" && *patch.Name != c.Name {
		c.Name = strings.TrimSpace(*patch.Name)
		renamed = true
	}
	if patch.Description != nil {
		c.Description = strings.TrimSpace(*patch.Description)
	}
	if patch.Image != nil {
		c.Image = strings.TrimSpace(*patch.Image)
	}
	if renamed {
		base, err := slug.Make(c.Name)
		if err != nil {
			return nil, domain.Invalid("category name must contain letters or digits")
		}
		s, err := slug.Unique(base, func(candidate string) (bool, error) {
			return uc.Categories.SlugExists(ctx, candidate, c.ID)
		})
		if err != nil {
			if errors.Is(err, slug.ErrExhausted) {
				return nil, domain.ErrConflict
			}
			return nil, err
		}
		c.Slug = s
	}
	if renamed || patch.Description != nil {
		c.SEO = seo.ForEntity(uc.BaseURL, "category", c.Name, c.Description, c.Slug)
	}
	if err := uc.Categories.Save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (uc *CategoryUC) Delete(ctx context.Context, id uint) error {
	return uc.Categories.Delete(ctx, id)
}
