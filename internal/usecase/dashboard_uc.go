package usecase

import (
	"context"

	"github.com/sportsapparel/sport-apparel-admin/internal/domain"
)

type DashboardUC struct {
	Admin domain.AdminRepo
}

// Stat is one dashboard tile. The icon names follow the Font Awesome set
// the console frontend ships with.
type Stat struct {
	Label string `json:"label"`
	Value int64  `json:"value"`
	Icon  string `json:"icon"`
}

func (uc *DashboardUC) Stats(ctx context.Context) ([]Stat, error) {
	c, err := uc.Admin.Counts(ctx)
	if err != nil {
		return nil, err
	}
	return []Stat{
		{Label: "Products", Value: c.Products, Icon: "fa-box-open"},
		{Label: "Messages", Value: c.Messages, Icon: "fa-envelope"},
		{Label: "Categories", Value: c.Categories, Icon: "fa-layer-group"},
		{Label: "Subcategories", Value: c.Subcategories, Icon: "fa-sitemap"},
		{Label: "Images", Value: c.Images, Icon: "fa-image"},
	}, nil
}

// Reset wipes the catalog tables. Contact messages survive.
func (uc *DashboardUC) Reset(ctx context.Context) error {
	return uc.Admin.Reset(ctx)
}
