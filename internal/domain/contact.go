package domain

import (
	"context"
	"time"
)

type ContactMessage struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:140;not null" json:"name"`
	Email     string    `gorm:"size:140;not null" json:"email"`
	Subject   string    `gorm:"size:180" json:"subject"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

func (ContactMessage) TableName() string { return "contact_us" }

type ContactRepo interface {
	Save(ctx context.Context, m *ContactMessage) error
	List(ctx context.Context) ([]ContactMessage, error)
	Delete(ctx context.Context, id uint) error
}

// DashboardCounts are the aggregate table tallies shown on the console
// landing page.
type DashboardCounts struct {
	Products      int64
	Messages      int64
	Categories    int64
	Subcategories int64
	Images        int64
}

type AdminRepo interface {
	Counts(ctx context.Context) (DashboardCounts, error)
	// Reset wipes the catalog tables in dependency order inside one
	// transaction: product_images, products, gallery, subcategories,
	// categories. Contact messages are kept.
	Reset(ctx context.Context) error
}
