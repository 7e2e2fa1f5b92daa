package domain

import (
	"context"
	"time"
)

// GalleryImage is an independently owned media record. Catalog cascades
// never delete gallery rows; only the explicit gallery paths do.
type GalleryImage struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	ImageURL     string    `gorm:"size:255;not null;index" json:"imageUrl"`
	OriginalName string    `gorm:"size:255" json:"originalName"`
	FileSize     int64     `json:"fileSize"`
	MimeType     string    `gorm:"size:100" json:"mimeType"`
	AltText      string    `gorm:"size:180" json:"altText"`
	CreatedAt    time.Time `json:"createdAt"`
}

func (GalleryImage) TableName() string { return "gallery" }

type GalleryRepo interface {
	SaveAll(ctx context.Context, imgs []GalleryImage) error
	List(ctx context.Context) ([]GalleryImage, error)
	FindByID(ctx context.Context, id uint) (*GalleryImage, error)
	FindByURLs(ctx context.Context, urls []string) ([]GalleryImage, error)
	CountByIDs(ctx context.Context, ids []uint) (int64, error)
	DeleteByURLs(ctx context.Context, urls []string) error
	DeleteAll(ctx context.Context) error
}

// MediaStorage is the third-party media-hosting contract: binary payloads
// in, stable public URLs out.
type MediaStorage interface {
	Upload(ctx context.Context, folder, filename string, data []byte) (string, error)
	Destroy(ctx context.Context, urls []string) error
	// DestroyFolder enumerates and deletes every stored resource under the
	// folder prefix.
	DestroyFolder(ctx context.Context, folder string) error
}
