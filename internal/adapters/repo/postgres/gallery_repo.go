package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/sportsapparel/sport-apparel-admin/internal/domain"
)

type GalleryRepo struct{ db *gorm.DB }

func NewGalleryRepo(db *gorm.DB) *GalleryRepo { return &GalleryRepo{db: db} }

func (r *GalleryRepo) SaveAll(ctx context.Context, imgs []domain.GalleryImage) error {
	if len(imgs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&imgs).Error
}

func (r *GalleryRepo) List(ctx context.Context) ([]domain.GalleryImage, error) {
	var list []domain.GalleryImage
	if err := r.db.WithContext(ctx).Order("created_at asc").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *GalleryRepo) FindByID(ctx context.Context, id uint) (*domain.GalleryImage, error) {
	var img domain.GalleryImage
	if err := r.db.WithContext(ctx).First(&img, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &img, nil
}

func (r *GalleryRepo) FindByURLs(ctx context.Context, urls []string) ([]domain.GalleryImage, error) {
	if len(urls) == 0 {
		return nil, nil
	}
	var list []domain.GalleryImage
	if err := r.db.WithContext(ctx).Where("image_url IN ?", urls).Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *GalleryRepo) CountByIDs(ctx context.Context, ids []uint) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	var count int64
	if err := r.db.WithContext(ctx).Model(&domain.GalleryImage{}).Where("id IN ?", ids).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GalleryRepo) DeleteByURLs(ctx context.Context, urls []string) error {
	if len(urls) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Where("image_url IN ?", urls).Delete(&domain.GalleryImage{}).Error
}

func (r *GalleryRepo) DeleteAll(ctx context.Context) error {
	return r.db.WithContext(ctx).Where("1 = 1").Delete(&domain.GalleryImage{}).Error
}
