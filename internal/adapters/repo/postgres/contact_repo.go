package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/sportsapparel/sport-apparel-admin/internal/domain"
)

type ContactRepo struct{ db *gorm.DB }

func NewContactRepo(db *gorm.DB) *ContactRepo { return &ContactRepo{db: db} }

func (r *ContactRepo) Save(ctx context.Context, m *domain.ContactMessage) error {
	return r.db.WithContext(ctx).Save(m).Error
}

func (r *ContactRepo) List(ctx context.Context) ([]domain.ContactMessage, error) {
	var list []domain.ContactMessage
	if err := r.db.WithContext(ctx).Order("created_at asc").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *ContactRepo) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&domain.ContactMessage{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
