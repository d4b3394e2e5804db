package repository

import (
	"context"

	"waterpermits/internal/domain"

	"gorm.io/gorm"
)

type PermitPhotoRepository struct {
	db *gorm.DB
}

func NewPermitPhotoRepository(db *gorm.DB) *PermitPhotoRepository {
	return &PermitPhotoRepository{db: db}
}

func (r *PermitPhotoRepository) Create(ctx context.Context, p *domain.PermitPhoto) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *PermitPhotoRepository) GetByID(ctx context.Context, id int64) (*domain.PermitPhoto, error) {
	var p domain.PermitPhoto
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PermitPhotoRepository) ListByPermit(ctx context.Context, permitID int64) ([]domain.PermitPhoto, error) {
	var photos []domain.PermitPhoto
	err := r.db.WithContext(ctx).
		Where("permit_id = ?", permitID).
		Order("id asc").
		Find(&photos).Error
	if err != nil {
		return nil, err
	}
	return photos, nil
}

func (r *PermitPhotoRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&domain.PermitPhoto{}, id).Error
}
