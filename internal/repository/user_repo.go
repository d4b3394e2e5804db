package repository

import (
	"context"
	"strings"
	"time"

	"waterpermits/internal/domain"

	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	u.Email = normalizeEmail(u.Email)
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	var u domain.User
	if err := r.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) GetByExternalID(ctx context.Context, externalID int64) (*domain.User, error) {
	var u domain.User
	err := r.db.WithContext(ctx).
		Where("external_user_id = ?", externalID).
		First(&u).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.User{}).
		Where("email = ?", normalizeEmail(email)).
		Count(&count).Error
	return count > 0, err
}

// SyncProfile overwrites the core-owned profile columns and nothing else.
// Password, role and external id are deliberately not in the column list.
func (r *UserRepository) SyncProfile(ctx context.Context, id int64, u *domain.User) error {
	return r.db.WithContext(ctx).
		Model(&domain.User{ID: id}).
		Updates(map[string]any{
			"name":        u.Name,
			"first_name":  u.FirstName,
			"last_name":   u.LastName,
			"position":    u.Position,
			"division_id": u.DivisionID,
			"email":       normalizeEmail(u.Email),
			"updated_at":  time.Now().UTC(),
		}).Error
}

func (r *UserRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.User{}).Count(&count).Error
	return count, err
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
