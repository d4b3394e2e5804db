package repository

import (
	"context"

	"waterpermits/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DivisionRepository struct {
	db *gorm.DB
}

func NewDivisionRepository(db *gorm.DB) *DivisionRepository {
	return &DivisionRepository{db: db}
}

func (r *DivisionRepository) GetByID(ctx context.Context, id int64) (*domain.Division, error) {
	var d domain.Division
	if err := r.db.WithContext(ctx).First(&d, id).Error; err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *DivisionRepository) List(ctx context.Context) ([]domain.Division, error) {
	var divisions []domain.Division
	err := r.db.WithContext(ctx).Order("id asc").Find(&divisions).Error
	return divisions, err
}

// Upsert writes divisions mirrored from the core system, keeping core ids.
func (r *DivisionRepository) Upsert(ctx context.Context, divisions []domain.Division) error {
	if len(divisions) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"division", "abbr", "updated_at"}),
		}).
		Create(&divisions).Error
}
