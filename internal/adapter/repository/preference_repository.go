package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/aigymos/gym-console/internal/domain/entities"
	"github.com/aigymos/gym-console/internal/domain/repositories"
)

var _ repositories.PreferenceRepository = (*PreferenceRepository)(nil)

// PreferenceRepository implements the preference repository interface using GORM
type PreferenceRepository struct {
	db *gorm.DB
}

// NewPreferenceRepository creates a new preference repository
func NewPreferenceRepository(db *gorm.DB) *PreferenceRepository {
	return &PreferenceRepository{
		db: db,
	}
}

// FindByUserID finds the saved board toggles for a user
func (r *PreferenceRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*entities.TaskViewPreference, error) {
	var pref entities.TaskViewPreference
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&pref).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entities.ErrPreferenceNotFound
		}
		return nil, fmt.Errorf("failed to find preference: %w", err)
	}
	return &pref, nil
}

// Upsert inserts the row or overwrites the toggles of an existing one
func (r *PreferenceRepository) Upsert(ctx context.Context, pref *entities.TaskViewPreference) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"gym_id", "show_done", "plan_filter", "updated_at"}),
	}).Create(pref).Error
	if err != nil {
		return fmt.Errorf("failed to upsert preference: %w", err)
	}
	return nil
}
