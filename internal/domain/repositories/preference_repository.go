package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/aigymos/gym-console/internal/domain/entities"
)

// PreferenceRepository defines the interface for task board preference access
type PreferenceRepository interface {
	// FindByUserID returns entities.ErrPreferenceNotFound when nothing is saved
	FindByUserID(ctx context.Context, userID uuid.UUID) (*entities.TaskViewPreference, error)

	// Upsert creates or replaces the user's preference row
	Upsert(ctx context.Context, pref *entities.TaskViewPreference) error
}
