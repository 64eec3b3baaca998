package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/aigymos/gym-console/internal/domain/entities"
)

// OCRPhotoRepository defines the interface for archived photo records
type OCRPhotoRepository interface {
	// Create stores a new archive record
	Create(ctx context.Context, photo *entities.OCRPhoto) error

	// ListByGym returns the most recent records for a gym, newest first
	ListByGym(ctx context.Context, gymID uuid.UUID, limit int) ([]*entities.OCRPhoto, error)
}
