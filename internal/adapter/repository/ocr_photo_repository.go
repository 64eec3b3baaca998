package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aigymos/gym-console/internal/domain/entities"
	"github.com/aigymos/gym-console/internal/domain/repositories"
)

var _ repositories.OCRPhotoRepository = (*OCRPhotoRepository)(nil)

// OCRPhotoRepository implements the archived photo repository using GORM
type OCRPhotoRepository struct {
	db *gorm.DB
}

// NewOCRPhotoRepository creates a new OCR photo repository
func NewOCRPhotoRepository(db *gorm.DB) *OCRPhotoRepository {
	return &OCRPhotoRepository{
		db: db,
	}
}

// Create stores a new archive record
func (r *OCRPhotoRepository) Create(ctx context.Context, photo *entities.OCRPhoto) error {
	if err := r.db.WithContext(ctx).Create(photo).Error; err != nil {
		return fmt.Errorf("failed to create ocr photo: %w", err)
	}
	return nil
}

// ListByGym returns the newest records for a gym
func (r *OCRPhotoRepository) ListByGym(ctx context.Context, gymID uuid.UUID, limit int) ([]*entities.OCRPhoto, error) {
	var photos []*entities.OCRPhoto
	err := r.db.WithContext(ctx).
		Where("gym_id = ?", gymID).
		Order("created_at DESC").
		Limit(limit).
		Find(&photos).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list ocr photos: %w", err)
	}
	return photos, nil
}
