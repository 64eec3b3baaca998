package ocr

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	apperrors "github.com/aigymos/gym-console/errors"
	"github.com/aigymos/gym-console/internal/domain/entities"
	"github.com/aigymos/gym-console/internal/domain/repositories"
	usecaseErrors "github.com/aigymos/gym-console/internal/usecase/errors"
	"github.com/aigymos/gym-console/pkg/metrics"
)

// Service defines the interface for body composition extraction
type Service interface {
	// ExtractText runs the field extractor over already recognised text
	ExtractText(ctx context.Context, raw string) (*entities.BodyCompositionOcrResult, error)

	// ExtractImage archives the photo, recognises its text and extracts fields
	ExtractImage(ctx context.Context, input ImageInput) (*entities.BodyCompositionOcrResult, error)

	// RecentPhotos lists archived photos of a gym with short-lived download URLs
	RecentPhotos(ctx context.Context, gymID uuid.UUID, limit int) ([]PhotoLink, error)
}

// ImageInput is one uploaded bioimpedance photo
type ImageInput struct {
	Principal   entities.Principal
	Filename    string
	ContentType string
	Data        []byte
}

// PhotoLink pairs an archive record with a presigned URL
type PhotoLink struct {
	Photo *entities.OCRPhoto
	URL   string
}

// Config tunes uploads
type Config struct {
	MaxImageBytes int64
	ArchivePrefix string
	URLExpiry     time.Duration
}

var supportedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

type service struct {
	recognizer repositories.TextRecognizer
	store      repositories.ObjectStore
	photos     repositories.OCRPhotoRepository
	logger     *zap.Logger
	cfg        Config
}

// NewService creates the OCR service. store and photos may be nil, in which
// case images are recognised without being archived.
func NewService(
	recognizer repositories.TextRecognizer,
	store repositories.ObjectStore,
	photos repositories.OCRPhotoRepository,
	logger *zap.Logger,
	cfg Config,
) Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.MaxImageBytes <= 0 {
		cfg.MaxImageBytes = 10 << 20
	}
	if cfg.ArchivePrefix == "" {
		cfg.ArchivePrefix = "ocr"
	}
	if cfg.URLExpiry <= 0 {
		cfg.URLExpiry = time.Hour
	}
	return &service{
		recognizer: recognizer,
		store:      store,
		photos:     photos,
		logger:     logger,
		cfg:        cfg,
	}
}

func (s *service) ExtractText(_ context.Context, raw string) (*entities.BodyCompositionOcrResult, error) {
	result := ExtractBodyComposition(raw)
	observe("text", "ok", result.Confidence)
	return &result, nil
}

func (s *service) ExtractImage(ctx context.Context, input ImageInput) (*entities.BodyCompositionOcrResult, error) {
	if len(input.Data) == 0 {
		metrics.OCRExtractions.WithLabelValues("image", "rejected").Inc()
		return nil, apperrors.ErrOCREmptyInput()
	}
	if int64(len(input.Data)) > s.cfg.MaxImageBytes {
		metrics.OCRExtractions.WithLabelValues("image", "rejected").Inc()
		return nil, apperrors.ErrInvalidArgument(usecaseErrors.ErrImageTooLarge.Error()).
			WithDetail("max_bytes", fmt.Sprint(s.cfg.MaxImageBytes))
	}
	contentType := strings.ToLower(strings.TrimSpace(strings.Split(input.ContentType, ";")[0]))
	if _, ok := supportedImageTypes[contentType]; !ok {
		metrics.OCRExtractions.WithLabelValues("image", "rejected").Inc()
		return nil, apperrors.ErrOCRUnsupportedMedia(input.ContentType)
	}

	photoKey := s.archive(ctx, input, contentType)

	text, err := s.recognizer.Recognize(ctx, input.Data, contentType)
	if err != nil {
		metrics.OCRExtractions.WithLabelValues("image", "recognition_failed").Inc()
		s.logger.Error("ocr.recognize.failed",
			zap.String("gym_id", input.Principal.GymID.String()),
			zap.String("photo_key", photoKey),
			zap.Error(err),
		)
		return nil, apperrors.ErrOCRRecognitionFailed(fmt.Errorf("%w: %v", usecaseErrors.ErrRecognizerFailed, err))
	}

	result := ExtractBodyComposition(text)
	result.PhotoKey = photoKey
	observe("image", "ok", result.Confidence)

	s.logger.Info("ocr.extracted",
		zap.String("gym_id", input.Principal.GymID.String()),
		zap.Float64("confidence", result.Confidence),
		zap.Int("warnings", len(result.Warnings)),
	)
	return &result, nil
}

// archive stores the photo and its record. Archiving is best effort: a
// failure is logged and the extraction goes on without a photo key.
func (s *service) archive(ctx context.Context, input ImageInput, contentType string) string {
	if s.store == nil {
		return ""
	}

	key := s.objectKey(input, contentType)
	if err := s.store.UploadFile(ctx, key, bytes.NewReader(input.Data), int64(len(input.Data)), contentType); err != nil {
		s.logger.Warn("ocr.archive.upload_failed", zap.String("object_key", key), zap.Error(err))
		return ""
	}

	if s.photos != nil {
		photo := &entities.OCRPhoto{
			ID:          uuid.New(),
			GymID:       input.Principal.GymID,
			UploadedBy:  input.Principal.UserID,
			ObjectKey:   key,
			ContentType: contentType,
			SizeBytes:   int64(len(input.Data)),
			Metadata:    map[string]any{"filename": input.Filename},
		}
		if err := s.photos.Create(ctx, photo); err != nil {
			s.logger.Warn("ocr.archive.record_failed", zap.String("object_key", key), zap.Error(err))
		}
	}
	return key
}

// objectKey lays photos out as <prefix>/<gym>/<yyyy>/<mm>/<uuid><ext>.
func (s *service) objectKey(input ImageInput, contentType string) string {
	ext := strings.ToLower(path.Ext(input.Filename))
	if ext == "" {
		ext = supportedImageTypes[contentType]
	}
	now := time.Now().UTC()
	return fmt.Sprintf("%s/%s/%04d/%02d/%s%s",
		s.cfg.ArchivePrefix, input.Principal.GymID, now.Year(), int(now.Month()), uuid.NewString(), ext)
}

func (s *service) RecentPhotos(ctx context.Context, gymID uuid.UUID, limit int) ([]PhotoLink, error) {
	if s.photos == nil || s.store == nil {
		return []PhotoLink{}, nil
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	photos, err := s.photos.ListByGym(ctx, gymID, limit)
	if err != nil {
		return nil, apperrors.ErrDBQueryFailed("list ocr photos", err)
	}

	links := make([]PhotoLink, 0, len(photos))
	for _, photo := range photos {
		url, err := s.store.GetFileURL(ctx, photo.ObjectKey, s.cfg.URLExpiry)
		if err != nil {
			return nil, apperrors.ErrStorageFailed("presign "+photo.ObjectKey, err)
		}
		links = append(links, PhotoLink{Photo: photo, URL: url})
	}
	return links, nil
}

func observe(input, outcome string, confidence float64) {
	metrics.OCRExtractions.WithLabelValues(input, outcome).Inc()
	metrics.OCRConfidence.Observe(confidence)
}
