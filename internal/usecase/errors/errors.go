package errors

import (
	"errors"

	apperrors "github.com/aigymos/gym-console/errors"
	"github.com/aigymos/gym-console/internal/domain/entities"
)

// OCR errors
var (
	ErrImageTooLarge    = errors.New("image exceeds the upload limit")
	ErrRecognizerFailed = errors.New("text recognizer failed")
)

// FromBackend maps a gym backend failure onto the application error sent to
// clients. AppErrors pass through untouched.
func FromBackend(resource string, err error) error {
	if err == nil {
		return nil
	}

	var appErr apperrors.AppError
	if errors.As(err, &appErr) {
		return err
	}

	switch {
	case errors.Is(err, entities.ErrRemoteNotFound):
		return apperrors.ErrNotFound(resource)
	case errors.Is(err, entities.ErrRemoteUnauthorized):
		return apperrors.ErrInvalidToken()
	case errors.Is(err, entities.ErrForbidden):
		return apperrors.ErrPermissionDenied(resource)
	}
	return apperrors.ErrBackendUnavailable(resource, err)
}
