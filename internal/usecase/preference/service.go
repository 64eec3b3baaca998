package preference

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	apperrors "github.com/aigymos/gym-console/errors"
	"github.com/aigymos/gym-console/internal/domain/entities"
	"github.com/aigymos/gym-console/internal/domain/repositories"
)

// Service defines the interface for task board preferences
type Service interface {
	// Get returns saved toggles, or the defaults when none are saved
	Get(ctx context.Context, userID, gymID uuid.UUID) (*entities.TaskViewPreference, error)

	// Save validates and stores the toggles
	Save(ctx context.Context, input SaveInput) (*entities.TaskViewPreference, error)
}

// SaveInput holds the toggles to persist
type SaveInput struct {
	UserID     uuid.UUID
	GymID      uuid.UUID
	ShowDone   bool
	PlanFilter entities.PlanFilter
}

type service struct {
	repo   repositories.PreferenceRepository
	logger *zap.Logger
}

// NewService creates a new preference service
func NewService(repo repositories.PreferenceRepository, logger *zap.Logger) Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &service{repo: repo, logger: logger}
}

func (s *service) Get(ctx context.Context, userID, gymID uuid.UUID) (*entities.TaskViewPreference, error) {
	pref, err := s.repo.FindByUserID(ctx, userID)
	if errors.Is(err, entities.ErrPreferenceNotFound) {
		defaults := entities.DefaultTaskViewPreference(userID, gymID)
		return &defaults, nil
	}
	if err != nil {
		return nil, apperrors.ErrDBQueryFailed("find task view preference", err)
	}
	return pref, nil
}

func (s *service) Save(ctx context.Context, input SaveInput) (*entities.TaskViewPreference, error) {
	if input.UserID == uuid.Nil {
		return nil, apperrors.ErrUnauthenticated()
	}
	if input.PlanFilter == "" {
		input.PlanFilter = entities.PlanFilterAll
	}
	if !input.PlanFilter.IsValid() {
		return nil, apperrors.ErrInvalidPlanFilter(string(input.PlanFilter))
	}

	pref := &entities.TaskViewPreference{
		UserID:     input.UserID,
		GymID:      input.GymID,
		ShowDone:   input.ShowDone,
		PlanFilter: input.PlanFilter,
	}
	if err := s.repo.Upsert(ctx, pref); err != nil {
		return nil, apperrors.ErrDBQueryFailed("upsert task view preference", err)
	}

	s.logger.Info("preference.saved",
		zap.String("user_id", input.UserID.String()),
		zap.Bool("show_done", input.ShowDone),
		zap.String("plan_filter", string(input.PlanFilter)),
	)
	return pref, nil
}
