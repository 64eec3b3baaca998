package handler

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	preferenceDTO "github.com/aigymos/gym-console/internal/adapter/dto/preference"
	"github.com/aigymos/gym-console/internal/adapter/presenter"
	"github.com/aigymos/gym-console/internal/domain/entities"
	preferenceUsecase "github.com/aigymos/gym-console/internal/usecase/preference"
)

// Preference handles task board preference requests
type Preference struct {
	preferenceService preferenceUsecase.Service
	logger            *zap.Logger
}

// NewPreferenceHandler creates a new preference handler
func NewPreferenceHandler(preferenceService preferenceUsecase.Service, logger *zap.Logger) *Preference {
	return &Preference{
		preferenceService: preferenceService,
		logger:            logger,
	}
}

// Get handles GET /tasks/preferences
// @Summary      Get board preferences
// @Tags         Tasks
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  common.SuccessResponse{data=preference.Response}
// @Failure      401  {object}  common.ErrorResponse
// @Router       /tasks/preferences [get]
func (h *Preference) Get(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	pref, err := h.preferenceService.Get(c.Request().Context(), p.UserID, p.GymID)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, presenter.ToPreferenceResponse(pref))
}

// Save handles PUT /tasks/preferences
// @Summary      Save board preferences
// @Tags         Tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      preference.SaveRequest  true  "Board toggles"
// @Success      200  {object}  common.SuccessResponse{data=preference.Response}
// @Failure      400  {object}  common.ErrorResponse
// @Router       /tasks/preferences [put]
func (h *Preference) Save(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	var req preferenceDTO.SaveRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	pref, err := h.preferenceService.Save(c.Request().Context(), preferenceUsecase.SaveInput{
		UserID:     p.UserID,
		GymID:      p.GymID,
		ShowDone:   req.ShowDone,
		PlanFilter: entities.PlanFilter(req.PlanFilter),
	})
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, presenter.ToPreferenceResponse(pref))
}
