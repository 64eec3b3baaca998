package presenter

import (
	preferenceDTO "github.com/aigymos/gym-console/internal/adapter/dto/preference"
	"github.com/aigymos/gym-console/internal/domain/entities"
)

// ToPreferenceResponse converts a TaskViewPreference to the DTO. Defaults
// that were never saved carry no timestamp.
func ToPreferenceResponse(p *entities.TaskViewPreference) *preferenceDTO.Response {
	if p == nil {
		return nil
	}
	response := &preferenceDTO.Response{
		ShowDone:   p.ShowDone,
		PlanFilter: string(p.PlanFilter),
	}
	if !p.UpdatedAt.IsZero() {
		updated := p.UpdatedAt
		response.UpdatedAt = &updated
	}
	return response
}
