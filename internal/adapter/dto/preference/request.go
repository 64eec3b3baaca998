package preference

import "time"

// SaveRequest holds the board toggles to persist
type SaveRequest struct {
	ShowDone   bool   `json:"show_done"`
	PlanFilter string `json:"plan_filter" validate:"omitempty,oneof=all mensal semestral anual"`
}

// Response is the stored or default preference
type Response struct {
	ShowDone   bool       `json:"show_done"`
	PlanFilter string     `json:"plan_filter" example:"all"`
	UpdatedAt  *time.Time `json:"updated_at,omitempty"`
}
