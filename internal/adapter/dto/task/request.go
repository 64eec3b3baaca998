package task

// BoardRequest holds the board query string. Empty toggles fall back to the
// caller's saved preferences.
type BoardRequest struct {
	Search   string `query:"search" validate:"max=200"`
	ShowDone string `query:"show_done" validate:"omitempty,oneof=true false 1 0"`
	Plan     string `query:"plan" validate:"omitempty,oneof=all mensal semestral anual"`
}

// AdvanceRequest carries the status the client currently shows for the task
type AdvanceRequest struct {
	Status string `json:"status" validate:"required,oneof=todo doing done cancelled"`
}
