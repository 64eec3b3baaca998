package task

// TaskResponse is one task as rendered on the board
type TaskResponse struct {
	ID               string  `json:"id"`
	Title            string  `json:"title"`
	Description      *string `json:"description,omitempty"`
	MemberID         *string `json:"member_id,omitempty"`
	LeadID           *string `json:"lead_id,omitempty"`
	AssignedToUserID *string `json:"assigned_to_user_id,omitempty"`
	Priority         string  `json:"priority"`
	Status           string  `json:"status"`
	NextStatus       string  `json:"next_status"`
	DueDate          *string `json:"due_date,omitempty"`
	CompletedAt      *string `json:"completed_at,omitempty"`
	SuggestedMessage *string `json:"suggested_message,omitempty"`
	Source           *string `json:"source,omitempty"`
}

// GroupResponse is one member, lead or unlinked bucket
type GroupResponse struct {
	Key        string         `json:"key"`
	Label      string         `json:"label"`
	MemberID   *string        `json:"member_id"`
	LeadID     *string        `json:"lead_id"`
	PlanType   *string        `json:"plan_type"`
	Tasks      []TaskResponse `json:"tasks"`
	TodoCount  int            `json:"todo_count"`
	DoingCount int            `json:"doing_count"`
	DoneCount  int            `json:"done_count"`
	Pending    int            `json:"pending"`
}

// BoardResponse is the grouped task board
type BoardResponse struct {
	Groups       []GroupResponse `json:"groups"`
	Total        int             `json:"total"`
	Pending      int             `json:"pending"`
	HiddenFuture int             `json:"hidden_future"`
	Today        string          `json:"today" example:"2024-06-01"`
	ShowDone     bool            `json:"show_done"`
	PlanFilter   string          `json:"plan_filter" example:"all"`
	// Truncated is true when the task listing exceeded the page bound.
	Truncated bool `json:"truncated"`
}
