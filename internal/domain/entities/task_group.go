package entities

// TaskGroup is the board's unit of display: every visible task sharing a
// member, a lead, or neither.
type TaskGroup struct {
	Key        string    `json:"key"`
	Label      string    `json:"label"`
	MemberID   *string   `json:"member_id"`
	LeadID     *string   `json:"lead_id"`
	PlanType   *PlanType `json:"plan_type"`
	Tasks      []Task    `json:"tasks"`
	TodoCount  int       `json:"todo_count"`
	DoingCount int       `json:"doing_count"`
	DoneCount  int       `json:"done_count"`
}

// Pending is the number of tasks still in todo or doing.
func (g TaskGroup) Pending() int {
	return g.TodoCount + g.DoingCount
}

// TaskBoard is the grouped task view returned to the dashboard. Total and
// Pending count the whole fetched listing, not just the returned groups.
// Truncated is set when the listing had more pages than the service reads.
type TaskBoard struct {
	Groups       []TaskGroup `json:"groups"`
	Total        int         `json:"total"`
	Pending      int         `json:"pending"`
	HiddenFuture int         `json:"hidden_future"`
	Today        string      `json:"today"`
	ShowDone     bool        `json:"show_done"`
	PlanFilter   PlanFilter  `json:"plan_filter"`
	Truncated    bool        `json:"truncated"`
}
