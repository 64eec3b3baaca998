package entities

import (
	"encoding/json"
	"time"
)

// TaskStatus is the lifecycle state of a task
type TaskStatus string

const (
	TaskStatusTodo      TaskStatus = "todo"
	TaskStatusDoing     TaskStatus = "doing"
	TaskStatusDone      TaskStatus = "done"
	TaskStatusCancelled TaskStatus = "cancelled"
)

// IsValid checks if the task status is valid
func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskStatusTodo, TaskStatusDoing, TaskStatusDone, TaskStatusCancelled:
		return true
	}
	return false
}

// IsPending reports whether the task still needs work.
func (s TaskStatus) IsPending() bool {
	return s == TaskStatusTodo || s == TaskStatusDoing
}

// TaskPriority defines task priority
type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
	TaskPriorityUrgent TaskPriority = "urgent"
)

// Task is a snapshot of a backend task. It is never mutated locally.
type Task struct {
	ID               string         `json:"id"`
	Title            string         `json:"title"`
	Description      *string        `json:"description,omitempty"`
	MemberID         *string        `json:"member_id,omitempty"`
	LeadID           *string        `json:"lead_id,omitempty"`
	AssignedToUserID *string        `json:"assigned_to_user_id,omitempty"`
	Priority         TaskPriority   `json:"priority"`
	Status           TaskStatus     `json:"status"`
	KanbanColumn     string         `json:"kanban_column,omitempty"`
	DueDate          *string        `json:"due_date,omitempty"`
	CompletedAt      *string        `json:"completed_at,omitempty"`
	SuggestedMessage *string        `json:"suggested_message,omitempty"`
	ExtraData        *TaskExtraData `json:"extra_data,omitempty"`
}

// HasMember reports whether the task is linked to a member.
func (t Task) HasMember() bool {
	return t.MemberID != nil && *t.MemberID != ""
}

// HasLead reports whether the task is linked to a lead.
func (t Task) HasLead() bool {
	return t.LeadID != nil && *t.LeadID != ""
}

// DueDateKey returns the YYYY-MM-DD prefix of the due date. ok is false when
// the task has no due date or the value is too short to carry a date.
func (t Task) DueDateKey() (key string, ok bool) {
	if t.DueDate == nil || len(*t.DueDate) < len("2006-01-02") {
		return "", false
	}
	return (*t.DueDate)[:10], true
}

// DueTime parses the due date, accepting RFC 3339 timestamps and bare dates.
func (t Task) DueTime() (time.Time, bool) {
	if t.DueDate == nil {
		return time.Time{}, false
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"} {
		if parsed, err := time.Parse(layout, *t.DueDate); err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}

// TaskExtraData holds the two keys read out of the backend's free-form
// extra_data object. Unknown keys and non-string values are ignored.
type TaskExtraData struct {
	Source   *string `json:"source,omitempty"`
	PlanType *string `json:"plan_type,omitempty"`
}

func (e *TaskExtraData) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		// extra_data that is not an object carries nothing we read
		*e = TaskExtraData{}
		return nil
	}
	*e = TaskExtraData{
		Source:   stringField(raw, "source"),
		PlanType: stringField(raw, "plan_type"),
	}
	return nil
}

func stringField(raw map[string]json.RawMessage, key string) *string {
	value, ok := raw[key]
	if !ok {
		return nil
	}
	var s string
	if err := json.Unmarshal(value, &s); err != nil {
		return nil
	}
	return &s
}

// TaskStatusUpdate is the body sent to the backend when advancing a task.
type TaskStatusUpdate struct {
	Status TaskStatus `json:"status"`
}
