package entities

import "strings"

// Member is the subset of the backend member record used for group labels
// and plan inference.
type Member struct {
	ID       string `json:"id"`
	FullName string `json:"full_name"`
	PlanName string `json:"plan_name"`
	Status   string `json:"status,omitempty"`
}

// PlanType is the billing cadence of a member plan
type PlanType string

const (
	PlanTypeMensal    PlanType = "mensal"
	PlanTypeSemestral PlanType = "semestral"
	PlanTypeAnual     PlanType = "anual"
)

// ParsePlanType maps free text such as "Plano Anual" to a plan type.
// Checks run anual, semestral, mensal.
func ParsePlanType(value string) (PlanType, bool) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	switch {
	case normalized == "":
		return "", false
	case strings.Contains(normalized, string(PlanTypeAnual)):
		return PlanTypeAnual, true
	case strings.Contains(normalized, string(PlanTypeSemestral)):
		return PlanTypeSemestral, true
	case strings.Contains(normalized, string(PlanTypeMensal)):
		return PlanTypeMensal, true
	}
	return "", false
}

// PlanFilter restricts the task board to one plan type, or none.
type PlanFilter string

const (
	PlanFilterAll       PlanFilter = "all"
	PlanFilterMensal    PlanFilter = PlanFilter(PlanTypeMensal)
	PlanFilterSemestral PlanFilter = PlanFilter(PlanTypeSemestral)
	PlanFilterAnual     PlanFilter = PlanFilter(PlanTypeAnual)
)

// IsValid checks if the plan filter is valid
func (f PlanFilter) IsValid() bool {
	switch f {
	case PlanFilterAll, PlanFilterMensal, PlanFilterSemestral, PlanFilterAnual:
		return true
	}
	return false
}

// Page is one page of a backend paginated listing.
type Page[T any] struct {
	Items    []T `json:"items"`
	Total    int `json:"total"`
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
}

// PageCount returns how many pages of PageSize cover Total.
func (p Page[T]) PageCount() int {
	if p.PageSize <= 0 || p.Total <= 0 {
		return 1
	}
	return (p.Total + p.PageSize - 1) / p.PageSize
}
