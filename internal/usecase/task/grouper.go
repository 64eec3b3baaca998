package task

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/aigymos/gym-console/internal/domain/entities"
)

const (
	unlinkedKey   = "unlinked"
	leadLabel     = "Leads sem aluno (CRM)"
	unlinkedLabel = "Tasks sem vinculo"
	memberPrefix  = "Aluno "
)

// GroupOptions are the board controls applied on top of the raw task list.
type GroupOptions struct {
	Search     string
	ShowDone   bool
	PlanFilter entities.PlanFilter
	// Today is the gym-local date key (YYYY-MM-DD) used for due-date visibility.
	Today string
}

// GroupTasks buckets tasks by member, lead or neither and returns the groups
// most-actionable first. It never fails: unknown members get a placeholder
// label and unknown plans stay nil.
func GroupTasks(tasks []entities.Task, members []entities.Member, opts GroupOptions) []entities.TaskGroup {
	groups := BucketTasks(tasks, members, opts.Today, opts.ShowDone)

	search := strings.ToLower(strings.TrimSpace(opts.Search))
	filtered := make([]entities.TaskGroup, 0, len(groups))
	for _, group := range groups {
		if !matchesPlan(group, opts.PlanFilter) {
			continue
		}
		if !matchesSearch(group, search) {
			continue
		}
		filtered = append(filtered, group)
	}

	sortGroups(filtered)
	return filtered
}

// BucketTasks applies only the due-date and done visibility rules and then
// builds one group per grouping key, in first-seen order.
func BucketTasks(tasks []entities.Task, members []entities.Member, today string, showDone bool) []entities.TaskGroup {
	byID := make(map[string]entities.Member, len(members))
	for _, member := range members {
		byID[member.ID] = member
	}

	index := make(map[string]int)
	var groups []entities.TaskGroup

	for _, task := range tasks {
		if !VisibleByDueDate(task, today) {
			continue
		}
		if !showDone && task.Status == entities.TaskStatusDone {
			continue
		}

		key := GroupKey(task)
		pos, ok := index[key]
		if !ok {
			groups = append(groups, newGroup(key, task, byID))
			pos = len(groups) - 1
			index[key] = pos
		}

		group := &groups[pos]
		if group.PlanType == nil {
			group.PlanType = explicitPlanType(task)
		}
		group.Tasks = append(group.Tasks, task)
		switch task.Status {
		case entities.TaskStatusTodo:
			group.TodoCount++
		case entities.TaskStatusDoing:
			group.DoingCount++
		case entities.TaskStatusDone:
			group.DoneCount++
		}
	}

	for i := range groups {
		if groups[i].PlanType == nil && groups[i].MemberID != nil {
			if member, ok := byID[*groups[i].MemberID]; ok {
				plan := memberPlanType(member)
				groups[i].PlanType = &plan
			}
		}
		sortByDueDate(groups[i].Tasks)
	}

	return groups
}

// GroupKey returns member:<id>, lead:<id> or unlinked.
func GroupKey(task entities.Task) string {
	switch {
	case task.HasMember():
		return "member:" + *task.MemberID
	case task.HasLead():
		return "lead:" + *task.LeadID
	}
	return unlinkedKey
}

// VisibleByDueDate hides tasks due strictly after today. Tasks without a
// usable due date are always visible.
func VisibleByDueDate(task entities.Task, today string) bool {
	key, ok := task.DueDateKey()
	if !ok {
		return true
	}
	return key <= today
}

// HiddenFutureCount counts the tasks VisibleByDueDate hides.
func HiddenFutureCount(tasks []entities.Task, today string) int {
	hidden := 0
	for _, task := range tasks {
		if !VisibleByDueDate(task, today) {
			hidden++
		}
	}
	return hidden
}

// NextStatus advances todo to doing and doing to done. Anything else lands on done.
func NextStatus(current entities.TaskStatus) entities.TaskStatus {
	switch current {
	case entities.TaskStatusTodo:
		return entities.TaskStatusDoing
	case entities.TaskStatusDoing:
		return entities.TaskStatusDone
	}
	return entities.TaskStatusDone
}

func newGroup(key string, task entities.Task, members map[string]entities.Member) entities.TaskGroup {
	group := entities.TaskGroup{Key: key}
	switch {
	case task.HasMember():
		id := *task.MemberID
		group.MemberID = &id
		if member, ok := members[id]; ok && member.FullName != "" {
			group.Label = member.FullName
		} else {
			group.Label = memberPrefix + truncate(id, 8)
		}
	case task.HasLead():
		id := *task.LeadID
		group.LeadID = &id
		group.Label = leadLabel
	default:
		group.Label = unlinkedLabel
	}
	return group
}

func explicitPlanType(task entities.Task) *entities.PlanType {
	if task.ExtraData == nil || task.ExtraData.PlanType == nil {
		return nil
	}
	plan, ok := entities.ParsePlanType(*task.ExtraData.PlanType)
	if !ok {
		return nil
	}
	return &plan
}

func memberPlanType(member entities.Member) entities.PlanType {
	if plan, ok := entities.ParsePlanType(member.PlanName); ok {
		return plan
	}
	return entities.PlanTypeMensal
}

func matchesPlan(group entities.TaskGroup, filter entities.PlanFilter) bool {
	if filter == "" || filter == entities.PlanFilterAll {
		return true
	}
	if group.MemberID == nil || group.PlanType == nil {
		return false
	}
	return string(*group.PlanType) == string(filter)
}

func matchesSearch(group entities.TaskGroup, search string) bool {
	if search == "" {
		return true
	}
	if strings.Contains(strings.ToLower(group.Label), search) {
		return true
	}
	for _, task := range group.Tasks {
		if strings.Contains(strings.ToLower(task.Title), search) {
			return true
		}
	}
	return false
}

func sortByDueDate(tasks []entities.Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		a, okA := tasks[i].DueTime()
		b, okB := tasks[j].DueTime()
		switch {
		case !okA:
			return false
		case !okB:
			return true
		}
		return a.Before(b)
	})
}

func sortGroups(groups []entities.TaskGroup) {
	// collate.Collator is not safe for concurrent use
	collator := collate.New(language.BrazilianPortuguese)
	sort.SliceStable(groups, func(i, j int) bool {
		pi, pj := groups[i].Pending(), groups[j].Pending()
		if pi != pj {
			return pi > pj
		}
		if c := collator.CompareString(groups[i].Label, groups[j].Label); c != 0 {
			return c < 0
		}
		return groups[i].Key < groups[j].Key
	})
}

func truncate(value string, n int) string {
	if len(value) <= n {
		return value
	}
	return value[:n]
}
