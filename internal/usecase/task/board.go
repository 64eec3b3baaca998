package task

import "github.com/aigymos/gym-console/internal/domain/entities"

// NewBoard wraps grouped output with the board badges. Total and Pending
// count every fetched task, before the due-date, done, plan and search
// rules; the groups carry the filtered view.
func NewBoard(tasks []entities.Task, groups []entities.TaskGroup, opts GroupOptions) entities.TaskBoard {
	board := entities.TaskBoard{
		Groups:       groups,
		Total:        len(tasks),
		HiddenFuture: HiddenFutureCount(tasks, opts.Today),
		Today:        opts.Today,
		ShowDone:     opts.ShowDone,
		PlanFilter:   opts.PlanFilter,
	}
	if board.Groups == nil {
		board.Groups = []entities.TaskGroup{}
	}
	if board.PlanFilter == "" {
		board.PlanFilter = entities.PlanFilterAll
	}
	for _, task := range tasks {
		if task.Status.IsPending() {
			board.Pending++
		}
	}
	return board
}
