package presenter

import (
	taskDTO "github.com/aigymos/gym-console/internal/adapter/dto/task"
	"github.com/aigymos/gym-console/internal/domain/entities"
	taskUsecase "github.com/aigymos/gym-console/internal/usecase/task"
)

// ToTaskResponse converts a Task entity to TaskResponse DTO
func ToTaskResponse(t entities.Task) taskDTO.TaskResponse {
	response := taskDTO.TaskResponse{
		ID:               t.ID,
		Title:            t.Title,
		Description:      t.Description,
		MemberID:         t.MemberID,
		LeadID:           t.LeadID,
		AssignedToUserID: t.AssignedToUserID,
		Priority:         string(t.Priority),
		Status:           string(t.Status),
		NextStatus:       string(taskUsecase.NextStatus(t.Status)),
		DueDate:          t.DueDate,
		CompletedAt:      t.CompletedAt,
		SuggestedMessage: t.SuggestedMessage,
	}
	if t.ExtraData != nil {
		response.Source = t.ExtraData.Source
	}
	return response
}

// ToGroupResponse converts a TaskGroup to GroupResponse DTO
func ToGroupResponse(g entities.TaskGroup) taskDTO.GroupResponse {
	response := taskDTO.GroupResponse{
		Key:        g.Key,
		Label:      g.Label,
		MemberID:   g.MemberID,
		LeadID:     g.LeadID,
		Tasks:      make([]taskDTO.TaskResponse, 0, len(g.Tasks)),
		TodoCount:  g.TodoCount,
		DoingCount: g.DoingCount,
		DoneCount:  g.DoneCount,
		Pending:    g.Pending(),
	}
	if g.PlanType != nil {
		plan := string(*g.PlanType)
		response.PlanType = &plan
	}
	for _, task := range g.Tasks {
		response.Tasks = append(response.Tasks, ToTaskResponse(task))
	}
	return response
}

// ToBoardResponse converts a TaskBoard to BoardResponse DTO
func ToBoardResponse(b *entities.TaskBoard) *taskDTO.BoardResponse {
	if b == nil {
		return nil
	}

	response := &taskDTO.BoardResponse{
		Groups:       make([]taskDTO.GroupResponse, 0, len(b.Groups)),
		Total:        b.Total,
		Pending:      b.Pending,
		HiddenFuture: b.HiddenFuture,
		Today:        b.Today,
		ShowDone:     b.ShowDone,
		PlanFilter:   string(b.PlanFilter),
		Truncated:    b.Truncated,
	}
	for _, group := range b.Groups {
		response.Groups = append(response.Groups, ToGroupResponse(group))
	}
	return response
}
