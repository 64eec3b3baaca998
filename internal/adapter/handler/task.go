package handler

import (
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	taskDTO "github.com/aigymos/gym-console/internal/adapter/dto/task"
	"github.com/aigymos/gym-console/internal/adapter/presenter"
	"github.com/aigymos/gym-console/internal/domain/entities"
	taskUsecase "github.com/aigymos/gym-console/internal/usecase/task"
)

// Task handles task board HTTP requests
type Task struct {
	taskService taskUsecase.Service
	logger      *zap.Logger
}

// NewTaskHandler creates a new task handler
func NewTaskHandler(taskService taskUsecase.Service, logger *zap.Logger) *Task {
	return &Task{
		taskService: taskService,
		logger:      logger,
	}
}

// Board handles GET /tasks/board
// @Summary      Grouped task board
// @Description  Fetches the task and member listings from the gym backend and groups the tasks by member, lead or neither. Total and pending count the whole listing.
// @Tags         Tasks
// @Produce      json
// @Security     BearerAuth
// @Param        search     query     string  false  "Case-insensitive match on group label or task title"
// @Param        show_done  query     bool    false  "Include done tasks; defaults to the saved preference. Cancelled tasks are always shown"
// @Param        plan       query     string  false  "Plan filter"  Enums(all, mensal, semestral, anual)
// @Success      200  {object}  common.SuccessResponse{data=task.BoardResponse}
// @Failure      400  {object}  common.ErrorResponse
// @Failure      401  {object}  common.ErrorResponse
// @Failure      502  {object}  common.ErrorResponse
// @Router       /tasks/board [get]
func (h *Task) Board(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	var req taskDTO.BoardRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	query := taskUsecase.BoardQuery{Search: req.Search}
	if req.ShowDone != "" {
		// validated to a ParseBool literal
		showDone, _ := strconv.ParseBool(req.ShowDone)
		query.ShowDone = &showDone
	}
	if req.Plan != "" {
		plan := entities.PlanFilter(req.Plan)
		query.PlanFilter = &plan
	}

	board, err := h.taskService.Board(c.Request().Context(), p, query)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, presenter.ToBoardResponse(board))
}

// Advance handles POST /tasks/:id/advance
// @Summary      Advance a task
// @Description  Moves a task one step along todo, doing, done. Done and cancelled tasks are set to done.
// @Tags         Tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string               true  "Task ID"
// @Param        request  body      task.AdvanceRequest  true  "Status currently shown for the task"
// @Success      200  {object}  common.SuccessResponse{data=task.TaskResponse}
// @Failure      400  {object}  common.ErrorResponse
// @Failure      404  {object}  common.ErrorResponse
// @Failure      502  {object}  common.ErrorResponse
// @Router       /tasks/{id}/advance [post]
func (h *Task) Advance(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	var req taskDTO.AdvanceRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	updated, err := h.taskService.Advance(c.Request().Context(), p, c.Param("id"), entities.TaskStatus(req.Status))
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, presenter.ToTaskResponse(*updated))
}
