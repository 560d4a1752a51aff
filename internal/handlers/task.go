package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/taskboard/internal/dto"
	apierrors "github.com/yukikurage/taskboard/internal/errors"
	"github.com/yukikurage/taskboard/internal/middleware"
	"github.com/yukikurage/taskboard/internal/services"
	"github.com/yukikurage/taskboard/internal/validation"
)

// TaskHandler serves the board, the task form and the detail view.
type TaskHandler struct {
	taskService *services.TaskService
	feedService *services.FeedService
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(taskService *services.TaskService, feedService *services.FeedService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
		feedService: feedService,
	}
}

// ListTasks returns the tasks matching ?q= and ?priority=, in insertion order
func (h *TaskHandler) ListTasks(c *gin.Context) {
	query, ok := parseTaskQuery(c)
	if !ok {
		return
	}

	tasks := h.taskService.ListTasks(query)
	c.JSON(http.StatusOK, dto.ToTaskListResponse(tasks))
}

// GetBoard returns the filtered tasks split into the four status columns
func (h *TaskHandler) GetBoard(c *gin.Context) {
	query, ok := parseTaskQuery(c)
	if !ok {
		return
	}

	board := h.taskService.Board(query)
	c.JSON(http.StatusOK, dto.ToBoardResponse(board))
}

// GetOptions returns the selectable statuses and priorities with their
// display descriptors
func (h *TaskHandler) GetOptions(c *gin.Context) {
	c.JSON(http.StatusOK, dto.BuildOptions())
}

// CreateTask creates a new task from a full form submission
func (h *TaskHandler) CreateTask(c *gin.Context) {
	var form dto.TaskForm
	if err := c.ShouldBindJSON(&form); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}
	if !validateForm(c, form) {
		return
	}

	task, err := h.taskService.CreateTask(form.ToInput())
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskDTO(*task))
}

// GetTask returns a specific task by ID
// Task is already loaded by RequireTask middleware
func (h *TaskHandler) GetTask(c *gin.Context) {
	task, ok := middleware.GetTask(c)
	if !ok {
		apierrors.InternalError(c, "Task not found in context")
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(task))
}

// ReplaceTask overwrites every field of a task with a full form submission
func (h *TaskHandler) ReplaceTask(c *gin.Context) {
	var form dto.TaskForm
	if err := c.ShouldBindJSON(&form); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}
	if !validateForm(c, form) {
		return
	}

	task, err := h.taskService.ReplaceTask(c.Request.Context(), c.Param("id"), form.ToInput(), middleware.GetActor(c))
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// UpdateTask applies a partial edit. Sending null for dueDate, assignee or
// timeEstimate clears it.
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	form, err := dto.DecodeTaskPatch(body)
	if err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}
	if !validateForm(c, form) {
		return
	}

	task, err := h.taskService.UpdateTask(c.Request.Context(), c.Param("id"), form.ToInput(), middleware.GetActor(c))
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// MoveTask moves a task to another status column
func (h *TaskHandler) MoveTask(c *gin.Context) {
	var req dto.MoveTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}
	if !validateForm(c, req) {
		return
	}

	task, err := h.taskService.MoveTask(c.Request.Context(), c.Param("id"), req.Status, middleware.GetActor(c))
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// DeleteTask removes a task. Deleting an unknown id succeeds.
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	deleted := h.taskService.DeleteTask(c.Param("id"))

	c.JSON(http.StatusOK, gin.H{
		"deleted": deleted,
	})
}

func parseTaskQuery(c *gin.Context) (services.TaskQuery, bool) {
	priority, err := services.ParsePriorityFilter(c.Query("priority"))
	if err != nil {
		apierrors.InvalidFilter(c, err.Error())
		return services.TaskQuery{}, false
	}

	return services.TaskQuery{
		Text:     c.Query("q"),
		Priority: priority,
	}, true
}

// validateForm runs the form rules and writes a 400 when they fail
func validateForm(c *gin.Context, form any) bool {
	err := validation.Struct(form)
	if err == nil {
		return true
	}

	var verr *validation.ValidationError
	if errors.As(err, &verr) {
		apierrors.ValidationFailed(c, verr.Fields)
		return false
	}
	apierrors.BadRequest(c, err.Error())
	return false
}

func respondTaskError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTaskNotFound):
		apierrors.NotFound(c, "Task not found")
	case errors.Is(err, services.ErrTitleRequired),
		errors.Is(err, services.ErrTitleEmpty),
		errors.Is(err, services.ErrInvalidStatus),
		errors.Is(err, services.ErrInvalidPriority),
		errors.Is(err, services.ErrNegativeEstimate),
		errors.Is(err, services.ErrInvalidDueDate),
		errors.Is(err, services.ErrCommentEmpty),
		errors.Is(err, services.ErrCommentTooLong):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrIDExhausted):
		apierrors.Conflict(c, err.Error())
	default:
		_ = c.Error(err)
		apierrors.InternalError(c, "Internal server error")
	}
}
