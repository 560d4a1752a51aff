package dto

import (
	"bytes"
	"encoding/json"

	"github.com/yukikurage/taskboard/internal/models"
	"github.com/yukikurage/taskboard/internal/services"
)

// PersonDTO represents a display identity in API requests and responses
type PersonDTO struct {
	Name   string `json:"name" validate:"namelen"`
	Avatar string `json:"avatar,omitempty" validate:"avatarlen"`
}

// TaskForm is the create / full-edit form. Status and priority default to
// todo and medium.
type TaskForm struct {
	Title        string              `json:"title" validate:"required,titlelen"`
	Description  string              `json:"description" validate:"desclen"`
	Status       models.TaskStatus   `json:"status" validate:"omitempty,taskstatus"`
	Priority     models.TaskPriority `json:"priority" validate:"omitempty,taskpriority"`
	DueDate      *string             `json:"dueDate" validate:"omitempty,isodate"`
	Assignee     *PersonDTO          `json:"assignee"`
	TimeEstimate *float64            `json:"timeEstimate" validate:"omitempty,gte=0"`
}

// ToInput converts the form into service input
func (f TaskForm) ToInput() services.CreateTaskInput {
	return services.CreateTaskInput{
		Title:        f.Title,
		Description:  f.Description,
		Status:       f.Status,
		Priority:     f.Priority,
		DueDate:      f.DueDate,
		Assignee:     f.Assignee.toPerson(),
		TimeEstimate: f.TimeEstimate,
	}
}

// TaskPatchForm is a partial edit. Absent fields are kept; an explicit
// null on dueDate, assignee or timeEstimate clears that field.
type TaskPatchForm struct {
	Title        *string              `json:"title" validate:"omitempty,titlelen"`
	Description  *string              `json:"description" validate:"omitempty,desclen"`
	Status       *models.TaskStatus   `json:"status" validate:"omitempty,taskstatus"`
	Priority     *models.TaskPriority `json:"priority" validate:"omitempty,taskpriority"`
	DueDate      *string              `json:"dueDate" validate:"omitempty,isodate"`
	Assignee     *PersonDTO           `json:"assignee"`
	TimeEstimate *float64             `json:"timeEstimate" validate:"omitempty,gte=0"`

	nulls map[string]bool
}

// DecodeTaskPatch parses a PATCH body, remembering which keys were sent as
// JSON null
func DecodeTaskPatch(body []byte) (TaskPatchForm, error) {
	var form TaskPatchForm
	if err := json.Unmarshal(body, &form); err != nil {
		return form, err
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return form, err
	}
	form.nulls = make(map[string]bool)
	for key, value := range raw {
		if bytes.Equal(bytes.TrimSpace(value), []byte("null")) {
			form.nulls[key] = true
		}
	}
	return form, nil
}

// IsNull reports whether the JSON key was sent as null
func (f TaskPatchForm) IsNull(key string) bool {
	return f.nulls[key]
}

// ToInput converts the patch into service input
func (f TaskPatchForm) ToInput() services.UpdateTaskInput {
	return services.UpdateTaskInput{
		Title:             f.Title,
		Description:       f.Description,
		Status:            f.Status,
		Priority:          f.Priority,
		DueDate:           f.DueDate,
		ClearDueDate:      f.IsNull("dueDate"),
		Assignee:          f.Assignee.toPerson(),
		ClearAssignee:     f.IsNull("assignee"),
		TimeEstimate:      f.TimeEstimate,
		ClearTimeEstimate: f.IsNull("timeEstimate"),
	}
}

// MoveTaskRequest represents the request body for moving a task between
// columns
type MoveTaskRequest struct {
	Status models.TaskStatus `json:"status" validate:"required,taskstatus"`
}

// TaskDTO represents a task in API responses
type TaskDTO struct {
	ID           string              `json:"id"`
	Title        string              `json:"title"`
	Description  string              `json:"description"`
	Status       models.TaskStatus   `json:"status"`
	Priority     models.TaskPriority `json:"priority"`
	DueDate      *string             `json:"dueDate,omitempty"`
	Assignee     *PersonDTO          `json:"assignee,omitempty"`
	TimeEstimate *float64            `json:"timeEstimate,omitempty"`
}

// TaskListResponse represents the filtered task list
type TaskListResponse struct {
	Tasks []TaskDTO `json:"tasks"`
	Total int       `json:"total"`
}

// BoardColumnDTO is one status column of the board
type BoardColumnDTO struct {
	Status models.TaskStatus `json:"status"`
	Label  string            `json:"label"`
	Color  string            `json:"color"`
	Tasks  []TaskDTO         `json:"tasks"`
}

// BoardResponse is the board: one column per status, in board order
type BoardResponse struct {
	Columns []BoardColumnDTO `json:"columns"`
	Total   int              `json:"total"`
}

// Conversion functions

// ToPersonDTO converts a Person model to PersonDTO
func ToPersonDTO(p models.Person) PersonDTO {
	return PersonDTO{Name: p.Name, Avatar: p.Avatar}
}

func (p *PersonDTO) toPerson() *models.Person {
	if p == nil {
		return nil
	}
	return &models.Person{Name: p.Name, Avatar: p.Avatar}
}

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task) TaskDTO {
	task = task.Clone()
	dto := TaskDTO{
		ID:           task.ID,
		Title:        task.Title,
		Description:  task.Description,
		Status:       task.Status,
		Priority:     task.Priority,
		DueDate:      task.DueDate,
		TimeEstimate: task.TimeEstimate,
	}

	if task.Assignee != nil {
		assignee := ToPersonDTO(*task.Assignee)
		dto.Assignee = &assignee
	}

	return dto
}

// ToTaskDTOs converts a slice of tasks, never returning nil
func ToTaskDTOs(tasks []models.Task) []TaskDTO {
	items := make([]TaskDTO, len(tasks))
	for i, task := range tasks {
		items[i] = ToTaskDTO(task)
	}
	return items
}

// ToTaskListResponse converts a slice of tasks to TaskListResponse
func ToTaskListResponse(tasks []models.Task) TaskListResponse {
	return TaskListResponse{
		Tasks: ToTaskDTOs(tasks),
		Total: len(tasks),
	}
}

// ToBoardResponse lays out the board columns in status order
func ToBoardResponse(board services.BoardView) BoardResponse {
	columns := make([]BoardColumnDTO, 0, len(models.AllStatuses()))
	for _, status := range models.AllStatuses() {
		display := StatusDisplayFor(status)
		columns = append(columns, BoardColumnDTO{
			Status: status,
			Label:  display.Label,
			Color:  display.Color,
			Tasks:  ToTaskDTOs(board.Columns[status]),
		})
	}

	return BoardResponse{
		Columns: columns,
		Total:   len(board.Tasks),
	}
}
