package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yukikurage/taskboard/internal/models"
	"github.com/yukikurage/taskboard/internal/repository"
	"github.com/yukikurage/taskboard/internal/utils"
)

var (
	ErrTaskNotFound     = errors.New("task not found")
	ErrTitleRequired    = errors.New("title is required")
	ErrTitleEmpty       = errors.New("title cannot be empty")
	ErrInvalidStatus    = errors.New("status must be one of todo, in-progress, review, done")
	ErrInvalidPriority  = errors.New("priority must be one of low, medium, high")
	ErrNegativeEstimate = errors.New("time estimate cannot be negative")
	ErrInvalidDueDate   = errors.New("due date must be an ISO-8601 date")
	ErrIDExhausted      = errors.New("could not allocate a unique task id")
	ErrInvalidSeedTask  = errors.New("invalid seed task")
)

// extra id candidates tried beyond the current collection size
const idAttemptSlack = 16

// TaskService owns the task collection. It is the single write path: the
// board, the form and the detail view all go through it.
type TaskService struct {
	taskRepo repository.TaskRepository
	ids      utils.IDGenerator
	feed     *FeedService
	logger   zerolog.Logger
}

// NewTaskService creates a new TaskService. feed may be nil, in which case
// no activity is recorded.
func NewTaskService(taskRepo repository.TaskRepository, ids utils.IDGenerator, feed *FeedService, logger zerolog.Logger) *TaskService {
	return &TaskService{
		taskRepo: taskRepo,
		ids:      ids,
		feed:     feed,
		logger:   logger,
	}
}

// CreateTaskInput is a complete field set for a task, minus the id
type CreateTaskInput struct {
	Title        string
	Description  string
	Status       models.TaskStatus
	Priority     models.TaskPriority
	DueDate      *string
	Assignee     *models.Person
	TimeEstimate *float64
}

// UpdateTaskInput represents a partial edit. Nil fields keep their prior
// value; the Clear flags remove optional fields.
type UpdateTaskInput struct {
	Title             *string
	Description       *string
	Status            *models.TaskStatus
	Priority          *models.TaskPriority
	DueDate           *string
	ClearDueDate      bool
	Assignee          *models.Person
	ClearAssignee     bool
	TimeEstimate      *float64
	ClearTimeEstimate bool
}

// BoardView is the filtered collection together with its column split
type BoardView struct {
	Tasks   []models.Task
	Columns map[models.TaskStatus][]models.Task
}

// CreateTask allocates a fresh id and appends the task to the collection
func (s *TaskService) CreateTask(input CreateTaskInput) (*models.Task, error) {
	if input.Status == "" {
		input.Status = models.TaskStatusTodo
	}
	if input.Priority == "" {
		input.Priority = models.TaskPriorityMedium
	}
	if err := input.validate(); err != nil {
		return nil, err
	}

	task := input.toTask()

	attempts := s.taskRepo.Count() + idAttemptSlack
	for i := 0; i < attempts; i++ {
		task.ID = s.ids.NextID()

		err := s.taskRepo.Create(task)
		if err == nil {
			s.logger.Info().
				Str("task_id", task.ID).
				Str("status", string(task.Status)).
				Msg("task created")
			created := task.Clone()
			return &created, nil
		}
		if errors.Is(err, repository.ErrDuplicateID) {
			s.logger.Debug().Str("candidate", task.ID).Msg("task id taken, retrying")
			continue
		}
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return nil, ErrIDExhausted
}

// GetTask returns the task with the given id
func (s *TaskService) GetTask(id string) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return task, nil
}

// AllTasks returns every task in insertion order
func (s *TaskService) AllTasks() []models.Task {
	return s.taskRepo.List()
}

// ListTasks returns the tasks matching the query, in insertion order
func (s *TaskService) ListTasks(query TaskQuery) []models.Task {
	return FilterTasks(s.taskRepo.List(), query)
}

// Board returns the filtered collection split into status columns
func (s *TaskService) Board(query TaskQuery) BoardView {
	tasks := s.ListTasks(query)
	return BoardView{
		Tasks:   tasks,
		Columns: PartitionByStatus(tasks),
	}
}

// UpdateTask merges a partial edit onto an existing task
func (s *TaskService) UpdateTask(ctx context.Context, id string, input UpdateTaskInput, actor models.Person) (*models.Task, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	var before models.Task
	task, err := s.taskRepo.Replace(id, func(current models.Task) (models.Task, error) {
		before = current
		return input.applyTo(current.Clone()), nil
	})
	if err != nil {
		return nil, s.wrapFindError(err, "update")
	}

	s.logger.Info().Str("task_id", id).Msg("task updated")
	s.recordChanges(ctx, before, *task, actor)
	return task, nil
}

// ReplaceTask overwrites every field of an existing task with a full form
// submission, keeping its id
func (s *TaskService) ReplaceTask(ctx context.Context, id string, input CreateTaskInput, actor models.Person) (*models.Task, error) {
	if input.Status == "" {
		input.Status = models.TaskStatusTodo
	}
	if input.Priority == "" {
		input.Priority = models.TaskPriorityMedium
	}
	if err := input.validate(); err != nil {
		return nil, err
	}

	var before models.Task
	task, err := s.taskRepo.Replace(id, func(current models.Task) (models.Task, error) {
		before = current
		return input.toTask(), nil
	})
	if err != nil {
		return nil, s.wrapFindError(err, "replace")
	}

	s.logger.Info().Str("task_id", id).Msg("task replaced")
	s.recordChanges(ctx, before, *task, actor)
	return task, nil
}

// MoveTask changes only the status of a task. Any status may follow any
// other.
func (s *TaskService) MoveTask(ctx context.Context, id string, status models.TaskStatus, actor models.Person) (*models.Task, error) {
	if !status.IsValid() {
		return nil, ErrInvalidStatus
	}

	var from models.TaskStatus
	task, err := s.taskRepo.Replace(id, func(current models.Task) (models.Task, error) {
		from = current.Status
		current.Status = status
		return current, nil
	})
	if err != nil {
		return nil, s.wrapFindError(err, "move")
	}

	s.logger.Info().
		Str("task_id", id).
		Str("from", string(from)).
		Str("to", string(status)).
		Msg("task moved")

	if from != status {
		s.record(ctx, []models.Activity{{
			TaskID: id,
			Type:   models.ActivityStatusChange,
			From:   string(from),
			To:     string(status),
		}}, actor)
	}
	return task, nil
}

// DeleteTask removes a task. Deleting an unknown id is a no-op; the
// return value tells whether anything was removed.
func (s *TaskService) DeleteTask(id string) bool {
	deleted := s.taskRepo.Delete(id)
	if deleted {
		s.logger.Info().Str("task_id", id).Msg("task deleted")
	} else {
		s.logger.Debug().Str("task_id", id).Msg("delete of unknown task ignored")
	}
	return deleted
}

// SeedTasks installs an initial collection, keeping the given ids
func (s *TaskService) SeedTasks(tasks []models.Task) error {
	for i, task := range tasks {
		if task.ID == "" {
			return fmt.Errorf("%w: entry %d has no id", ErrInvalidSeedTask, i)
		}

		input := CreateTaskInput{
			Title:        task.Title,
			Description:  task.Description,
			Status:       task.Status,
			Priority:     task.Priority,
			DueDate:      task.DueDate,
			Assignee:     task.Assignee,
			TimeEstimate: task.TimeEstimate,
		}
		if err := input.validate(); err != nil {
			return fmt.Errorf("%w: task %s: %v", ErrInvalidSeedTask, task.ID, err)
		}

		seeded := input.toTask()
		seeded.ID = task.ID
		if err := s.taskRepo.Create(seeded); err != nil {
			return fmt.Errorf("failed to seed task %s: %w", task.ID, err)
		}
	}

	s.logger.Info().Int("count", len(tasks)).Msg("seeded tasks")
	return nil
}

func (s *TaskService) wrapFindError(err error, op string) error {
	if errors.Is(err, repository.ErrRecordNotFound) {
		return ErrTaskNotFound
	}
	return fmt.Errorf("failed to %s task: %w", op, err)
}

// recordChanges turns the difference between two versions of a task into
// activity entries
func (s *TaskService) recordChanges(ctx context.Context, before, after models.Task, actor models.Person) {
	s.record(ctx, diffActivities(before, after), actor)
}

func (s *TaskService) record(ctx context.Context, activities []models.Activity, actor models.Person) {
	if s.feed == nil || len(activities) == 0 {
		return
	}
	for i := range activities {
		activities[i].UserName = actor.Name
		activities[i].UserAvatar = actor.Avatar
	}
	// The task change has already landed; a feed failure must not undo it.
	if err := s.feed.RecordActivities(ctx, activities); err != nil {
		s.logger.Error().Err(err).Str("task_id", activities[0].TaskID).Msg("failed to record activity")
	}
}

func diffActivities(before, after models.Task) []models.Activity {
	var out []models.Activity
	id := after.ID

	if before.Status != after.Status {
		out = append(out, models.Activity{
			TaskID: id,
			Type:   models.ActivityStatusChange,
			From:   string(before.Status),
			To:     string(after.Status),
		})
	}
	if deref(before.DueDate) != deref(after.DueDate) {
		out = append(out, models.Activity{
			TaskID: id,
			Type:   models.ActivityDueDate,
			From:   deref(before.DueDate),
			To:     deref(after.DueDate),
		})
	}
	if personName(before.Assignee) != personName(after.Assignee) {
		out = append(out, models.Activity{
			TaskID: id,
			Type:   models.ActivityAssignee,
			From:   personName(before.Assignee),
			To:     personName(after.Assignee),
		})
	}
	if formatEstimate(before.TimeEstimate) != formatEstimate(after.TimeEstimate) {
		out = append(out, models.Activity{
			TaskID: id,
			Type:   models.ActivityTimeEstimate,
			From:   formatEstimate(before.TimeEstimate),
			To:     formatEstimate(after.TimeEstimate),
		})
	}

	var edited []string
	if before.Title != after.Title {
		edited = append(edited, "title")
	}
	if before.Description != after.Description {
		edited = append(edited, "description")
	}
	if before.Priority != after.Priority {
		edited = append(edited, "priority")
	}
	if len(edited) > 0 {
		out = append(out, models.Activity{
			TaskID:  id,
			Type:    models.ActivityEdit,
			Message: "changed " + strings.Join(edited, ", "),
		})
	}

	return out
}

func (in CreateTaskInput) validate() error {
	if strings.TrimSpace(in.Title) == "" {
		return ErrTitleRequired
	}
	if !in.Status.IsValid() {
		return ErrInvalidStatus
	}
	if !in.Priority.IsValid() {
		return ErrInvalidPriority
	}
	return validateOptional(in.DueDate, in.TimeEstimate)
}

func (in CreateTaskInput) toTask() models.Task {
	return normalizeTask(models.Task{
		Title:        in.Title,
		Description:  in.Description,
		Status:       in.Status,
		Priority:     in.Priority,
		DueDate:      in.DueDate,
		Assignee:     in.Assignee,
		TimeEstimate: in.TimeEstimate,
	})
}

func (in UpdateTaskInput) validate() error {
	if in.Title != nil && strings.TrimSpace(*in.Title) == "" {
		return ErrTitleEmpty
	}
	if in.Status != nil && !in.Status.IsValid() {
		return ErrInvalidStatus
	}
	if in.Priority != nil && !in.Priority.IsValid() {
		return ErrInvalidPriority
	}
	return validateOptional(in.DueDate, in.TimeEstimate)
}

func (in UpdateTaskInput) applyTo(task models.Task) models.Task {
	if in.Title != nil {
		task.Title = *in.Title
	}
	if in.Description != nil {
		task.Description = *in.Description
	}
	if in.Status != nil {
		task.Status = *in.Status
	}
	if in.Priority != nil {
		task.Priority = *in.Priority
	}
	if in.ClearDueDate {
		task.DueDate = nil
	} else if in.DueDate != nil {
		task.DueDate = in.DueDate
	}
	if in.ClearAssignee {
		task.Assignee = nil
	} else if in.Assignee != nil {
		task.Assignee = in.Assignee
	}
	if in.ClearTimeEstimate {
		task.TimeEstimate = nil
	} else if in.TimeEstimate != nil {
		task.TimeEstimate = in.TimeEstimate
	}
	return normalizeTask(task)
}

func validateOptional(dueDate *string, estimate *float64) error {
	if dueDate != nil && *dueDate != "" {
		if _, err := utils.ParseISODate(*dueDate); err != nil {
			return ErrInvalidDueDate
		}
	}
	if estimate != nil && *estimate < 0 {
		return ErrNegativeEstimate
	}
	return nil
}

// normalizeTask applies the "absent" conventions: a zero estimate, an
// empty due date and a nameless assignee are all stored as nil.
func normalizeTask(task models.Task) models.Task {
	task = task.Clone()

	if task.DueDate != nil && strings.TrimSpace(*task.DueDate) == "" {
		task.DueDate = nil
	}
	if task.Assignee != nil && strings.TrimSpace(task.Assignee.Name) == "" {
		task.Assignee = nil
	}
	if task.TimeEstimate != nil && *task.TimeEstimate == 0 {
		task.TimeEstimate = nil
	}
	return task
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func personName(p *models.Person) string {
	if p == nil {
		return ""
	}
	return p.Name
}

func formatEstimate(e *float64) string {
	if e == nil {
		return ""
	}
	return strconv.FormatFloat(*e, 'f', -1, 64)
}
