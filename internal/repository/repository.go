package repository

import (
	"context"
	"errors"
	"time"

	"github.com/yukikurage/taskboard/internal/models"
	"github.com/yukikurage/taskboard/internal/utils"
)

var (
	// ErrRecordNotFound is returned when no task matches the given id.
	ErrRecordNotFound = errors.New("repository: record not found")
	// ErrDuplicateID is returned when creating a task whose id is already taken.
	ErrDuplicateID = errors.New("repository: duplicate id")
	// ErrEmptyID is returned when creating a task without an id.
	ErrEmptyID = errors.New("repository: empty id")
)

// TaskRepository defines the interface for the task collection
type TaskRepository interface {
	// Create appends a task to the end of the collection
	Create(task models.Task) error

	// FindByID returns a copy of the task with the given id
	FindByID(id string) (*models.Task, error)

	// Exists reports whether a task with the given id is present
	Exists(id string) bool

	// List returns copies of all tasks in insertion order
	List() []models.Task

	// Replace swaps the stored task with the result of fn, atomically.
	// fn receives a copy of the current value and returns the new one;
	// the id is preserved regardless of what fn returns.
	Replace(id string, fn func(current models.Task) (models.Task, error)) (*models.Task, error)

	// Delete removes a task. Unknown ids are ignored.
	Delete(id string) bool

	// Count returns the number of tasks
	Count() int
}

// FeedRepository defines the interface for the per-task comment and
// activity streams. Both streams are append-only.
type FeedRepository interface {
	// AppendComment stores a new comment
	AppendComment(ctx context.Context, comment *models.Comment) error

	// ListComments returns comments for a task, oldest first
	ListComments(ctx context.Context, taskID string, page utils.PaginationParams) ([]models.Comment, int64, error)

	// AppendActivity stores a new activity entry
	AppendActivity(ctx context.Context, activity *models.Activity) error

	// ListActivities returns activity entries for a task, oldest first
	ListActivities(ctx context.Context, taskID string, page utils.PaginationParams) ([]models.Activity, int64, error)

	// LatestTimestamp returns the newest created_at across both streams for
	// a task, or the zero time when the task has no entries
	LatestTimestamp(ctx context.Context, taskID string) (time.Time, error)
}
