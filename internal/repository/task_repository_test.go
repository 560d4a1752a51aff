package repository

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/taskboard/internal/models"
)

func seededRepository(t *testing.T) *MemoryTaskRepository {
	t.Helper()

	r := NewTaskRepository()
	require.NoError(t, r.Create(models.Task{ID: "1", Title: "Design", Status: models.TaskStatusTodo, Priority: models.TaskPriorityHigh}))
	require.NoError(t, r.Create(models.Task{ID: "2", Title: "Auth", Status: models.TaskStatusDone, Priority: models.TaskPriorityLow}))
	require.NoError(t, r.Create(models.Task{ID: "3", Title: "API", Status: models.TaskStatusReview, Priority: models.TaskPriorityHigh}))
	return r
}

func ids(tasks []models.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}
	return out
}

func TestMemoryTaskRepository_CreatePreservesInsertionOrder(t *testing.T) {
	r := seededRepository(t)

	assert.Equal(t, []string{"1", "2", "3"}, ids(r.List()))
	assert.Equal(t, 3, r.Count())
}

func TestMemoryTaskRepository_CreateRejectsDuplicateAndEmptyIDs(t *testing.T) {
	r := seededRepository(t)

	err := r.Create(models.Task{ID: "2", Title: "Again"})
	assert.ErrorIs(t, err, ErrDuplicateID)

	err = r.Create(models.Task{Title: "No id"})
	assert.ErrorIs(t, err, ErrEmptyID)

	assert.Equal(t, 3, r.Count())
}

func TestMemoryTaskRepository_FindByIDReturnsCopy(t *testing.T) {
	r := seededRepository(t)

	task, err := r.FindByID("1")
	require.NoError(t, err)

	task.Title = "mutated"
	again, err := r.FindByID("1")
	require.NoError(t, err)
	assert.Equal(t, "Design", again.Title)

	_, err = r.FindByID("missing")
	assert.ErrorIs(t, err, ErrRecordNotFound)
}

func TestMemoryTaskRepository_ListDoesNotShareNestedPointers(t *testing.T) {
	r := NewTaskRepository()
	due := "2024-04-01"
	require.NoError(t, r.Create(models.Task{
		ID:       "1",
		Title:    "Design",
		DueDate:  &due,
		Assignee: &models.Person{Name: "Alex Kim"},
	}))

	listed := r.List()
	*listed[0].DueDate = "1999-01-01"
	listed[0].Assignee.Name = "Someone Else"

	task, err := r.FindByID("1")
	require.NoError(t, err)
	assert.Equal(t, "2024-04-01", *task.DueDate)
	assert.Equal(t, "Alex Kim", task.Assignee.Name)

	// The caller's original value must not alias storage either.
	due = "2000-01-01"
	task, err = r.FindByID("1")
	require.NoError(t, err)
	assert.Equal(t, "2024-04-01", *task.DueDate)
}

func TestMemoryTaskRepository_ReplaceSwapsExactlyOneSlot(t *testing.T) {
	r := seededRepository(t)

	before := append([]*models.Task(nil), r.tasks...)

	updated, err := r.Replace("2", func(current models.Task) (models.Task, error) {
		current.Status = models.TaskStatusInProgress
		current.ID = "ignored"
		return current, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "2", updated.ID)
	assert.Equal(t, models.TaskStatusInProgress, updated.Status)

	assert.Same(t, before[0], r.tasks[0])
	assert.NotSame(t, before[1], r.tasks[1])
	assert.Same(t, before[2], r.tasks[2])

	// The previous value is left untouched; the slot holds a new task.
	assert.Equal(t, models.TaskStatusDone, before[1].Status)
	assert.Equal(t, []string{"1", "2", "3"}, ids(r.List()))
}

func TestMemoryTaskRepository_ReplaceErrors(t *testing.T) {
	r := seededRepository(t)

	_, err := r.Replace("missing", func(current models.Task) (models.Task, error) {
		return current, nil
	})
	assert.ErrorIs(t, err, ErrRecordNotFound)

	boom := errors.New("boom")
	_, err = r.Replace("1", func(current models.Task) (models.Task, error) {
		current.Title = "should not land"
		return current, boom
	})
	assert.ErrorIs(t, err, boom)

	task, err := r.FindByID("1")
	require.NoError(t, err)
	assert.Equal(t, "Design", task.Title)
}

func TestMemoryTaskRepository_DeleteIsIdempotent(t *testing.T) {
	r := seededRepository(t)

	assert.True(t, r.Delete("2"))
	assert.False(t, r.Delete("2"))
	assert.False(t, r.Delete("never-existed"))

	assert.Equal(t, []string{"1", "3"}, ids(r.List()))
	assert.False(t, r.Exists("2"))

	// The index must follow the shifted slots.
	task, err := r.FindByID("3")
	require.NoError(t, err)
	assert.Equal(t, "API", task.Title)

	require.NoError(t, r.Create(models.Task{ID: "2", Title: "Recreated"}))
	assert.Equal(t, []string{"1", "3", "2"}, ids(r.List()))
}
