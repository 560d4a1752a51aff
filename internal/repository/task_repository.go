package repository

import (
	"fmt"
	"sync"

	"github.com/yukikurage/taskboard/internal/models"
)

// MemoryTaskRepository is the in-process implementation of TaskRepository.
// It is the only holder of the task sequence; every method runs to
// completion under the lock, so no caller can observe a half-applied change.
type MemoryTaskRepository struct {
	mu    sync.RWMutex
	tasks []*models.Task
	index map[string]int
}

// NewTaskRepository creates an empty TaskRepository
func NewTaskRepository() *MemoryTaskRepository {
	return &MemoryTaskRepository{
		index: make(map[string]int),
	}
}

// Create appends a task to the end of the collection
func (r *MemoryTaskRepository) Create(task models.Task) error {
	if task.ID == "" {
		return ErrEmptyID
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.index[task.ID]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateID, task.ID)
	}

	stored := task.Clone()
	r.index[task.ID] = len(r.tasks)
	r.tasks = append(r.tasks, &stored)
	return nil
}

// FindByID returns a copy of the task with the given id
func (r *MemoryTaskRepository) FindByID(id string) (*models.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i, ok := r.index[id]
	if !ok {
		return nil, ErrRecordNotFound
	}

	task := r.tasks[i].Clone()
	return &task, nil
}

// Exists reports whether a task with the given id is present
func (r *MemoryTaskRepository) Exists(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.index[id]
	return ok
}

// List returns copies of all tasks in insertion order
func (r *MemoryTaskRepository) List() []models.Task {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Task, len(r.tasks))
	for i, t := range r.tasks {
		out[i] = t.Clone()
	}
	return out
}

// Replace swaps exactly one slot of the sequence for a freshly allocated
// task. Other slots keep their pointers.
func (r *MemoryTaskRepository) Replace(id string, fn func(current models.Task) (models.Task, error)) (*models.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i, ok := r.index[id]
	if !ok {
		return nil, ErrRecordNotFound
	}

	next, err := fn(r.tasks[i].Clone())
	if err != nil {
		return nil, err
	}
	next.ID = id

	stored := next.Clone()
	r.tasks[i] = &stored

	result := stored.Clone()
	return &result, nil
}

// Delete removes a task. It returns false when the id was not present.
func (r *MemoryTaskRepository) Delete(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	i, ok := r.index[id]
	if !ok {
		return false
	}

	copy(r.tasks[i:], r.tasks[i+1:])
	r.tasks[len(r.tasks)-1] = nil
	r.tasks = r.tasks[:len(r.tasks)-1]

	delete(r.index, id)
	for j := i; j < len(r.tasks); j++ {
		r.index[r.tasks[j].ID] = j
	}
	return true
}

// Count returns the number of tasks
func (r *MemoryTaskRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.tasks)
}
