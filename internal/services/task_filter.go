package services

import (
	"errors"
	"strings"

	"github.com/yukikurage/taskboard/internal/constants"
	"github.com/yukikurage/taskboard/internal/models"
)

var ErrInvalidPriorityFilter = errors.New("priority filter must be all, low, medium or high")

// PriorityFilter is either a concrete priority or the "all" wildcard
type PriorityFilter string

// PriorityAll matches every task
const PriorityAll PriorityFilter = constants.PriorityFilterAll

// ParsePriorityFilter accepts "", "all" (any case) or a task priority
func ParsePriorityFilter(raw string) (PriorityFilter, error) {
	value := strings.ToLower(strings.TrimSpace(raw))
	if value == "" || value == constants.PriorityFilterAll {
		return PriorityAll, nil
	}
	if !models.TaskPriority(value).IsValid() {
		return "", ErrInvalidPriorityFilter
	}
	return PriorityFilter(value), nil
}

// Matches reports whether a task priority passes the filter
func (f PriorityFilter) Matches(p models.TaskPriority) bool {
	return f == "" || f == PriorityAll || models.TaskPriority(f) == p
}

// TaskQuery is the board's search box plus priority selector
type TaskQuery struct {
	Text     string
	Priority PriorityFilter
}

// FilterTasks keeps a task iff its title contains Text (case-insensitive)
// and its priority passes the filter. The input is not modified and the
// result preserves input order.
func FilterTasks(tasks []models.Task, query TaskQuery) []models.Task {
	needle := strings.ToLower(query.Text)

	out := make([]models.Task, 0, len(tasks))
	for _, task := range tasks {
		if needle != "" && !strings.Contains(strings.ToLower(task.Title), needle) {
			continue
		}
		if !query.Priority.Matches(task.Priority) {
			continue
		}
		out = append(out, task)
	}
	return out
}

// PartitionByStatus groups tasks into one bucket per status. Every status
// has a bucket, empty or not, and every task lands in exactly one.
func PartitionByStatus(tasks []models.Task) map[models.TaskStatus][]models.Task {
	buckets := make(map[models.TaskStatus][]models.Task, len(models.AllStatuses()))
	for _, status := range models.AllStatuses() {
		buckets[status] = []models.Task{}
	}

	for _, task := range tasks {
		buckets[task.Status] = append(buckets[task.Status], task)
	}
	return buckets
}
