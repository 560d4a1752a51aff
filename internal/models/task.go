package models

type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "todo"
	TaskStatusInProgress TaskStatus = "in-progress"
	TaskStatusReview     TaskStatus = "review"
	TaskStatusDone       TaskStatus = "done"
)

// AllStatuses returns the statuses in board column order.
func AllStatuses() []TaskStatus {
	return []TaskStatus{
		TaskStatusTodo,
		TaskStatusInProgress,
		TaskStatusReview,
		TaskStatusDone,
	}
}

// IsValid reports whether s is one of the board statuses
func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskStatusTodo, TaskStatusInProgress, TaskStatusReview, TaskStatusDone:
		return true
	}
	return false
}

type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
)

// AllPriorities returns the priorities from lowest to highest.
func AllPriorities() []TaskPriority {
	return []TaskPriority{
		TaskPriorityLow,
		TaskPriorityMedium,
		TaskPriorityHigh,
	}
}

// IsValid reports whether p is a known priority
func (p TaskPriority) IsValid() bool {
	switch p {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh:
		return true
	}
	return false
}

// Person is a display identity: a task assignee, a comment author or the
// actor behind an activity entry.
type Person struct {
	Name   string `json:"name" yaml:"name"`
	Avatar string `json:"avatar,omitempty" yaml:"avatar,omitempty"`
}

type Task struct {
	ID           string       `json:"id" yaml:"id"`
	Title        string       `json:"title" yaml:"title"`
	Description  string       `json:"description,omitempty" yaml:"description,omitempty"`
	Status       TaskStatus   `json:"status" yaml:"status"`
	Priority     TaskPriority `json:"priority" yaml:"priority"`
	DueDate      *string      `json:"dueDate,omitempty" yaml:"dueDate,omitempty"`
	Assignee     *Person      `json:"assignee,omitempty" yaml:"assignee,omitempty"`
	TimeEstimate *float64     `json:"timeEstimate,omitempty" yaml:"timeEstimate,omitempty"`
}

// Clone returns a deep copy so callers never share pointers with the
// stored value.
func (t Task) Clone() Task {
	out := t
	if t.DueDate != nil {
		d := *t.DueDate
		out.DueDate = &d
	}
	if t.Assignee != nil {
		a := *t.Assignee
		out.Assignee = &a
	}
	if t.TimeEstimate != nil {
		e := *t.TimeEstimate
		out.TimeEstimate = &e
	}
	return out
}
