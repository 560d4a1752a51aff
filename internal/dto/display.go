package dto

import (
	"github.com/yukikurage/taskboard/internal/constants"
	"github.com/yukikurage/taskboard/internal/models"
)

// StatusDisplay is how a status column is labelled and tinted
type StatusDisplay struct {
	Status models.TaskStatus `json:"status"`
	Label  string            `json:"label"`
	Color  string            `json:"color"`
}

// PriorityDisplay is how a priority badge is labelled and tinted
type PriorityDisplay struct {
	Priority models.TaskPriority `json:"priority"`
	Label    string              `json:"label"`
	Color    string              `json:"color"`
	DotColor string              `json:"dotColor"`
}

var statusDisplays = map[models.TaskStatus]StatusDisplay{
	models.TaskStatusTodo:       {Label: "To Do", Color: "bg-white/70 text-blue-500"},
	models.TaskStatusInProgress: {Label: "In Progress", Color: "bg-sky-50/70 text-sky-600"},
	models.TaskStatusReview:     {Label: "Review", Color: "bg-yellow-50/70 text-yellow-600"},
	models.TaskStatusDone:       {Label: "Done", Color: "bg-green-50/70 text-green-600"},
}

var priorityDisplays = map[models.TaskPriority]PriorityDisplay{
	models.TaskPriorityLow: {
		Label:    "Low",
		Color:    "bg-emerald-50/70 backdrop-blur-xl border border-emerald-200 text-emerald-600",
		DotColor: "bg-emerald-500",
	},
	models.TaskPriorityMedium: {
		Label:    "Medium",
		Color:    "bg-amber-50/70 backdrop-blur-xl border border-amber-200 text-amber-600",
		DotColor: "bg-amber-500",
	},
	models.TaskPriorityHigh: {
		Label:    "High",
		Color:    "bg-rose-50/70 backdrop-blur-xl border border-rose-200 text-rose-600",
		DotColor: "bg-rose-500",
	},
}

// StatusDisplayFor returns the descriptor for a status. Unknown values get
// their raw name as label and no color.
func StatusDisplayFor(status models.TaskStatus) StatusDisplay {
	d, ok := statusDisplays[status]
	if !ok {
		d = StatusDisplay{Label: string(status)}
	}
	d.Status = status
	return d
}

// PriorityDisplayFor returns the descriptor for a priority
func PriorityDisplayFor(priority models.TaskPriority) PriorityDisplay {
	d, ok := priorityDisplays[priority]
	if !ok {
		d = PriorityDisplay{Label: string(priority)}
	}
	d.Priority = priority
	return d
}

// OptionsResponse lists every selectable status and priority, in display
// order, plus the priority filter wildcard
type OptionsResponse struct {
	Statuses          []StatusDisplay   `json:"statuses"`
	Priorities        []PriorityDisplay `json:"priorities"`
	PriorityFilterAll string            `json:"priorityFilterAll"`
}

// BuildOptions returns the form and filter options
func BuildOptions() OptionsResponse {
	statuses := make([]StatusDisplay, 0, len(models.AllStatuses()))
	for _, s := range models.AllStatuses() {
		statuses = append(statuses, StatusDisplayFor(s))
	}

	priorities := make([]PriorityDisplay, 0, len(models.AllPriorities()))
	for _, p := range models.AllPriorities() {
		priorities = append(priorities, PriorityDisplayFor(p))
	}

	return OptionsResponse{
		Statuses:          statuses,
		Priorities:        priorities,
		PriorityFilterAll: constants.PriorityFilterAll,
	}
}
