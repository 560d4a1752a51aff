package dto

import (
	"fmt"
	"strings"
	"time"

	"github.com/yukikurage/taskboard/internal/models"
	"github.com/yukikurage/taskboard/internal/utils"
)

// CommentForm represents the request body for adding a comment
type CommentForm struct {
	Content string `json:"content" validate:"required,commentlen"`
}

// ActorForm sets the display identity used for comments and activity
type ActorForm struct {
	Name   string `json:"name" validate:"required,namelen"`
	Avatar string `json:"avatar" validate:"avatarlen"`
}

// CommentDTO represents a comment in API responses
type CommentDTO struct {
	ID        uint64    `json:"id"`
	TaskID    string    `json:"taskId"`
	Author    PersonDTO `json:"author"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// CommentListResponse represents a paginated list of comments
type CommentListResponse struct {
	Comments   []CommentDTO             `json:"comments"`
	Pagination utils.PaginationResponse `json:"pagination"`
}

// ActivityDTO represents an activity entry in API responses
type ActivityDTO struct {
	ID        uint64              `json:"id"`
	TaskID    string              `json:"taskId"`
	Type      models.ActivityType `json:"type"`
	User      PersonDTO           `json:"user"`
	From      string              `json:"from,omitempty"`
	To        string              `json:"to,omitempty"`
	Message   string              `json:"message,omitempty"`
	Summary   string              `json:"summary"`
	CreatedAt time.Time           `json:"createdAt"`
}

// ActivityListResponse represents a paginated activity feed
type ActivityListResponse struct {
	Activities []ActivityDTO            `json:"activities"`
	Pagination utils.PaginationResponse `json:"pagination"`
}

// ToCommentDTO converts a Comment model to CommentDTO
func ToCommentDTO(c models.Comment) CommentDTO {
	return CommentDTO{
		ID:        c.ID,
		TaskID:    c.TaskID,
		Author:    ToPersonDTO(c.Author()),
		Content:   c.Content,
		CreatedAt: c.CreatedAt,
	}
}

// ToCommentListResponse converts a page of comments
func ToCommentListResponse(comments []models.Comment, page utils.PaginationParams, total int64) CommentListResponse {
	items := make([]CommentDTO, len(comments))
	for i, c := range comments {
		items[i] = ToCommentDTO(c)
	}

	return CommentListResponse{
		Comments:   items,
		Pagination: utils.NewPaginationResponse(page, total),
	}
}

// ToActivityDTO converts an Activity model to ActivityDTO
func ToActivityDTO(a models.Activity) ActivityDTO {
	return ActivityDTO{
		ID:        a.ID,
		TaskID:    a.TaskID,
		Type:      a.Type,
		User:      ToPersonDTO(a.User()),
		From:      a.From,
		To:        a.To,
		Message:   a.Message,
		Summary:   ActivitySummary(a),
		CreatedAt: a.CreatedAt,
	}
}

// ToActivityListResponse converts a page of activity entries
func ToActivityListResponse(activities []models.Activity, page utils.PaginationParams, total int64) ActivityListResponse {
	items := make([]ActivityDTO, len(activities))
	for i, a := range activities {
		items[i] = ToActivityDTO(a)
	}

	return ActivityListResponse{
		Activities: items,
		Pagination: utils.NewPaginationResponse(page, total),
	}
}

// ActivitySummary renders the feed line shown after the actor's name
func ActivitySummary(a models.Activity) string {
	switch a.Type {
	case models.ActivityStatusChange:
		return fmt.Sprintf("changed status from %s to %s", a.From, a.To)
	case models.ActivityComment:
		return "commented on this task"
	case models.ActivityEdit:
		return "edited this task"
	case models.ActivityDueDate:
		if a.To == "" {
			return "removed the due date"
		}
		return "set due date to " + formatDueDate(a.To)
	case models.ActivityAssignee:
		if a.To == "" {
			return "unassigned this task"
		}
		return "assigned this task to " + a.To
	case models.ActivityTimeEstimate:
		if a.To == "" {
			return "removed the time estimate"
		}
		return "updated time estimate to " + a.To + "h"
	}
	return "performed an action"
}

// formatDueDate renders "Apr 1, 2024", falling back to the raw value
func formatDueDate(value string) string {
	t, err := utils.ParseISODate(strings.TrimSpace(value))
	if err != nil {
		return value
	}
	return t.Format("Jan 2, 2006")
}
