package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/taskboard/internal/dto"
	apierrors "github.com/yukikurage/taskboard/internal/errors"
	"github.com/yukikurage/taskboard/internal/middleware"
	"github.com/yukikurage/taskboard/internal/utils"
)

// ListComments returns a task's comments, oldest first. Ids without a task
// simply have no comments.
func (h *TaskHandler) ListComments(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	comments, total, err := h.feedService.ListComments(c.Request.Context(), c.Param("id"), params)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToCommentListResponse(comments, params, total))
}

// AddComment appends a comment written by the session actor
func (h *TaskHandler) AddComment(c *gin.Context) {
	var form dto.CommentForm
	if err := c.ShouldBindJSON(&form); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}
	if !validateForm(c, form) {
		return
	}

	comment, err := h.feedService.AddComment(c.Request.Context(), c.Param("id"), middleware.GetActor(c), form.Content)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToCommentDTO(*comment))
}

// ListActivity returns a task's activity feed, oldest first
func (h *TaskHandler) ListActivity(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	activities, total, err := h.feedService.ListActivities(c.Request.Context(), c.Param("id"), params)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToActivityListResponse(activities, params, total))
}
