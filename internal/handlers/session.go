package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/taskboard/internal/dto"
	apierrors "github.com/yukikurage/taskboard/internal/errors"
	"github.com/yukikurage/taskboard/internal/middleware"
	"github.com/yukikurage/taskboard/internal/models"
)

// SessionHandler manages the display identity used when commenting and
// editing. It is not authentication: anyone may claim any name.
type SessionHandler struct{}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler() *SessionHandler {
	return &SessionHandler{}
}

// GetSession returns the current actor.
func (h *SessionHandler) GetSession(c *gin.Context) {
	c.JSON(http.StatusOK, dto.ToPersonDTO(middleware.GetActor(c)))
}

// UpdateSession sets the actor for subsequent requests.
func (h *SessionHandler) UpdateSession(c *gin.Context) {
	var form dto.ActorForm
	if err := c.ShouldBindJSON(&form); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}
	form.Name = strings.TrimSpace(form.Name)
	if !validateForm(c, form) {
		return
	}

	actor := models.Person{Name: form.Name, Avatar: form.Avatar}
	if err := middleware.SaveActor(c, actor); err != nil {
		apierrors.InternalError(c, "Failed to save session")
		return
	}

	c.JSON(http.StatusOK, dto.ToPersonDTO(actor))
}

// ClearSession reverts to the default actor.
func (h *SessionHandler) ClearSession(c *gin.Context) {
	if err := middleware.ClearActor(c); err != nil {
		apierrors.InternalError(c, "Failed to clear session")
		return
	}

	c.JSON(http.StatusOK, dto.ToPersonDTO(middleware.GetActor(c)))
}
