package handlers

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yukikurage/taskboard/internal/constants"
	"github.com/yukikurage/taskboard/internal/middleware"
	"github.com/yukikurage/taskboard/internal/services"
)

// RouterDeps holds what the HTTP layer needs from the rest of the program
type RouterDeps struct {
	TaskService  *services.TaskService
	FeedService  *services.FeedService
	SessionStore sessions.Store
	Logger       zerolog.Logger
}

// NewRouter builds the gin engine with every route registered
func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(sessions.Sessions(constants.SessionCookieName, deps.SessionStore))

	taskHandler := NewTaskHandler(deps.TaskService, deps.FeedService)
	sessionHandler := NewSessionHandler()

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Task board API is running",
		})
	})

	api := r.Group("/api")
	api.Use(middleware.LoadActor())
	{
		api.GET("/options", taskHandler.GetOptions)
		api.GET("/board", taskHandler.GetBoard)

		session := api.Group("/session")
		{
			session.GET("", sessionHandler.GetSession)
			session.PUT("", sessionHandler.UpdateSession)
			session.DELETE("", sessionHandler.ClearSession)
		}

		tasks := api.Group("/tasks")
		{
			tasks.GET("", taskHandler.ListTasks)
			tasks.POST("", taskHandler.CreateTask)
			tasks.GET("/:id", middleware.RequireTask(deps.TaskService), taskHandler.GetTask)
			tasks.PUT("/:id", taskHandler.ReplaceTask)
			tasks.PATCH("/:id", taskHandler.UpdateTask)
			tasks.DELETE("/:id", taskHandler.DeleteTask)
			tasks.POST("/:id/move", taskHandler.MoveTask)
			tasks.GET("/:id/comments", taskHandler.ListComments)
			tasks.POST("/:id/comments", taskHandler.AddComment)
			tasks.GET("/:id/activity", taskHandler.ListActivity)
		}
	}

	return r
}
