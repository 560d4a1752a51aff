package middleware

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/taskboard/internal/constants"
	"github.com/yukikurage/taskboard/internal/models"
)

// LoadActor reads the display identity kept in the session and stores it
// in the context. Requests without one act as the default actor.
func LoadActor() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)

		actor := models.Person{Name: constants.DefaultActorName}
		if name, ok := session.Get(constants.SessionKeyActorName).(string); ok && name != "" {
			actor.Name = name
			actor.Avatar, _ = session.Get(constants.SessionKeyActorAvatar).(string)
		}

		c.Set(constants.ContextKeyActor, actor)
		c.Next()
	}
}

// GetActor retrieves the current actor from context
func GetActor(c *gin.Context) models.Person {
	value, exists := c.Get(constants.ContextKeyActor)
	if !exists {
		return models.Person{Name: constants.DefaultActorName}
	}

	actor, ok := value.(models.Person)
	if !ok || actor.Name == "" {
		return models.Person{Name: constants.DefaultActorName}
	}
	return actor
}

// SaveActor stores the actor in the session
func SaveActor(c *gin.Context, actor models.Person) error {
	session := sessions.Default(c)
	session.Set(constants.SessionKeyActorName, actor.Name)
	session.Set(constants.SessionKeyActorAvatar, actor.Avatar)
	if err := session.Save(); err != nil {
		return err
	}

	c.Set(constants.ContextKeyActor, actor)
	return nil
}

// ClearActor removes the actor from the session
func ClearActor(c *gin.Context) error {
	session := sessions.Default(c)
	session.Clear()
	if err := session.Save(); err != nil {
		return err
	}

	c.Set(constants.ContextKeyActor, models.Person{Name: constants.DefaultActorName})
	return nil
}
