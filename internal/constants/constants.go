package constants

// Pagination
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Session
const (
	SessionCookieName = "taskboard_session"
	SessionMaxAge     = 86400 * 7 // 7 days

	SessionKeyActorName   = "actor_name"
	SessionKeyActorAvatar = "actor_avatar"
)

// Context keys
const (
	ContextKeyActor = "actor"
	ContextKeyTask  = "task"
)

// DefaultActorName is used for comments and activity when no actor has been
// set on the session.
const DefaultActorName = "John Doe"

// PriorityFilterAll is the wildcard accepted by the priority filter.
const PriorityFilterAll = "all"

// Limits
const (
	MaxTitleLength       = 255
	MaxDescriptionLength = 5000
	MaxCommentLength     = 5000
	MaxNameLength        = 255
	MaxAvatarLength      = 512
)

// Task id strategies
const (
	TaskIDStrategySequence = "sequence"
	TaskIDStrategyUUID     = "uuid"
)
