package models

import "time"

type ActivityType string

const (
	ActivityStatusChange ActivityType = "status_change"
	ActivityComment      ActivityType = "comment"
	ActivityEdit         ActivityType = "edit"
	ActivityDueDate      ActivityType = "due_date"
	ActivityAssignee     ActivityType = "assignee"
	ActivityTimeEstimate ActivityType = "time_estimate"
)

// IsValid reports whether t is a known activity type
func (t ActivityType) IsValid() bool {
	switch t {
	case ActivityStatusChange, ActivityComment, ActivityEdit,
		ActivityDueDate, ActivityAssignee, ActivityTimeEstimate:
		return true
	}
	return false
}

type Activity struct {
	ID         uint64       `gorm:"primarykey" json:"id"`
	TaskID     string       `gorm:"type:varchar(64);not null" json:"task_id"`
	Type       ActivityType `gorm:"type:varchar(32);not null" json:"type"`
	UserName   string       `gorm:"type:varchar(255);not null" json:"user_name"`
	UserAvatar string       `gorm:"type:varchar(512)" json:"user_avatar"`
	From       string       `gorm:"type:varchar(255)" json:"from"`
	To         string       `gorm:"type:varchar(255)" json:"to"`
	Message    string       `gorm:"type:text" json:"message"`
	CreatedAt  time.Time    `gorm:"not null" json:"created_at"`
}

// User returns the actor behind the activity.
func (a Activity) User() Person {
	return Person{Name: a.UserName, Avatar: a.UserAvatar}
}
