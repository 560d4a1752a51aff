package models

import "time"

type Comment struct {
	ID           uint64    `gorm:"primarykey" json:"id"`
	TaskID       string    `gorm:"type:varchar(64);not null" json:"task_id"`
	AuthorName   string    `gorm:"type:varchar(255);not null" json:"author_name"`
	AuthorAvatar string    `gorm:"type:varchar(512)" json:"author_avatar"`
	Content      string    `gorm:"type:text;not null" json:"content"`
	CreatedAt    time.Time `gorm:"not null" json:"created_at"`
}

// Author returns the comment author as a Person.
func (c Comment) Author() Person {
	return Person{Name: c.AuthorName, Avatar: c.AuthorAvatar}
}
