package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Comment is a single entry in a post's discussion thread.
type Comment struct {
	ID        string    `json:"id" gorm:"type:varchar(36);primaryKey"`
	PostID    string    `json:"post_id" gorm:"type:varchar(36);not null;index"`
	UserID    string    `json:"user_id" gorm:"type:varchar(64);not null;index"`
	Text      string    `json:"text" gorm:"column:text;type:text;not null"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`

	Post *Post    `json:"-" gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE"`
	User *Profile `json:"user,omitempty" gorm:"-"`
}

// BeforeCreate sets UUID before creating the record.
func (c *Comment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return nil
}
