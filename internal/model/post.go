package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Post represents a published blog post.
type Post struct {
	ID        string    `json:"id" gorm:"type:varchar(36);primaryKey"`
	Title     string    `json:"title" gorm:"size:255;not null"`
	Content   string    `json:"content" gorm:"type:text;not null"` // markdown
	Summary   string    `json:"summary" gorm:"type:text"`
	AuthorID  string    `json:"author_id" gorm:"type:varchar(64);not null;index"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`

	// Resolved per fetch, never written back.
	Author   Profile   `json:"author" gorm:"-"`
	Comments []Comment `json:"comments,omitempty" gorm:"-"`
}

// BeforeCreate sets UUID before creating the record.
func (p *Post) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return nil
}
