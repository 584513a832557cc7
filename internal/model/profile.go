package model

import "time"

const (
	// UnknownAuthorName labels posts whose author could not be resolved in a batch lookup.
	UnknownAuthorName = "Unknown Author"
	// UnknownName labels records whose single profile lookup failed.
	UnknownName = "Unknown"
)

// Profile is the public identity of a user. Rows are owned by the identity provider.
// Email is stored for the provider but never rendered.
type Profile struct {
	ID        string    `json:"id" gorm:"type:varchar(64);primaryKey"`
	Name      string    `json:"name" gorm:"size:255;not null"`
	Email     string    `json:"-" gorm:"size:255;index"`
	Image     string    `json:"image,omitempty" gorm:"size:1024"`
	UpdatedAt time.Time `json:"-"`
}

// PlaceholderProfile synthesizes a profile for an id that could not be joined.
func PlaceholderProfile(id, name string) Profile {
	return Profile{ID: id, Name: name}
}
