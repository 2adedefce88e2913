package model

import "time"

// Tag is a label that can be attached to projects.
type Tag struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

func (t Tag) EntityID() string { return t.ID }
