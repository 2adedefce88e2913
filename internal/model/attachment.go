package model

import "time"

// Attachment represents a file stored in object storage and linked to a
// project. StoragePath is the object key in the configured bucket.
type Attachment struct {
	ID          string    `json:"id"`
	ProjectID   string    `json:"project_id"`
	Filename    string    `json:"filename"`
	StoragePath string    `json:"storage_path"`
	Size        int64     `json:"size"`
	ContentType string    `json:"content_type"`
	CreatedAt   time.Time `json:"created_at"`
}

func (a Attachment) EntityID() string { return a.ID }
