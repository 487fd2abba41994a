package models

import "time"

// UploadedFile is the metadata record of an uploaded blob. It lives in its
// own table because it carries upload-specific attributes, but logically it
// is a child of the folder item referenced by ParentID and is removed when
// that folder is deleted.
type UploadedFile struct {
	ID           string    `json:"id"`
	StoredName   string    `json:"stored_name"` // blob key, server-assigned
	OriginalName string    `json:"original_name"`
	SizeBytes    int64     `json:"size_bytes"`
	MimeType     string    `json:"mime_type"`
	OwnerID      string    `json:"owner_id"`
	ParentID     *string   `json:"parent_id"` // NULL = root level, else a folder item
	CreatedAt    time.Time `json:"created_at"`
}
