package models

import "time"

// StructureEntry is one row of a folder listing. Items and uploaded files
// are merged into this shape so the client renders a single list; the
// upload-only fields stay nil for created items.
type StructureEntry struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Kind      ItemKind  `json:"kind"`
	OwnerID   string    `json:"owner_id"`
	ParentID  *string   `json:"parent_id"`
	Extension *string   `json:"extension,omitempty"`
	CreatedAt time.Time `json:"created_at"`

	// Upload-only attributes.
	Uploaded     bool    `json:"uploaded"`
	OriginalName *string `json:"original_name,omitempty"`
	SizeBytes    *int64  `json:"size_bytes,omitempty"`
	MimeType     *string `json:"mime_type,omitempty"`

	// Shared marks entries the viewer sees only through a grant on the
	// entry itself or on one of its descendants.
	Shared bool `json:"shared,omitempty"`
}

// Structure is the listing shape returned for the root view and for
// folder children: folders first, then files, each sorted by name.
type Structure struct {
	Folders []StructureEntry `json:"folders"`
	Files   []StructureEntry `json:"files"`
}

// Add places the entry in Folders or Files by kind.
func (s *Structure) Add(e StructureEntry) {
	if e.Kind == KindFolder {
		s.Folders = append(s.Folders, e)
	} else {
		s.Files = append(s.Files, e)
	}
}

// EntryFromItem converts an item row to a listing entry.
func EntryFromItem(it Item) StructureEntry {
	return StructureEntry{
		ID:        it.ID,
		Name:      it.Name,
		Kind:      it.Kind,
		OwnerID:   it.OwnerID,
		ParentID:  it.ParentID,
		Extension: it.Extension,
		CreatedAt: it.CreatedAt,
	}
}

// EntryFromUpload converts an uploaded-file row to a listing entry.
// Uploads always render as files.
func EntryFromUpload(f UploadedFile) StructureEntry {
	size := f.SizeBytes
	orig := f.OriginalName
	mime := f.MimeType
	return StructureEntry{
		ID:           f.ID,
		Name:         f.OriginalName,
		Kind:         KindFile,
		OwnerID:      f.OwnerID,
		ParentID:     f.ParentID,
		CreatedAt:    f.CreatedAt,
		Uploaded:     true,
		OriginalName: &orig,
		SizeBytes:    &size,
		MimeType:     &mime,
	}
}
