package models

import "time"

// ItemKind distinguishes folders from created (metadata-only) files.
type ItemKind string

const (
	KindFolder ItemKind = "folder"
	KindFile   ItemKind = "file"
)

// Item is a node in the owned hierarchy. Folders may contain items and
// uploaded files; files are always leaves. ParentID never changes after
// creation, so the tree is acyclic by construction.
type Item struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Kind      ItemKind  `json:"kind"`
	OwnerID   string    `json:"owner_id"`
	ParentID  *string   `json:"parent_id"` // NULL = root level
	Extension *string   `json:"extension"` // files only, lowercase dotted suffix
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsFolder reports whether the item can hold children.
func (i *Item) IsFolder() bool { return i.Kind == KindFolder }

type CreateItemRequest struct {
	OwnerID  string   `json:"-"`
	Name     string   `json:"name"`
	Kind     ItemKind `json:"kind"`
	ParentID *string  `json:"parent_id,omitempty"`
}

type RenameItemRequest struct {
	Name string `json:"name"`
}
