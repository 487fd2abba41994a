package models

import "time"

// Capabilities is the per-grant capability bitset. Owners implicitly hold
// all capabilities and are never represented as a permission row.
type Capabilities struct {
	CanView   bool `json:"can_view"`
	CanCreate bool `json:"can_create"`
	CanUpload bool `json:"can_upload"`
	CanEdit   bool `json:"can_edit"`
	CanDelete bool `json:"can_delete"`
}

// AllCapabilities is what an owner resolves to.
func AllCapabilities() Capabilities {
	return Capabilities{CanView: true, CanCreate: true, CanUpload: true, CanEdit: true, CanDelete: true}
}

// Permission is an access grant from an item's owner to another user.
// At most one row exists per (item, user) pair; grants are upserted.
type Permission struct {
	ID        string  `json:"id"`
	ItemID    string  `json:"item_id"`
	UserID    string  `json:"user_id"` // grantee, never the owner
	Capabilities
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PermissionGrant is a permission row joined with the grantee's identity,
// as shown in the sharing dialog.
type PermissionGrant struct {
	UserID    string `json:"user_id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Capabilities
}

type SetPermissionRequest struct {
	UserID string `json:"user_id"`
	Capabilities
}
