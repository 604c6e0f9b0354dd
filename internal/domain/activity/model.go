package activity

import "time"

// Type represents the type of activity event
type Type string

const (
	TypeRevisionCreated      Type = "revision_created"
	TypeRevisionUpdated      Type = "revision_updated"
	TypeRevisionDeleted      Type = "revision_deleted"
	TypeRevisionsBulkUpdated Type = "revisions_bulk_updated"
	TypeRevisionsDuplicated  Type = "revisions_duplicated"
	TypeRevisionsImported    Type = "revisions_imported"
)

// Entry represents an event in the activity log
type Entry struct {
	ID         int64     `json:"id"`
	OwnerID    string    `json:"owner_id"`
	RevisionID *string   `json:"revision_id,omitempty"`
	Type       Type      `json:"type"`
	Summary    string    `json:"summary"`
	Details    string    `json:"details,omitempty"` // JSON string
	CreatedAt  time.Time `json:"created_at"`
}
