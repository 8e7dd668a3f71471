package domain

import (
	"time"

	"gorm.io/datatypes"
)

// Audit action types, one per state-changing operation.
const (
	ActionVersionUpload = "version_upload"
	ActionStatusChange  = "status_change"
	ActionReviewLock    = "review_lock"
	ActionReviewUnlock  = "review_unlock"
	ActionArchive       = "archive"
)

// AuditEntry is an append-only record of one state transition. Entries are
// written inside the same transaction as the transition they describe and are
// never updated or deleted afterwards.
type AuditEntry struct {
	ID                string         `gorm:"type:uuid;primaryKey" json:"id"`
	DocumentVersionID *string        `gorm:"type:uuid;index" json:"document_version_id,omitempty"`
	ProjectID         string         `gorm:"type:varchar(64);not null;index:idx_audit_query,priority:1" json:"project_id"`
	DocumentType      string         `gorm:"type:varchar(128);not null;index:idx_audit_query,priority:2" json:"document_type"`
	Slot              string         `gorm:"type:varchar(16)" json:"slot"`
	ActionType        string         `gorm:"type:varchar(32);not null;index" json:"action_type"`
	OldStatus         *string        `gorm:"type:varchar(32)" json:"old_status,omitempty"`
	NewStatus         *string        `gorm:"type:varchar(32)" json:"new_status,omitempty"`
	OldVersionNumber  *int           `json:"old_version_number,omitempty"`
	NewVersionNumber  *int           `json:"new_version_number,omitempty"`
	ActorID           string         `gorm:"type:varchar(64);not null" json:"actor_id"`
	Reason            *string        `gorm:"type:text" json:"reason,omitempty"`
	Metadata          datatypes.JSON `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt         time.Time      `gorm:"index:idx_audit_query,priority:3" json:"created_at"`
}

func (AuditEntry) TableName() string {
	return "audit_entries"
}
