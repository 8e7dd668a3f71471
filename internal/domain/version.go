package domain

import (
	"time"
)

// Review statuses for a document version. "active" appears in rows written by
// early deployments and is read as approved; new rows always start as pending.
const (
	StatusPending      = "pending"
	StatusUnderReview  = "under_review"
	StatusApproved     = "approved"
	StatusRejected     = "rejected"
	StatusArchived     = "archived"
	StatusLegacyActive = "active"
)

// DocumentVersion is one uploaded artifact. All versions sharing
// (project_id, document_type, slot) form one lineage; exactly one of them
// carries is_latest at any time.
type DocumentVersion struct {
	ID            string     `gorm:"type:uuid;primaryKey" json:"id"`
	ProjectID     string     `gorm:"type:varchar(64);not null;index:idx_group,priority:1;uniqueIndex:idx_group_version,priority:1" json:"project_id"`
	DocumentType  string     `gorm:"type:varchar(128);not null;index:idx_group,priority:2;uniqueIndex:idx_group_version,priority:2" json:"document_type"`
	Slot          string     `gorm:"type:varchar(16);not null;index:idx_group,priority:3;uniqueIndex:idx_group_version,priority:3" json:"slot"`
	VersionNumber int        `gorm:"not null;uniqueIndex:idx_group_version,priority:4" json:"version_number"`
	IsLatest      bool       `gorm:"not null" json:"is_latest"`
	Status        string     `gorm:"type:varchar(32);not null" json:"status"`
	LockedBy      *string    `gorm:"type:varchar(64)" json:"locked_by,omitempty"`
	LockedAt      *time.Time `json:"locked_at,omitempty"`
	ChangeReason  *string    `gorm:"type:text" json:"change_reason,omitempty"`
	FileName      string     `gorm:"type:varchar(255)" json:"file_name"`
	FileSize      int64      `json:"file_size"`
	ContentType   string     `gorm:"type:varchar(128)" json:"content_type"`
	StorageKey    string     `gorm:"type:varchar(255)" json:"storage_key"`
	CreatedBy     string     `gorm:"type:varchar(64);not null" json:"created_by"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

func (DocumentVersion) TableName() string {
	return "document_versions"
}
