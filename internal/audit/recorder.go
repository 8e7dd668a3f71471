// Package audit owns the append-only trail of version/lock state changes.
// Entries are only ever written by the engine itself, inside the transaction
// that performs the transition; collaborators get read access through Query.
package audit

import (
	"time"

	"land-document-service/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Recorder appends audit entries within a caller-owned transaction, so a
// rolled-back mutation never leaves a stray entry behind.
type Recorder struct{}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Record(tx *gorm.DB, entry *domain.AuditEntry) error {
	entry.ID = uuid.NewString()
	entry.CreatedAt = time.Now().UTC()
	return tx.Create(entry).Error
}
