package review

import (
	"context"
	"errors"
	"time"

	"land-document-service/internal/audit"
	"land-document-service/internal/domain"
	apierrors "land-document-service/internal/errors"
	"land-document-service/internal/status"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository interface {
	Lock(ctx context.Context, versionID, reviewerID string, reason *string) (*domain.DocumentVersion, error)
	Unlock(ctx context.Context, versionID, reviewerID string, reason *string, force bool) (*domain.DocumentVersion, error)
	Complete(ctx context.Context, versionID, reviewerID, decision string, reason *string) (*domain.DocumentVersion, error)
	Archive(ctx context.Context, versionID, actorID string, reason *string) (*domain.DocumentVersion, error)
}

type RepositoryImpl struct {
	db       *gorm.DB
	recorder *audit.Recorder
}

func NewRepository(db *gorm.DB, recorder *audit.Recorder) Repository {
	return &RepositoryImpl{db: db, recorder: recorder}
}

// lockRow loads a version under a row lock so the status check and the write
// that follows are compare-and-set.
func lockRow(tx *gorm.DB, versionID string) (*domain.DocumentVersion, error) {
	var version domain.DocumentVersion
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", versionID).
		First(&version).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apierrors.NotFound("Document version not found", err)
	}
	if err != nil {
		return nil, err
	}
	return &version, nil
}

func (r *RepositoryImpl) Lock(ctx context.Context, versionID, reviewerID string, reason *string) (*domain.DocumentVersion, error) {
	var result *domain.DocumentVersion

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		version, err := lockRow(tx, versionID)
		if err != nil {
			return err
		}

		transition, apply, err := status.Lock(version.Status, version.LockedBy, reviewerID)
		if err != nil {
			return err
		}
		if !apply {
			// Re-lock by the current holder, nothing to do.
			result = version
			return nil
		}

		now := time.Now().UTC()
		if err := tx.Model(version).Updates(map[string]any{
			"status":     transition.To,
			"locked_by":  reviewerID,
			"locked_at":  now,
			"updated_at": now,
		}).Error; err != nil {
			return err
		}

		version.Status = transition.To
		version.LockedBy = &reviewerID
		version.LockedAt = &now
		version.UpdatedAt = now

		oldStatus := transition.From
		newStatus := transition.To
		if err := r.recorder.Record(tx, &domain.AuditEntry{
			DocumentVersionID: &version.ID,
			ProjectID:         version.ProjectID,
			DocumentType:      version.DocumentType,
			Slot:              version.Slot,
			ActionType:        domain.ActionReviewLock,
			OldStatus:         &oldStatus,
			NewStatus:         &newStatus,
			OldVersionNumber:  &version.VersionNumber,
			NewVersionNumber:  &version.VersionNumber,
			ActorID:           reviewerID,
			Reason:            reason,
		}); err != nil {
			return err
		}

		result = version
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *RepositoryImpl) Unlock(ctx context.Context, versionID, reviewerID string, reason *string, force bool) (*domain.DocumentVersion, error) {
	var result *domain.DocumentVersion

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		version, err := lockRow(tx, versionID)
		if err != nil {
			return err
		}

		transition, err := status.Unlock(version.Status, version.LockedBy, reviewerID, force)
		if err != nil {
			return err
		}

		if err := r.release(tx, version, transition); err != nil {
			return err
		}

		var metadata datatypes.JSON
		if force {
			metadata = datatypes.JSON(`{"forced": true}`)
		}
		oldStatus := transition.From
		newStatus := transition.To
		if err := r.recorder.Record(tx, &domain.AuditEntry{
			DocumentVersionID: &version.ID,
			ProjectID:         version.ProjectID,
			DocumentType:      version.DocumentType,
			Slot:              version.Slot,
			ActionType:        domain.ActionReviewUnlock,
			OldStatus:         &oldStatus,
			NewStatus:         &newStatus,
			OldVersionNumber:  &version.VersionNumber,
			NewVersionNumber:  &version.VersionNumber,
			ActorID:           reviewerID,
			Reason:            reason,
			Metadata:          metadata,
		}); err != nil {
			return err
		}

		result = version
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *RepositoryImpl) Complete(ctx context.Context, versionID, reviewerID, decision string, reason *string) (*domain.DocumentVersion, error) {
	var result *domain.DocumentVersion

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		version, err := lockRow(tx, versionID)
		if err != nil {
			return err
		}

		transition, err := status.Complete(version.Status, version.LockedBy, reviewerID, decision)
		if err != nil {
			return err
		}

		if err := r.release(tx, version, transition); err != nil {
			return err
		}

		oldStatus := transition.From
		newStatus := transition.To
		if err := r.recorder.Record(tx, &domain.AuditEntry{
			DocumentVersionID: &version.ID,
			ProjectID:         version.ProjectID,
			DocumentType:      version.DocumentType,
			Slot:              version.Slot,
			ActionType:        domain.ActionReviewUnlock,
			OldStatus:         &oldStatus,
			NewStatus:         &newStatus,
			OldVersionNumber:  &version.VersionNumber,
			NewVersionNumber:  &version.VersionNumber,
			ActorID:           reviewerID,
			Reason:            reason,
		}); err != nil {
			return err
		}

		result = version
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// release clears the lock fields atomically with the status write.
func (r *RepositoryImpl) release(tx *gorm.DB, version *domain.DocumentVersion, transition status.Transition) error {
	now := time.Now().UTC()
	if err := tx.Model(version).Updates(map[string]any{
		"status":     transition.To,
		"locked_by":  nil,
		"locked_at":  nil,
		"updated_at": now,
	}).Error; err != nil {
		return err
	}

	version.Status = transition.To
	version.LockedBy = nil
	version.LockedAt = nil
	version.UpdatedAt = now
	return nil
}

func (r *RepositoryImpl) Archive(ctx context.Context, versionID, actorID string, reason *string) (*domain.DocumentVersion, error) {
	var result *domain.DocumentVersion

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		version, err := lockRow(tx, versionID)
		if err != nil {
			return err
		}

		transition, err := status.Archive(version.Status, version.LockedBy)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		if err := tx.Model(version).Updates(map[string]any{
			"status":     transition.To,
			"updated_at": now,
		}).Error; err != nil {
			return err
		}

		version.Status = transition.To
		version.UpdatedAt = now

		oldStatus := transition.From
		newStatus := transition.To
		if err := r.recorder.Record(tx, &domain.AuditEntry{
			DocumentVersionID: &version.ID,
			ProjectID:         version.ProjectID,
			DocumentType:      version.DocumentType,
			Slot:              version.Slot,
			ActionType:        domain.ActionArchive,
			OldStatus:         &oldStatus,
			NewStatus:         &newStatus,
			OldVersionNumber:  &version.VersionNumber,
			NewVersionNumber:  &version.VersionNumber,
			ActorID:           actorID,
			Reason:            reason,
		}); err != nil {
			return err
		}

		result = version
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}
