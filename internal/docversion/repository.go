package docversion

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"land-document-service/internal/audit"
	"land-document-service/internal/domain"
	apierrors "land-document-service/internal/errors"
	"land-document-service/internal/status"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CreateInput struct {
	ProjectID    string
	DocumentType string
	Slot         string
	FileName     string
	FileSize     int64
	ContentType  string
	StorageKey   string
	ChangeReason *string
	ActorID      string
}

// CreateResult carries the new version plus, when the demoted predecessor was
// locked for review, that predecessor so the caller can warn both parties.
type CreateResult struct {
	Version            *domain.DocumentVersion
	SupersededInReview *domain.DocumentVersion
}

type StatusCount struct {
	Slot   string `json:"slot"`
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

type Repository interface {
	CreateVersion(ctx context.Context, input CreateInput) (*CreateResult, error)
	ListVersions(ctx context.Context, projectID, documentType, slot string) ([]domain.DocumentVersion, error)
	FindByID(ctx context.Context, id string) (*domain.DocumentVersion, error)
	StatusCounts(ctx context.Context, projectID, documentType string) ([]StatusCount, error)
	OccupiedSlots(ctx context.Context, projectID, documentType string) ([]string, error)
}

type RepositoryImpl struct {
	db       *gorm.DB
	recorder *audit.Recorder
}

func NewRepository(db *gorm.DB, recorder *audit.Recorder) Repository {
	return &RepositoryImpl{db: db, recorder: recorder}
}

// CreateVersion inserts the next version of a lineage and demotes the previous
// latest in one transaction. The group's rows are locked for the duration so
// two concurrent uploads cannot compute the same version number or leave two
// rows flagged latest.
func (r *RepositoryImpl) CreateVersion(ctx context.Context, in CreateInput) (*CreateResult, error) {
	var result CreateResult

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now().UTC()

		var existing []domain.DocumentVersion
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("project_id = ? AND document_type = ? AND slot = ?", in.ProjectID, in.DocumentType, in.Slot).
			Order("version_number DESC").
			Find(&existing).Error; err != nil {
			return err
		}

		next := 1
		if len(existing) > 0 {
			next = existing[0].VersionNumber + 1
		}

		version := &domain.DocumentVersion{
			ID:            uuid.NewString(),
			ProjectID:     in.ProjectID,
			DocumentType:  in.DocumentType,
			Slot:          in.Slot,
			VersionNumber: next,
			IsLatest:      true,
			Status:        domain.StatusPending,
			ChangeReason:  in.ChangeReason,
			FileName:      in.FileName,
			FileSize:      in.FileSize,
			ContentType:   in.ContentType,
			StorageKey:    in.StorageKey,
			CreatedBy:     in.ActorID,
			CreatedAt:     now,
			UpdatedAt:     now,
		}

		for i := range existing {
			prev := &existing[i]
			if !prev.IsLatest {
				continue
			}
			if err := r.demote(tx, prev, version, in.ActorID, now); err != nil {
				return err
			}
			if prev.Status == domain.StatusUnderReview {
				result.SupersededInReview = prev
			}
		}

		if err := tx.Create(version).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apierrors.WriteConflict("Concurrent upload detected, please retry", err)
			}
			return err
		}

		metadata, _ := json.Marshal(map[string]any{
			"file_name":    in.FileName,
			"file_size":    in.FileSize,
			"content_type": in.ContentType,
			"storage_key":  in.StorageKey,
		})
		newStatus := version.Status
		if err := r.recorder.Record(tx, &domain.AuditEntry{
			DocumentVersionID: &version.ID,
			ProjectID:         in.ProjectID,
			DocumentType:      in.DocumentType,
			Slot:              in.Slot,
			ActionType:        domain.ActionVersionUpload,
			NewStatus:         &newStatus,
			NewVersionNumber:  &version.VersionNumber,
			ActorID:           in.ActorID,
			Reason:            in.ChangeReason,
			Metadata:          metadata,
		}); err != nil {
			return err
		}

		result.Version = version
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &result, nil
}

// demote clears the latest flag on prev and, unless prev is under review,
// archives it. An in-flight review is never discarded by a new upload.
func (r *RepositoryImpl) demote(tx *gorm.DB, prev, successor *domain.DocumentVersion, actorID string, now time.Time) error {
	updates := map[string]any{"is_latest": false, "updated_at": now}

	transition, archived := status.Supersede(prev.Status)
	if archived {
		updates["status"] = domain.StatusArchived
	}

	if err := tx.Model(&domain.DocumentVersion{}).
		Where("id = ?", prev.ID).
		Updates(updates).Error; err != nil {
		return err
	}

	if !archived {
		return nil
	}

	oldStatus := transition.From
	newStatus := transition.To
	reason := "superseded by newer version"
	return r.recorder.Record(tx, &domain.AuditEntry{
		DocumentVersionID: &prev.ID,
		ProjectID:         prev.ProjectID,
		DocumentType:      prev.DocumentType,
		Slot:              prev.Slot,
		ActionType:        domain.ActionStatusChange,
		OldStatus:         &oldStatus,
		NewStatus:         &newStatus,
		OldVersionNumber:  &prev.VersionNumber,
		NewVersionNumber:  &successor.VersionNumber,
		ActorID:           actorID,
		Reason:            &reason,
	})
}

func (r *RepositoryImpl) ListVersions(ctx context.Context, projectID, documentType, slot string) ([]domain.DocumentVersion, error) {
	query := r.db.WithContext(ctx).
		Where("project_id = ? AND document_type = ?", projectID, documentType)
	if slot != "" {
		query = query.Where("slot = ?", slot)
	}

	var versions []domain.DocumentVersion
	err := query.Order("slot ASC, version_number ASC").Find(&versions).Error
	return versions, err
}

func (r *RepositoryImpl) FindByID(ctx context.Context, id string) (*domain.DocumentVersion, error) {
	var version domain.DocumentVersion
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&version).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apierrors.NotFound("Document version not found", err)
	}
	if err != nil {
		return nil, err
	}
	return &version, nil
}

func (r *RepositoryImpl) StatusCounts(ctx context.Context, projectID, documentType string) ([]StatusCount, error) {
	var counts []StatusCount
	err := r.db.WithContext(ctx).Model(&domain.DocumentVersion{}).
		Select("slot, status, count(*) as count").
		Where("project_id = ? AND document_type = ?", projectID, documentType).
		Group("slot, status").
		Order("slot ASC").
		Scan(&counts).Error
	return counts, err
}

func (r *RepositoryImpl) OccupiedSlots(ctx context.Context, projectID, documentType string) ([]string, error) {
	var slots []string
	err := r.db.WithContext(ctx).Model(&domain.DocumentVersion{}).
		Distinct("slot").
		Where("project_id = ? AND document_type = ? AND status <> ?", projectID, documentType, domain.StatusArchived).
		Order("slot ASC").
		Pluck("slot", &slots).Error
	return slots, err
}
