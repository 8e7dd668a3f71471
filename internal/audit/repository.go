package audit

import (
	"context"

	"land-document-service/internal/domain"

	"gorm.io/gorm"
)

type Filter struct {
	ProjectID    string
	DocumentType string
	ActionType   string
}

type Repository interface {
	List(ctx context.Context, filter Filter, page, pageSize int) ([]domain.AuditEntry, int64, error)
}

type RepositoryImpl struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &RepositoryImpl{db: db}
}

func (r *RepositoryImpl) List(ctx context.Context, filter Filter, page, pageSize int) ([]domain.AuditEntry, int64, error) {
	query := r.db.WithContext(ctx).Model(&domain.AuditEntry{}).
		Where("project_id = ?", filter.ProjectID)

	if filter.DocumentType != "" {
		query = query.Where("document_type = ?", filter.DocumentType)
	}
	if filter.ActionType != "" {
		query = query.Where("action_type = ?", filter.ActionType)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var entries []domain.AuditEntry
	offset := (page - 1) * pageSize
	err := query.
		Order("created_at DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&entries).Error

	return entries, total, err
}
