package audit

import (
	"context"

	"land-document-service/internal/domain"
)

type Service interface {
	Query(ctx context.Context, filter Filter, page, pageSize int) (*PaginatedEntries, error)
}

type EntriesMeta struct {
	Total       int64 `json:"total"`
	CurrentPage int   `json:"current_page"`
	PerPage     int   `json:"per_page"`
	TotalPage   int   `json:"total_page"`
}

type PaginatedEntries struct {
	Data []domain.AuditEntry `json:"data"`
	Meta EntriesMeta         `json:"meta"`
}

type DefaultService struct {
	repository Repository
}

func NewService(repository Repository) Service {
	return &DefaultService{repository: repository}
}

func (s *DefaultService) Query(ctx context.Context, filter Filter, page, pageSize int) (*PaginatedEntries, error) {
	entries, total, err := s.repository.List(ctx, filter, page, pageSize)
	if err != nil {
		return nil, err
	}

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))

	return &PaginatedEntries{
		Data: entries,
		Meta: EntriesMeta{
			Total:       total,
			CurrentPage: page,
			PerPage:     pageSize,
			TotalPage:   totalPages,
		},
	}, nil
}
