package review

import (
	"context"
	defError "errors"

	"land-document-service/internal/docversion"
	"land-document-service/internal/domain"
	apierrors "land-document-service/internal/errors"
	"land-document-service/redis"
)

type Service interface {
	Lock(ctx context.Context, versionID, reviewerID string, reason *string) (*domain.DocumentVersion, error)
	Unlock(ctx context.Context, versionID, reviewerID string, reason *string) (*domain.DocumentVersion, error)
	ForceUnlock(ctx context.Context, versionID, adminID string, reason *string) (*domain.DocumentVersion, error)
	CompleteReview(ctx context.Context, versionID, reviewerID, decision string, reason *string) (*domain.DocumentVersion, error)
	Archive(ctx context.Context, versionID, actorID string, reason *string) (*domain.DocumentVersion, error)
}

type DefaultService struct {
	repository Repository
	cache      *redis.Cache
}

func NewService(repository Repository, cache *redis.Cache) Service {
	return &DefaultService{repository: repository, cache: cache}
}

func (s *DefaultService) Lock(ctx context.Context, versionID, reviewerID string, reason *string) (*domain.DocumentVersion, error) {
	version, err := s.repository.Lock(ctx, versionID, reviewerID, reason)
	if err != nil {
		return nil, wrapStoreErr(err)
	}
	s.invalidate(ctx, version)
	return version, nil
}

func (s *DefaultService) Unlock(ctx context.Context, versionID, reviewerID string, reason *string) (*domain.DocumentVersion, error) {
	version, err := s.repository.Unlock(ctx, versionID, reviewerID, reason, false)
	if err != nil {
		return nil, wrapStoreErr(err)
	}
	s.invalidate(ctx, version)
	return version, nil
}

func (s *DefaultService) ForceUnlock(ctx context.Context, versionID, adminID string, reason *string) (*domain.DocumentVersion, error) {
	version, err := s.repository.Unlock(ctx, versionID, adminID, reason, true)
	if err != nil {
		return nil, wrapStoreErr(err)
	}
	s.invalidate(ctx, version)
	return version, nil
}

func (s *DefaultService) CompleteReview(ctx context.Context, versionID, reviewerID, decision string, reason *string) (*domain.DocumentVersion, error) {
	version, err := s.repository.Complete(ctx, versionID, reviewerID, decision, reason)
	if err != nil {
		return nil, wrapStoreErr(err)
	}
	s.invalidate(ctx, version)
	return version, nil
}

func (s *DefaultService) Archive(ctx context.Context, versionID, actorID string, reason *string) (*domain.DocumentVersion, error) {
	version, err := s.repository.Archive(ctx, versionID, actorID, reason)
	if err != nil {
		return nil, wrapStoreErr(err)
	}
	s.invalidate(ctx, version)
	return version, nil
}

func (s *DefaultService) invalidate(ctx context.Context, version *domain.DocumentVersion) {
	s.cache.IncrementVersion(ctx, docversion.GroupVersionKey(version.ProjectID, version.DocumentType))
}

func wrapStoreErr(err error) error {
	var apiErr *apierrors.APIError
	if defError.As(err, &apiErr) {
		return err
	}
	return apierrors.StorageUnavailable(err)
}
