package docversion

import (
	"context"
	defError "errors"
	"fmt"
	"time"

	"land-document-service/internal/domain"
	apierrors "land-document-service/internal/errors"
	"land-document-service/internal/slot"
	"land-document-service/internal/worker"
	"land-document-service/redis"
)

type CreateRequest struct {
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

// ReviewConflict is the non-fatal warning returned when a new upload
// supersedes a version that a reviewer still holds locked.
type ReviewConflict struct {
	VersionID     string `json:"version_id"`
	VersionNumber int    `json:"version_number"`
	LockedBy      string `json:"locked_by"`
	Message       string `json:"message"`
}

type CreateVersionResponse struct {
	Version        *domain.DocumentVersion `json:"version"`
	ReviewConflict *ReviewConflict         `json:"review_conflict,omitempty"`
}

type StatusSummary struct {
	ProjectID    string        `json:"project_id"`
	DocumentType string        `json:"document_type"`
	Counts       []StatusCount `json:"counts"`
}

type Service interface {
	CreateVersion(ctx context.Context, req CreateRequest) (*CreateVersionResponse, error)
	ListVersions(ctx context.Context, projectID, documentType, slotID string) ([]domain.DocumentVersion, error)
	GetVersionByID(ctx context.Context, id string) (*domain.DocumentVersion, error)
	GetStatusSummary(ctx context.Context, projectID, documentType string) (*StatusSummary, error)
	GetOccupiedSlots(ctx context.Context, projectID, documentType string) ([]string, error)
}

type DefaultService struct {
	repository Repository
	allocator  *slot.Allocator
	cache      *redis.Cache
	pool       *worker.Pool
	cacheTTL   time.Duration
}

func NewService(
	repository Repository,
	allocator *slot.Allocator,
	cache *redis.Cache,
	pool *worker.Pool,
	cacheTTL time.Duration,
) Service {
	return &DefaultService{
		repository: repository,
		allocator:  allocator,
		cache:      cache,
		pool:       pool,
		cacheTTL:   cacheTTL,
	}
}

func (s *DefaultService) CreateVersion(ctx context.Context, req CreateRequest) (*CreateVersionResponse, error) {
	resolved, err := s.allocator.Resolve(req.DocumentType, req.Slot)
	if err != nil {
		return nil, err
	}

	input := CreateInput{
		ProjectID:    req.ProjectID,
		DocumentType: req.DocumentType,
		Slot:         resolved,
		FileName:     req.FileName,
		FileSize:     req.FileSize,
		ContentType:  req.ContentType,
		StorageKey:   req.StorageKey,
		ChangeReason: req.ChangeReason,
		ActorID:      req.ActorID,
	}

	result, err := s.repository.CreateVersion(ctx, input)
	if apierrors.HasCode(err, apierrors.CodeWriteConflict) {
		// Lost the race on the version number once, recompute under a fresh
		// row lock before surfacing the conflict to the caller.
		result, err = s.repository.CreateVersion(ctx, input)
	}
	if err != nil {
		return nil, wrapStoreErr(err)
	}

	versionKey := GroupVersionKey(req.ProjectID, req.DocumentType)
	s.cache.IncrementVersion(ctx, versionKey)

	response := &CreateVersionResponse{Version: result.Version}
	if result.SupersededInReview != nil {
		prev := result.SupersededInReview
		lockedBy := ""
		if prev.LockedBy != nil {
			lockedBy = *prev.LockedBy
		}
		response.ReviewConflict = &ReviewConflict{
			VersionID:     prev.ID,
			VersionNumber: prev.VersionNumber,
			LockedBy:      lockedBy,
			Message:       fmt.Sprintf("Version %d is still under review and was not archived", prev.VersionNumber),
		}
	}

	return response, nil
}

func (s *DefaultService) ListVersions(ctx context.Context, projectID, documentType, slotID string) ([]domain.DocumentVersion, error) {
	v := s.cache.GetVersion(ctx, GroupVersionKey(projectID, documentType))
	cacheKey := fmt.Sprintf("versions:p:%s:t:%s:s:%s:v:%d", projectID, documentType, slotID, v)

	var cached []domain.DocumentVersion
	if found, _ := s.cache.Get(ctx, cacheKey, &cached); found {
		return cached, nil
	}

	versions, err := s.repository.ListVersions(ctx, projectID, documentType, slotID)
	if err != nil {
		return nil, wrapStoreErr(err)
	}

	s.submitCacheSet(cacheKey, versions)
	return versions, nil
}

func (s *DefaultService) GetVersionByID(ctx context.Context, id string) (*domain.DocumentVersion, error) {
	version, err := s.repository.FindByID(ctx, id)
	if err != nil {
		return nil, wrapStoreErr(err)
	}
	return version, nil
}

func (s *DefaultService) GetStatusSummary(ctx context.Context, projectID, documentType string) (*StatusSummary, error) {
	v := s.cache.GetVersion(ctx, GroupVersionKey(projectID, documentType))
	cacheKey := fmt.Sprintf("summary:p:%s:t:%s:v:%d", projectID, documentType, v)

	var cached StatusSummary
	if found, _ := s.cache.Get(ctx, cacheKey, &cached); found {
		return &cached, nil
	}

	counts, err := s.repository.StatusCounts(ctx, projectID, documentType)
	if err != nil {
		return nil, wrapStoreErr(err)
	}

	summary := &StatusSummary{
		ProjectID:    projectID,
		DocumentType: documentType,
		Counts:       counts,
	}
	s.submitCacheSet(cacheKey, summary)

	return summary, nil
}

func (s *DefaultService) GetOccupiedSlots(ctx context.Context, projectID, documentType string) ([]string, error) {
	slots, err := s.repository.OccupiedSlots(ctx, projectID, documentType)
	if err != nil {
		return nil, wrapStoreErr(err)
	}
	return slots, nil
}

func (s *DefaultService) submitCacheSet(key string, value any) {
	s.pool.Submit(worker.Job{
		Name: "cache-set",
		Run: func(ctx context.Context) error {
			return s.cache.Set(ctx, key, value, s.cacheTTL)
		},
	})
}

// GroupVersionKey is bumped on every mutation touching the document type so
// version-keyed cache entries for its listings and summaries go stale at once.
func GroupVersionKey(projectID, documentType string) string {
	return fmt.Sprintf("docgroup:%s:%s:version", projectID, documentType)
}

// wrapStoreErr keeps typed engine errors intact and maps anything else the
// store throws (connection loss, timeouts) onto a retryable storage error.
func wrapStoreErr(err error) error {
	var apiErr *apierrors.APIError
	if defError.As(err, &apiErr) {
		return err
	}
	return apierrors.StorageUnavailable(err)
}
