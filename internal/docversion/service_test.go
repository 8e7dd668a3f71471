package docversion

import (
	"context"
	"errors"
	"testing"
	"time"

	"land-document-service/internal/domain"
	apierrors "land-document-service/internal/errors"
	"land-document-service/internal/slot"
	"land-document-service/internal/worker"
	"land-document-service/redis"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// mock implementation of the Repository interface
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) CreateVersion(ctx context.Context, input CreateInput) (*CreateResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*CreateResult), args.Error(1)
}

func (m *MockRepository) ListVersions(ctx context.Context, projectID, documentType, slot string) ([]domain.DocumentVersion, error) {
	args := m.Called(ctx, projectID, documentType, slot)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.DocumentVersion), args.Error(1)
}

func (m *MockRepository) FindByID(ctx context.Context, id string) (*domain.DocumentVersion, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DocumentVersion), args.Error(1)
}

func (m *MockRepository) StatusCounts(ctx context.Context, projectID, documentType string) ([]StatusCount, error) {
	args := m.Called(ctx, projectID, documentType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]StatusCount), args.Error(1)
}

func (m *MockRepository) OccupiedSlots(ctx context.Context, projectID, documentType string) ([]string, error) {
	args := m.Called(ctx, projectID, documentType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func newTestService(repo Repository) Service {
	allocator := slot.NewAllocator([]string{"ownership-documents"})
	cache := redis.NewCache(nil)
	pool := worker.NewPool(1, 10)
	return NewService(repo, allocator, cache, pool, time.Minute)
}

func validRequest() CreateRequest {
	return CreateRequest{
		ProjectID:    "proj-1",
		DocumentType: "ownership-documents",
		Slot:         "D1",
		FileName:     "certificate.pdf",
		FileSize:     2048,
		ContentType:  "application/pdf",
		StorageKey:   "proj-1/ownership/cert-v1.pdf",
		ActorID:      "user-1",
	}
}

func TestCreateVersion_Success(t *testing.T) {
	mockRepo := new(MockRepository)
	service := newTestService(mockRepo)

	version := &domain.DocumentVersion{ID: "v-1", VersionNumber: 1, IsLatest: true, Status: domain.StatusPending}
	mockRepo.On("CreateVersion", mock.Anything, mock.MatchedBy(func(in CreateInput) bool {
		return in.Slot == "D1" && in.ProjectID == "proj-1"
	})).Return(&CreateResult{Version: version}, nil)

	result, err := service.CreateVersion(context.Background(), validRequest())

	assert.NoError(t, err)
	assert.Equal(t, "v-1", result.Version.ID)
	assert.Nil(t, result.ReviewConflict)
	mockRepo.AssertExpectations(t)
}

func TestCreateVersion_EmptySlotResolvesToDefault(t *testing.T) {
	mockRepo := new(MockRepository)
	service := newTestService(mockRepo)

	req := validRequest()
	req.DocumentType = "land-survey"
	req.Slot = ""

	version := &domain.DocumentVersion{ID: "v-1", VersionNumber: 1}
	mockRepo.On("CreateVersion", mock.Anything, mock.MatchedBy(func(in CreateInput) bool {
		return in.Slot == slot.DefaultSlot
	})).Return(&CreateResult{Version: version}, nil)

	_, err := service.CreateVersion(context.Background(), req)

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestCreateVersion_InvalidSlot(t *testing.T) {
	mockRepo := new(MockRepository)
	service := newTestService(mockRepo)

	req := validRequest()
	req.Slot = "D3"

	_, err := service.CreateVersion(context.Background(), req)

	assert.True(t, apierrors.HasCode(err, apierrors.CodeInvalidSlot))
	mockRepo.AssertNotCalled(t, "CreateVersion")
}

func TestCreateVersion_RetriesOnceOnWriteConflict(t *testing.T) {
	mockRepo := new(MockRepository)
	service := newTestService(mockRepo)

	version := &domain.DocumentVersion{ID: "v-2", VersionNumber: 2}
	conflict := apierrors.WriteConflict("Concurrent upload detected, please retry", nil)
	mockRepo.On("CreateVersion", mock.Anything, mock.Anything).Return(nil, conflict).Once()
	mockRepo.On("CreateVersion", mock.Anything, mock.Anything).Return(&CreateResult{Version: version}, nil).Once()

	result, err := service.CreateVersion(context.Background(), validRequest())

	assert.NoError(t, err)
	assert.Equal(t, 2, result.Version.VersionNumber)
	mockRepo.AssertNumberOfCalls(t, "CreateVersion", 2)
}

func TestCreateVersion_SurfacesRepeatedWriteConflict(t *testing.T) {
	mockRepo := new(MockRepository)
	service := newTestService(mockRepo)

	conflict := apierrors.WriteConflict("Concurrent upload detected, please retry", nil)
	mockRepo.On("CreateVersion", mock.Anything, mock.Anything).Return(nil, conflict).Twice()

	_, err := service.CreateVersion(context.Background(), validRequest())

	assert.True(t, apierrors.HasCode(err, apierrors.CodeWriteConflict))
	mockRepo.AssertNumberOfCalls(t, "CreateVersion", 2)
}

func TestCreateVersion_ReportsReviewConflict(t *testing.T) {
	mockRepo := new(MockRepository)
	service := newTestService(mockRepo)

	reviewer := "reviewer-1"
	prev := &domain.DocumentVersion{
		ID:            "v-2",
		VersionNumber: 2,
		Status:        domain.StatusUnderReview,
		LockedBy:      &reviewer,
	}
	version := &domain.DocumentVersion{ID: "v-3", VersionNumber: 3, IsLatest: true}
	mockRepo.On("CreateVersion", mock.Anything, mock.Anything).
		Return(&CreateResult{Version: version, SupersededInReview: prev}, nil)

	result, err := service.CreateVersion(context.Background(), validRequest())

	assert.NoError(t, err)
	assert.NotNil(t, result.ReviewConflict)
	assert.Equal(t, "v-2", result.ReviewConflict.VersionID)
	assert.Equal(t, "reviewer-1", result.ReviewConflict.LockedBy)
}

func TestCreateVersion_WrapsUnknownStoreError(t *testing.T) {
	mockRepo := new(MockRepository)
	service := newTestService(mockRepo)

	mockRepo.On("CreateVersion", mock.Anything, mock.Anything).
		Return(nil, errors.New("connection refused"))

	_, err := service.CreateVersion(context.Background(), validRequest())

	assert.True(t, apierrors.HasCode(err, apierrors.CodeStorageUnavailable))
}

func TestListVersions_Success(t *testing.T) {
	mockRepo := new(MockRepository)
	service := newTestService(mockRepo)

	versions := []domain.DocumentVersion{
		{ID: "v-1", VersionNumber: 1},
		{ID: "v-2", VersionNumber: 2},
	}
	mockRepo.On("ListVersions", mock.Anything, "proj-1", "ownership-documents", "D1").
		Return(versions, nil)

	result, err := service.ListVersions(context.Background(), "proj-1", "ownership-documents", "D1")

	assert.NoError(t, err)
	assert.Len(t, result, 2)
	mockRepo.AssertExpectations(t)
}

func TestGetStatusSummary_Success(t *testing.T) {
	mockRepo := new(MockRepository)
	service := newTestService(mockRepo)

	counts := []StatusCount{
		{Slot: "D1", Status: domain.StatusPending, Count: 1},
		{Slot: "D1", Status: domain.StatusArchived, Count: 3},
	}
	mockRepo.On("StatusCounts", mock.Anything, "proj-1", "ownership-documents").Return(counts, nil)

	summary, err := service.GetStatusSummary(context.Background(), "proj-1", "ownership-documents")

	assert.NoError(t, err)
	assert.Equal(t, "proj-1", summary.ProjectID)
	assert.Len(t, summary.Counts, 2)
}

func TestGetOccupiedSlots_Success(t *testing.T) {
	mockRepo := new(MockRepository)
	service := newTestService(mockRepo)

	mockRepo.On("OccupiedSlots", mock.Anything, "proj-1", "ownership-documents").
		Return([]string{"D1", "D2"}, nil)

	slots, err := service.GetOccupiedSlots(context.Background(), "proj-1", "ownership-documents")

	assert.NoError(t, err)
	assert.Equal(t, []string{"D1", "D2"}, slots)
}
