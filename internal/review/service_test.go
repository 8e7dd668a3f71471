package review

import (
	"context"
	"errors"
	"testing"

	"land-document-service/internal/domain"
	apierrors "land-document-service/internal/errors"
	"land-document-service/redis"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// mock implementation of the Repository interface
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Lock(ctx context.Context, versionID, reviewerID string, reason *string) (*domain.DocumentVersion, error) {
	args := m.Called(ctx, versionID, reviewerID, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DocumentVersion), args.Error(1)
}

func (m *MockRepository) Unlock(ctx context.Context, versionID, reviewerID string, reason *string, force bool) (*domain.DocumentVersion, error) {
	args := m.Called(ctx, versionID, reviewerID, reason, force)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DocumentVersion), args.Error(1)
}

func (m *MockRepository) Complete(ctx context.Context, versionID, reviewerID, decision string, reason *string) (*domain.DocumentVersion, error) {
	args := m.Called(ctx, versionID, reviewerID, decision, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DocumentVersion), args.Error(1)
}

func (m *MockRepository) Archive(ctx context.Context, versionID, actorID string, reason *string) (*domain.DocumentVersion, error) {
	args := m.Called(ctx, versionID, actorID, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DocumentVersion), args.Error(1)
}

func newTestService(repo Repository) Service {
	return NewService(repo, redis.NewCache(nil))
}

func lockedVersion(reviewer string) *domain.DocumentVersion {
	return &domain.DocumentVersion{
		ID:            "v-2",
		ProjectID:     "proj-1",
		DocumentType:  "ownership-documents",
		Slot:          "D1",
		VersionNumber: 2,
		Status:        domain.StatusUnderReview,
		LockedBy:      &reviewer,
	}
}

func TestLock_Success(t *testing.T) {
	mockRepo := new(MockRepository)
	service := newTestService(mockRepo)

	mockRepo.On("Lock", mock.Anything, "v-2", "reviewer-1", (*string)(nil)).
		Return(lockedVersion("reviewer-1"), nil)

	version, err := service.Lock(context.Background(), "v-2", "reviewer-1", nil)

	assert.NoError(t, err)
	assert.Equal(t, domain.StatusUnderReview, version.Status)
	assert.Equal(t, "reviewer-1", *version.LockedBy)
	mockRepo.AssertExpectations(t)
}

func TestLock_AlreadyLockedPassesThrough(t *testing.T) {
	mockRepo := new(MockRepository)
	service := newTestService(mockRepo)

	mockRepo.On("Lock", mock.Anything, "v-2", "reviewer-2", (*string)(nil)).
		Return(nil, apierrors.AlreadyLocked("Version is already locked by another reviewer", nil))

	_, err := service.Lock(context.Background(), "v-2", "reviewer-2", nil)

	assert.True(t, apierrors.HasCode(err, apierrors.CodeAlreadyLocked))
}

func TestLock_WrapsUnknownStoreError(t *testing.T) {
	mockRepo := new(MockRepository)
	service := newTestService(mockRepo)

	mockRepo.On("Lock", mock.Anything, "v-2", "reviewer-1", (*string)(nil)).
		Return(nil, errors.New("connection reset"))

	_, err := service.Lock(context.Background(), "v-2", "reviewer-1", nil)

	assert.True(t, apierrors.HasCode(err, apierrors.CodeStorageUnavailable))
}

func TestUnlock_Success(t *testing.T) {
	mockRepo := new(MockRepository)
	service := newTestService(mockRepo)

	released := &domain.DocumentVersion{ID: "v-2", Status: domain.StatusPending}
	mockRepo.On("Unlock", mock.Anything, "v-2", "reviewer-1", (*string)(nil), false).
		Return(released, nil)

	version, err := service.Unlock(context.Background(), "v-2", "reviewer-1", nil)

	assert.NoError(t, err)
	assert.Equal(t, domain.StatusPending, version.Status)
	assert.Nil(t, version.LockedBy)
}

func TestForceUnlock_UsesForceFlag(t *testing.T) {
	mockRepo := new(MockRepository)
	service := newTestService(mockRepo)

	released := &domain.DocumentVersion{ID: "v-2", Status: domain.StatusPending}
	mockRepo.On("Unlock", mock.Anything, "v-2", "admin-1", (*string)(nil), true).
		Return(released, nil)

	_, err := service.ForceUnlock(context.Background(), "v-2", "admin-1", nil)

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestCompleteReview_Approved(t *testing.T) {
	mockRepo := new(MockRepository)
	service := newTestService(mockRepo)

	approved := &domain.DocumentVersion{ID: "v-2", Status: domain.StatusApproved}
	mockRepo.On("Complete", mock.Anything, "v-2", "reviewer-1", domain.StatusApproved, (*string)(nil)).
		Return(approved, nil)

	version, err := service.CompleteReview(context.Background(), "v-2", "reviewer-1", domain.StatusApproved, nil)

	assert.NoError(t, err)
	assert.Equal(t, domain.StatusApproved, version.Status)
}

func TestArchive_LockedVersionFails(t *testing.T) {
	mockRepo := new(MockRepository)
	service := newTestService(mockRepo)

	mockRepo.On("Archive", mock.Anything, "v-2", "user-1", (*string)(nil)).
		Return(nil, apierrors.CannotArchiveLocked("Version is locked for review, unlock it first", nil))

	_, err := service.Archive(context.Background(), "v-2", "user-1", nil)

	assert.True(t, apierrors.HasCode(err, apierrors.CodeCannotArchiveLocked))
}
