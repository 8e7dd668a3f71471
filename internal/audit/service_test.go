package audit

import (
	"context"
	"testing"

	"land-document-service/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// mock implementation of the Repository interface
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) List(ctx context.Context, filter Filter, page, pageSize int) ([]domain.AuditEntry, int64, error) {
	args := m.Called(ctx, filter, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]domain.AuditEntry), args.Get(1).(int64), args.Error(2)
}

func TestQuery_BuildsPaginationMeta(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo)

	entries := []domain.AuditEntry{
		{ID: "a-3", ActionType: domain.ActionArchive},
		{ID: "a-2", ActionType: domain.ActionReviewLock},
	}
	mockRepo.On("List", mock.Anything, Filter{ProjectID: "proj-1"}, 2, 2).
		Return(entries, int64(5), nil)

	result, err := service.Query(context.Background(), Filter{ProjectID: "proj-1"}, 2, 2)

	assert.NoError(t, err)
	assert.Len(t, result.Data, 2)
	assert.Equal(t, int64(5), result.Meta.Total)
	assert.Equal(t, 2, result.Meta.CurrentPage)
	assert.Equal(t, 3, result.Meta.TotalPage)
	mockRepo.AssertExpectations(t)
}

func TestQuery_EmptyTrail(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo)

	mockRepo.On("List", mock.Anything, mock.Anything, 1, 10).
		Return([]domain.AuditEntry{}, int64(0), nil)

	result, err := service.Query(context.Background(), Filter{ProjectID: "proj-9"}, 1, 10)

	assert.NoError(t, err)
	assert.Empty(t, result.Data)
	assert.Equal(t, 0, result.Meta.TotalPage)
}
