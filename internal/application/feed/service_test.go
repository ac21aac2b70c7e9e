package feed

import (
	"context"
	"testing"

	"github.com/readysetcloud/newsletter-service-sub010/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockRepo struct{ mock.Mock }

func (m *mockRepo) ListByUser(ctx context.Context, tenantID, userID string, unreadOnly bool) ([]domain.Notification, error) {
	args := m.Called(ctx, tenantID, userID, unreadOnly)
	if ns, _ := args.Get(0).([]domain.Notification); ns != nil {
		return ns, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRepo) ListTenantFeed(ctx context.Context, tenantID string, limit int32) ([]domain.Notification, error) {
	args := m.Called(ctx, tenantID, limit)
	if ns, _ := args.Get(0).([]domain.Notification); ns != nil {
		return ns, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRepo) Get(ctx context.Context, tenantID, userID, notificationID string) (*domain.Notification, error) {
	args := m.Called(ctx, tenantID, userID, notificationID)
	if n, _ := args.Get(0).(*domain.Notification); n != nil {
		return n, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRepo) MarkAsRead(ctx context.Context, tenantID, userID, notificationID string) (*domain.Notification, error) {
	args := m.Called(ctx, tenantID, userID, notificationID)
	if n, _ := args.Get(0).(*domain.Notification); n != nil {
		return n, args.Error(1)
	}
	return nil, args.Error(1)
}

func TestTenantFeed_ClampsLimit(t *testing.T) {
	repo := &mockRepo{}
	repo.On("ListTenantFeed", mock.Anything, "t1", int32(50)).Return([]domain.Notification{}, nil)

	_, err := NewService(repo).TenantFeed(context.Background(), "t1", 0)
	require.NoError(t, err)
	_, err = NewService(repo).TenantFeed(context.Background(), "t1", 500)
	require.NoError(t, err)
	repo.AssertNumberOfCalls(t, "ListTenantFeed", 2)
}

func TestMarkAsRead_CrossTenantForbidden(t *testing.T) {
	repo := &mockRepo{}
	repo.On("Get", mock.Anything, "t1", "u1", "n1").
		Return(&domain.Notification{ID: "n1", TenantID: "t2"}, nil)

	_, err := NewService(repo).MarkAsRead(context.Background(), "t1", "u1", "n1")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	repo.AssertNotCalled(t, "MarkAsRead", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestMarkAsRead_NotFound(t *testing.T) {
	repo := &mockRepo{}
	repo.On("Get", mock.Anything, "t1", "u1", "missing").Return(nil, domain.ErrNotFound)

	_, err := NewService(repo).MarkAsRead(context.Background(), "t1", "u1", "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestMarkAsRead_OK(t *testing.T) {
	repo := &mockRepo{}
	repo.On("Get", mock.Anything, "t1", "u1", "n1").
		Return(&domain.Notification{ID: "n1", TenantID: "t1", Status: domain.StatusUnread}, nil)
	repo.On("MarkAsRead", mock.Anything, "t1", "u1", "n1").
		Return(&domain.Notification{ID: "n1", TenantID: "t1", Status: domain.StatusRead}, nil)

	n, err := NewService(repo).MarkAsRead(context.Background(), "t1", "u1", "n1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusRead, n.Status)
}
