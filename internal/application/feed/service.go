package feed

import (
	"context"
	"fmt"

	"github.com/readysetcloud/newsletter-service-sub010/internal/domain"
)

// Repository is the slice of the notification store the feed needs.
type Repository interface {
	ListByUser(ctx context.Context, tenantID, userID string, unreadOnly bool) ([]domain.Notification, error)
	ListTenantFeed(ctx context.Context, tenantID string, limit int32) ([]domain.Notification, error)
	Get(ctx context.Context, tenantID, userID, notificationID string) (*domain.Notification, error)
	MarkAsRead(ctx context.Context, tenantID, userID, notificationID string) (*domain.Notification, error)
}

// Service is the dashboard's read path over stored notifications. Notifications
// are an unordered set keyed by timestamp, not a log: the pipeline gives no
// cross-invocation ordering guarantee.
type Service interface {
	ListForUser(ctx context.Context, tenantID, userID string, unreadOnly bool) ([]domain.Notification, error)
	TenantFeed(ctx context.Context, tenantID string, limit int32) ([]domain.Notification, error)
	MarkAsRead(ctx context.Context, tenantID, userID, notificationID string) (*domain.Notification, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) ListForUser(ctx context.Context, tenantID, userID string, unreadOnly bool) ([]domain.Notification, error) {
	return s.repo.ListByUser(ctx, tenantID, userID, unreadOnly)
}

func (s *service) TenantFeed(ctx context.Context, tenantID string, limit int32) ([]domain.Notification, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.repo.ListTenantFeed(ctx, tenantID, limit)
}

func (s *service) MarkAsRead(ctx context.Context, tenantID, userID, notificationID string) (*domain.Notification, error) {
	n, err := s.repo.Get(ctx, tenantID, userID, notificationID)
	if err != nil {
		return nil, err
	}
	if n.TenantID != tenantID {
		return nil, fmt.Errorf("notification belongs to another tenant: %w", domain.ErrForbidden)
	}
	return s.repo.MarkAsRead(ctx, tenantID, userID, notificationID)
}
