package domain

import "time"

// Priority classifies how urgently a notification should surface in the dashboard.
type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// Status tracks whether the dashboard user has seen the notification.
// It is the only field that may change once a notification has been written.
type Status string

const (
	StatusUnread Status = "unread"
	StatusRead   Status = "read"
)

// Notification is the durable, user-facing record produced by the pipeline.
// UserID is empty for tenant-wide (system-level) notifications.
type Notification struct {
	ID            string                 `json:"id" dynamodbav:"notification_id"`
	TenantID      string                 `json:"tenantId" dynamodbav:"tenant_id"`
	UserID        string                 `json:"userId,omitempty" dynamodbav:"user_id,omitempty"`
	Type          string                 `json:"type" dynamodbav:"type"`
	Title         string                 `json:"title" dynamodbav:"title"`
	Message       string                 `json:"message" dynamodbav:"message"`
	Data          map[string]interface{} `json:"data,omitempty" dynamodbav:"data,omitempty"`
	Priority      Priority               `json:"priority" dynamodbav:"priority"`
	Actions       []string               `json:"actions,omitempty" dynamodbav:"actions,omitempty"`
	Icon          string                 `json:"icon,omitempty" dynamodbav:"icon,omitempty"`
	Status        Status                 `json:"status" dynamodbav:"status"`
	Timestamp     time.Time              `json:"timestamp" dynamodbav:"timestamp"`
	CreatedAt     time.Time              `json:"createdAt" dynamodbav:"created_at"`
	TTL           int64                  `json:"-" dynamodbav:"ttl"`
	CorrelationID string                 `json:"correlationId" dynamodbav:"correlation_id"`
}
