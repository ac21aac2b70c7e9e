package pipeline

import (
	"fmt"
	"time"

	"github.com/readysetcloud/newsletter-service-sub010/internal/domain"
	"github.com/readysetcloud/newsletter-service-sub010/internal/pkg/id"
)

// Known event types. The set is open: anything else maps to the generic template.
const (
	TypeSubscriberAdded      = "SUBSCRIBER_ADDED"
	TypeSubscriberRemoved    = "SUBSCRIBER_REMOVED"
	TypeIssuePublished       = "ISSUE_PUBLISHED"
	TypeIssueScheduled       = "ISSUE_SCHEDULED"
	TypeIssueFailed          = "ISSUE_FAILED"
	TypeBrandUpdated         = "BRAND_UPDATED"
	TypeBillingPaymentFailed = "BILLING_PAYMENT_FAILED"
	TypeSystemError          = "SYSTEM_ERROR"
)

type template struct {
	title    string
	message  func(data map[string]interface{}) string
	priority domain.Priority
	actions  []string
	icon     string
}

// genericTemplate is the required fallback: any type missing from the table
// still produces a well-formed notification instead of an error.
var genericTemplate = template{
	title:    "Notification",
	message:  func(map[string]interface{}) string { return "You have a new notification." },
	priority: domain.PriorityMedium,
	actions:  []string{"view_details"},
	icon:     "bell",
}

// templates maps event types to user-facing notification templates.
// Built once at process start and never mutated.
var templates = map[string]template{
	TypeSubscriberAdded: {
		title: "New Subscriber",
		message: func(data map[string]interface{}) string {
			return fmt.Sprintf("Your newsletter now has %d subscribers.", num(data, "totalSubscribers"))
		},
		priority: domain.PriorityMedium,
		actions:  []string{"view_subscribers"},
		icon:     "user-plus",
	},
	TypeSubscriberRemoved: {
		title: "Subscriber Left",
		message: func(data map[string]interface{}) string {
			return fmt.Sprintf("A subscriber unsubscribed; %d remain.", num(data, "totalSubscribers"))
		},
		priority: domain.PriorityLow,
		actions:  []string{"view_subscribers"},
		icon:     "user-minus",
	},
	TypeIssuePublished: {
		title: "Issue Published",
		message: func(data map[string]interface{}) string {
			return fmt.Sprintf("%q was delivered to %d subscribers.", str(data, "title"), num(data, "recipients"))
		},
		priority: domain.PriorityMedium,
		actions:  []string{"view_issue"},
		icon:     "send",
	},
	TypeIssueScheduled: {
		title: "Issue Scheduled",
		message: func(data map[string]interface{}) string {
			return fmt.Sprintf("%q is scheduled for delivery.", str(data, "title"))
		},
		priority: domain.PriorityLow,
		actions:  []string{"view_issue"},
		icon:     "clock",
	},
	TypeIssueFailed: {
		title: "Issue Delivery Failed",
		message: func(data map[string]interface{}) string {
			return fmt.Sprintf("Delivery of %q failed. No emails were sent.", str(data, "title"))
		},
		priority: domain.PriorityHigh,
		actions:  []string{"retry_send", "view_logs"},
		icon:     "alert-triangle",
	},
	TypeBrandUpdated: {
		title:    "Brand Updated",
		message:  func(map[string]interface{}) string { return "Your brand settings were updated." },
		priority: domain.PriorityLow,
		actions:  []string{"view_brand"},
		icon:     "edit",
	},
	TypeBillingPaymentFailed: {
		title: "Payment Failed",
		message: func(map[string]interface{}) string {
			return "Your latest payment could not be processed. Update your payment method to keep sending."
		},
		priority: domain.PriorityCritical,
		actions:  []string{"update_payment_method"},
		icon:     "credit-card",
	},
	TypeSystemError: {
		title: "System Error",
		message: func(data map[string]interface{}) string {
			op := str(data, "operation")
			if op == "" {
				op = "a recent event"
			}
			return fmt.Sprintf("Something went wrong while processing %s. Our team has been notified.", op)
		},
		priority: domain.PriorityCritical,
		actions:  []string{"contact_support"},
		icon:     "alert-octagon",
	},
}

func lookupTemplate(eventType string) template {
	if tpl, ok := templates[eventType]; ok {
		return tpl
	}
	return genericTemplate
}

// formatNotification maps a validated event onto a durable notification.
// Total over all inputs: unknown types fall back to the generic template and
// missing interpolation fields degrade to zero values.
func formatNotification(event *domain.InboundEvent, correlationID string, ttl time.Duration) *domain.Notification {
	tpl := lookupTemplate(event.Type)
	now := time.Now().UTC()
	return &domain.Notification{
		ID:            id.New(),
		TenantID:      event.TenantID,
		UserID:        event.UserID,
		Type:          event.Type,
		Title:         tpl.title,
		Message:       tpl.message(event.Data),
		Data:          event.Data,
		Priority:      tpl.priority,
		Actions:       append([]string(nil), tpl.actions...),
		Icon:          tpl.icon,
		Status:        domain.StatusUnread,
		Timestamp:     event.Timestamp,
		CreatedAt:     now,
		TTL:           now.Add(ttl).Unix(),
		CorrelationID: correlationID,
	}
}

// num reads a numeric field out of untyped JSON data, defaulting to 0.
func num(data map[string]interface{}, key string) int64 {
	switch v := data[key].(type) {
	case float64:
		return int64(v)
	case int:
		return int64(v)
	case int64:
		return v
	default:
		return 0
	}
}

// str reads a string field out of untyped JSON data, defaulting to "".
func str(data map[string]interface{}, key string) string {
	if v, ok := data[key].(string); ok {
		return v
	}
	return ""
}
