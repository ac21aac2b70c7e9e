package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/readysetcloud/newsletter-service-sub010/internal/domain"
	"github.com/readysetcloud/newsletter-service-sub010/internal/infrastructure/metrics"
	"github.com/readysetcloud/newsletter-service-sub010/internal/infrastructure/realtime"
	"github.com/readysetcloud/newsletter-service-sub010/internal/pkg/id"
	"github.com/readysetcloud/newsletter-service-sub010/internal/pkg/retry"
)

// Mode selects how the realtime publish relates to the durable write.
type Mode string

const (
	// ModeBlocking sequences write then publish; publish exhaustion escalates.
	ModeBlocking Mode = "blocking"
	// ModeAsync returns after the durable write; the publish runs in the
	// background and is observed only through metrics and logs.
	ModeAsync Mode = "async"
)

// NotificationStore is the durable write path. Failure here fails the invocation.
type NotificationStore interface {
	Put(ctx context.Context, n *domain.Notification) error
}

// CredentialMinter issues publish-scoped topic credentials.
type CredentialMinter interface {
	MintPublish(tenantID string) (*realtime.Credential, error)
}

// TopicPublisher delivers a notification to one topic under a credential.
type TopicPublisher interface {
	Publish(ctx context.Context, cred *realtime.Credential, topic string, n *domain.Notification) error
}

// EnvelopeArchiver stores raw envelopes the pipeline could not process.
type EnvelopeArchiver interface {
	ArchiveEnvelope(ctx context.Context, correlationID string, raw []byte) (string, error)
}

// AlertSender notifies operators when the pipeline escalates.
type AlertSender interface {
	SendAlert(ctx context.Context, subject, message string) error
}

// ServiceDeps wires the pipeline's collaborators. Archive and Alerts are
// optional; everything else is required.
type ServiceDeps struct {
	Store       NotificationStore
	Credentials CredentialMinter
	Publisher   TopicPublisher
	Archive     EnvelopeArchiver
	Alerts      AlertSender

	Mode            Mode
	NotificationTTL time.Duration
	PublishTimeout  time.Duration
	Retry           retry.Policy
}

// Service processes one inbound envelope per invocation:
// parse, format, durable write, best-effort realtime publish.
type Service interface {
	Process(ctx context.Context, raw []byte) (*domain.Notification, error)
}

type service struct {
	ServiceDeps
}

func NewService(deps ServiceDeps) Service {
	if deps.Mode == "" {
		deps.Mode = ModeBlocking
	}
	if deps.NotificationTTL <= 0 {
		deps.NotificationTTL = 30 * 24 * time.Hour
	}
	if deps.PublishTimeout <= 0 {
		deps.PublishTimeout = 5 * time.Second
	}
	if deps.Retry.MaxAttempts == 0 {
		deps.Retry = retry.DefaultPolicy()
	}
	return &service{ServiceDeps: deps}
}

// Process returns an error only for validation failures and durable-write
// failures. The realtime publish never fails the invocation: once the
// notification is durably stored, clients can always catch up from the store.
func (s *service) Process(ctx context.Context, raw []byte) (*domain.Notification, error) {
	correlationID := id.New()
	log := slog.With("correlation_id", correlationID)

	event, err := parseEnvelope(raw)
	if err != nil {
		metrics.EventsRejected.WithLabelValues("invalid_envelope").Inc()
		log.Error("rejected inbound event", "operation", "parse", "err", err)
		s.deadLetter(ctx, log, correlationID, raw, "parse")
		return nil, err
	}

	source := event.Source
	if source == "" {
		source = "unknown"
	}
	metrics.EventsReceived.WithLabelValues(source).Inc()
	log = log.With("tenant", event.TenantID, "type", event.Type)

	n := formatNotification(event, correlationID, s.NotificationTTL)

	if err := s.Store.Put(ctx, n); err != nil {
		metrics.StoreFailed.WithLabelValues(event.TenantID).Inc()
		log.Error("durable write failed", "operation", "durable_write", "notification_id", n.ID, "err", err)
		s.deadLetter(ctx, log, correlationID, raw, "durable_write")
		if s.Mode == ModeBlocking {
			s.escalate(ctx, log, event, correlationID, "durable_write", err)
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrDurableWrite, err)
	}
	metrics.Stored.WithLabelValues(event.TenantID).Inc()

	if s.Mode == ModeAsync {
		// The invocation must not wait on the realtime service, and the
		// publish must not be cancelled when the invocation returns.
		bg := context.WithoutCancel(ctx)
		go s.publishAndObserve(bg, log, n)
		return n, nil
	}

	if err := s.publishTo(ctx, realtime.TenantTopic(n.TenantID), n); err != nil {
		metrics.PublishFailed.WithLabelValues(n.TenantID, errorLabel(err)).Inc()
		log.Warn("realtime publish abandoned", "operation", "realtime_publish", "notification_id", n.ID, "err", err)
		s.escalate(ctx, log, event, correlationID, "realtime_publish", err)
	} else {
		metrics.Published.WithLabelValues(n.TenantID).Inc()
	}
	return n, nil
}

// publishAndObserve is the async-mode publish path: its outcome is reported
// through metrics and logs only.
func (s *service) publishAndObserve(ctx context.Context, log *slog.Logger, n *domain.Notification) {
	if err := s.publishTo(ctx, realtime.TenantTopic(n.TenantID), n); err != nil {
		metrics.PublishFailed.WithLabelValues(n.TenantID, errorLabel(err)).Inc()
		log.Warn("realtime publish abandoned", "operation", "realtime_publish", "notification_id", n.ID, "err", err)
		return
	}
	metrics.Published.WithLabelValues(n.TenantID).Inc()
}

// publishTo mints a publish credential for the topic's tenant and delivers the
// notification, retrying both steps and bounding the whole path by the publish
// timeout.
func (s *service) publishTo(ctx context.Context, topic string, n *domain.Notification) error {
	ctx, cancel := context.WithTimeout(ctx, s.PublishTimeout)
	defer cancel()

	tenant := realtime.TopicTenant(topic)
	var cred *realtime.Credential
	err := retry.Do(ctx, s.Retry, "mint_publish_credential", func(ctx context.Context) error {
		c, err := s.Credentials.MintPublish(tenant)
		if err != nil {
			return err
		}
		cred = c
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrCredential, err)
	}

	err = retry.Do(ctx, s.Retry, "publish_notification", func(ctx context.Context) error {
		return s.Publisher.Publish(ctx, cred, topic, n)
	})
	if err != nil {
		if errors.Is(err, domain.ErrPublish) {
			return err
		}
		return fmt.Errorf("%w: %v", domain.ErrPublish, err)
	}
	return nil
}

// escalate converts a processing failure into a SYSTEM_ERROR notification and
// pushes it through the same durable-write + best-effort-publish path, fanned
// out to the global system-errors channel, the tenant error channel, and (for
// critical severity) the tenant's main channel. Escalation never recurses:
// every failure inside this function is logged once and swallowed.
func (s *service) escalate(ctx context.Context, log *slog.Logger, event *domain.InboundEvent, correlationID, failedOp string, cause error) {
	metrics.Escalated.WithLabelValues(event.TenantID).Inc()

	sysEvent := &domain.InboundEvent{
		TenantID: event.TenantID,
		Type:     TypeSystemError,
		Data: map[string]interface{}{
			"error":          cause.Error(),
			"errorType":      errorLabel(cause),
			"operation":      failedOp,
			"attempts":       s.Retry.MaxAttempts,
			"originalType":   event.Type,
			"originalSource": event.Source,
		},
		Timestamp: time.Now().UTC(),
		Source:    "notification-pipeline",
	}
	n := formatNotification(sysEvent, correlationID, s.NotificationTTL)

	if err := s.Store.Put(ctx, n); err != nil {
		log.Error("escalation abandoned: durable write failed",
			"operation", "escalate",
			"failed_operation", failedOp,
			"err", fmt.Errorf("%w: %v", domain.ErrEscalation, err),
		)
		return
	}

	topics := []string{realtime.SystemErrorsTopic(), realtime.TenantErrorTopic(event.TenantID)}
	if n.Priority == domain.PriorityCritical {
		topics = append(topics, realtime.TenantTopic(event.TenantID))
	}
	for _, topic := range topics {
		if err := s.publishTo(ctx, topic, n); err != nil {
			log.Warn("escalation publish failed",
				"operation", "escalate",
				"topic", topic,
				"err", fmt.Errorf("%w: %v", domain.ErrEscalation, err),
			)
		}
	}

	if s.Alerts != nil {
		subject := fmt.Sprintf("[notification-service] %s failed for tenant %s", failedOp, event.TenantID)
		body := fmt.Sprintf("operation=%s tenant=%s correlation_id=%s error=%v", failedOp, event.TenantID, correlationID, cause)
		if err := s.Alerts.SendAlert(ctx, subject, body); err != nil {
			log.Warn("operator alert failed", "operation", "escalate", "err", err)
		}
	}
}

// deadLetter archives the raw envelope for later replay. Best-effort.
func (s *service) deadLetter(ctx context.Context, log *slog.Logger, correlationID string, raw []byte, reason string) {
	if s.Archive == nil {
		return
	}
	key, err := s.Archive.ArchiveEnvelope(ctx, correlationID, raw)
	if err != nil {
		log.Error("dead-letter archive failed", "reason", reason, "err", err)
		return
	}
	metrics.DeadLettered.WithLabelValues(reason).Inc()
	log.Info("envelope archived", "reason", reason, "key", key)
}

// errorLabel maps an error onto a low-cardinality metric label.
func errorLabel(err error) string {
	switch {
	case errors.Is(err, domain.ErrCredential):
		return "credential"
	case errors.Is(err, domain.ErrPublish):
		return "publish"
	case errors.Is(err, domain.ErrDurableWrite):
		return "durable_write"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	default:
		return "other"
	}
}
