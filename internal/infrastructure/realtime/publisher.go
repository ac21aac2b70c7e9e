package realtime

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/readysetcloud/newsletter-service-sub010/internal/domain"
)

// redisPublisher is the slice of the Redis client the publisher needs.
type redisPublisher interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

// Publisher pushes serialized notifications onto tenant topics. Every publish
// presents a credential; the publisher enforces that the credential is
// publish-scoped, unexpired, and matches the target topic's tenant. Cross-tenant
// publishes are rejected here, not by downstream filtering.
type Publisher struct {
	client redisPublisher
	vendor *Vendor
}

func NewPublisher(client *redis.Client, vendor *Vendor) *Publisher {
	return &Publisher{client: client, vendor: vendor}
}

// Publish sends the JSON-serialized notification to topic. Delivery is
// at-most-once: clients not subscribed at publish time never see the message
// and must catch up from the durable store.
func (p *Publisher) Publish(ctx context.Context, cred *Credential, topic string, n *domain.Notification) error {
	if cred == nil {
		return fmt.Errorf("%w: missing credential", domain.ErrPublish)
	}
	claims, err := p.vendor.Verify(cred.Token)
	if err != nil {
		return fmt.Errorf("%w: invalid credential: %v", domain.ErrPublish, err)
	}
	if claims.Scope != ScopePublish {
		return fmt.Errorf("%w: credential scope %q cannot publish", domain.ErrPublish, claims.Scope)
	}
	if tenant := TopicTenant(topic); tenant == "" || tenant != claims.TenantID {
		return fmt.Errorf("%w: credential for tenant %q cannot publish to %q", domain.ErrPublish, claims.TenantID, topic)
	}

	payload, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("%w: marshal notification: %v", domain.ErrPublish, err)
	}
	if err := p.client.Publish(ctx, topic, payload).Err(); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrPublish, err)
	}
	return nil
}

// NewRedisClient connects to Redis and validates the connection.
func NewRedisClient(ctx context.Context, addr, password string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connect to redis at %s: %w", addr, err)
	}
	return client, nil
}
