package realtime

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/readysetcloud/newsletter-service-sub010/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRedis records published messages and optionally fails.
type fakeRedis struct {
	channels []string
	err      error
}

func (f *fakeRedis) Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd {
	if f.err != nil {
		return redis.NewIntResult(0, f.err)
	}
	f.channels = append(f.channels, channel)
	return redis.NewIntResult(1, nil)
}

func sampleNotification() *domain.Notification {
	return &domain.Notification{
		ID:       "01ARZ",
		TenantID: "t1",
		Type:     "SUBSCRIBER_ADDED",
		Title:    "New Subscriber",
		Message:  "Your newsletter now has 42 subscribers.",
		Priority: domain.PriorityMedium,
		Status:   domain.StatusUnread,
	}
}

func TestTopicTenant(t *testing.T) {
	assert.Equal(t, "t1", TopicTenant(TenantTopic("t1")))
	assert.Equal(t, "t1", TopicTenant(TenantErrorTopic("t1")))
	assert.Equal(t, SystemTenant, TopicTenant(SystemErrorsTopic()))
	assert.Equal(t, "", TopicTenant("other.channel"))
}

func TestVendor_MintAndVerify(t *testing.T) {
	v := NewVendor("secret", time.Hour)

	cred, err := v.MintPublish("t1")
	require.NoError(t, err)
	assert.Equal(t, "t1", cred.TenantID)
	assert.Equal(t, ScopePublish, cred.Scope)
	assert.WithinDuration(t, time.Now().Add(time.Hour), cred.ExpiresAt, 5*time.Second)

	claims, err := v.Verify(cred.Token)
	require.NoError(t, err)
	assert.Equal(t, "t1", claims.TenantID)
	assert.Equal(t, ScopePublish, claims.Scope)
}

func TestVendor_MintRequiresTenant(t *testing.T) {
	v := NewVendor("secret", time.Hour)
	_, err := v.MintPublish("")
	assert.ErrorIs(t, err, domain.ErrCredential)
}

func TestVendor_RejectsExpiredToken(t *testing.T) {
	v := NewVendor("secret", -time.Minute)
	cred, err := v.MintSubscribe("t1")
	require.NoError(t, err)

	_, err = v.Verify(cred.Token)
	assert.Error(t, err)
}

func TestVendor_RejectsForeignSignature(t *testing.T) {
	cred, err := NewVendor("other-secret", time.Hour).MintPublish("t1")
	require.NoError(t, err)

	_, err = NewVendor("secret", time.Hour).Verify(cred.Token)
	assert.Error(t, err)
}

func TestPublisher_DeliversToOwnTenantTopic(t *testing.T) {
	v := NewVendor("secret", time.Hour)
	fake := &fakeRedis{}
	p := &Publisher{client: fake, vendor: v}

	cred, err := v.MintPublish("t1")
	require.NoError(t, err)

	err = p.Publish(context.Background(), cred, TenantTopic("t1"), sampleNotification())
	require.NoError(t, err)
	assert.Equal(t, []string{"notifications.t1"}, fake.channels)
}

func TestPublisher_RejectsCrossTenantPublish(t *testing.T) {
	v := NewVendor("secret", time.Hour)
	fake := &fakeRedis{}
	p := &Publisher{client: fake, vendor: v}

	cred, err := v.MintPublish("t1")
	require.NoError(t, err)

	err = p.Publish(context.Background(), cred, TenantTopic("t2"), sampleNotification())
	assert.ErrorIs(t, err, domain.ErrPublish)
	assert.Empty(t, fake.channels)
}

func TestPublisher_RejectsSubscribeScope(t *testing.T) {
	v := NewVendor("secret", time.Hour)
	fake := &fakeRedis{}
	p := &Publisher{client: fake, vendor: v}

	cred, err := v.MintSubscribe("t1")
	require.NoError(t, err)

	err = p.Publish(context.Background(), cred, TenantTopic("t1"), sampleNotification())
	assert.ErrorIs(t, err, domain.ErrPublish)
	assert.Empty(t, fake.channels)
}

func TestPublisher_WrapsTransportFailure(t *testing.T) {
	v := NewVendor("secret", time.Hour)
	fake := &fakeRedis{err: assert.AnError}
	p := &Publisher{client: fake, vendor: v}

	cred, err := v.MintPublish("t1")
	require.NoError(t, err)

	err = p.Publish(context.Background(), cred, TenantTopic("t1"), sampleNotification())
	assert.ErrorIs(t, err, domain.ErrPublish)
}
