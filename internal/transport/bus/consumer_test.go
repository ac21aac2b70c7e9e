package bus

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/readysetcloud/newsletter-service-sub010/internal/domain"
	"github.com/readysetcloud/newsletter-service-sub010/internal/pkg/retry"
)

type mockProcessor struct{ mock.Mock }

func (m *mockProcessor) Process(ctx context.Context, raw []byte) (*domain.Notification, error) {
	args := m.Called(ctx, raw)
	if n, _ := args.Get(0).(*domain.Notification); n != nil {
		return n, args.Error(1)
	}
	return nil, args.Error(1)
}

func testConsumer(p Processor) *Consumer {
	return &Consumer{
		handler: p,
		backoff: retry.Policy{MaxAttempts: 3, BaseDelay: time.Millisecond, MaxDelay: time.Millisecond},
	}
}

func TestHandleMessage_CommitsAfterStore(t *testing.T) {
	p := &mockProcessor{}
	p.On("Process", mock.Anything, mock.Anything).
		Return(&domain.Notification{ID: "n1", TenantID: "t1"}, nil).Once()
	c := testConsumer(p)

	err := c.handleMessage(context.Background(), kafka.Message{Value: []byte(`{}`), Offset: 5})

	require.NoError(t, err)
	p.AssertNumberOfCalls(t, "Process", 1)
}

func TestHandleMessage_ReprocessesSameMessageUntilStored(t *testing.T) {
	p := &mockProcessor{}
	raw := []byte(`{"detail-type":"SUBSCRIBER_ADDED"}`)
	p.On("Process", mock.Anything, raw).
		Return(nil, fmt.Errorf("put notification: %w", domain.ErrDurableWrite)).Twice()
	p.On("Process", mock.Anything, raw).
		Return(&domain.Notification{ID: "n1", TenantID: "t1"}, nil).Once()
	c := testConsumer(p)

	err := c.handleMessage(context.Background(), kafka.Message{Value: raw, Offset: 5})

	// returns commit-eligible only once the write landed, all three calls on
	// the same payload
	require.NoError(t, err)
	p.AssertNumberOfCalls(t, "Process", 3)
	p.AssertExpectations(t)
}

func TestHandleMessage_InvalidEnvelopeCommitsImmediately(t *testing.T) {
	p := &mockProcessor{}
	p.On("Process", mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("missing tenant: %w", domain.ErrValidation)).Once()
	c := testConsumer(p)

	err := c.handleMessage(context.Background(), kafka.Message{Value: []byte("not-json")})

	require.NoError(t, err)
	p.AssertNumberOfCalls(t, "Process", 1)
}

func TestHandleMessage_CancelStopsReprocessing(t *testing.T) {
	p := &mockProcessor{}
	p.On("Process", mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("put notification: %w", domain.ErrDurableWrite))
	c := testConsumer(p)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := c.handleMessage(ctx, kafka.Message{Value: []byte(`{}`)})

	assert.ErrorIs(t, err, context.Canceled)
}

func TestShouldCommit_Success(t *testing.T) {
	assert.True(t, shouldCommit(nil))
}

func TestShouldCommit_ValidationFailure(t *testing.T) {
	err := fmt.Errorf("missing tenant: %w", domain.ErrValidation)
	assert.True(t, shouldCommit(err))
}

func TestShouldCommit_DurableWriteFailure(t *testing.T) {
	err := fmt.Errorf("put notification: %w", domain.ErrDurableWrite)
	assert.False(t, shouldCommit(err))
}
