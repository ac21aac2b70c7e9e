package pipeline

import (
	"testing"
	"time"

	"github.com/readysetcloud/newsletter-service-sub010/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnvelope_Valid(t *testing.T) {
	raw := []byte(`{
		"source": "newsletter.subscriptions",
		"detail-type": "SUBSCRIBER_ADDED",
		"detail": {
			"tenantId": "t1",
			"userId": "u1",
			"type": "SUBSCRIBER_ADDED",
			"data": {"totalSubscribers": 42},
			"timestamp": "2026-03-01T10:00:00Z"
		}
	}`)

	event, err := parseEnvelope(raw)
	require.NoError(t, err)
	assert.Equal(t, "t1", event.TenantID)
	assert.Equal(t, "u1", event.UserID)
	assert.Equal(t, "SUBSCRIBER_ADDED", event.Type)
	assert.Equal(t, float64(42), event.Data["totalSubscribers"])
	assert.Equal(t, "newsletter.subscriptions", event.Source)
	assert.Equal(t, time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC), event.Timestamp)
}

func TestParseEnvelope_DefaultsTimestamp(t *testing.T) {
	raw := []byte(`{"source":"s","detail":{"tenantId":"t1","type":"X","data":{"k":"v"}}}`)

	before := time.Now().UTC()
	event, err := parseEnvelope(raw)
	require.NoError(t, err)
	assert.False(t, event.Timestamp.Before(before))
}

func TestParseEnvelope_MissingRequiredFields(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{"no tenant", `{"detail":{"type":"X","data":{"k":"v"}}}`},
		{"no type", `{"detail":{"tenantId":"t1","data":{"k":"v"}}}`},
		{"no data", `{"detail":{"tenantId":"t1","type":"X"}}`},
		{"no detail", `{"source":"s"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := parseEnvelope([]byte(tc.raw))
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
}

func TestParseEnvelope_MalformedJSON(t *testing.T) {
	_, err := parseEnvelope([]byte(`{not json`))
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = parseEnvelope([]byte(`{"detail": "not an object"}`))
	assert.ErrorIs(t, err, domain.ErrValidation)
}
