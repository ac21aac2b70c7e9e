package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/readysetcloud/newsletter-service-sub010/internal/domain"
)

func TestStruct_Valid(t *testing.T) {
	e := domain.InboundEvent{
		TenantID: "t1",
		Type:     "SUBSCRIBER_ADDED",
		Data:     map[string]interface{}{"count": 1},
	}
	require.NoError(t, Struct(e))
}

func TestStruct_ReportsWireFieldNames(t *testing.T) {
	err := Struct(domain.InboundEvent{Type: "SUBSCRIBER_ADDED"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tenantId")
	assert.Contains(t, err.Error(), "data")
	assert.NotContains(t, err.Error(), "TenantID")
}
