package dynamo

import (
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPartitionKey(t *testing.T) {
	assert.Equal(t, "TENANT#t1#USER#u1", partitionKey("t1", "u1"))
	// Tenant-wide notifications have no user segment.
	assert.Equal(t, "TENANT#t1", partitionKey("t1", ""))
}

func TestSortKeys_OrderByTimestamp(t *testing.T) {
	earlier := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	later := time.Date(2026, 3, 1, 11, 0, 0, 0, time.UTC)

	assert.Less(t, sortKey(earlier, "01A"), sortKey(later, "01A"))
	assert.Less(t, feedSortKey(earlier, "01A"), feedSortKey(later, "01A"))
	assert.Equal(t, "NOTIFICATION#2026-03-01T10:00:00Z#01A", sortKey(earlier, "01A"))
}

func TestFeedPartitionKey(t *testing.T) {
	assert.Equal(t, "t1#notifications", feedPartitionKey("t1"))
}

func TestBuildUpdateExpr_SingleField(t *testing.T) {
	ue, err := buildUpdateExpr(map[string]interface{}{"status": "read"})
	require.NoError(t, err)
	assert.Equal(t, "SET #f0 = :v0", ue.Expr)
	assert.Equal(t, map[string]string{"#f0": "status"}, ue.Names)
	_, ok := ue.Values[":v0"]
	assert.True(t, ok)
}

func TestBuildUpdateExpr_MultipleFields_Deterministic(t *testing.T) {
	updates := map[string]interface{}{
		"status":  "read",
		"message": "hello",
		"title":   "hi",
	}
	// Call twice to verify determinism.
	ue1, err := buildUpdateExpr(updates)
	require.NoError(t, err)
	ue2, err := buildUpdateExpr(updates)
	require.NoError(t, err)

	assert.Equal(t, ue1.Expr, ue2.Expr)

	// Keys must be sorted: message < status < title
	assert.Equal(t, "message", ue1.Names["#f0"])
	assert.Equal(t, "status", ue1.Names["#f1"])
	assert.Equal(t, "title", ue1.Names["#f2"])
	assert.Equal(t, "SET #f0 = :v0, #f1 = :v1, #f2 = :v2", ue1.Expr)
}

func TestBuildUpdateExpr_ValuesMarshalledCorrectly(t *testing.T) {
	ue, err := buildUpdateExpr(map[string]interface{}{"ttl": int64(42)})
	require.NoError(t, err)
	av, ok := ue.Values[":v0"]
	require.True(t, ok)
	numVal, isNum := av.(*types.AttributeValueMemberN)
	require.True(t, isNum)
	assert.Equal(t, "42", numVal.Value)
}

func TestBuildUpdateExpr_EmptyMap_ReturnsError(t *testing.T) {
	_, err := buildUpdateExpr(map[string]interface{}{})
	assert.ErrorContains(t, err, "no fields to update")
}
