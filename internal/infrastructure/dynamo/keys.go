package dynamo

import (
	"fmt"
	"time"
)

// Key layout for the single notifications table:
//
//	PK     TENANT#<tenant>#USER#<user>   (TENANT#<tenant> for tenant-wide records)
//	SK     NOTIFICATION#<RFC3339 ts>#<id>
//	GSI1PK <tenant>#notifications        (tenant-feed-index)
//	GSI1SK <RFC3339 ts>#<id>
//
// Both per-user queries (main table) and tenant-wide feeds (GSI) stay cheap,
// and sort keys order records by event time.

const (
	feedIndexName = "tenant-feed-index"
	skPrefix      = "NOTIFICATION#"
)

func partitionKey(tenantID, userID string) string {
	if userID == "" {
		return fmt.Sprintf("TENANT#%s", tenantID)
	}
	return fmt.Sprintf("TENANT#%s#USER#%s", tenantID, userID)
}

func sortKey(ts time.Time, id string) string {
	return fmt.Sprintf("%s%s#%s", skPrefix, ts.UTC().Format(time.RFC3339), id)
}

func feedPartitionKey(tenantID string) string {
	return fmt.Sprintf("%s#notifications", tenantID)
}

func feedSortKey(ts time.Time, id string) string {
	return fmt.Sprintf("%s#%s", ts.UTC().Format(time.RFC3339), id)
}
