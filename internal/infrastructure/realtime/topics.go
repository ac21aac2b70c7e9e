// Package realtime delivers notifications to connected dashboard clients over
// per-tenant Redis pub/sub topics, guarded by short-lived scoped credentials.
package realtime

import "strings"

// SystemTenant owns the global operator channels.
const SystemTenant = "system"

const topicPrefix = "notifications."

// TenantTopic is a tenant's main notification channel.
func TenantTopic(tenantID string) string {
	return topicPrefix + tenantID
}

// TenantErrorTopic is a tenant's system-error channel.
func TenantErrorTopic(tenantID string) string {
	return TenantTopic(tenantID) + ".errors"
}

// SystemErrorsTopic is the global channel operators subscribe to.
func SystemErrorsTopic() string {
	return TenantErrorTopic(SystemTenant)
}

// TopicTenant extracts the owning tenant from a topic name, or "" when the
// name is not a notification topic.
func TopicTenant(topic string) string {
	if !strings.HasPrefix(topic, topicPrefix) {
		return ""
	}
	rest := strings.TrimPrefix(topic, topicPrefix)
	rest = strings.TrimSuffix(rest, ".errors")
	return rest
}
