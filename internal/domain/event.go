package domain

import (
	"encoding/json"
	"time"
)

// Envelope is the raw event-bus message as delivered by upstream producers.
// Detail is left unparsed so malformed payloads can still be archived verbatim.
type Envelope struct {
	Source     string          `json:"source"`
	DetailType string          `json:"detail-type"`
	Detail     json.RawMessage `json:"detail"`
}

// InboundEvent is the normalized, validated detail of an envelope.
type InboundEvent struct {
	TenantID  string                 `json:"tenantId" validate:"required"`
	UserID    string                 `json:"userId"`
	Type      string                 `json:"type" validate:"required"`
	Data      map[string]interface{} `json:"data" validate:"required"`
	Timestamp time.Time              `json:"timestamp"`
	Source    string                 `json:"-"`
}
