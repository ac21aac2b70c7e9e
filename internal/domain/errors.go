package domain

import "errors"

// Sentinel errors for domain-level error discrimination.
// The pipeline and handlers wrap these so callers can map outcomes
// (fail the invocation, swallow, escalate) without inspecting SDK errors.
var (
	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("forbidden")
	ErrUnauthorized = errors.New("unauthorized")

	// ErrValidation marks a malformed inbound event: fatal, never retried,
	// no notification is produced.
	ErrValidation = errors.New("validation failed")
	// ErrDurableWrite marks a failed store write. It is the only pipeline
	// error allowed to fail the whole invocation.
	ErrDurableWrite = errors.New("durable write failed")
	// ErrCredential marks a failure to obtain a scoped publish credential.
	ErrCredential = errors.New("credential generation failed")
	// ErrPublish marks a failed or timed-out real-time publish.
	ErrPublish = errors.New("realtime publish failed")
	// ErrEscalation marks a failure while delivering a system-error
	// notification. Logged only, never re-escalated.
	ErrEscalation = errors.New("escalation failed")
)
