// Package queue defines message payloads exchanged over the message broker
// and the background consumer that drains them.
package queue

// Queue name for the audit stream. Declared durable by both ends.
const AuditQueueName = "audit.events"

// Audit event kinds published by the API.
const (
	EventAccountRegistered = "account.registered"
	EventLoginSucceeded    = "login.succeeded"
	EventTwoFactorEnabled  = "twofactor.enabled"
	EventPasswordChanged   = "password.changed"
	EventAssignmentCreated = "assignment.created"
	EventBillingRecorded   = "billing.recorded"
	EventDeliveryUpdated   = "delivery.updated"
)

// AuditEvent is published whenever something security- or staffing-relevant
// happens. It carries enough for downstream consumers to log or alert
// without querying the primary database.
type AuditEvent struct {
	Kind       string `json:"kind"`
	AccountID  uint64 `json:"account_id,omitempty"`
	Email      string `json:"email,omitempty"`
	EntityID   uint64 `json:"entity_id,omitempty"`
	Detail     string `json:"detail,omitempty"`
	OccurredAt string `json:"occurred_at"`
}
