package domain

import "time"

// EventKind enumerates the notification contract shared with the dispatcher.
type EventKind string

const (
	EventHireRequestCreated EventKind = "HIRE_REQUEST_CREATED"
	EventAgreementAssigned  EventKind = "AGREEMENT_ASSIGNED"
	EventAgreementSigned    EventKind = "AGREEMENT_SIGNED"
)

// NotificationEvent is one outbox row. Events are enqueued in the same
// transaction as the state change they describe, which is what makes
// emission exactly-once per transition; delivery retries belong to the
// dispatcher, not to this core.
type NotificationEvent struct {
	ID           string
	Kind         EventKind
	RecipientID  string
	Payload      []byte
	CreatedAt    time.Time
	DispatchedAt *time.Time
}
