package domain

import (
	"context"
	"time"
)

// UserRepository defines read access to accounts.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*User, error)
}

// FeeRepository defines persistence for fee records. Only the fee ledger
// writes through this interface.
type FeeRepository interface {
	Create(ctx context.Context, record *FeeRecord) error
	GetByUserAndType(ctx context.Context, userID string, feeType FeeType) (*FeeRecord, error)
	GetByReference(ctx context.Context, reference string) (*FeeRecord, error)
	// MarkPaid settles the record only when PaidAt is still null and returns
	// the stored row either way, keeping the timestamp monotonic.
	MarkPaid(ctx context.Context, id string, paidAt time.Time, reference string) (*FeeRecord, error)
}

// TemplateRepository defines persistence for agreement templates.
type TemplateRepository interface {
	Create(ctx context.Context, tpl *AgreementTemplate) error
	GetByID(ctx context.Context, id string) (*AgreementTemplate, error)
	ActiveByKind(ctx context.Context, kind AgreementKind) (*AgreementTemplate, error)
	Deactivate(ctx context.Context, id string) error
	List(ctx context.Context) ([]AgreementTemplate, error)
}

// AssignmentRepository defines persistence for agreement assignments. Status
// mutations happen only through the signing state machine's owning service.
type AssignmentRepository interface {
	Create(ctx context.Context, a *AgreementAssignment) error
	GetByID(ctx context.Context, id string) (*AgreementAssignment, error)
	GetByContextRef(ctx context.Context, contextRef string) (*AgreementAssignment, error)
	ListBySigner(ctx context.Context, signerID string) ([]AgreementAssignment, error)
	ListAll(ctx context.Context, limit int) ([]AgreementAssignment, error)
	HasSigned(ctx context.Context, signerID string, kind AgreementKind) (bool, error)
	UpdateStatus(ctx context.Context, id string, status AssignmentStatus, signedAt *time.Time) error
	// MarkOverdue persists the lazy OVERDUE correction, guarded so it only
	// applies while the row is still PENDING.
	MarkOverdue(ctx context.Context, id string) error
}

// HireRepository defines persistence for hire requests.
type HireRepository interface {
	Create(ctx context.Context, h *HireRequest) error
	GetByID(ctx context.Context, id string) (*HireRequest, error)
	ListByHirer(ctx context.Context, hirerID string) ([]HireRequest, error)
	ListByTalent(ctx context.Context, talentID string) ([]HireRequest, error)
	UpdateStatus(ctx context.Context, id string, status HireStatus) error
}

// NotificationRepository is the outbox. Enqueue participates in the caller's
// transaction when built over a transactional executor.
type NotificationRepository interface {
	Enqueue(ctx context.Context, event *NotificationEvent) error
	ListUndispatched(ctx context.Context, limit int) ([]NotificationEvent, error)
	MarkDispatched(ctx context.Context, id string, at time.Time) error
	ListByRecipient(ctx context.Context, recipientID string, limit int) ([]NotificationEvent, error)
}

// AuditRepository appends and reads the agreement audit trail.
type AuditRepository interface {
	Append(ctx context.Context, entry *AgreementAuditEntry) error
	ListByAssignment(ctx context.Context, assignmentID string) ([]AgreementAuditEntry, error)
}
