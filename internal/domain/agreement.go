package domain

import "time"

// AgreementKind enumerates the reusable legal template categories.
type AgreementKind string

const (
	AgreementKindNDA           AgreementKind = "NDA"
	AgreementKindFairTreatment AgreementKind = "FAIR_TREATMENT"
	AgreementKindService       AgreementKind = "SERVICE"
	AgreementKindTerms         AgreementKind = "TERMS"
)

// KnownAgreementKind reports whether k is a supported template kind.
func KnownAgreementKind(k AgreementKind) bool {
	switch k {
	case AgreementKindNDA, AgreementKindFairTreatment, AgreementKindService, AgreementKindTerms:
		return true
	}
	return false
}

// AgreementTemplate is the immutable legal text definition assignments are
// instantiated from. A template is never edited once an assignment references
// it; revisions create a new template row and deactivate the previous one.
type AgreementTemplate struct {
	ID        string
	Kind      AgreementKind
	Version   int
	Title     string
	BodyRef   string
	IsActive  bool
	CreatedAt time.Time
}

// AssignmentStatus enumerates agreement assignment lifecycle states.
type AssignmentStatus string

const (
	AssignmentStatusDraft     AssignmentStatus = "DRAFT"
	AssignmentStatusPending   AssignmentStatus = "PENDING"
	AssignmentStatusSigned    AssignmentStatus = "SIGNED"
	AssignmentStatusOverdue   AssignmentStatus = "OVERDUE"
	AssignmentStatusCancelled AssignmentStatus = "CANCELLED"
)

// Terminal reports whether no further transitions are possible.
func (s AssignmentStatus) Terminal() bool {
	return s == AssignmentStatusSigned || s == AssignmentStatusCancelled
}

// AgreementAssignment is a concrete obligation for one signer to execute one
// template in a given context. ContextRef carries the hire request ID for
// engagement countersignatures and is nil for standalone assignments.
type AgreementAssignment struct {
	ID         string
	TemplateID string
	SignerID   string
	ContextRef *string
	Status     AssignmentStatus
	DueAt      *time.Time
	SignedAt   *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// DeadlineElapsed reports whether the assignment is past its due date and
// still awaiting signature.
func (a *AgreementAssignment) DeadlineElapsed(now time.Time) bool {
	return a != nil && a.Status == AssignmentStatusPending && a.DueAt != nil && a.DueAt.Before(now)
}

// AuditAction enumerates recorded agreement audit trail actions.
type AuditAction string

const (
	AuditActionAssigned  AuditAction = "assigned"
	AuditActionViewed    AuditAction = "viewed"
	AuditActionSigned    AuditAction = "signed"
	AuditActionCancelled AuditAction = "cancelled"
)

// AgreementAuditEntry records one observed action on an assignment, together
// with the network evidence captured at the time.
type AgreementAuditEntry struct {
	ID           string
	AssignmentID string
	ActorID      string
	Action       AuditAction
	IPAddress    string
	Country      string
	CreatedAt    time.Time
}
