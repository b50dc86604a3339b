package agreements

import (
	"time"

	"server/internal/domain"
)

// The signing state machine. Every assignment status mutation in the system
// goes through these transition functions; repositories persist whatever
// they return and never decide transitions themselves.
//
//	DRAFT ──publish──▶ PENDING ──sign──▶ SIGNED
//	                      │                ▲
//	                 deadline          sign (late)
//	                      ▼                │
//	                   OVERDUE ────────────┘
//	   PENDING/OVERDUE ──cancel──▶ CANCELLED

// Publish moves a draft assignment into the signer's queue.
func Publish(a *domain.AgreementAssignment) (domain.AssignmentStatus, error) {
	if a.Status != domain.AssignmentStatusDraft {
		return a.Status, &domain.InvalidTransitionError{From: string(a.Status), Event: "publish"}
	}
	return domain.AssignmentStatusPending, nil
}

// Sign applies a signature attempt. Signing is not idempotent: a second
// attempt on a SIGNED assignment indicates a client bug or a replay and
// must surface instead of silently succeeding. A late signature on an
// OVERDUE assignment is still accepted.
func Sign(a *domain.AgreementAssignment, signerID string) (domain.AssignmentStatus, error) {
	switch a.Status {
	case domain.AssignmentStatusPending, domain.AssignmentStatusOverdue:
	default:
		return a.Status, &domain.InvalidTransitionError{From: string(a.Status), Event: "sign"}
	}
	if a.SignerID != signerID {
		return a.Status, domain.ErrUnauthorized
	}
	return domain.AssignmentStatusSigned, nil
}

// DeadlineElapsed applies the lazy OVERDUE correction. It only fires while
// the assignment is still PENDING; OVERDUE never returns to PENDING.
func DeadlineElapsed(a *domain.AgreementAssignment, now time.Time) (domain.AssignmentStatus, bool) {
	if a.DeadlineElapsed(now) {
		return domain.AssignmentStatusOverdue, true
	}
	return a.Status, false
}

// Cancel voids an unsigned assignment. Authority is checked by the caller;
// the machine only validates the state.
func Cancel(a *domain.AgreementAssignment) (domain.AssignmentStatus, error) {
	switch a.Status {
	case domain.AssignmentStatusPending, domain.AssignmentStatusOverdue:
		return domain.AssignmentStatusCancelled, nil
	default:
		return a.Status, &domain.InvalidTransitionError{From: string(a.Status), Event: "cancel"}
	}
}
