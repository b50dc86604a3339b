package domain

import "time"

// HireStatus enumerates hire request lifecycle states.
type HireStatus string

const (
	HireStatusPendingAgreement HireStatus = "PENDING_AGREEMENT"
	HireStatusAccepted         HireStatus = "ACCEPTED"
	HireStatusDeclined         HireStatus = "DECLINED"
	HireStatusWithdrawn        HireStatus = "WITHDRAWN"
)

// CanTransition reports whether a hire request may move from s to next.
// All terminal decisions branch out of PENDING_AGREEMENT; there are no
// transitions between terminal states.
func (s HireStatus) CanTransition(next HireStatus) bool {
	if s != HireStatusPendingAgreement {
		return false
	}
	switch next {
	case HireStatusAccepted, HireStatusDeclined, HireStatusWithdrawn:
		return true
	}
	return false
}

// HireRequest is an engagement request from a hiring party to a talent.
// It is created only after the hiring gate passes and always together with
// its countersigning AgreementAssignment.
type HireRequest struct {
	ID                    string
	HirerID               string
	TalentID              string
	ProjectTitle          string
	ProjectDescription    string
	Status                HireStatus
	AgreementAssignmentID *string
	CreatedAt             time.Time
	UpdatedAt             time.Time
}
