package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrTemplateNotFound   = errors.New("no active agreement template")
	ErrNotEligible        = errors.New("hiring requirements not met")
	ErrInvalidTransition  = errors.New("invalid assignment transition")
	ErrSettlementConflict = errors.New("settlement reference conflict")
	ErrTransient          = errors.New("transient storage fault")
)

// BlockingReason names one unmet hiring precondition.
type BlockingReason string

const (
	ReasonFeeUnpaid         BlockingReason = "fee_unpaid"
	ReasonAgreementUnsigned BlockingReason = "agreement_unsigned"
)

// NotEligibleError carries every unmet precondition so callers can present a
// complete checklist instead of the first failure only.
type NotEligibleError struct {
	Reasons []BlockingReason
}

func (e *NotEligibleError) Error() string {
	parts := make([]string, len(e.Reasons))
	for i, r := range e.Reasons {
		parts[i] = string(r)
	}
	return "not eligible to hire: " + strings.Join(parts, ", ")
}

func (e *NotEligibleError) Unwrap() error { return ErrNotEligible }

// InvalidTransitionError reports a state machine violation, including the
// state and event so replays and client bugs surface with context.
type InvalidTransitionError struct {
	From  string
	Event string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot %s record in status %s", e.Event, e.From)
}

func (e *InvalidTransitionError) Unwrap() error { return ErrInvalidTransition }

// SettlementConflictError indicates a settlement reference previously
// recorded against a different (user, fee type) pair: gateway misrouting.
// It is reported for manual reconciliation and never treated as fatal.
type SettlementConflictError struct {
	Reference string
	UserID    string
	FeeType   FeeType
}

func (e *SettlementConflictError) Error() string {
	return fmt.Sprintf("settlement reference %s already recorded for another obligation", e.Reference)
}

func (e *SettlementConflictError) Unwrap() error { return ErrSettlementConflict }
