// Package fees tracks one-time fee obligations and their settlement state.
package fees

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"server/internal/domain"
)

// Amounts of each one-time fee, in cents. Fee pricing is fixed platform
// configuration, not user data.
const (
	hirerPlatformFeeCents     = 2000
	talentMarketplaceFeeCents = 700
	setupFeeCents             = 1500

	defaultCurrency = "USD"
)

// AmountCents returns the price of a fee type.
func AmountCents(t domain.FeeType) int64 {
	switch t {
	case domain.FeeTypeHirerPlatform:
		return hirerPlatformFeeCents
	case domain.FeeTypeTalentMarketplace:
		return talentMarketplaceFeeCents
	default:
		return setupFeeCents
	}
}

// Status is the ledger's answer about one (user, fee type) obligation.
// Absence of a record simply means unpaid.
type Status struct {
	Paid   bool
	Record *domain.FeeRecord
}

// Checkout describes a started payment session for the gateway redirect.
type Checkout struct {
	Reference   string `json:"reference"`
	CheckoutURL string `json:"checkout_url"`
	AmountCents int64  `json:"amount_cents"`
	Currency    string `json:"currency"`
	AlreadyPaid bool   `json:"already_paid"`
}

// Ledger owns all writes to fee records.
type Ledger struct {
	records domain.FeeRepository
	logger  zerolog.Logger

	checkoutBaseURL string
	now             func() time.Time
	newID           func() string
}

func NewLedger(records domain.FeeRepository, logger zerolog.Logger, checkoutBaseURL string) *Ledger {
	return &Ledger{
		records:         records,
		logger:          logger,
		checkoutBaseURL: checkoutBaseURL,
		now:             time.Now,
		newID:           uuid.NewString,
	}
}

// GetStatus reports whether the user has settled the given fee. It never
// fails on absence.
func (l *Ledger) GetStatus(ctx context.Context, userID string, feeType domain.FeeType) (Status, error) {
	rec, err := l.records.GetByUserAndType(ctx, userID, feeType)
	if err != nil {
		if err == domain.ErrNotFound {
			return Status{}, nil
		}
		return Status{}, err
	}
	return Status{Paid: rec.Paid(), Record: rec}, nil
}

// StartCheckout creates the fee record on first attempt and returns the
// session the client is redirected to. Calling it again before settlement
// reuses the pending record.
func (l *Ledger) StartCheckout(ctx context.Context, userID string, feeType domain.FeeType) (*Checkout, error) {
	if !domain.KnownFeeType(feeType) {
		return nil, fmt.Errorf("unknown fee type %q", feeType)
	}

	rec, err := l.records.GetByUserAndType(ctx, userID, feeType)
	if err != nil && err != domain.ErrNotFound {
		return nil, err
	}
	if rec == nil {
		rec = &domain.FeeRecord{
			ID:                l.newID(),
			UserID:            userID,
			FeeType:           feeType,
			AmountCents:       AmountCents(feeType),
			Currency:          defaultCurrency,
			ExternalReference: fmt.Sprintf("%s_%s_%d", feeType, userID, l.now().UnixMilli()),
		}
		if err := l.records.Create(ctx, rec); err != nil {
			return nil, err
		}
		// A concurrent checkout may have won the insert; the stored row is
		// authoritative either way.
		stored, err := l.records.GetByUserAndType(ctx, userID, feeType)
		if err != nil {
			return nil, err
		}
		rec = stored
	}

	checkout := &Checkout{
		Reference:   rec.ExternalReference,
		AmountCents: rec.AmountCents,
		Currency:    rec.Currency,
		AlreadyPaid: rec.Paid(),
	}
	if !rec.Paid() {
		checkout.CheckoutURL = fmt.Sprintf("%s/checkout?ref=%s&amount=%d&currency=%s",
			l.checkoutBaseURL, rec.ExternalReference, rec.AmountCents, rec.Currency)
	}
	return checkout, nil
}

// RecordSettlement applies a settlement confirmation from the payment
// collaborator. It is idempotent: a record that is already paid is returned
// unchanged, so duplicate gateway callbacks are safe. A reference that was
// previously recorded against a different obligation is a reconciliation
// conflict and leaves the user unpaid.
func (l *Ledger) RecordSettlement(ctx context.Context, userID string, feeType domain.FeeType, externalReference string) (*domain.FeeRecord, error) {
	if !domain.KnownFeeType(feeType) {
		return nil, fmt.Errorf("unknown fee type %q", feeType)
	}

	if externalReference != "" {
		known, err := l.records.GetByReference(ctx, externalReference)
		if err != nil && err != domain.ErrNotFound {
			return nil, err
		}
		if known != nil && (known.UserID != userID || known.FeeType != feeType) {
			l.logger.Warn().
				Str("reference", externalReference).
				Str("user_id", userID).
				Str("fee_type", string(feeType)).
				Msg("settlement reference collides with another obligation")
			return nil, &domain.SettlementConflictError{Reference: externalReference, UserID: userID, FeeType: feeType}
		}
	}

	rec, err := l.records.GetByUserAndType(ctx, userID, feeType)
	if err != nil && err != domain.ErrNotFound {
		return nil, err
	}
	if rec == nil {
		// Settlement landed before any checkout attempt was stored. Accept
		// it: the gateway is the source of truth for payment facts.
		rec = &domain.FeeRecord{
			ID:                l.newID(),
			UserID:            userID,
			FeeType:           feeType,
			AmountCents:       AmountCents(feeType),
			Currency:          defaultCurrency,
			ExternalReference: externalReference,
		}
		if err := l.records.Create(ctx, rec); err != nil {
			return nil, err
		}
		stored, err := l.records.GetByUserAndType(ctx, userID, feeType)
		if err != nil {
			return nil, err
		}
		rec = stored
	}

	if rec.Paid() {
		return rec, nil
	}
	return l.records.MarkPaid(ctx, rec.ID, l.now(), externalReference)
}

// WithClock overrides the ledger clock. Test hook.
func (l *Ledger) WithClock(now func() time.Time) *Ledger {
	l.now = now
	return l
}
