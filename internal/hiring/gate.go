// Package hiring decides whether a hiring party may engage talent and runs
// the hire request use case.
package hiring

import (
	"context"

	"server/internal/domain"
	"server/internal/fees"
)

// Decision is the gate's verdict. Reasons lists every unmet precondition,
// not just the first, so the caller can present a complete checklist.
type Decision struct {
	Allowed bool                    `json:"allowed"`
	Reasons []domain.BlockingReason `json:"reasons"`
}

// AgreementChecker is the slice of the agreement registry the gate reads.
type AgreementChecker interface {
	HasSigned(ctx context.Context, signerID string, kind domain.AgreementKind) (bool, error)
}

// Gate combines fee and agreement state into the hire authorization check.
// It is a pure read: no side effects, safe to call repeatedly and
// concurrently.
type Gate struct {
	ledger     *fees.Ledger
	agreements AgreementChecker
}

func NewGate(ledger *fees.Ledger, agreements AgreementChecker) *Gate {
	return &Gate{ledger: ledger, agreements: agreements}
}

// CanHire evaluates both hiring preconditions for the hirer: the platform
// fee must be settled and a fair treatment agreement must be signed.
func (g *Gate) CanHire(ctx context.Context, hirerID string) (Decision, error) {
	var reasons []domain.BlockingReason

	fee, err := g.ledger.GetStatus(ctx, hirerID, domain.FeeTypeHirerPlatform)
	if err != nil {
		return Decision{}, err
	}
	if !fee.Paid {
		reasons = append(reasons, domain.ReasonFeeUnpaid)
	}

	signed, err := g.agreements.HasSigned(ctx, hirerID, domain.AgreementKindFairTreatment)
	if err != nil {
		return Decision{}, err
	}
	if !signed {
		reasons = append(reasons, domain.ReasonAgreementUnsigned)
	}

	return Decision{Allowed: len(reasons) == 0, Reasons: reasons}, nil
}
