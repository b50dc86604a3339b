package hiring

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"server/internal/domain"
	"server/internal/fees"
)

type fakeChecker struct {
	signed map[string]bool
}

func (f *fakeChecker) HasSigned(_ context.Context, signerID string, kind domain.AgreementKind) (bool, error) {
	if kind != domain.AgreementKindFairTreatment {
		return false, nil
	}
	return f.signed[signerID], nil
}

func gateWith(t *testing.T, feePaid, agreementSigned bool) *Gate {
	t.Helper()
	store := newMemStore()
	if feePaid {
		paidAt := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
		store.fees[feeKey("hirer-1", domain.FeeTypeHirerPlatform)] = &domain.FeeRecord{
			ID:      "fee-1",
			UserID:  "hirer-1",
			FeeType: domain.FeeTypeHirerPlatform,
			PaidAt:  &paidAt,
		}
	}
	ledger := fees.NewLedger(memFees{store}, zerolog.Nop(), "https://pay.example.com")
	return NewGate(ledger, &fakeChecker{signed: map[string]bool{"hirer-1": agreementSigned}})
}

func TestCanHire_AllConditionsMet(t *testing.T) {
	g := gateWith(t, true, true)
	decision, err := g.CanHire(context.Background(), "hirer-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !decision.Allowed || len(decision.Reasons) != 0 {
		t.Fatalf("expected allowed with no reasons, got %+v", decision)
	}
}

func TestCanHire_ReportsEveryUnmetCondition(t *testing.T) {
	cases := []struct {
		name      string
		feePaid   bool
		signed    bool
		wantCount int
		want      []domain.BlockingReason
	}{
		{name: "fee unpaid only", feePaid: false, signed: true, wantCount: 1, want: []domain.BlockingReason{domain.ReasonFeeUnpaid}},
		{name: "agreement unsigned only", feePaid: true, signed: false, wantCount: 1, want: []domain.BlockingReason{domain.ReasonAgreementUnsigned}},
		{name: "both unmet", feePaid: false, signed: false, wantCount: 2, want: []domain.BlockingReason{domain.ReasonFeeUnpaid, domain.ReasonAgreementUnsigned}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			g := gateWith(t, tc.feePaid, tc.signed)
			decision, err := g.CanHire(context.Background(), "hirer-1")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if decision.Allowed {
				t.Fatal("expected not allowed")
			}
			if len(decision.Reasons) != tc.wantCount {
				t.Fatalf("expected %d reasons, got %v", tc.wantCount, decision.Reasons)
			}
			for i, want := range tc.want {
				if decision.Reasons[i] != want {
					t.Fatalf("reason %d: expected %s, got %s", i, want, decision.Reasons[i])
				}
			}
		})
	}
}
