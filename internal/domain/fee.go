package domain

import "time"

// FeeType names a one-time monetary obligation, distinct from recurring billing.
type FeeType string

const (
	FeeTypeHirerPlatform     FeeType = "hirer_platform_fee"
	FeeTypeTalentMarketplace FeeType = "talent_marketplace_fee"
	FeeTypeSetup             FeeType = "setup_fee"
)

// KnownFeeType reports whether t is one of the supported fee types.
func KnownFeeType(t FeeType) bool {
	switch t {
	case FeeTypeHirerPlatform, FeeTypeTalentMarketplace, FeeTypeSetup:
		return true
	}
	return false
}

// FeeRecord tracks a single fee obligation for one (user, fee type) pair.
// It is created on the first checkout attempt and settled exactly once:
// PaidAt is monotonic, never cleared and never moved once set.
type FeeRecord struct {
	ID                string
	UserID            string
	FeeType           FeeType
	AmountCents       int64
	Currency          string
	PaidAt            *time.Time
	ExternalReference string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Paid reports whether the fee has been settled.
func (f *FeeRecord) Paid() bool {
	return f != nil && f.PaidAt != nil
}
