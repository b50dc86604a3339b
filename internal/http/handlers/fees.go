package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"server/internal/domain"
)

type checkoutRequest struct {
	FeeType string `json:"fee_type"`
}

type feeStatusDTO struct {
	FeeType   string     `json:"fee_type"`
	Paid      bool       `json:"paid"`
	PaidAt    *time.Time `json:"paid_at"`
	Reference string     `json:"reference,omitempty"`
}

// FeesStatus reports the caller's standing on every known fee type.
func (a *App) FeesStatus(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	feeTypes := []domain.FeeType{
		domain.FeeTypeHirerPlatform,
		domain.FeeTypeTalentMarketplace,
		domain.FeeTypeSetup,
	}
	items := make([]feeStatusDTO, 0, len(feeTypes))
	for _, ft := range feeTypes {
		status, err := a.Ledger.GetStatus(r.Context(), userID, ft)
		if err != nil {
			a.domainError(w, err)
			return
		}
		dto := feeStatusDTO{FeeType: string(ft), Paid: status.Paid}
		if status.Record != nil {
			dto.PaidAt = status.Record.PaidAt
			dto.Reference = status.Record.ExternalReference
		}
		items = append(items, dto)
	}
	a.json(w, http.StatusOK, map[string]any{"items": items})
}

// FeesCheckout starts a payment session for the caller. Repeating the call
// before settlement returns a fresh session for the same pending record.
func (a *App) FeesCheckout(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	feeType := domain.FeeType(req.FeeType)
	if !domain.KnownFeeType(feeType) {
		a.error(w, http.StatusBadRequest, "bad_request", "unknown fee type")
		return
	}
	checkout, err := a.Ledger.StartCheckout(r.Context(), a.currentUserID(r), feeType)
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, checkout)
}
