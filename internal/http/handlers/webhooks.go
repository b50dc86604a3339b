package handlers

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"

	"server/internal/domain"
)

type settlementWebhookRequest struct {
	UserID            string `json:"user_id"`
	FeeType           string `json:"fee_type"`
	ExternalReference string `json:"external_reference"`
}

// SettlementWebhook receives settlement confirmations from the payment
// gateway. The gateway retries deliveries, so the handler leans on the
// ledger's idempotency instead of deduplicating itself.
func (a *App) SettlementWebhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "unreadable body")
		return
	}
	if !a.verifySettlementSignature(r, body) {
		a.error(w, http.StatusUnauthorized, "unauthorized", "invalid signature")
		return
	}

	var req settlementWebhookRequest
	if err := json.Unmarshal(body, &req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	feeType := domain.FeeType(req.FeeType)
	if req.UserID == "" || req.ExternalReference == "" || !domain.KnownFeeType(feeType) {
		a.error(w, http.StatusBadRequest, "bad_request", "user_id, fee_type and external_reference are required")
		return
	}

	record, err := a.Ledger.RecordSettlement(r.Context(), req.UserID, feeType, req.ExternalReference)
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{
		"fee_type": record.FeeType,
		"paid":     record.Paid(),
		"paid_at":  record.PaidAt,
	})
}

func (a *App) verifySettlementSignature(r *http.Request, body []byte) bool {
	secret, err := a.Creds.SettlementWebhookSecret(r.Context())
	if err != nil || secret == "" {
		secret = a.WebhookSecret
	}
	if secret == "" {
		a.Logger.Error().Msg("settlement webhook secret not configured")
		return false
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	want := hex.EncodeToString(mac.Sum(nil))
	got := r.Header.Get("X-Settlement-Signature")
	return got != "" && hmac.Equal([]byte(got), []byte(want))
}
