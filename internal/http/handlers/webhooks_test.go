package handlers

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"

	"server/internal/domain"
	"server/internal/fees"
	"server/internal/infra/credentials"
)

const testWebhookSecret = "test-webhook-secret"

// emptySQL satisfies infra.SQLExecutor with no stored rows, so the
// credentials store falls back to the configured env secret.
type emptySQL struct{}

func (emptySQL) Exec(context.Context, string, ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}

func (emptySQL) QueryRow(context.Context, string, ...any) pgx.Row {
	return SimpleRow{}
}

func (emptySQL) Query(context.Context, string, ...any) (pgx.Rows, error) {
	return nil, pgx.ErrNoRows
}

func webhookApp(repo *fakeFeeRepo) *App {
	return &App{
		Ledger:        fees.NewLedger(repo, zerolog.Nop(), "https://pay.example.com"),
		Creds:         credentials.NewStore(emptySQL{}),
		Logger:        zerolog.Nop(),
		WebhookSecret: testWebhookSecret,
	}
}

func signBody(body []byte) string {
	mac := hmac.New(sha256.New, []byte(testWebhookSecret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestSettlementWebhook_SettlesFee(t *testing.T) {
	repo := newFakeFeeRepo()
	app := webhookApp(repo)

	body, _ := json.Marshal(map[string]string{
		"user_id":            "hirer-1",
		"fee_type":           "hirer_platform_fee",
		"external_reference": "gw-42",
	})
	req := httptest.NewRequest("POST", "/v1/webhooks/settlement", bytes.NewReader(body))
	req.Header.Set("X-Settlement-Signature", signBody(body))
	rr := httptest.NewRecorder()

	app.SettlementWebhook(rr, req)

	if rr.Code != 200 {
		t.Fatalf("unexpected status: got %d body %s", rr.Code, rr.Body.String())
	}
	var resp struct {
		Paid bool `json:"paid"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.Paid {
		t.Fatal("expected fee marked paid")
	}

	rec, err := repo.GetByUserAndType(context.Background(), "hirer-1", domain.FeeTypeHirerPlatform)
	if err != nil || !rec.Paid() {
		t.Fatalf("expected stored paid record, got %+v err %v", rec, err)
	}
}

func TestSettlementWebhook_DuplicateDeliveryIsSafe(t *testing.T) {
	repo := newFakeFeeRepo()
	app := webhookApp(repo)

	body, _ := json.Marshal(map[string]string{
		"user_id":            "hirer-1",
		"fee_type":           "hirer_platform_fee",
		"external_reference": "gw-42",
	})
	for i := 0; i < 2; i++ {
		req := httptest.NewRequest("POST", "/v1/webhooks/settlement", bytes.NewReader(body))
		req.Header.Set("X-Settlement-Signature", signBody(body))
		rr := httptest.NewRecorder()
		app.SettlementWebhook(rr, req)
		if rr.Code != 200 {
			t.Fatalf("delivery %d: unexpected status %d", i, rr.Code)
		}
	}
	rec, _ := repo.GetByUserAndType(context.Background(), "hirer-1", domain.FeeTypeHirerPlatform)
	if rec == nil || !rec.Paid() {
		t.Fatal("expected paid record after duplicate deliveries")
	}
}

func TestSettlementWebhook_InvalidSignature(t *testing.T) {
	app := webhookApp(newFakeFeeRepo())

	body := []byte(`{"user_id":"hirer-1","fee_type":"hirer_platform_fee","external_reference":"gw-42"}`)
	req := httptest.NewRequest("POST", "/v1/webhooks/settlement", bytes.NewReader(body))
	req.Header.Set("X-Settlement-Signature", "deadbeef")
	rr := httptest.NewRecorder()

	app.SettlementWebhook(rr, req)

	if rr.Code != 401 {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
}

func TestSettlementWebhook_MissingFields(t *testing.T) {
	app := webhookApp(newFakeFeeRepo())

	body := []byte(`{"user_id":"","fee_type":"hirer_platform_fee"}`)
	req := httptest.NewRequest("POST", "/v1/webhooks/settlement", bytes.NewReader(body))
	req.Header.Set("X-Settlement-Signature", signBody(body))
	rr := httptest.NewRecorder()

	app.SettlementWebhook(rr, req)

	if rr.Code != 400 {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestSettlementWebhook_ReferenceConflict(t *testing.T) {
	repo := newFakeFeeRepo()
	repo.seed(&domain.FeeRecord{
		ID:                "fee-1",
		UserID:            "hirer-1",
		FeeType:           domain.FeeTypeHirerPlatform,
		ExternalReference: "gw-42",
	})
	app := webhookApp(repo)

	body, _ := json.Marshal(map[string]string{
		"user_id":            "hirer-2",
		"fee_type":           "hirer_platform_fee",
		"external_reference": "gw-42",
	})
	req := httptest.NewRequest("POST", "/v1/webhooks/settlement", bytes.NewReader(body))
	req.Header.Set("X-Settlement-Signature", signBody(body))
	rr := httptest.NewRecorder()

	app.SettlementWebhook(rr, req)

	if rr.Code != 409 {
		t.Fatalf("expected 409, got %d body %s", rr.Code, rr.Body.String())
	}
}

// --- fake fee repository ---

type fakeFeeRepo struct {
	records map[string]*domain.FeeRecord
}

func newFakeFeeRepo() *fakeFeeRepo {
	return &fakeFeeRepo{records: map[string]*domain.FeeRecord{}}
}

func (f *fakeFeeRepo) key(userID string, feeType domain.FeeType) string {
	return userID + "/" + string(feeType)
}

func (f *fakeFeeRepo) seed(rec *domain.FeeRecord) {
	f.records[f.key(rec.UserID, rec.FeeType)] = rec
}

func (f *fakeFeeRepo) Create(_ context.Context, record *domain.FeeRecord) error {
	key := f.key(record.UserID, record.FeeType)
	if _, exists := f.records[key]; exists {
		return nil
	}
	cp := *record
	f.records[key] = &cp
	return nil
}

func (f *fakeFeeRepo) GetByUserAndType(_ context.Context, userID string, feeType domain.FeeType) (*domain.FeeRecord, error) {
	rec, ok := f.records[f.key(userID, feeType)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *rec
	return &cp, nil
}

func (f *fakeFeeRepo) GetByReference(_ context.Context, reference string) (*domain.FeeRecord, error) {
	for _, rec := range f.records {
		if rec.ExternalReference == reference {
			cp := *rec
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeFeeRepo) MarkPaid(_ context.Context, id string, paidAt time.Time, reference string) (*domain.FeeRecord, error) {
	for _, rec := range f.records {
		if rec.ID != id {
			continue
		}
		if rec.PaidAt == nil {
			rec.PaidAt = &paidAt
			if reference != "" {
				rec.ExternalReference = reference
			}
		}
		cp := *rec
		return &cp, nil
	}
	return nil, domain.ErrNotFound
}
