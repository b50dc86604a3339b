package credentials

import (
	"context"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"server/internal/sqlinline"
)

type fakeSQL struct {
	tokens map[string]string
	execs  int
}

func (f *fakeSQL) Exec(_ context.Context, query string, args ...any) (pgconn.CommandTag, error) {
	if query != sqlinline.QUpsertIntegrationToken {
		return pgconn.CommandTag{}, fmt.Errorf("unexpected query: %s", query)
	}
	if f.tokens == nil {
		f.tokens = map[string]string{}
	}
	f.tokens[args[0].(string)] = args[1].(string)
	f.execs++
	return pgconn.CommandTag{}, nil
}

func (f *fakeSQL) QueryRow(_ context.Context, query string, args ...any) pgx.Row {
	if query != sqlinline.QSelectIntegrationToken {
		return errRow{err: fmt.Errorf("unexpected query: %s", query)}
	}
	token, ok := f.tokens[args[0].(string)]
	if !ok {
		return errRow{err: pgx.ErrNoRows}
	}
	return tokenRow{token: token}
}

func (f *fakeSQL) Query(context.Context, string, ...any) (pgx.Rows, error) {
	return nil, fmt.Errorf("unexpected Query call")
}

type tokenRow struct{ token string }

func (r tokenRow) Scan(dest ...any) error {
	if v, ok := dest[0].(*string); ok {
		*v = r.token
	}
	return nil
}

type errRow struct{ err error }

func (r errRow) Scan(...any) error { return r.err }

func TestSettlementWebhookSecretRoundTrip(t *testing.T) {
	store := NewStore(&fakeSQL{})

	secret, err := store.SettlementWebhookSecret(context.Background())
	if err != nil {
		t.Fatalf("read empty store: %v", err)
	}
	if secret != "" {
		t.Fatalf("expected empty secret, got %q", secret)
	}

	if err := store.SetSettlementWebhookSecret(context.Background(), "  whsec_abc  "); err != nil {
		t.Fatalf("set secret: %v", err)
	}

	secret, err = store.SettlementWebhookSecret(context.Background())
	if err != nil {
		t.Fatalf("read secret: %v", err)
	}
	if secret != "whsec_abc" {
		t.Fatalf("secret mismatch: got %q", secret)
	}
}

func TestSetSettlementWebhookSecretRejectsEmpty(t *testing.T) {
	store := NewStore(&fakeSQL{})
	if err := store.SetSettlementWebhookSecret(context.Background(), "   "); err == nil {
		t.Fatal("expected error for empty secret")
	}
}
