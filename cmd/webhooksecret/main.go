package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"server/internal/infra"
	"server/internal/infra/credentials"
)

func main() {
	var secretFlag string
	flag.StringVar(&secretFlag, "secret", "", "shared HMAC secret for the settlement webhook (fallbacks to environment)")
	flag.Parse()

	secret := strings.TrimSpace(secretFlag)
	if secret == "" {
		secret = strings.TrimSpace(os.Getenv("SETTLEMENT_WEBHOOK_SECRET"))
	}
	if secret == "" {
		fmt.Fprintln(os.Stderr, "webhook secret is required via -secret or SETTLEMENT_WEBHOOK_SECRET")
		os.Exit(1)
	}

	dbURL := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if dbURL == "" {
		fmt.Fprintln(os.Stderr, "DATABASE_URL is required")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create pool: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	logger := infra.NewLogger("cli").With().Str("cmd", "webhooksecret").Logger()
	store := credentials.NewStore(infra.NewSQLRunner(pool, logger))

	execCtx, cancelExec := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelExec()
	if err := store.SetSettlementWebhookSecret(execCtx, secret); err != nil {
		fmt.Fprintf(os.Stderr, "failed to persist webhook secret: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("settlement webhook secret stored successfully")
}
