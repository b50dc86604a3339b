package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"server/internal/adapter/repo"
	"server/internal/agreements"
	"server/internal/domain"
	"server/internal/infra"
	"server/internal/storage"
)

// seedtemplates registers the initial agreement template for each kind so a
// fresh deployment can gate hiring from the first request.
func main() {
	var (
		kindFlag  string
		titleFlag string
		bodyFlag  string
	)
	flag.StringVar(&kindFlag, "kind", "", "agreement kind to seed (NDA, FAIR_TREATMENT, SERVICE, TERMS); empty seeds all missing kinds")
	flag.StringVar(&titleFlag, "title", "", "template title (defaults per kind)")
	flag.StringVar(&bodyFlag, "body-file", "", "path to a file with the template body text")
	flag.Parse()

	dbURL := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if dbURL == "" {
		exitWithError(errors.New("DATABASE_URL is required"))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		exitWithError(fmt.Errorf("failed to connect database: %w", err))
	}
	defer pool.Close()

	logger := infra.NewLogger("cli").With().Str("cmd", "seedtemplates").Logger()
	runner := infra.NewSQLRunner(pool, logger)
	store := repo.NewStore(runner)

	registry := agreements.NewRegistry(store, logger)
	if path := strings.TrimSpace(os.Getenv("STORAGE_PATH")); path != "" {
		fileStore, err := storage.NewFileStore(path)
		if err != nil {
			exitWithError(fmt.Errorf("failed to configure storage: %w", err))
		}
		registry = registry.WithBodyStore(fileStore)
	}

	body := ""
	if bodyFlag != "" {
		data, err := os.ReadFile(bodyFlag)
		if err != nil {
			exitWithError(fmt.Errorf("failed to read body file: %w", err))
		}
		body = string(data)
	}

	kinds := []domain.AgreementKind{
		domain.AgreementKindNDA,
		domain.AgreementKindFairTreatment,
		domain.AgreementKindService,
		domain.AgreementKindTerms,
	}
	if kindFlag != "" {
		kind := domain.AgreementKind(strings.ToUpper(strings.TrimSpace(kindFlag)))
		if !domain.KnownAgreementKind(kind) {
			exitWithError(fmt.Errorf("unsupported agreement kind %q", kindFlag))
		}
		kinds = []domain.AgreementKind{kind}
	}

	for _, kind := range kinds {
		if _, err := store.Repos().Templates.ActiveByKind(ctx, kind); err == nil {
			fmt.Printf("%s: active template already present, skipped\n", kind)
			continue
		} else if !errors.Is(err, domain.ErrTemplateNotFound) && !errors.Is(err, domain.ErrNotFound) {
			exitWithError(fmt.Errorf("failed to check %s: %w", kind, err))
		}

		title := titleFlag
		if title == "" {
			title = defaultTitle(kind)
		}
		tpl, err := registry.CreateTemplate(ctx, kind, title, body)
		if err != nil {
			exitWithError(fmt.Errorf("failed to seed %s: %w", kind, err))
		}
		fmt.Printf("%s: template %s v%d created\n", kind, tpl.ID, tpl.Version)
	}
}

func defaultTitle(kind domain.AgreementKind) string {
	switch kind {
	case domain.AgreementKindNDA:
		return "Mutual Non-Disclosure Agreement"
	case domain.AgreementKindFairTreatment:
		return "Fair Treatment Commitment"
	case domain.AgreementKindService:
		return "Service Engagement Agreement"
	case domain.AgreementKindTerms:
		return "Marketplace Terms of Service"
	default:
		return string(kind)
	}
}

func exitWithError(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
