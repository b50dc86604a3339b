package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"server/internal/adapter/repo"
	"server/internal/domain"
	"server/internal/infra"
)

// notifier drains the notification outbox: rows are written inside service
// transactions and delivered here, so an event exists exactly once per state
// transition no matter how often delivery is retried.
type notifier struct {
	ctx    context.Context
	repos  repo.Repos
	logger infra.Logger
	client *http.Client

	dispatcherURL string
	pollEvery     time.Duration
	batchSize     int
	now           func() time.Time
}

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("notifier: db connection failed")
	}
	defer pool.Close()

	runner := infra.NewSQLRunner(pool, logger)

	n := &notifier{
		ctx:           ctx,
		repos:         repo.NewRepos(runner),
		logger:        logger,
		client:        &http.Client{Timeout: 10 * time.Second},
		dispatcherURL: cfg.DispatcherURL,
		pollEvery:     cfg.NotifyPollEvery,
		batchSize:     cfg.NotifyBatchSize,
		now:           time.Now,
	}

	if n.dispatcherURL == "" {
		logger.Warn().Msg("notifier: NOTIFY_DISPATCHER_URL unset, events will be logged and marked dispatched")
	}

	if err := n.Run(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal().Err(err).Msg("notifier: stopped with error")
	}
	logger.Info().Msg("notifier: stopped")
}

func (n *notifier) Run() error {
	n.logger.Info().Msg("notifier: started")
	ticker := time.NewTicker(n.pollEvery)
	defer ticker.Stop()
	for {
		select {
		case <-n.ctx.Done():
			return n.ctx.Err()
		case <-ticker.C:
		}
		if err := n.drainOnce(); err != nil {
			n.logger.Error().Err(err).Msg("notifier: drain failed")
		}
	}
}

func (n *notifier) drainOnce() error {
	events, err := n.repos.Outbox.ListUndispatched(n.ctx, n.batchSize)
	if err != nil {
		return err
	}
	for i := range events {
		ev := &events[i]
		if err := n.deliver(ev); err != nil {
			// Leave the row undispatched; the next poll retries it.
			n.logger.Error().Err(err).Str("event_id", ev.ID).Str("kind", string(ev.Kind)).Msg("notifier: delivery failed")
			continue
		}
		if err := n.repos.Outbox.MarkDispatched(n.ctx, ev.ID, n.now()); err != nil {
			n.logger.Error().Err(err).Str("event_id", ev.ID).Msg("notifier: mark dispatched failed")
		}
	}
	return nil
}

func (n *notifier) deliver(ev *domain.NotificationEvent) error {
	if n.dispatcherURL == "" {
		n.logger.Info().Str("event_id", ev.ID).Str("kind", string(ev.Kind)).Str("recipient_id", ev.RecipientID).Msg("notifier: event")
		return nil
	}
	body, err := json.Marshal(map[string]any{
		"id":           ev.ID,
		"kind":         ev.Kind,
		"recipient_id": ev.RecipientID,
		"payload":      json.RawMessage(ev.Payload),
		"created_at":   ev.CreatedAt,
	})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(n.ctx, http.MethodPost, n.dispatcherURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := n.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("dispatcher returned %d", resp.StatusCode)
	}
	return nil
}
