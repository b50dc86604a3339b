package repo

import (
	"context"
	"time"

	"server/internal/domain"
	"server/internal/infra"
	"server/internal/sqlinline"
)

// NotificationRepositoryPG implements domain.NotificationRepository (the
// outbox). When constructed over a transaction-scoped executor, Enqueue
// participates in the caller's transaction.
type NotificationRepositoryPG struct {
	sql infra.SQLExecutor
}

func NewNotificationRepository(sql infra.SQLExecutor) *NotificationRepositoryPG {
	return &NotificationRepositoryPG{sql: sql}
}

func (r *NotificationRepositoryPG) Enqueue(ctx context.Context, event *domain.NotificationEvent) error {
	_, err := r.sql.Exec(ctx, sqlinline.QInsertNotificationEvent,
		event.ID,
		event.Kind,
		event.RecipientID,
		nullableBytes(event.Payload),
	)
	return err
}

func (r *NotificationRepositoryPG) ListUndispatched(ctx context.Context, limit int) ([]domain.NotificationEvent, error) {
	rows, err := r.sql.Query(ctx, sqlinline.QListUndispatchedEvents, limit)
	if err != nil {
		return nil, err
	}
	return collectEvents(rows)
}

func (r *NotificationRepositoryPG) MarkDispatched(ctx context.Context, id string, at time.Time) error {
	_, err := r.sql.Exec(ctx, sqlinline.QMarkEventDispatched, id, at)
	return err
}

func (r *NotificationRepositoryPG) ListByRecipient(ctx context.Context, recipientID string, limit int) ([]domain.NotificationEvent, error) {
	rows, err := r.sql.Query(ctx, sqlinline.QListEventsByRecipient, recipientID, limit)
	if err != nil {
		return nil, err
	}
	return collectEvents(rows)
}

func collectEvents(rows rowsScanner) ([]domain.NotificationEvent, error) {
	defer rows.Close()
	var out []domain.NotificationEvent
	for rows.Next() {
		var ev domain.NotificationEvent
		if err := rows.Scan(&ev.ID, &ev.Kind, &ev.RecipientID, &ev.Payload, &ev.CreatedAt, &ev.DispatchedAt); err != nil {
			return nil, err
		}
		out = append(out, ev)
	}
	return out, rows.Err()
}

func nullableBytes(b []byte) []byte {
	if len(b) == 0 {
		return nil
	}
	return b
}

var _ domain.NotificationRepository = (*NotificationRepositoryPG)(nil)
