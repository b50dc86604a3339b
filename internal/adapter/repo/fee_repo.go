package repo

import (
	"context"
	"time"

	"server/internal/domain"
	"server/internal/infra"
	"server/internal/sqlinline"
)

// FeeRepositoryPG implements domain.FeeRepository.
type FeeRepositoryPG struct {
	sql infra.SQLExecutor
}

// NewFeeRepository creates a fee repository over the given executor.
func NewFeeRepository(sql infra.SQLExecutor) *FeeRepositoryPG {
	return &FeeRepositoryPG{sql: sql}
}

func (r *FeeRepositoryPG) Create(ctx context.Context, record *domain.FeeRecord) error {
	_, err := r.sql.Exec(ctx, sqlinline.QInsertFeeRecord,
		record.ID,
		record.UserID,
		record.FeeType,
		record.AmountCents,
		record.Currency,
		record.ExternalReference,
	)
	return err
}

func (r *FeeRepositoryPG) GetByUserAndType(ctx context.Context, userID string, feeType domain.FeeType) (*domain.FeeRecord, error) {
	row := r.sql.QueryRow(ctx, sqlinline.QSelectFeeByUserAndType, userID, feeType)
	return scanFeeRecord(row)
}

func (r *FeeRepositoryPG) GetByReference(ctx context.Context, reference string) (*domain.FeeRecord, error) {
	row := r.sql.QueryRow(ctx, sqlinline.QSelectFeeByReference, reference)
	return scanFeeRecord(row)
}

// MarkPaid settles a record. The query only fills paid_at when it is still
// null, which keeps the settlement timestamp monotonic under retries.
func (r *FeeRepositoryPG) MarkPaid(ctx context.Context, id string, paidAt time.Time, reference string) (*domain.FeeRecord, error) {
	row := r.sql.QueryRow(ctx, sqlinline.QMarkFeePaid, id, paidAt, reference)
	return scanFeeRecord(row)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanFeeRecord(row rowScanner) (*domain.FeeRecord, error) {
	var rec domain.FeeRecord
	if err := row.Scan(
		&rec.ID,
		&rec.UserID,
		&rec.FeeType,
		&rec.AmountCents,
		&rec.Currency,
		&rec.PaidAt,
		&rec.ExternalReference,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	); err != nil {
		if infra.IsNoRows(err) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &rec, nil
}

var _ domain.FeeRepository = (*FeeRepositoryPG)(nil)
