package repo

import (
	"context"
	"time"

	"server/internal/domain"
	"server/internal/infra"
	"server/internal/sqlinline"
)

// AssignmentRepositoryPG implements domain.AssignmentRepository.
type AssignmentRepositoryPG struct {
	sql infra.SQLExecutor
}

func NewAssignmentRepository(sql infra.SQLExecutor) *AssignmentRepositoryPG {
	return &AssignmentRepositoryPG{sql: sql}
}

func (r *AssignmentRepositoryPG) Create(ctx context.Context, a *domain.AgreementAssignment) error {
	_, err := r.sql.Exec(ctx, sqlinline.QInsertAssignment,
		a.ID,
		a.TemplateID,
		a.SignerID,
		a.ContextRef,
		a.Status,
		a.DueAt,
	)
	return err
}

func (r *AssignmentRepositoryPG) GetByID(ctx context.Context, id string) (*domain.AgreementAssignment, error) {
	row := r.sql.QueryRow(ctx, sqlinline.QSelectAssignmentByID, id)
	return scanAssignment(row)
}

func (r *AssignmentRepositoryPG) GetByContextRef(ctx context.Context, contextRef string) (*domain.AgreementAssignment, error) {
	row := r.sql.QueryRow(ctx, sqlinline.QSelectAssignmentByContextRef, contextRef)
	return scanAssignment(row)
}

func (r *AssignmentRepositoryPG) ListBySigner(ctx context.Context, signerID string) ([]domain.AgreementAssignment, error) {
	rows, err := r.sql.Query(ctx, sqlinline.QListAssignmentsBySigner, signerID)
	if err != nil {
		return nil, err
	}
	return collectAssignments(rows)
}

func (r *AssignmentRepositoryPG) ListAll(ctx context.Context, limit int) ([]domain.AgreementAssignment, error) {
	rows, err := r.sql.Query(ctx, sqlinline.QListAssignments, limit)
	if err != nil {
		return nil, err
	}
	return collectAssignments(rows)
}

func (r *AssignmentRepositoryPG) HasSigned(ctx context.Context, signerID string, kind domain.AgreementKind) (bool, error) {
	row := r.sql.QueryRow(ctx, sqlinline.QExistsSignedAssignment, signerID, kind)
	var exists bool
	if err := row.Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *AssignmentRepositoryPG) UpdateStatus(ctx context.Context, id string, status domain.AssignmentStatus, signedAt *time.Time) error {
	_, err := r.sql.Exec(ctx, sqlinline.QUpdateAssignmentStatus, id, status, signedAt)
	return err
}

func (r *AssignmentRepositoryPG) MarkOverdue(ctx context.Context, id string) error {
	_, err := r.sql.Exec(ctx, sqlinline.QMarkAssignmentOverdue, id)
	return err
}

func scanAssignment(row rowScanner) (*domain.AgreementAssignment, error) {
	var a domain.AgreementAssignment
	if err := row.Scan(
		&a.ID,
		&a.TemplateID,
		&a.SignerID,
		&a.ContextRef,
		&a.Status,
		&a.DueAt,
		&a.SignedAt,
		&a.CreatedAt,
		&a.UpdatedAt,
	); err != nil {
		if infra.IsNoRows(err) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

type rowsScanner interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close()
}

func collectAssignments(rows rowsScanner) ([]domain.AgreementAssignment, error) {
	defer rows.Close()
	var out []domain.AgreementAssignment
	for rows.Next() {
		var a domain.AgreementAssignment
		if err := rows.Scan(&a.ID, &a.TemplateID, &a.SignerID, &a.ContextRef, &a.Status, &a.DueAt, &a.SignedAt, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

var _ domain.AssignmentRepository = (*AssignmentRepositoryPG)(nil)
