package repo

import (
	"context"

	"server/internal/domain"
	"server/internal/infra"
	"server/internal/sqlinline"
)

// AuditRepositoryPG implements domain.AuditRepository.
type AuditRepositoryPG struct {
	sql infra.SQLExecutor
}

func NewAuditRepository(sql infra.SQLExecutor) *AuditRepositoryPG {
	return &AuditRepositoryPG{sql: sql}
}

func (r *AuditRepositoryPG) Append(ctx context.Context, entry *domain.AgreementAuditEntry) error {
	_, err := r.sql.Exec(ctx, sqlinline.QInsertAuditEntry,
		entry.ID,
		entry.AssignmentID,
		entry.ActorID,
		entry.Action,
		entry.IPAddress,
		entry.Country,
	)
	return err
}

func (r *AuditRepositoryPG) ListByAssignment(ctx context.Context, assignmentID string) ([]domain.AgreementAuditEntry, error) {
	rows, err := r.sql.Query(ctx, sqlinline.QListAuditEntriesByAssignment, assignmentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []domain.AgreementAuditEntry
	for rows.Next() {
		var e domain.AgreementAuditEntry
		if err := rows.Scan(&e.ID, &e.AssignmentID, &e.ActorID, &e.Action, &e.IPAddress, &e.Country, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

var _ domain.AuditRepository = (*AuditRepositoryPG)(nil)
