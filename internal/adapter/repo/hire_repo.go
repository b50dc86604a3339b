package repo

import (
	"context"

	"server/internal/domain"
	"server/internal/infra"
	"server/internal/sqlinline"
)

// HireRepositoryPG implements domain.HireRepository.
type HireRepositoryPG struct {
	sql infra.SQLExecutor
}

func NewHireRepository(sql infra.SQLExecutor) *HireRepositoryPG {
	return &HireRepositoryPG{sql: sql}
}

func (r *HireRepositoryPG) Create(ctx context.Context, h *domain.HireRequest) error {
	_, err := r.sql.Exec(ctx, sqlinline.QInsertHireRequest,
		h.ID,
		h.HirerID,
		h.TalentID,
		h.ProjectTitle,
		h.ProjectDescription,
		h.Status,
		h.AgreementAssignmentID,
	)
	return err
}

func (r *HireRepositoryPG) GetByID(ctx context.Context, id string) (*domain.HireRequest, error) {
	row := r.sql.QueryRow(ctx, sqlinline.QSelectHireRequestByID, id)
	return scanHireRequest(row)
}

func (r *HireRepositoryPG) ListByHirer(ctx context.Context, hirerID string) ([]domain.HireRequest, error) {
	rows, err := r.sql.Query(ctx, sqlinline.QListHireRequestsByHirer, hirerID)
	if err != nil {
		return nil, err
	}
	return collectHireRequests(rows)
}

func (r *HireRepositoryPG) ListByTalent(ctx context.Context, talentID string) ([]domain.HireRequest, error) {
	rows, err := r.sql.Query(ctx, sqlinline.QListHireRequestsByTalent, talentID)
	if err != nil {
		return nil, err
	}
	return collectHireRequests(rows)
}

func (r *HireRepositoryPG) UpdateStatus(ctx context.Context, id string, status domain.HireStatus) error {
	_, err := r.sql.Exec(ctx, sqlinline.QUpdateHireRequestStatus, id, status)
	return err
}

func scanHireRequest(row rowScanner) (*domain.HireRequest, error) {
	var h domain.HireRequest
	if err := row.Scan(
		&h.ID,
		&h.HirerID,
		&h.TalentID,
		&h.ProjectTitle,
		&h.ProjectDescription,
		&h.Status,
		&h.AgreementAssignmentID,
		&h.CreatedAt,
		&h.UpdatedAt,
	); err != nil {
		if infra.IsNoRows(err) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &h, nil
}

func collectHireRequests(rows rowsScanner) ([]domain.HireRequest, error) {
	defer rows.Close()
	var out []domain.HireRequest
	for rows.Next() {
		var h domain.HireRequest
		if err := rows.Scan(&h.ID, &h.HirerID, &h.TalentID, &h.ProjectTitle, &h.ProjectDescription, &h.Status, &h.AgreementAssignmentID, &h.CreatedAt, &h.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

var _ domain.HireRepository = (*HireRepositoryPG)(nil)
