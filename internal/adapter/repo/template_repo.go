package repo

import (
	"context"

	"server/internal/domain"
	"server/internal/infra"
	"server/internal/sqlinline"
)

// TemplateRepositoryPG implements domain.TemplateRepository.
type TemplateRepositoryPG struct {
	sql infra.SQLExecutor
}

func NewTemplateRepository(sql infra.SQLExecutor) *TemplateRepositoryPG {
	return &TemplateRepositoryPG{sql: sql}
}

func (r *TemplateRepositoryPG) Create(ctx context.Context, tpl *domain.AgreementTemplate) error {
	_, err := r.sql.Exec(ctx, sqlinline.QInsertTemplate,
		tpl.ID,
		tpl.Kind,
		tpl.Version,
		tpl.Title,
		tpl.BodyRef,
	)
	return err
}

func (r *TemplateRepositoryPG) GetByID(ctx context.Context, id string) (*domain.AgreementTemplate, error) {
	row := r.sql.QueryRow(ctx, sqlinline.QSelectTemplateByID, id)
	return scanTemplate(row)
}

func (r *TemplateRepositoryPG) ActiveByKind(ctx context.Context, kind domain.AgreementKind) (*domain.AgreementTemplate, error) {
	row := r.sql.QueryRow(ctx, sqlinline.QSelectActiveTemplateByKind, kind)
	tpl, err := scanTemplate(row)
	if err == domain.ErrNotFound {
		return nil, domain.ErrTemplateNotFound
	}
	return tpl, err
}

func (r *TemplateRepositoryPG) Deactivate(ctx context.Context, id string) error {
	_, err := r.sql.Exec(ctx, sqlinline.QDeactivateTemplate, id)
	return err
}

func (r *TemplateRepositoryPG) List(ctx context.Context) ([]domain.AgreementTemplate, error) {
	rows, err := r.sql.Query(ctx, sqlinline.QListTemplates)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []domain.AgreementTemplate
	for rows.Next() {
		var tpl domain.AgreementTemplate
		if err := rows.Scan(&tpl.ID, &tpl.Kind, &tpl.Version, &tpl.Title, &tpl.BodyRef, &tpl.IsActive, &tpl.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, tpl)
	}
	return out, rows.Err()
}

func scanTemplate(row rowScanner) (*domain.AgreementTemplate, error) {
	var tpl domain.AgreementTemplate
	if err := row.Scan(
		&tpl.ID,
		&tpl.Kind,
		&tpl.Version,
		&tpl.Title,
		&tpl.BodyRef,
		&tpl.IsActive,
		&tpl.CreatedAt,
	); err != nil {
		if infra.IsNoRows(err) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &tpl, nil
}

var _ domain.TemplateRepository = (*TemplateRepositoryPG)(nil)
