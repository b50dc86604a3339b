package agreements

import (
	"context"
	"fmt"
	"strings"

	"server/internal/adapter/repo"
	"server/internal/domain"
)

// BodyStore persists template body text and returns the stored key.
type BodyStore interface {
	Write(ctx context.Context, key string, data []byte) (string, error)
}

// WithBodyStore attaches the store template bodies are written to.
func (g *Registry) WithBodyStore(store BodyStore) *Registry {
	g.bodies = store
	return g
}

// CreateTemplate registers the first template for a kind. Templates are
// immutable once stored; revisions go through SupersedeTemplate.
func (g *Registry) CreateTemplate(ctx context.Context, kind domain.AgreementKind, title, body string) (*domain.AgreementTemplate, error) {
	if !domain.KnownAgreementKind(kind) {
		return nil, fmt.Errorf("unknown agreement kind %q", kind)
	}
	if strings.TrimSpace(title) == "" {
		return nil, fmt.Errorf("template title is required")
	}
	return g.storeTemplate(ctx, kind, 1, title, body, "")
}

// SupersedeTemplate registers a new revision for a kind and deactivates the
// previous one. The old template row is never edited: assignments that
// reference it keep pointing at the exact text their signer saw.
func (g *Registry) SupersedeTemplate(ctx context.Context, kind domain.AgreementKind, title, body string) (*domain.AgreementTemplate, error) {
	current, err := g.store.Repos().Templates.ActiveByKind(ctx, kind)
	if err != nil {
		return nil, err
	}
	return g.storeTemplate(ctx, kind, current.Version+1, title, body, current.ID)
}

// GetTemplate returns one template revision.
func (g *Registry) GetTemplate(ctx context.Context, id string) (*domain.AgreementTemplate, error) {
	return g.store.Repos().Templates.GetByID(ctx, id)
}

// ListTemplates returns all template revisions.
func (g *Registry) ListTemplates(ctx context.Context) ([]domain.AgreementTemplate, error) {
	return g.store.Repos().Templates.List(ctx)
}

func (g *Registry) storeTemplate(ctx context.Context, kind domain.AgreementKind, version int, title, body, supersedes string) (*domain.AgreementTemplate, error) {
	bodyRef := ""
	if g.bodies != nil && body != "" {
		key, err := g.bodies.Write(ctx, fmt.Sprintf("templates/%s/v%d.md", strings.ToLower(string(kind)), version), []byte(body))
		if err != nil {
			return nil, fmt.Errorf("store template body: %w", err)
		}
		bodyRef = key
	}
	tpl := &domain.AgreementTemplate{
		ID:       g.newID(),
		Kind:     kind,
		Version:  version,
		Title:    title,
		BodyRef:  bodyRef,
		IsActive: true,
	}
	err := g.store.WithinTx(ctx, func(r repo.Repos) error {
		if supersedes != "" {
			if err := r.Templates.Deactivate(ctx, supersedes); err != nil {
				return err
			}
		}
		return r.Templates.Create(ctx, tpl)
	})
	if err != nil {
		return nil, err
	}
	g.logger.Info().Str("kind", string(kind)).Int("version", version).Msg("agreement template stored")
	return tpl, nil
}
