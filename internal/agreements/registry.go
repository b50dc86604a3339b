// Package agreements stores agreement templates and assignments and owns
// every assignment status transition.
package agreements

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"server/internal/adapter/repo"
	"server/internal/domain"
)

// Store is the storage surface the registry needs.
type Store interface {
	Repos() repo.Repos
	WithinTx(ctx context.Context, fn func(repo.Repos) error) error
}

// Actor identifies who performs an operation, with the network evidence
// captured for the audit trail.
type Actor struct {
	ID      string
	Role    domain.UserRole
	IP      string
	Country string
}

// AssignmentParams describes a new obligation.
type AssignmentParams struct {
	Kind       domain.AgreementKind
	SignerID   string
	ContextRef *string
	DueAt      *time.Time
}

// Registry manages templates, assignments and the audit trail.
type Registry struct {
	store  Store
	bodies BodyStore
	logger zerolog.Logger
	now    func() time.Time
	newID  func() string
}

func NewRegistry(store Store, logger zerolog.Logger) *Registry {
	return &Registry{store: store, logger: logger, now: time.Now, newID: uuid.NewString}
}

// NewAssignment resolves the active template for a kind and persists a
// PENDING assignment through the given repositories. It is shared between
// the registry's own transaction and the hire orchestrator's, so both flows
// resolve templates and build assignments in exactly one place.
func NewAssignment(ctx context.Context, r repo.Repos, params AssignmentParams, id string, createdAt time.Time) (*domain.AgreementAssignment, error) {
	tpl, err := r.Templates.ActiveByKind(ctx, params.Kind)
	if err != nil {
		return nil, err
	}
	a := &domain.AgreementAssignment{
		ID:         id,
		TemplateID: tpl.ID,
		SignerID:   params.SignerID,
		ContextRef: params.ContextRef,
		Status:     domain.AssignmentStatusPending,
		DueAt:      params.DueAt,
		CreatedAt:  createdAt,
	}
	if err := r.Assignments.Create(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// CreateAssignment creates a standalone obligation (admin flow) atomically
// with its audit entry and the AGREEMENT_ASSIGNED outbox event.
func (g *Registry) CreateAssignment(ctx context.Context, actor Actor, params AssignmentParams) (*domain.AgreementAssignment, error) {
	var created *domain.AgreementAssignment
	err := g.store.WithinTx(ctx, func(r repo.Repos) error {
		a, err := NewAssignment(ctx, r, params, g.newID(), g.now())
		if err != nil {
			return err
		}
		if err := r.Audits.Append(ctx, &domain.AgreementAuditEntry{
			ID:           g.newID(),
			AssignmentID: a.ID,
			ActorID:      actor.ID,
			Action:       domain.AuditActionAssigned,
			IPAddress:    actor.IP,
			Country:      actor.Country,
		}); err != nil {
			return err
		}
		payload, _ := json.Marshal(map[string]any{
			"assignment_id": a.ID,
			"kind":          params.Kind,
		})
		if err := r.Outbox.Enqueue(ctx, &domain.NotificationEvent{
			ID:          g.newID(),
			Kind:        domain.EventAgreementAssigned,
			RecipientID: params.SignerID,
			Payload:     payload,
		}); err != nil {
			return err
		}
		created = a
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// GetAssignment returns one assignment. A PENDING assignment whose deadline
// has passed is persisted and returned as OVERDUE; the correction happens on
// read, there is no background scheduler.
func (g *Registry) GetAssignment(ctx context.Context, id string) (*domain.AgreementAssignment, error) {
	a, err := g.store.Repos().Assignments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return g.applyLazyOverdue(ctx, g.store.Repos(), a)
}

// ListForSigner returns the signer's assignments ordered oldest first, so
// the longest-pending obligation is acted on first. Lazy overdue applies.
func (g *Registry) ListForSigner(ctx context.Context, signerID string) ([]domain.AgreementAssignment, error) {
	items, err := g.store.Repos().Assignments.ListBySigner(ctx, signerID)
	if err != nil {
		return nil, err
	}
	for i := range items {
		corrected, err := g.applyLazyOverdue(ctx, g.store.Repos(), &items[i])
		if err != nil {
			return nil, err
		}
		items[i] = *corrected
	}
	return items, nil
}

// HasSigned reports whether the signer holds a SIGNED assignment of the
// given kind. Superseding a template never invalidates completed signatures.
func (g *Registry) HasSigned(ctx context.Context, signerID string, kind domain.AgreementKind) (bool, error) {
	return g.store.Repos().Assignments.HasSigned(ctx, signerID, kind)
}

// RecordView appends a "viewed" audit entry for an assignment the actor owns.
func (g *Registry) RecordView(ctx context.Context, actor Actor, assignmentID string) error {
	a, err := g.store.Repos().Assignments.GetByID(ctx, assignmentID)
	if err != nil {
		return err
	}
	if a.SignerID != actor.ID && !actor.Role.IsStaff() {
		return domain.ErrUnauthorized
	}
	return g.store.Repos().Audits.Append(ctx, &domain.AgreementAuditEntry{
		ID:           g.newID(),
		AssignmentID: a.ID,
		ActorID:      actor.ID,
		Action:       domain.AuditActionViewed,
		IPAddress:    actor.IP,
		Country:      actor.Country,
	})
}

// Sign executes a signature attempt. On success the assignment, its audit
// entry, the AGREEMENT_SIGNED event and any linked hire acceptance commit as
// one unit.
func (g *Registry) Sign(ctx context.Context, actor Actor, assignmentID string) (*domain.AgreementAssignment, error) {
	var signed *domain.AgreementAssignment
	err := g.store.WithinTx(ctx, func(r repo.Repos) error {
		a, err := r.Assignments.GetByID(ctx, assignmentID)
		if err != nil {
			return err
		}
		a, err = g.applyLazyOverdue(ctx, r, a)
		if err != nil {
			return err
		}

		next, err := Sign(a, actor.ID)
		if err != nil {
			return err
		}
		signedAt := g.now()
		if err := r.Assignments.UpdateStatus(ctx, a.ID, next, &signedAt); err != nil {
			return err
		}
		a.Status = next
		a.SignedAt = &signedAt

		if err := r.Audits.Append(ctx, &domain.AgreementAuditEntry{
			ID:           g.newID(),
			AssignmentID: a.ID,
			ActorID:      actor.ID,
			Action:       domain.AuditActionSigned,
			IPAddress:    actor.IP,
			Country:      actor.Country,
		}); err != nil {
			return err
		}

		payload, _ := json.Marshal(map[string]any{"assignment_id": a.ID})
		if err := r.Outbox.Enqueue(ctx, &domain.NotificationEvent{
			ID:          g.newID(),
			Kind:        domain.EventAgreementSigned,
			RecipientID: a.SignerID,
			Payload:     payload,
		}); err != nil {
			return err
		}

		// A countersigned engagement agreement accepts the hire request it
		// belongs to, inside the same transaction.
		if a.ContextRef != nil {
			if err := g.acceptLinkedHire(ctx, r, a); err != nil {
				return err
			}
		}

		signed = a
		return nil
	})
	if err != nil {
		return nil, err
	}
	g.logger.Info().Str("assignment_id", signed.ID).Str("signer_id", actor.ID).Msg("agreement signed")
	return signed, nil
}

func (g *Registry) acceptLinkedHire(ctx context.Context, r repo.Repos, a *domain.AgreementAssignment) error {
	hire, err := r.Hires.GetByID(ctx, *a.ContextRef)
	if err != nil {
		if err == domain.ErrNotFound {
			g.logger.Error().Str("assignment_id", a.ID).Str("hire_id", *a.ContextRef).Msg("assignment references missing hire request")
			return nil
		}
		return err
	}
	if !hire.Status.CanTransition(domain.HireStatusAccepted) {
		return nil
	}
	if err := r.Hires.UpdateStatus(ctx, hire.ID, domain.HireStatusAccepted); err != nil {
		return err
	}
	payload, _ := json.Marshal(map[string]any{
		"hire_request_id": hire.ID,
		"assignment_id":   a.ID,
	})
	return r.Outbox.Enqueue(ctx, &domain.NotificationEvent{
		ID:          g.newID(),
		Kind:        domain.EventAgreementSigned,
		RecipientID: hire.HirerID,
		Payload:     payload,
	})
}

// CancelAssignment voids a standalone obligation. Staff may always cancel;
// assignments bound to a hire request are cancelled through the hire
// decline/withdraw operations instead, which keep the two records in step.
func (g *Registry) CancelAssignment(ctx context.Context, actor Actor, assignmentID string) (*domain.AgreementAssignment, error) {
	if !actor.Role.IsStaff() {
		return nil, domain.ErrUnauthorized
	}
	var cancelled *domain.AgreementAssignment
	err := g.store.WithinTx(ctx, func(r repo.Repos) error {
		a, err := r.Assignments.GetByID(ctx, assignmentID)
		if err != nil {
			return err
		}
		next, err := Cancel(a)
		if err != nil {
			return err
		}
		if err := r.Assignments.UpdateStatus(ctx, a.ID, next, nil); err != nil {
			return err
		}
		a.Status = next
		if err := r.Audits.Append(ctx, &domain.AgreementAuditEntry{
			ID:           g.newID(),
			AssignmentID: a.ID,
			ActorID:      actor.ID,
			Action:       domain.AuditActionCancelled,
			IPAddress:    actor.IP,
			Country:      actor.Country,
		}); err != nil {
			return err
		}
		if a.ContextRef != nil {
			hire, err := r.Hires.GetByID(ctx, *a.ContextRef)
			if err != nil && err != domain.ErrNotFound {
				return err
			}
			if hire != nil && hire.Status.CanTransition(domain.HireStatusWithdrawn) {
				if err := r.Hires.UpdateStatus(ctx, hire.ID, domain.HireStatusWithdrawn); err != nil {
					return err
				}
			}
		}
		cancelled = a
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cancelled, nil
}

func (g *Registry) applyLazyOverdue(ctx context.Context, r repo.Repos, a *domain.AgreementAssignment) (*domain.AgreementAssignment, error) {
	if _, elapsed := DeadlineElapsed(a, g.now()); !elapsed {
		return a, nil
	}
	// Guarded update: a concurrent sign or cancel wins and the correction
	// becomes a no-op.
	if err := r.Assignments.MarkOverdue(ctx, a.ID); err != nil {
		return nil, err
	}
	refreshed, err := r.Assignments.GetByID(ctx, a.ID)
	if err != nil {
		return nil, err
	}
	return refreshed, nil
}

// AuditTrail returns the audit entries for one assignment, newest first.
func (g *Registry) AuditTrail(ctx context.Context, assignmentID string) ([]domain.AgreementAuditEntry, error) {
	return g.store.Repos().Audits.ListByAssignment(ctx, assignmentID)
}

// WithClock overrides the registry clock.
func (g *Registry) WithClock(now func() time.Time) *Registry {
	g.now = now
	return g
}
