package hiring

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"server/internal/adapter/repo"
	"server/internal/agreements"
	"server/internal/domain"
)

// Store is the storage surface the orchestrator needs.
type Store interface {
	Repos() repo.Repos
	WithinTx(ctx context.Context, fn func(repo.Repos) error) error
}

// HireParams carries the hire request input.
type HireParams struct {
	TalentID           string
	ProjectTitle       string
	ProjectDescription string
}

// Orchestrator runs the hire request use case: gate check, atomic creation
// of the request plus its countersigning obligation, and event emission.
type Orchestrator struct {
	store  Store
	gate   *Gate
	logger zerolog.Logger
	now    func() time.Time
	newID  func() string

	// retryWait bounds the single retry taken on transient storage faults.
	retryWait time.Duration
}

func NewOrchestrator(store Store, gate *Gate, logger zerolog.Logger) *Orchestrator {
	return &Orchestrator{
		store:     store,
		gate:      gate,
		logger:    logger,
		now:       time.Now,
		newID:     uuid.NewString,
		retryWait: 100 * time.Millisecond,
	}
}

// Hire validates the gate and creates the hire request together with the
// SERVICE agreement the talent must countersign. Either both records exist
// and are linked, or neither does.
func (o *Orchestrator) Hire(ctx context.Context, actor agreements.Actor, params HireParams) (*domain.HireRequest, error) {
	if strings.TrimSpace(params.ProjectTitle) == "" {
		return nil, fmt.Errorf("%w: project title is required", domain.ErrInvalidInput)
	}

	decision, err := o.gate.CanHire(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	if !decision.Allowed {
		return nil, &domain.NotEligibleError{Reasons: decision.Reasons}
	}

	talent, err := o.store.Repos().Users.GetByID(ctx, params.TalentID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("talent %s: %w", params.TalentID, domain.ErrNotFound)
		}
		return nil, err
	}
	if talent.Role != domain.UserRoleTalent {
		return nil, fmt.Errorf("%w: user %s does not offer services", domain.ErrInvalidInput, params.TalentID)
	}

	var hire *domain.HireRequest
	createOnce := func() error {
		h, err := o.createHire(ctx, actor, params)
		if err != nil {
			// Policy and configuration faults are never retried; only an
			// unclassified storage fault gets the second attempt.
			if isPermanent(err) {
				return backoff.Permanent(err)
			}
			return err
		}
		hire = h
		return nil
	}

	policy := backoff.WithMaxRetries(backoff.NewExponentialBackOff(
		backoff.WithInitialInterval(o.retryWait),
	), 1)
	if err := backoff.Retry(createOnce, backoff.WithContext(policy, ctx)); err != nil {
		var permanent *backoff.PermanentError
		if errors.As(err, &permanent) {
			return nil, permanent.Err
		}
		o.logger.Error().Err(err).Str("hirer_id", actor.ID).Msg("hire creation failed after retry")
		return nil, fmt.Errorf("%w: %v", domain.ErrTransient, err)
	}

	o.logger.Info().
		Str("hire_request_id", hire.ID).
		Str("hirer_id", hire.HirerID).
		Str("talent_id", hire.TalentID).
		Msg("hire request created")
	return hire, nil
}

func (o *Orchestrator) createHire(ctx context.Context, actor agreements.Actor, params HireParams) (*domain.HireRequest, error) {
	hireID := o.newID()
	var hire *domain.HireRequest
	err := o.store.WithinTx(ctx, func(r repo.Repos) error {
		assignment, err := agreements.NewAssignment(ctx, r, agreements.AssignmentParams{
			Kind:       domain.AgreementKindService,
			SignerID:   params.TalentID,
			ContextRef: &hireID,
		}, o.newID(), o.now())
		if err != nil {
			return err
		}

		h := &domain.HireRequest{
			ID:                    hireID,
			HirerID:               actor.ID,
			TalentID:              params.TalentID,
			ProjectTitle:          strings.TrimSpace(params.ProjectTitle),
			ProjectDescription:    strings.TrimSpace(params.ProjectDescription),
			Status:                domain.HireStatusPendingAgreement,
			AgreementAssignmentID: &assignment.ID,
		}
		if err := r.Hires.Create(ctx, h); err != nil {
			return err
		}

		if err := r.Audits.Append(ctx, &domain.AgreementAuditEntry{
			ID:           o.newID(),
			AssignmentID: assignment.ID,
			ActorID:      actor.ID,
			Action:       domain.AuditActionAssigned,
			IPAddress:    actor.IP,
			Country:      actor.Country,
		}); err != nil {
			return err
		}

		for _, ev := range hireEvents(o.newID, h, assignment.ID) {
			if err := r.Outbox.Enqueue(ctx, ev); err != nil {
				return err
			}
		}

		hire = h
		return nil
	})
	if err != nil {
		return nil, err
	}
	return hire, nil
}

// hireEvents builds the two notifications announced by a new hire request:
// the talent learns an engagement is pending agreement, the hirer learns the
// request went out.
func hireEvents(newID func() string, h *domain.HireRequest, assignmentID string) []*domain.NotificationEvent {
	talentPayload, _ := json.Marshal(map[string]any{
		"hire_request_id": h.ID,
		"assignment_id":   assignmentID,
		"project_title":   h.ProjectTitle,
		"role":            "talent",
	})
	hirerPayload, _ := json.Marshal(map[string]any{
		"hire_request_id": h.ID,
		"project_title":   h.ProjectTitle,
		"role":            "hirer",
	})
	return []*domain.NotificationEvent{
		{ID: newID(), Kind: domain.EventHireRequestCreated, RecipientID: h.TalentID, Payload: talentPayload},
		{ID: newID(), Kind: domain.EventHireRequestCreated, RecipientID: h.HirerID, Payload: hirerPayload},
	}
}

// Decline lets the talent reject a pending hire request. The linked
// countersigning assignment is cancelled in the same transaction.
func (o *Orchestrator) Decline(ctx context.Context, actor agreements.Actor, hireID string) (*domain.HireRequest, error) {
	return o.resolve(ctx, actor, hireID, domain.HireStatusDeclined)
}

// Withdraw lets the hirer retract a pending hire request.
func (o *Orchestrator) Withdraw(ctx context.Context, actor agreements.Actor, hireID string) (*domain.HireRequest, error) {
	return o.resolve(ctx, actor, hireID, domain.HireStatusWithdrawn)
}

func (o *Orchestrator) resolve(ctx context.Context, actor agreements.Actor, hireID string, target domain.HireStatus) (*domain.HireRequest, error) {
	var resolved *domain.HireRequest
	err := o.store.WithinTx(ctx, func(r repo.Repos) error {
		h, err := r.Hires.GetByID(ctx, hireID)
		if err != nil {
			return err
		}
		switch target {
		case domain.HireStatusDeclined:
			if h.TalentID != actor.ID {
				return domain.ErrUnauthorized
			}
		case domain.HireStatusWithdrawn:
			if h.HirerID != actor.ID {
				return domain.ErrUnauthorized
			}
		default:
			return fmt.Errorf("unsupported hire resolution %q", target)
		}
		if !h.Status.CanTransition(target) {
			return &domain.InvalidTransitionError{From: string(h.Status), Event: strings.ToLower(string(target))}
		}
		if err := r.Hires.UpdateStatus(ctx, h.ID, target); err != nil {
			return err
		}
		h.Status = target

		a, err := r.Assignments.GetByContextRef(ctx, h.ID)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return err
		}
		if a != nil {
			next, err := agreements.Cancel(a)
			if err != nil {
				return err
			}
			if err := r.Assignments.UpdateStatus(ctx, a.ID, next, nil); err != nil {
				return err
			}
			if err := r.Audits.Append(ctx, &domain.AgreementAuditEntry{
				ID:           o.newID(),
				AssignmentID: a.ID,
				ActorID:      actor.ID,
				Action:       domain.AuditActionCancelled,
				IPAddress:    actor.IP,
				Country:      actor.Country,
			}); err != nil {
				return err
			}
		}
		resolved = h
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resolved, nil
}

// Get returns one hire request visible to the actor: its hirer, its talent,
// or staff.
func (o *Orchestrator) Get(ctx context.Context, actor agreements.Actor, hireID string) (*domain.HireRequest, error) {
	h, err := o.store.Repos().Hires.GetByID(ctx, hireID)
	if err != nil {
		return nil, err
	}
	if h.HirerID != actor.ID && h.TalentID != actor.ID && !actor.Role.IsStaff() {
		return nil, domain.ErrUnauthorized
	}
	return h, nil
}

// ListFor returns the actor's hire requests on both sides of the table.
func (o *Orchestrator) ListFor(ctx context.Context, actorID string) ([]domain.HireRequest, error) {
	asHirer, err := o.store.Repos().Hires.ListByHirer(ctx, actorID)
	if err != nil {
		return nil, err
	}
	asTalent, err := o.store.Repos().Hires.ListByTalent(ctx, actorID)
	if err != nil {
		return nil, err
	}
	return append(asHirer, asTalent...), nil
}

// WithClock overrides the orchestrator clock.
func (o *Orchestrator) WithClock(now func() time.Time) *Orchestrator {
	o.now = now
	return o
}

func isPermanent(err error) bool {
	switch {
	case errors.Is(err, domain.ErrTemplateNotFound),
		errors.Is(err, domain.ErrNotEligible),
		errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrInvalidTransition),
		errors.Is(err, domain.ErrUnauthorized),
		errors.Is(err, domain.ErrNotFound),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return true
	}
	return false
}
