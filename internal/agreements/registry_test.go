package agreements

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"server/internal/adapter/repo"
	"server/internal/domain"
)

func TestCreateAssignment_NoActiveTemplate(t *testing.T) {
	store := newMemStore()
	g := NewRegistry(store, zerolog.Nop())

	_, err := g.CreateAssignment(context.Background(), Actor{ID: "admin-1", Role: domain.UserRoleAdmin}, AssignmentParams{
		Kind:     domain.AgreementKindNDA,
		SignerID: "talent-1",
	})
	if !errors.Is(err, domain.ErrTemplateNotFound) {
		t.Fatalf("expected ErrTemplateNotFound, got %v", err)
	}
	if len(store.assignments) != 0 || len(store.audits) != 0 || len(store.events) != 0 {
		t.Fatal("failed creation must not leave partial state")
	}
}

func TestCreateAssignment_WritesAuditAndEvent(t *testing.T) {
	store := newMemStore()
	store.seedTemplate(domain.AgreementKindNDA)
	g := NewRegistry(store, zerolog.Nop())

	a, err := g.CreateAssignment(context.Background(), Actor{ID: "admin-1", Role: domain.UserRoleAdmin, IP: "10.0.0.1", Country: "US"}, AssignmentParams{
		Kind:     domain.AgreementKindNDA,
		SignerID: "talent-1",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.Status != domain.AssignmentStatusPending {
		t.Fatalf("expected PENDING, got %s", a.Status)
	}
	if len(store.audits) != 1 || store.audits[0].Action != domain.AuditActionAssigned {
		t.Fatalf("expected one assigned audit entry, got %+v", store.audits)
	}
	if store.audits[0].IPAddress != "10.0.0.1" || store.audits[0].Country != "US" {
		t.Fatalf("audit entry missing network evidence: %+v", store.audits[0])
	}
	if len(store.events) != 1 || store.events[0].Kind != domain.EventAgreementAssigned {
		t.Fatalf("expected AGREEMENT_ASSIGNED event, got %+v", store.events)
	}
	if store.events[0].RecipientID != "talent-1" {
		t.Fatalf("event must target the signer, got %s", store.events[0].RecipientID)
	}
}

func TestGetAssignment_LazyOverdue(t *testing.T) {
	store := newMemStore()
	store.seedTemplate(domain.AgreementKindService)
	now := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)
	g := NewRegistry(store, zerolog.Nop()).WithClock(func() time.Time { return now })

	past := now.Add(-24 * time.Hour)
	a, err := g.CreateAssignment(context.Background(), Actor{ID: "admin-1", Role: domain.UserRoleAdmin}, AssignmentParams{
		Kind:     domain.AgreementKindService,
		SignerID: "talent-1",
		DueAt:    &past,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := g.GetAssignment(context.Background(), a.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != domain.AssignmentStatusOverdue {
		t.Fatalf("expected OVERDUE, got %s", got.Status)
	}
	// The correction is persisted, not just reported.
	if store.assignments[a.ID].Status != domain.AssignmentStatusOverdue {
		t.Fatalf("expected stored OVERDUE, got %s", store.assignments[a.ID].Status)
	}

	// A later read never resurrects PENDING.
	again, err := g.GetAssignment(context.Background(), a.ID)
	if err != nil {
		t.Fatalf("second get: %v", err)
	}
	if again.Status != domain.AssignmentStatusOverdue {
		t.Fatalf("expected OVERDUE to stick, got %s", again.Status)
	}
}

func TestSign_LateSignatureOnOverdue(t *testing.T) {
	store := newMemStore()
	store.seedTemplate(domain.AgreementKindFairTreatment)
	now := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)
	g := NewRegistry(store, zerolog.Nop()).WithClock(func() time.Time { return now })

	past := now.Add(-time.Hour)
	a, err := g.CreateAssignment(context.Background(), Actor{ID: "admin-1", Role: domain.UserRoleAdmin}, AssignmentParams{
		Kind:     domain.AgreementKindFairTreatment,
		SignerID: "hirer-1",
		DueAt:    &past,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	signed, err := g.Sign(context.Background(), Actor{ID: "hirer-1", Role: domain.UserRoleHirer}, a.ID)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if signed.Status != domain.AssignmentStatusSigned {
		t.Fatalf("expected SIGNED, got %s", signed.Status)
	}
	if signed.SignedAt == nil || !signed.SignedAt.Equal(now) {
		t.Fatalf("expected signed_at %v, got %v", now, signed.SignedAt)
	}
}

func TestSign_ReplayRejected(t *testing.T) {
	store := newMemStore()
	store.seedTemplate(domain.AgreementKindNDA)
	g := NewRegistry(store, zerolog.Nop())

	a, err := g.CreateAssignment(context.Background(), Actor{ID: "admin-1", Role: domain.UserRoleAdmin}, AssignmentParams{
		Kind:     domain.AgreementKindNDA,
		SignerID: "talent-1",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	actor := Actor{ID: "talent-1", Role: domain.UserRoleTalent}
	if _, err := g.Sign(context.Background(), actor, a.ID); err != nil {
		t.Fatalf("first sign: %v", err)
	}
	if _, err := g.Sign(context.Background(), actor, a.ID); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected invalid transition on replay, got %v", err)
	}
}

func TestSign_AcceptsLinkedHire(t *testing.T) {
	store := newMemStore()
	store.seedTemplate(domain.AgreementKindService)
	g := NewRegistry(store, zerolog.Nop())

	hireID := "hire-1"
	store.hires[hireID] = &domain.HireRequest{
		ID:       hireID,
		HirerID:  "hirer-1",
		TalentID: "talent-1",
		Status:   domain.HireStatusPendingAgreement,
	}
	a, err := g.CreateAssignment(context.Background(), Actor{ID: "hirer-1", Role: domain.UserRoleHirer}, AssignmentParams{
		Kind:       domain.AgreementKindService,
		SignerID:   "talent-1",
		ContextRef: &hireID,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := g.Sign(context.Background(), Actor{ID: "talent-1", Role: domain.UserRoleTalent}, a.ID); err != nil {
		t.Fatalf("sign: %v", err)
	}
	if store.hires[hireID].Status != domain.HireStatusAccepted {
		t.Fatalf("expected hire ACCEPTED, got %s", store.hires[hireID].Status)
	}

	// One event for the signer, one telling the hirer the engagement stands.
	var hirerNotified bool
	for _, ev := range store.events {
		if ev.Kind == domain.EventAgreementSigned && ev.RecipientID == "hirer-1" {
			hirerNotified = true
		}
	}
	if !hirerNotified {
		t.Fatal("expected the hirer to be notified of the accepted engagement")
	}
}

func TestCancelAssignment_RequiresStaff(t *testing.T) {
	store := newMemStore()
	store.seedTemplate(domain.AgreementKindNDA)
	g := NewRegistry(store, zerolog.Nop())

	a, err := g.CreateAssignment(context.Background(), Actor{ID: "admin-1", Role: domain.UserRoleAdmin}, AssignmentParams{
		Kind:     domain.AgreementKindNDA,
		SignerID: "talent-1",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := g.CancelAssignment(context.Background(), Actor{ID: "talent-1", Role: domain.UserRoleTalent}, a.ID); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	cancelled, err := g.CancelAssignment(context.Background(), Actor{ID: "legal-1", Role: domain.UserRoleLegal}, a.ID)
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if cancelled.Status != domain.AssignmentStatusCancelled {
		t.Fatalf("expected CANCELLED, got %s", cancelled.Status)
	}
}

func TestListForSigner_OldestFirst(t *testing.T) {
	store := newMemStore()
	store.seedTemplate(domain.AgreementKindNDA)
	base := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	tick := 0
	g := NewRegistry(store, zerolog.Nop()).WithClock(func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	})

	for i := 0; i < 3; i++ {
		if _, err := g.CreateAssignment(context.Background(), Actor{ID: "admin-1", Role: domain.UserRoleAdmin}, AssignmentParams{
			Kind:     domain.AgreementKindNDA,
			SignerID: "talent-1",
		}); err != nil {
			t.Fatalf("create %d: %v", i, err)
		}
	}

	items, err := g.ListForSigner(context.Background(), "talent-1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("expected 3 assignments, got %d", len(items))
	}
	for i := 1; i < len(items); i++ {
		if items[i].CreatedAt.Before(items[i-1].CreatedAt) {
			t.Fatal("assignments must be ordered oldest first")
		}
	}
}

func TestSupersedeTemplate_KeepsOldRevision(t *testing.T) {
	store := newMemStore()
	g := NewRegistry(store, zerolog.Nop())

	v1, err := g.CreateTemplate(context.Background(), domain.AgreementKindTerms, "Terms", "v1 text")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	v2, err := g.SupersedeTemplate(context.Background(), domain.AgreementKindTerms, "Terms", "v2 text")
	if err != nil {
		t.Fatalf("supersede: %v", err)
	}
	if v2.Version != 2 || !v2.IsActive {
		t.Fatalf("expected active v2, got %+v", v2)
	}
	old, err := g.GetTemplate(context.Background(), v1.ID)
	if err != nil {
		t.Fatalf("get old: %v", err)
	}
	if old.IsActive {
		t.Fatal("superseded template must be deactivated, not deleted")
	}
	active, err := store.Repos().Templates.ActiveByKind(context.Background(), domain.AgreementKindTerms)
	if err != nil {
		t.Fatalf("active: %v", err)
	}
	if active.ID != v2.ID {
		t.Fatalf("expected v2 active, got %s", active.ID)
	}
}

// --- in-memory store ---

type memStore struct {
	templates   map[string]*domain.AgreementTemplate
	assignments map[string]*domain.AgreementAssignment
	hires       map[string]*domain.HireRequest
	events      []*domain.NotificationEvent
	audits      []*domain.AgreementAuditEntry
	seq         int
}

func newMemStore() *memStore {
	return &memStore{
		templates:   map[string]*domain.AgreementTemplate{},
		assignments: map[string]*domain.AgreementAssignment{},
		hires:       map[string]*domain.HireRequest{},
	}
}

func (m *memStore) seedTemplate(kind domain.AgreementKind) *domain.AgreementTemplate {
	m.seq++
	tpl := &domain.AgreementTemplate{
		ID:       fmt.Sprintf("tpl-%d", m.seq),
		Kind:     kind,
		Version:  1,
		Title:    string(kind),
		IsActive: true,
	}
	m.templates[tpl.ID] = tpl
	return tpl
}

func (m *memStore) Repos() repo.Repos {
	return repo.Repos{
		Templates:   memTemplates{m},
		Assignments: memAssignments{m},
		Hires:       memHires{m},
		Outbox:      memOutbox{m},
		Audits:      memAudits{m},
	}
}

// WithinTx snapshots the state and restores it when fn fails, mirroring the
// rollback behavior of the real transactional store.
func (m *memStore) WithinTx(ctx context.Context, fn func(repo.Repos) error) error {
	snap := m.snapshot()
	if err := fn(m.Repos()); err != nil {
		m.restore(snap)
		return err
	}
	return nil
}

type memSnapshot struct {
	templates   map[string]*domain.AgreementTemplate
	assignments map[string]*domain.AgreementAssignment
	hires       map[string]*domain.HireRequest
	events      []*domain.NotificationEvent
	audits      []*domain.AgreementAuditEntry
}

func (m *memStore) snapshot() memSnapshot {
	snap := memSnapshot{
		templates:   map[string]*domain.AgreementTemplate{},
		assignments: map[string]*domain.AgreementAssignment{},
		hires:       map[string]*domain.HireRequest{},
		events:      append([]*domain.NotificationEvent(nil), m.events...),
		audits:      append([]*domain.AgreementAuditEntry(nil), m.audits...),
	}
	for id, tpl := range m.templates {
		cp := *tpl
		snap.templates[id] = &cp
	}
	for id, a := range m.assignments {
		cp := *a
		snap.assignments[id] = &cp
	}
	for id, h := range m.hires {
		cp := *h
		snap.hires[id] = &cp
	}
	return snap
}

func (m *memStore) restore(snap memSnapshot) {
	m.templates = snap.templates
	m.assignments = snap.assignments
	m.hires = snap.hires
	m.events = snap.events
	m.audits = snap.audits
}

type memTemplates struct{ s *memStore }

func (r memTemplates) Create(_ context.Context, tpl *domain.AgreementTemplate) error {
	cp := *tpl
	r.s.templates[tpl.ID] = &cp
	return nil
}

func (r memTemplates) GetByID(_ context.Context, id string) (*domain.AgreementTemplate, error) {
	tpl, ok := r.s.templates[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *tpl
	return &cp, nil
}

func (r memTemplates) ActiveByKind(_ context.Context, kind domain.AgreementKind) (*domain.AgreementTemplate, error) {
	for _, tpl := range r.s.templates {
		if tpl.Kind == kind && tpl.IsActive {
			cp := *tpl
			return &cp, nil
		}
	}
	return nil, domain.ErrTemplateNotFound
}

func (r memTemplates) Deactivate(_ context.Context, id string) error {
	tpl, ok := r.s.templates[id]
	if !ok {
		return domain.ErrNotFound
	}
	tpl.IsActive = false
	return nil
}

func (r memTemplates) List(_ context.Context) ([]domain.AgreementTemplate, error) {
	out := make([]domain.AgreementTemplate, 0, len(r.s.templates))
	for _, tpl := range r.s.templates {
		out = append(out, *tpl)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type memAssignments struct{ s *memStore }

func (r memAssignments) Create(_ context.Context, a *domain.AgreementAssignment) error {
	cp := *a
	r.s.assignments[a.ID] = &cp
	return nil
}

func (r memAssignments) GetByID(_ context.Context, id string) (*domain.AgreementAssignment, error) {
	a, ok := r.s.assignments[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (r memAssignments) GetByContextRef(_ context.Context, contextRef string) (*domain.AgreementAssignment, error) {
	for _, a := range r.s.assignments {
		if a.ContextRef != nil && *a.ContextRef == contextRef {
			cp := *a
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r memAssignments) ListBySigner(_ context.Context, signerID string) ([]domain.AgreementAssignment, error) {
	var out []domain.AgreementAssignment
	for _, a := range r.s.assignments {
		if a.SignerID == signerID {
			out = append(out, *a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r memAssignments) ListAll(_ context.Context, limit int) ([]domain.AgreementAssignment, error) {
	var out []domain.AgreementAssignment
	for _, a := range r.s.assignments {
		out = append(out, *a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r memAssignments) HasSigned(_ context.Context, signerID string, kind domain.AgreementKind) (bool, error) {
	for _, a := range r.s.assignments {
		if a.SignerID != signerID || a.Status != domain.AssignmentStatusSigned {
			continue
		}
		tpl, ok := r.s.templates[a.TemplateID]
		if ok && tpl.Kind == kind {
			return true, nil
		}
	}
	return false, nil
}

func (r memAssignments) UpdateStatus(_ context.Context, id string, status domain.AssignmentStatus, signedAt *time.Time) error {
	a, ok := r.s.assignments[id]
	if !ok {
		return domain.ErrNotFound
	}
	a.Status = status
	if signedAt != nil {
		a.SignedAt = signedAt
	}
	return nil
}

func (r memAssignments) MarkOverdue(_ context.Context, id string) error {
	a, ok := r.s.assignments[id]
	if !ok {
		return domain.ErrNotFound
	}
	if a.Status == domain.AssignmentStatusPending {
		a.Status = domain.AssignmentStatusOverdue
	}
	return nil
}

type memHires struct{ s *memStore }

func (r memHires) Create(_ context.Context, h *domain.HireRequest) error {
	cp := *h
	r.s.hires[h.ID] = &cp
	return nil
}

func (r memHires) GetByID(_ context.Context, id string) (*domain.HireRequest, error) {
	h, ok := r.s.hires[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *h
	return &cp, nil
}

func (r memHires) ListByHirer(_ context.Context, hirerID string) ([]domain.HireRequest, error) {
	var out []domain.HireRequest
	for _, h := range r.s.hires {
		if h.HirerID == hirerID {
			out = append(out, *h)
		}
	}
	return out, nil
}

func (r memHires) ListByTalent(_ context.Context, talentID string) ([]domain.HireRequest, error) {
	var out []domain.HireRequest
	for _, h := range r.s.hires {
		if h.TalentID == talentID {
			out = append(out, *h)
		}
	}
	return out, nil
}

func (r memHires) UpdateStatus(_ context.Context, id string, status domain.HireStatus) error {
	h, ok := r.s.hires[id]
	if !ok {
		return domain.ErrNotFound
	}
	h.Status = status
	return nil
}

type memOutbox struct{ s *memStore }

func (r memOutbox) Enqueue(_ context.Context, event *domain.NotificationEvent) error {
	cp := *event
	r.s.events = append(r.s.events, &cp)
	return nil
}

func (r memOutbox) ListUndispatched(_ context.Context, limit int) ([]domain.NotificationEvent, error) {
	var out []domain.NotificationEvent
	for _, ev := range r.s.events {
		if ev.DispatchedAt == nil {
			out = append(out, *ev)
		}
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r memOutbox) MarkDispatched(_ context.Context, id string, at time.Time) error {
	for _, ev := range r.s.events {
		if ev.ID == id {
			ev.DispatchedAt = &at
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r memOutbox) ListByRecipient(_ context.Context, recipientID string, limit int) ([]domain.NotificationEvent, error) {
	var out []domain.NotificationEvent
	for _, ev := range r.s.events {
		if ev.RecipientID == recipientID {
			out = append(out, *ev)
		}
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

type memAudits struct{ s *memStore }

func (r memAudits) Append(_ context.Context, entry *domain.AgreementAuditEntry) error {
	cp := *entry
	r.s.audits = append(r.s.audits, &cp)
	return nil
}

func (r memAudits) ListByAssignment(_ context.Context, assignmentID string) ([]domain.AgreementAuditEntry, error) {
	var out []domain.AgreementAuditEntry
	for _, e := range r.s.audits {
		if e.AssignmentID == assignmentID {
			out = append(out, *e)
		}
	}
	return out, nil
}
