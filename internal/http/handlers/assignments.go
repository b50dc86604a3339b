package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"server/internal/agreements"
	"server/internal/domain"
)

type assignmentCreateRequest struct {
	Kind       string     `json:"kind"`
	SignerID   string     `json:"signer_id"`
	ContextRef *string    `json:"context_ref"`
	DueAt      *time.Time `json:"due_at"`
}

type assignmentDTO struct {
	ID         string     `json:"id"`
	TemplateID string     `json:"template_id"`
	SignerID   string     `json:"signer_id"`
	ContextRef *string    `json:"context_ref"`
	Status     string     `json:"status"`
	DueAt      *time.Time `json:"due_at"`
	SignedAt   *time.Time `json:"signed_at"`
	CreatedAt  time.Time  `json:"created_at"`
}

func toAssignmentDTO(a *domain.AgreementAssignment) assignmentDTO {
	return assignmentDTO{
		ID:         a.ID,
		TemplateID: a.TemplateID,
		SignerID:   a.SignerID,
		ContextRef: a.ContextRef,
		Status:     string(a.Status),
		DueAt:      a.DueAt,
		SignedAt:   a.SignedAt,
		CreatedAt:  a.CreatedAt,
	}
}

// AssignmentsCreate registers a standalone signing obligation. Staff only;
// hire-bound obligations are created by the hire flow.
func (a *App) AssignmentsCreate(w http.ResponseWriter, r *http.Request) {
	var req assignmentCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	kind := domain.AgreementKind(req.Kind)
	if !domain.KnownAgreementKind(kind) {
		a.error(w, http.StatusBadRequest, "bad_request", "unknown agreement kind")
		return
	}
	if req.SignerID == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "signer_id is required")
		return
	}
	created, err := a.Registry.CreateAssignment(r.Context(), a.actor(r), agreements.AssignmentParams{
		Kind:       kind,
		SignerID:   req.SignerID,
		ContextRef: req.ContextRef,
		DueAt:      req.DueAt,
	})
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusCreated, toAssignmentDTO(created))
}

func (a *App) AssignmentsList(w http.ResponseWriter, r *http.Request) {
	items, err := a.Registry.ListForSigner(r.Context(), a.currentUserID(r))
	if err != nil {
		a.domainError(w, err)
		return
	}
	out := make([]assignmentDTO, 0, len(items))
	for i := range items {
		out = append(out, toAssignmentDTO(&items[i]))
	}
	a.json(w, http.StatusOK, map[string]any{"items": out})
}

func (a *App) AssignmentsGet(w http.ResponseWriter, r *http.Request) {
	actor := a.actor(r)
	assignment, err := a.Registry.GetAssignment(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.domainError(w, err)
		return
	}
	if assignment.SignerID != actor.ID && !actor.Role.IsStaff() {
		a.error(w, http.StatusForbidden, "forbidden", "not allowed")
		return
	}
	// The signer opening their obligation is audit-relevant evidence.
	if assignment.SignerID == actor.ID {
		if err := a.Registry.RecordView(r.Context(), actor, assignment.ID); err != nil {
			a.Logger.Error().Err(err).Str("assignment_id", assignment.ID).Msg("record view failed")
		}
	}
	a.json(w, http.StatusOK, toAssignmentDTO(assignment))
}

func (a *App) AssignmentsSign(w http.ResponseWriter, r *http.Request) {
	signed, err := a.Registry.Sign(r.Context(), a.actor(r), chi.URLParam(r, "id"))
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, toAssignmentDTO(signed))
}

func (a *App) AssignmentsCancel(w http.ResponseWriter, r *http.Request) {
	cancelled, err := a.Registry.CancelAssignment(r.Context(), a.actor(r), chi.URLParam(r, "id"))
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, toAssignmentDTO(cancelled))
}
