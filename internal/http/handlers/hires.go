package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"server/internal/domain"
	"server/internal/hiring"
)

type hireCreateRequest struct {
	TalentID           string `json:"talent_id"`
	ProjectTitle       string `json:"project_title"`
	ProjectDescription string `json:"project_description"`
}

type hirePatchRequest struct {
	Action string `json:"action"` // decline | withdraw
}

type hireDTO struct {
	ID                    string    `json:"id"`
	HirerID               string    `json:"hirer_id"`
	TalentID              string    `json:"talent_id"`
	ProjectTitle          string    `json:"project_title"`
	ProjectDescription    string    `json:"project_description"`
	Status                string    `json:"status"`
	AgreementAssignmentID *string   `json:"agreement_assignment_id"`
	CreatedAt             time.Time `json:"created_at"`
}

func toHireDTO(h *domain.HireRequest) hireDTO {
	return hireDTO{
		ID:                    h.ID,
		HirerID:               h.HirerID,
		TalentID:              h.TalentID,
		ProjectTitle:          h.ProjectTitle,
		ProjectDescription:    h.ProjectDescription,
		Status:                string(h.Status),
		AgreementAssignmentID: h.AgreementAssignmentID,
		CreatedAt:             h.CreatedAt,
	}
}

func (a *App) HiresCreate(w http.ResponseWriter, r *http.Request) {
	var req hireCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if req.TalentID == "" || strings.TrimSpace(req.ProjectTitle) == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "talent_id and project_title are required")
		return
	}
	actor := a.actor(r)
	if req.TalentID == actor.ID {
		a.error(w, http.StatusBadRequest, "bad_request", "cannot hire yourself")
		return
	}
	hire, err := a.Hires.Hire(r.Context(), actor, hiring.HireParams{
		TalentID:           req.TalentID,
		ProjectTitle:       req.ProjectTitle,
		ProjectDescription: req.ProjectDescription,
	})
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusCreated, toHireDTO(hire))
}

func (a *App) HiresList(w http.ResponseWriter, r *http.Request) {
	items, err := a.Hires.ListFor(r.Context(), a.currentUserID(r))
	if err != nil {
		a.domainError(w, err)
		return
	}
	out := make([]hireDTO, 0, len(items))
	for i := range items {
		out = append(out, toHireDTO(&items[i]))
	}
	a.json(w, http.StatusOK, map[string]any{"items": out})
}

func (a *App) HiresGet(w http.ResponseWriter, r *http.Request) {
	hire, err := a.Hires.Get(r.Context(), a.actor(r), chi.URLParam(r, "id"))
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, toHireDTO(hire))
}

// HiresPatch resolves a pending hire request: the talent declines it, the
// hirer withdraws it. Acceptance is not reachable here, it happens when the
// talent signs the linked agreement.
func (a *App) HiresPatch(w http.ResponseWriter, r *http.Request) {
	var req hirePatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	actor := a.actor(r)
	hireID := chi.URLParam(r, "id")

	var (
		hire *domain.HireRequest
		err  error
	)
	switch req.Action {
	case "decline":
		hire, err = a.Hires.Decline(r.Context(), actor, hireID)
	case "withdraw":
		hire, err = a.Hires.Withdraw(r.Context(), actor, hireID)
	default:
		a.error(w, http.StatusBadRequest, "bad_request", "action must be decline or withdraw")
		return
	}
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, toHireDTO(hire))
}
