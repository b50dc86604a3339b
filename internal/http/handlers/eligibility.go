package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"server/internal/domain"
)

// Eligibility reports whether a hirer currently clears the hiring gate.
// Hirers may only ask about themselves; staff may ask about anyone.
func (a *App) Eligibility(w http.ResponseWriter, r *http.Request) {
	actor := a.actor(r)
	hirerID := chi.URLParam(r, "hirerId")
	if hirerID != actor.ID && !actor.Role.IsStaff() {
		a.error(w, http.StatusForbidden, "forbidden", "not allowed")
		return
	}
	decision, err := a.Gate.CanHire(r.Context(), hirerID)
	if err != nil {
		a.domainError(w, err)
		return
	}
	if decision.Reasons == nil {
		decision.Reasons = []domain.BlockingReason{}
	}
	a.json(w, http.StatusOK, decision)
}
