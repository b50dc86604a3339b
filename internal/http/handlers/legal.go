package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"server/internal/domain"
	"server/pkg/zip"
)

type auditEntryDTO struct {
	ID        string    `json:"id"`
	ActorID   string    `json:"actor_id"`
	Action    string    `json:"action"`
	IPAddress string    `json:"ip_address"`
	Country   string    `json:"country"`
	CreatedAt time.Time `json:"created_at"`
}

func toAuditDTOs(entries []domain.AgreementAuditEntry) []auditEntryDTO {
	out := make([]auditEntryDTO, 0, len(entries))
	for _, e := range entries {
		out = append(out, auditEntryDTO{
			ID:        e.ID,
			ActorID:   e.ActorID,
			Action:    string(e.Action),
			IPAddress: e.IPAddress,
			Country:   e.Country,
			CreatedAt: e.CreatedAt,
		})
	}
	return out
}

// LegalAssignments lists assignments across all signers for compliance
// review.
func (a *App) LegalAssignments(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	items, err := a.Store.Repos().Assignments.ListAll(r.Context(), limit)
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

// LegalAuditTrail returns the audit entries for one assignment.
func (a *App) LegalAuditTrail(w http.ResponseWriter, r *http.Request) {
	entries, err := a.Registry.AuditTrail(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{"items": toAuditDTOs(entries)})
}

// LegalEvidence exports one assignment and its full audit trail as a ZIP
// archive for dispute handling.
func (a *App) LegalEvidence(w http.ResponseWriter, r *http.Request) {
	assignmentID := chi.URLParam(r, "id")
	assignment, err := a.Registry.GetAssignment(r.Context(), assignmentID)
	if err != nil {
		a.domainError(w, err)
		return
	}
	entries, err := a.Registry.AuditTrail(r.Context(), assignmentID)
	if err != nil {
		a.domainError(w, err)
		return
	}
	template, err := a.Registry.GetTemplate(r.Context(), assignment.TemplateID)
	if err != nil {
		a.domainError(w, err)
		return
	}

	assignmentJSON, _ := json.MarshalIndent(toAssignmentDTO(assignment), "", "  ")
	templateJSON, _ := json.MarshalIndent(toTemplateDTO(template), "", "  ")
	auditJSON, _ := json.MarshalIndent(toAuditDTOs(entries), "", "  ")
	files := []zip.File{
		{Name: "assignment.json", Data: assignmentJSON},
		{Name: "template.json", Data: templateJSON},
		{Name: "audit_trail.json", Data: auditJSON},
	}
	if template.BodyRef != "" && a.Bodies != nil {
		body, err := a.Bodies.Read(r.Context(), template.BodyRef)
		if err != nil {
			a.Logger.Warn().Err(err).Str("body_ref", template.BodyRef).Msg("template body missing from store")
		} else {
			files = append(files, zip.File{Name: "template_body.md", Data: body})
		}
	}
	archive, err := zip.Archive(files)
	if err != nil {
		a.Logger.Error().Err(err).Str("assignment_id", assignmentID).Msg("build evidence archive")
		a.error(w, http.StatusInternalServerError, "internal", "failed to build archive")
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=evidence-%s.zip", assignmentID))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(archive)
}
