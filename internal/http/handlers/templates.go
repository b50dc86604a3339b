package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"server/internal/domain"
)

type templateCreateRequest struct {
	Kind  string `json:"kind"`
	Title string `json:"title"`
	Body  string `json:"body"`
}

type templateSupersedeRequest struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

type templateDTO struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	Version   int       `json:"version"`
	Title     string    `json:"title"`
	BodyRef   string    `json:"body_ref"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

func toTemplateDTO(t *domain.AgreementTemplate) templateDTO {
	return templateDTO{
		ID:        t.ID,
		Kind:      string(t.Kind),
		Version:   t.Version,
		Title:     t.Title,
		BodyRef:   t.BodyRef,
		IsActive:  t.IsActive,
		CreatedAt: t.CreatedAt,
	}
}

func (a *App) TemplatesCreate(w http.ResponseWriter, r *http.Request) {
	var req templateCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	tpl, err := a.Registry.CreateTemplate(r.Context(), domain.AgreementKind(req.Kind), req.Title, req.Body)
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	a.json(w, http.StatusCreated, toTemplateDTO(tpl))
}

func (a *App) TemplatesList(w http.ResponseWriter, r *http.Request) {
	items, err := a.Registry.ListTemplates(r.Context())
	if err != nil {
		a.domainError(w, err)
		return
	}
	out := make([]templateDTO, 0, len(items))
	for i := range items {
		out = append(out, toTemplateDTO(&items[i]))
	}
	a.json(w, http.StatusOK, map[string]any{"items": out})
}

// TemplatesSupersede registers a new revision of the template's kind and
// deactivates the current one. Stored revisions are never edited: signed
// assignments keep pointing at the exact text their signer saw.
func (a *App) TemplatesSupersede(w http.ResponseWriter, r *http.Request) {
	var req templateSupersedeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	old, err := a.Registry.GetTemplate(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.domainError(w, err)
		return
	}
	if !old.IsActive {
		a.error(w, http.StatusConflict, "conflict", "template is already superseded")
		return
	}
	tpl, err := a.Registry.SupersedeTemplate(r.Context(), old.Kind, req.Title, req.Body)
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusCreated, toTemplateDTO(tpl))
}
