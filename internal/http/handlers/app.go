// Package handlers contains the HTTP handlers. Every handler is a method on
// App, which carries the services and shared helpers.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"server/internal/adapter/repo"
	"server/internal/agreements"
	"server/internal/domain"
	"server/internal/fees"
	"server/internal/hiring"
	"server/internal/infra/credentials"
	"server/internal/middleware"
	"server/internal/storage"
)

type App struct {
	Store    *repo.Store
	Ledger   *fees.Ledger
	Registry *agreements.Registry
	Gate     *hiring.Gate
	Hires    *hiring.Orchestrator
	Creds    *credentials.Store
	Bodies   *storage.FileStore
	Logger   zerolog.Logger

	// WebhookSecret is the env fallback used when no secret is stored in the
	// credentials table.
	WebhookSecret string
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, errCode, message string) {
	a.json(w, code, map[string]any{
		"error":   errCode,
		"message": message,
	})
}

// domainError maps service errors onto HTTP responses. Policy rejections
// carry their reasons; configuration faults are logged and hidden.
func (a *App) domainError(w http.ResponseWriter, err error) {
	var notEligible *domain.NotEligibleError
	if errors.As(err, &notEligible) {
		a.json(w, http.StatusConflict, map[string]any{
			"error":   "not_eligible",
			"message": notEligible.Error(),
			"reasons": notEligible.Reasons,
		})
		return
	}
	switch {
	case errors.Is(err, domain.ErrNotFound):
		a.error(w, http.StatusNotFound, "not_found", "resource not found")
	case errors.Is(err, domain.ErrInvalidInput):
		a.error(w, http.StatusBadRequest, "bad_request", err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		a.error(w, http.StatusForbidden, "forbidden", "not allowed")
	case errors.Is(err, domain.ErrInvalidTransition):
		a.error(w, http.StatusConflict, "invalid_transition", err.Error())
	case errors.Is(err, domain.ErrSettlementConflict):
		a.error(w, http.StatusConflict, "settlement_conflict", err.Error())
	case errors.Is(err, domain.ErrTemplateNotFound):
		a.Logger.Error().Err(err).Msg("active agreement template missing")
		a.error(w, http.StatusInternalServerError, "internal", "service misconfigured")
	case errors.Is(err, domain.ErrTransient):
		a.error(w, http.StatusServiceUnavailable, "unavailable", "temporary failure, try again")
	default:
		a.Logger.Error().Err(err).Msg("request failed")
		a.error(w, http.StatusInternalServerError, "internal", "unexpected failure")
	}
}

func (a *App) currentUserID(r *http.Request) string {
	return middleware.UserIDFromContext(r.Context())
}

// actor builds the acting identity from the auth and i18n middleware.
func (a *App) actor(r *http.Request) agreements.Actor {
	return agreements.Actor{
		ID:      middleware.UserIDFromContext(r.Context()),
		Role:    domain.UserRole(middleware.UserRoleFromContext(r.Context())),
		IP:      middleware.ClientIP(r),
		Country: middleware.CountryFromContext(r.Context()),
	}
}
