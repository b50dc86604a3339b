package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
)

// NotificationsList returns the caller's notification events, newest first.
// This is the in-app view of the outbox; push delivery happens elsewhere.
func (a *App) NotificationsList(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	events, err := a.Store.Repos().Outbox.ListByRecipient(r.Context(), a.currentUserID(r), limit)
	if err != nil {
		a.domainError(w, err)
		return
	}
	items := make([]map[string]any, 0, len(events))
	for _, e := range events {
		items = append(items, map[string]any{
			"id":         e.ID,
			"kind":       e.Kind,
			"payload":    json.RawMessage(e.Payload),
			"created_at": e.CreatedAt,
			"dispatched": e.DispatchedAt != nil,
		})
	}
	a.json(w, http.StatusOK, map[string]any{"items": items})
}
