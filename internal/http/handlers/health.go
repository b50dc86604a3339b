package handlers

import (
	"net/http"
	"time"
)

// Health is a liveness probe. It does not touch the database; the pool
// pings at startup.
func (a *App) Health(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, map[string]string{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}
