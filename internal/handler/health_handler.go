package handlers

import (
	"net/http"
)

type HealthResponse struct {
	Status string `json:"status"`
}

// HealthHandler pings the database.
func (h *Handlers) HealthHandler(w http.ResponseWriter, r *http.Request) {
	if h.DB != nil {
		if err := h.DB.HealthCheck(); err != nil {
			h.logger().WithError(err).Warn("health check failed")
			WriteError(w, "Database unavailable", http.StatusServiceUnavailable)
			return
		}
	}

	writeSuccess(w, HealthResponse{Status: "ok"}, http.StatusOK)
}

// StatsHandler returns row counts for the admin dashboard.
func (h *Handlers) StatsHandler(w http.ResponseWriter, r *http.Request) {
	stats, err := h.StatsService.Counts(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, stats, http.StatusOK)
}
