package handlers

import (
	"net/http"

	"store-backend/internal/health"
	"store-backend/pkg/utils"
)

type HealthHandler struct {
	checker *health.HealthChecker
}

func NewHealthHandler(checker *health.HealthChecker) *HealthHandler {
	return &HealthHandler{checker: checker}
}

// BasicHealth is the liveness probe.
func (h *HealthHandler) BasicHealth(w http.ResponseWriter, r *http.Request) {
	utils.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ReadinessHealth pings every database.
func (h *HealthHandler) ReadinessHealth(w http.ResponseWriter, r *http.Request) {
	writeHealth(w, h.checker.CheckBasic(r.Context()))
}

// PostgresHealth pings only Postgres.
func (h *HealthHandler) PostgresHealth(w http.ResponseWriter, r *http.Request) {
	writeHealth(w, h.checker.CheckBasic(r.Context(), "postgres"))
}

func (h *HealthHandler) DetailedHealth(w http.ResponseWriter, r *http.Request) {
	writeHealth(w, h.checker.CheckDetailed(r.Context()))
}

func writeHealth(w http.ResponseWriter, status health.HealthStatus) {
	code := http.StatusOK
	if status.Status != "healthy" {
		code = http.StatusServiceUnavailable
	}
	utils.JSON(w, code, status)
}
