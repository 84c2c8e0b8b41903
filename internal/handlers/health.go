package handlers

import (
	"context"
	"net/http"
	"time"

	"finmatch-backend/internal/dto"
	"finmatch-backend/internal/utils"
)

// Pinger is satisfied by *pgxpool.Pool.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler handles health check related requests
type HealthHandler struct {
	db  Pinger
	now func() time.Time
}

// NewHealthHandler creates a new HealthHandler instance
func NewHealthHandler(db Pinger) *HealthHandler {
	return &HealthHandler{db: db, now: time.Now}
}

// HealthCheck reports process and database status. It always answers 200.
// @Summary Health check
// @Description Reports whether the API is up and whether the database answers a ping
// @Tags health
// @Produce json
// @Success 200 {object} dto.HealthResponse
// @Router /api/health [get]
func (h *HealthHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	db := "connected"
	if err := h.ping(r.Context(), 2*time.Second); err != nil {
		db = "disconnected"
	}
	utils.WriteJSONResponse(w, http.StatusOK, dto.HealthResponse{
		Status:    "ok",
		Database:  db,
		Timestamp: h.now().UTC().Format(time.RFC3339),
	})
}

// LivenessCheck handles process liveness check
func (h *HealthHandler) LivenessCheck(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSONResponse(w, http.StatusOK, dto.HealthResponse{Status: "alive"})
}

// ReadinessCheck handles readiness check (includes database connectivity)
func (h *HealthHandler) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	if err := h.ping(r.Context(), 3*time.Second); err != nil {
		utils.WriteJSONResponse(w, http.StatusServiceUnavailable, dto.HealthResponse{
			Status:  "degraded",
			Details: map[string]any{"db": err.Error()},
		})
		return
	}

	utils.WriteJSONResponse(w, http.StatusOK, dto.HealthResponse{
		Status:  "ready",
		Details: map[string]any{"db": "ok"},
	})
}

func (h *HealthHandler) ping(ctx context.Context, timeout time.Duration) error {
	if h.db == nil {
		return errNoDatabase
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return h.db.Ping(ctx)
}
