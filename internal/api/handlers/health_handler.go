package handlers

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/bearister/auth-service/internal/api/types"
	"github.com/bearister/auth-service/pkg/logger"
)

// PingFunc reports whether a dependency is reachable.
type PingFunc func(ctx context.Context) error

type HealthHandler struct {
	ping PingFunc
}

// NewHealthHandler builds the probes; a nil ping makes readiness equal liveness.
func NewHealthHandler(ping PingFunc) *HealthHandler { return &HealthHandler{ping: ping} }

func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	types.WriteJSON(w, http.StatusOK, types.HealthResponse{Status: "ok"})
}

func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	if h.ping != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.ping(ctx); err != nil {
			logger.L().Warn("readiness check failed", zap.Error(err))
			types.WriteJSON(w, http.StatusServiceUnavailable, types.HealthResponse{Status: "unavailable"})
			return
		}
	}
	types.WriteJSON(w, http.StatusOK, types.HealthResponse{Status: "ready"})
}
