package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/friendscore/backend/internal/service"
)

type DashboardHandler struct {
	statsService    *service.StatsService
	presenceService *service.PresenceService
	logger          *zap.Logger
}

func NewDashboardHandler(statsService *service.StatsService, presenceService *service.PresenceService, logger *zap.Logger) *DashboardHandler {
	return &DashboardHandler{
		statsService:    statsService,
		presenceService: presenceService,
		logger:          logger,
	}
}

// Stats returns a fresh dashboard snapshot. Always recomputed, never cached.
func (h *DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.statsService.Snapshot(r.Context())
	if err != nil {
		h.logger.Error("compute stats snapshot failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		return
	}

	writeJSON(w, http.StatusOK, snapshot)
}

func (h *DashboardHandler) OnlineUsers(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.presenceService.OnlineUsers())
}
