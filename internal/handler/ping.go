package handler

import (
	"log/slog"
	"net/http"

	"github.com/Manav-Sonawane/CodeCloud/internal/repository"
)

// PingHandler answers the health probe with a round trip through the
// database, so a green ping means the whole stack is up.
type PingHandler struct {
	clock  repository.Clock
	logger *slog.Logger
}

func NewPingHandler(clock repository.Clock, logger *slog.Logger) *PingHandler {
	return &PingHandler{clock: clock, logger: logger}
}

func (h *PingHandler) HandlePing(w http.ResponseWriter, r *http.Request) {
	now, err := h.clock.Now(r.Context())
	if err != nil {
		h.logger.Error("health check query failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "Database connection failed"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message": "pong",
		"db_time": now.Format("2006-01-02T15:04:05Z07:00"),
	})
}
