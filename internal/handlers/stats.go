package handlers

import (
	"net/http"

	"github.com/Amadorfl72/mentorhub/internal/services"
	"github.com/go-chi/chi/v5"
)

// StatsHandler serves platform-wide totals.
type StatsHandler struct {
	statsService *services.StatsService
}

// NewStatsHandler constructs a handler with the provided service.
func NewStatsHandler(statsService *services.StatsService) *StatsHandler {
	return &StatsHandler{statsService: statsService}
}

// StatsRouter registers stats routes on the given router.
func StatsRouter(r chi.Router, statsService *services.StatsService) {
	handler := NewStatsHandler(statsService)

	r.Get("/", handler.GetStats)
}

func (h *StatsHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.statsService.Totals(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to compute stats")
		return
	}

	writeJSON(w, http.StatusOK, stats)
}
