package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/womencount/womencount/internal/handler/dto"
	"github.com/womencount/womencount/internal/stats"
)

// StatsHandler handles the statistics report endpoint.
type StatsHandler struct {
	engine *stats.Engine
	logger *slog.Logger
}

// NewStatsHandler creates a new StatsHandler.
func NewStatsHandler(engine *stats.Engine, logger *slog.Logger) *StatsHandler {
	return &StatsHandler{
		engine: engine,
		logger: logger.With("component", "handler.stats"),
	}
}

// Get handles GET /api/statistiques.
// The report is recomputed from the current record set on every call.
func (h *StatsHandler) Get(w http.ResponseWriter, r *http.Request) {
	report, err := h.engine.Report(r.Context())
	if err != nil {
		if errors.Is(err, stats.ErrStoreUnavailable) {
			h.logger.Error("statistics store read failed", "error", err)
			writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{
				Error: "Statistics temporarily unavailable",
				Code:  "STORE_UNAVAILABLE",
			})
			return
		}
		h.logger.Error("statistics computation failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{
			Error: "An internal error occurred",
			Code:  "INTERNAL_ERROR",
		})
		return
	}

	writeJSON(w, http.StatusOK, report)
}
