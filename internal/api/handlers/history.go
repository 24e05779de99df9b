package handlers

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/wonny/stockreco/internal/history"
	"github.com/wonny/stockreco/pkg/config"
	"github.com/wonny/stockreco/pkg/logger"
)

// HistoryHandler handles recommendation history API endpoints
type HistoryHandler struct {
	repo   *history.Repository
	config *config.Config
	logger *logger.Logger
}

// NewHistoryHandler creates a new history handler
func NewHistoryHandler(repo *history.Repository, cfg *config.Config, log *logger.Logger) *HistoryHandler {
	return &HistoryHandler{
		repo:   repo,
		config: cfg,
		logger: log,
	}
}

// ListRuns returns recent recommendation runs
// GET /api/history?market=KS&limit=30
func (h *HistoryHandler) ListRuns(w http.ResponseWriter, r *http.Request) {
	market := r.URL.Query().Get("market")
	if market == "" {
		market = h.config.Market
	}

	limit := 30
	if v := r.URL.Query().Get("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed <= 0 || parsed > 200 {
			respondError(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = parsed
	}

	runs, err := h.repo.ListRuns(r.Context(), market, limit)
	if err != nil {
		h.logger.WithError(err).Error("추천 이력 조회 실패")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve history")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"runs":  runs,
		"count": len(runs),
	})
}

// GetRun returns one run with its full candidate list
// GET /api/history/{id}
func (h *HistoryHandler) GetRun(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id, err := strconv.ParseInt(vars["id"], 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid id")
		return
	}

	run, err := h.repo.GetRun(r.Context(), id)
	if err != nil {
		respondError(w, http.StatusNotFound, "Recommendation run not found")
		return
	}

	respondJSON(w, http.StatusOK, run)
}
