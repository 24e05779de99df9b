package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/wonny/stockreco/internal/recommend"
	"github.com/wonny/stockreco/internal/strategy"
	"github.com/wonny/stockreco/pkg/logger"
)

// RecommendHandler handles recommendation API endpoints
// ⭐ SSOT: 추천 API 핸들러는 이 구조체에서만
type RecommendHandler struct {
	workflow *recommend.Workflow
	logger   *logger.Logger
}

// NewRecommendHandler creates a new recommendation handler
func NewRecommendHandler(workflow *recommend.Workflow, log *logger.Logger) *RecommendHandler {
	return &RecommendHandler{
		workflow: workflow,
		logger:   log,
	}
}

// RecommendRequest is the POST /api/recommend request body
type RecommendRequest struct {
	Strategy string `json:"strategy"`
	TopN     int    `json:"top_n"`
	WithNews *bool  `json:"with_news,omitempty"`
	AsOf     string `json:"as_of,omitempty"` // YYYY-MM-DD
}

// Run executes a recommendation run on demand
// POST /api/recommend
func (h *RecommendHandler) Run(w http.ResponseWriter, r *http.Request) {
	var req RecommendRequest
	if r.Body != nil {
		// 빈 바디는 기본 옵션으로 처리한다
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	opts := recommend.Options{
		Strategy: req.Strategy,
		TopN:     req.TopN,
		WithNews: true,
	}
	if req.WithNews != nil {
		opts.WithNews = *req.WithNews
	}
	if req.AsOf != "" {
		asOf, err := time.Parse("2006-01-02", req.AsOf)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid as_of (expected YYYY-MM-DD)")
			return
		}
		opts.AsOf = asOf
	}

	result, err := h.workflow.Run(r.Context(), opts)
	if err != nil {
		switch {
		case errors.Is(err, recommend.ErrNoScorableStocks):
			respondError(w, http.StatusUnprocessableEntity, "No scorable securities in universe")
		case errors.Is(err, recommend.ErrEmptyUniverse):
			respondError(w, http.StatusBadGateway, "Failed to resolve universe")
		default:
			h.logger.WithError(err).Error("추천 실행 실패")
			respondError(w, http.StatusInternalServerError, "Recommendation run failed")
		}
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// ListStrategies returns the supported strategy names
// GET /api/strategies
func (h *RecommendHandler) ListStrategies(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"strategies": strategy.Names(),
		"default":    strategy.Default,
	})
}

// Analyze returns a detailed single-stock analysis
// GET /api/analysis/{code}?name=...&news=true|false
func (h *RecommendHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	code := vars["code"]
	if code == "" {
		respondError(w, http.StatusBadRequest, "code is required")
		return
	}

	name := r.URL.Query().Get("name")
	withNews := r.URL.Query().Get("news") != "false"

	result, err := h.workflow.Analyze(r.Context(), code, name, withNews)
	if err != nil {
		h.logger.WithError(err).WithField("code", code).Error("종목 분석 실패")
		respondError(w, http.StatusBadGateway, "Failed to analyze stock")
		return
	}

	respondJSON(w, http.StatusOK, result)
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}
