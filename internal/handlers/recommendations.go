package handlers

import (
	"net/http"
	"strconv"

	"github.com/bazario/smart-recs/internal/models"
	"github.com/bazario/smart-recs/internal/services/recs"
	"github.com/bazario/smart-recs/internal/validation"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// RecommendationsHandler handles recommendation requests
type RecommendationsHandler struct {
	service *recs.Service
	logger  *zap.Logger
}

// NewRecommendationsHandler creates a new recommendations handler
func NewRecommendationsHandler(service *recs.Service, logger *zap.Logger) *RecommendationsHandler {
	return &RecommendationsHandler{service: service, logger: logger}
}

// RegisterRoutes registers recommendation routes on the given router
func (h *RecommendationsHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/users/{user_id}/recommendations", h.GetRecommendations).Methods("GET")
}

// GetRecommendations handles GET /users/{user_id}/recommendations.
// Query parameters: limit (default 10), algorithm (default hybrid).
func (h *RecommendationsHandler) GetRecommendations(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	userID, err := uuid.Parse(vars["user_id"])
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid user ID")
		return
	}

	limit := recs.DefaultLimit
	if l := r.URL.Query().Get("limit"); l != "" {
		parsed, err := strconv.Atoi(l)
		if err != nil || parsed <= 0 {
			respondJSONError(w, http.StatusBadRequest, "Bad Request", "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	algorithm := models.AlgorithmHybrid
	if a := r.URL.Query().Get("algorithm"); a != "" {
		if err := validation.ValidateAlgorithm(a); err != nil {
			respondJSONError(w, http.StatusBadRequest, "Bad Request", err.Error())
			return
		}
		algorithm = models.Algorithm(a)
	}

	result, err := h.service.Recommend(r.Context(), userID, limit, algorithm)
	if err != nil {
		switch {
		case recs.IsValidation(err):
			respondJSONError(w, http.StatusBadRequest, "Bad Request", err.Error())
		default:
			h.logger.Error("recommendation_request_failed",
				zap.String("user_id", userID.String()),
				zap.Error(err),
			)
			respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to generate recommendations")
		}
		return
	}

	respondJSON(w, http.StatusOK, result)
}
