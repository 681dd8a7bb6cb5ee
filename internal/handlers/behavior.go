package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/bazario/smart-recs/internal/models"
	"github.com/bazario/smart-recs/internal/services/recs"
	"github.com/bazario/smart-recs/internal/validation"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// BehaviorHandler handles behavior tracking requests
type BehaviorHandler struct {
	service *recs.Service
	logger  *zap.Logger
}

// NewBehaviorHandler creates a new behavior handler
func NewBehaviorHandler(service *recs.Service, logger *zap.Logger) *BehaviorHandler {
	return &BehaviorHandler{service: service, logger: logger}
}

// RegisterRoutes registers behavior routes on the given router
func (h *BehaviorHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/behavior", h.TrackBehavior).Methods("POST")
}

// TrackBehaviorRequest represents a behavior tracking request
type TrackBehaviorRequest struct {
	UserID    string   `json:"user_id" validate:"required,uuid"`
	ListingID string   `json:"listing_id" validate:"required,uuid"`
	Action    string   `json:"action" validate:"required,behavior_action"`
	Category  string   `json:"category,omitempty" validate:"omitempty,max=100"`
	Price     *float64 `json:"price,omitempty" validate:"omitempty,gte=0"`
}

// TrackBehavior handles POST /behavior. Tracking is best-effort: a valid
// request is acknowledged even if the event cannot be recorded.
func (h *BehaviorHandler) TrackBehavior(w http.ResponseWriter, r *http.Request) {
	var req TrackBehaviorRequest
	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(&req); err != nil {
		if maxBytesErr, ok := err.(*http.MaxBytesError); ok {
			respondJSONError(w, http.StatusRequestEntityTooLarge, "Request Entity Too Large", fmt.Sprintf("Request body exceeds maximum size of %d bytes", maxBytesErr.Limit))
			return
		}
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid request body")
		return
	}

	if err := validation.Validate.Struct(req); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			for _, fieldError := range validationErrors {
				respondJSONError(w, http.StatusBadRequest, "Bad Request", fmt.Sprintf("Validation failed: %s", fieldError.Error()))
				return
			}
		}
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Validation failed")
		return
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid user ID")
		return
	}
	listingID, err := uuid.Parse(req.ListingID)
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid listing ID")
		return
	}

	event := &models.BehaviorEvent{
		UserID:    userID,
		ListingID: listingID,
		Action:    models.BehaviorAction(req.Action),
		Category:  req.Category,
		Price:     req.Price,
	}

	if err := h.service.TrackBehavior(r.Context(), event); err != nil {
		if recs.IsValidation(err) {
			respondJSONError(w, http.StatusBadRequest, "Bad Request", err.Error())
			return
		}
		h.logger.Error("behavior_track_failed",
			zap.String("user_id", userID.String()),
			zap.Error(err),
		)
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to track behavior")
		return
	}

	respondJSON(w, http.StatusAccepted, map[string]any{"tracked": true})
}
