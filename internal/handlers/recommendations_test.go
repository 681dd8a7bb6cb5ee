package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bazario/smart-recs/internal/database"
	"github.com/bazario/smart-recs/internal/models"
	"github.com/google/uuid"
)

func TestGetRecommendations_Success(t *testing.T) {
	t.Parallel()

	listingID := uuid.New()
	listings := &mockListingRepo{
		queryActiveFunc: func(ctx context.Context, filter database.ListingFilter) ([]models.Listing, error) {
			if filter.OrderBy == database.ListingOrderPopularity {
				return []models.Listing{{ID: listingID, Status: models.ListingStatusActive}}, nil
			}
			return nil, nil
		},
		getByIDsFunc: func(ctx context.Context, ids []uuid.UUID, activeOnly bool) ([]models.Listing, error) {
			return []models.Listing{{ID: listingID, Status: models.ListingStatusActive}}, nil
		},
	}
	router := newTestRouter(&mockBehaviorRepo{}, listings)

	req := httptest.NewRequest("GET", "/users/"+uuid.NewString()+"/recommendations?algorithm=popularity", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	env := decodeEnvelope(t, rec)
	if !env.Success {
		t.Error("expected a success envelope")
	}

	var result models.RecommendationResult
	if err := json.Unmarshal(env.Data, &result); err != nil {
		t.Fatalf("failed to decode result: %v", err)
	}
	if len(result.Listings) != 1 || result.Listings[0].ID != listingID {
		t.Errorf("expected the popular listing returned, got %+v", result.Listings)
	}
	if result.Algorithm != models.AlgorithmPopularity {
		t.Errorf("expected popularity algorithm, got %s", result.Algorithm)
	}
}

func TestGetRecommendations_InvalidUserID(t *testing.T) {
	t.Parallel()

	router := newTestRouter(&mockBehaviorRepo{}, &mockListingRepo{})

	req := httptest.NewRequest("GET", "/users/not-a-uuid/recommendations", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	if env.Success {
		t.Error("expected an error envelope")
	}
	if env.Message != "Invalid user ID" {
		t.Errorf("unexpected message %q", env.Message)
	}
}

func TestGetRecommendations_InvalidQueryParams(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		query string
	}{
		{"non-numeric limit", "?limit=ten"},
		{"zero limit", "?limit=0"},
		{"negative limit", "?limit=-5"},
		{"unknown algorithm", "?algorithm=magic"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			router := newTestRouter(&mockBehaviorRepo{}, &mockListingRepo{})

			req := httptest.NewRequest("GET", "/users/"+uuid.NewString()+"/recommendations"+tt.query, nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Errorf("expected status 400, got %d", rec.Code)
			}
		})
	}
}

func TestGetRecommendations_StoreFailure(t *testing.T) {
	t.Parallel()

	behaviors := &mockBehaviorRepo{
		queryFunc: func(ctx context.Context, filter database.BehaviorFilter) ([]models.BehaviorEvent, error) {
			return nil, errors.New("database is down")
		},
	}
	router := newTestRouter(behaviors, &mockListingRepo{})

	req := httptest.NewRequest("GET", "/users/"+uuid.NewString()+"/recommendations", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	if env.Message != "Failed to generate recommendations" {
		t.Errorf("expected a generic message, got %q", env.Message)
	}
}

func TestGetRecommendations_EmptyResultIsStillOK(t *testing.T) {
	t.Parallel()

	router := newTestRouter(&mockBehaviorRepo{}, &mockListingRepo{})

	req := httptest.NewRequest("GET", "/users/"+uuid.NewString()+"/recommendations", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	env := decodeEnvelope(t, rec)
	var result models.RecommendationResult
	if err := json.Unmarshal(env.Data, &result); err != nil {
		t.Fatalf("failed to decode result: %v", err)
	}
	if len(result.Listings) != 0 {
		t.Errorf("expected no listings, got %d", len(result.Listings))
	}
	if result.Confidence != 0 {
		t.Errorf("expected zero confidence, got %f", result.Confidence)
	}
}
