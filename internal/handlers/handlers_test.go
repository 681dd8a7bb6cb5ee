package handlers

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/bazario/smart-recs/internal/database"
	"github.com/bazario/smart-recs/internal/models"
	"github.com/bazario/smart-recs/internal/services/recs"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type mockBehaviorRepo struct {
	queryFunc  func(ctx context.Context, filter database.BehaviorFilter) ([]models.BehaviorEvent, error)
	insertFunc func(ctx context.Context, event *models.BehaviorEvent) error
}

func (m *mockBehaviorRepo) Query(ctx context.Context, filter database.BehaviorFilter) ([]models.BehaviorEvent, error) {
	if m.queryFunc != nil {
		return m.queryFunc(ctx, filter)
	}
	return nil, nil
}

func (m *mockBehaviorRepo) Insert(ctx context.Context, event *models.BehaviorEvent) error {
	if m.insertFunc != nil {
		return m.insertFunc(ctx, event)
	}
	return nil
}

var _ database.BehaviorEventRepositoryInterface = (*mockBehaviorRepo)(nil)

type mockListingRepo struct {
	queryActiveFunc func(ctx context.Context, filter database.ListingFilter) ([]models.Listing, error)
	getByIDsFunc    func(ctx context.Context, ids []uuid.UUID, activeOnly bool) ([]models.Listing, error)
}

func (m *mockListingRepo) QueryActive(ctx context.Context, filter database.ListingFilter) ([]models.Listing, error) {
	if m.queryActiveFunc != nil {
		return m.queryActiveFunc(ctx, filter)
	}
	return nil, nil
}

func (m *mockListingRepo) GetByIDs(ctx context.Context, ids []uuid.UUID, activeOnly bool) ([]models.Listing, error) {
	if m.getByIDsFunc != nil {
		return m.getByIDsFunc(ctx, ids, activeOnly)
	}
	return nil, nil
}

var _ database.ListingRepositoryInterface = (*mockListingRepo)(nil)

// envelope mirrors the response wrapper every handler emits
type envelope struct {
	Success   bool            `json:"success"`
	Data      json.RawMessage `json:"data"`
	Error     string          `json:"error"`
	Message   string          `json:"message"`
	Timestamp string          `json:"timestamp"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()

	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected application/json content type, got %q", ct)
	}

	var env envelope
	if err := json.NewDecoder(rec.Body).Decode(&env); err != nil {
		t.Fatalf("failed to decode response envelope: %v", err)
	}
	return env
}

func newTestRouter(behaviors *mockBehaviorRepo, listings *mockListingRepo) *mux.Router {
	logger := zap.NewNop()
	service := recs.NewService(behaviors, listings, logger)

	router := mux.NewRouter()
	NewRecommendationsHandler(service, logger).RegisterRoutes(router)
	NewBehaviorHandler(service, logger).RegisterRoutes(router)
	return router
}
