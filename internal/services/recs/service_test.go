package recs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bazario/smart-recs/internal/database"
	"github.com/bazario/smart-recs/internal/models"
	"github.com/bazario/smart-recs/internal/queue"
	"github.com/google/uuid"
)

func newTestService(behaviors *mockBehaviorRepo, listings *mockListingRepo, opts ...ServiceOption) *Service {
	return NewService(behaviors, listings, testLogger(), opts...)
}

// resolveAll echoes back every requested ID as an active listing
func resolveAll() func(ctx context.Context, ids []uuid.UUID, activeOnly bool) ([]models.Listing, error) {
	return func(ctx context.Context, ids []uuid.UUID, activeOnly bool) ([]models.Listing, error) {
		listings := make([]models.Listing, len(ids))
		for i, id := range ids {
			listings[i] = models.Listing{ID: id, Status: models.ListingStatusActive}
		}
		return listings, nil
	}
}

func TestService_Recommend_RejectsNilUser(t *testing.T) {
	t.Parallel()

	service := newTestService(&mockBehaviorRepo{}, &mockListingRepo{})

	_, err := service.Recommend(context.Background(), uuid.Nil, 10, models.AlgorithmHybrid)
	if !IsValidation(err) {
		t.Errorf("expected a validation error, got %v", err)
	}
}

func TestService_Recommend_RejectsUnknownAlgorithm(t *testing.T) {
	t.Parallel()

	service := newTestService(&mockBehaviorRepo{}, &mockListingRepo{})

	_, err := service.Recommend(context.Background(), uuid.New(), 10, models.Algorithm("magic"))
	if !IsValidation(err) {
		t.Errorf("expected a validation error, got %v", err)
	}
}

func TestService_Recommend_PreferenceFailureIsFatal(t *testing.T) {
	t.Parallel()

	behaviors := &mockBehaviorRepo{
		queryFunc: func(ctx context.Context, filter database.BehaviorFilter) ([]models.BehaviorEvent, error) {
			return nil, errors.New("down")
		},
	}
	service := newTestService(behaviors, &mockListingRepo{})

	_, err := service.Recommend(context.Background(), uuid.New(), 10, models.AlgorithmHybrid)
	if !IsDatabase(err) {
		t.Errorf("expected a database error, got %v", err)
	}
}

func TestService_Recommend_ColdStartFallsBackToPopularity(t *testing.T) {
	t.Parallel()

	popular := []models.Listing{
		{ID: uuid.New(), Status: models.ListingStatusActive},
		{ID: uuid.New(), Status: models.ListingStatusActive},
	}
	listings := &mockListingRepo{
		queryActiveFunc: func(ctx context.Context, filter database.ListingFilter) ([]models.Listing, error) {
			if filter.OrderBy == database.ListingOrderPopularity {
				return popular, nil
			}
			return nil, nil
		},
		getByIDsFunc: resolveAll(),
	}
	service := newTestService(&mockBehaviorRepo{}, listings)

	result, err := service.Recommend(context.Background(), uuid.New(), 10, models.AlgorithmHybrid)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(result.Listings) != 2 {
		t.Fatalf("expected 2 listings, got %d", len(result.Listings))
	}
	for _, score := range result.Scores {
		if score.Algorithm != models.AlgorithmPopularity {
			t.Errorf("expected popularity scores only, got %s", score.Algorithm)
		}
	}
	if result.Algorithm != models.AlgorithmHybrid {
		t.Errorf("expected requested mode hybrid on the result, got %s", result.Algorithm)
	}
	if result.Confidence < 0 || result.Confidence > 1 {
		t.Errorf("confidence %f out of [0,1]", result.Confidence)
	}
}

func TestService_Recommend_HybridSkipsPopularityWhenEnoughCandidates(t *testing.T) {
	t.Parallel()

	popularityQueried := false
	listings := &mockListingRepo{
		queryActiveFunc: func(ctx context.Context, filter database.ListingFilter) ([]models.Listing, error) {
			if filter.OrderBy == database.ListingOrderPopularity {
				popularityQueried = true
				return nil, nil
			}
			result := make([]models.Listing, maxListingsPerContentPass)
			for i := range result {
				result[i] = models.Listing{ID: uuid.New(), Status: models.ListingStatusActive, Category: "Electronics"}
			}
			return result, nil
		},
		getByIDsFunc: resolveAll(),
	}
	userID := uuid.New()
	behaviors := &mockBehaviorRepo{
		queryFunc: func(ctx context.Context, filter database.BehaviorFilter) ([]models.BehaviorEvent, error) {
			if filter.UserID != nil && *filter.UserID == userID {
				return eventsForUser(userID, "Electronics"), nil
			}
			return nil, nil
		},
	}
	service := newTestService(behaviors, listings)

	result, err := service.Recommend(context.Background(), userID, 10, models.AlgorithmHybrid)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if popularityQueried {
		t.Error("expected no popularity pass once content filled the limit")
	}
	if len(result.Scores) != 10 {
		t.Errorf("expected the limit applied, got %d scores", len(result.Scores))
	}
}

func TestService_Recommend_StrategyFailureDegrades(t *testing.T) {
	t.Parallel()

	// Content pass fails; popularity still produces a result.
	popular := uuid.New()
	listings := &mockListingRepo{
		queryActiveFunc: func(ctx context.Context, filter database.ListingFilter) ([]models.Listing, error) {
			if filter.OrderBy == database.ListingOrderPopularity {
				return []models.Listing{{ID: popular, Status: models.ListingStatusActive}}, nil
			}
			return nil, errors.New("disk full")
		},
		getByIDsFunc: resolveAll(),
	}
	userID := uuid.New()
	behaviors := &mockBehaviorRepo{
		queryFunc: func(ctx context.Context, filter database.BehaviorFilter) ([]models.BehaviorEvent, error) {
			if filter.UserID != nil && *filter.UserID == userID {
				return eventsForUser(userID, "Electronics"), nil
			}
			return nil, nil
		},
	}
	service := newTestService(behaviors, listings)

	result, err := service.Recommend(context.Background(), userID, 10, models.AlgorithmHybrid)
	if err != nil {
		t.Fatalf("expected degraded result, got error: %v", err)
	}
	if len(result.Listings) != 1 || result.Listings[0].ID != popular {
		t.Errorf("expected the popularity listing to survive, got %v", result.Listings)
	}
}

func TestService_Recommend_EmptyResultHasZeroConfidence(t *testing.T) {
	t.Parallel()

	service := newTestService(&mockBehaviorRepo{}, &mockListingRepo{})

	result, err := service.Recommend(context.Background(), uuid.New(), 10, models.AlgorithmCollaborative)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Listings) != 0 || len(result.Scores) != 0 {
		t.Errorf("expected an empty result, got %+v", result)
	}
	if result.Confidence != 0 {
		t.Errorf("expected zero confidence, got %f", result.Confidence)
	}
	if result.Listings == nil || result.Scores == nil {
		t.Error("expected non-nil empty slices")
	}
}

func TestService_Recommend_DropsUnresolvableListings(t *testing.T) {
	t.Parallel()

	surviving := uuid.New()
	vanished := uuid.New()
	listings := &mockListingRepo{
		queryActiveFunc: func(ctx context.Context, filter database.ListingFilter) ([]models.Listing, error) {
			if filter.OrderBy == database.ListingOrderPopularity {
				return []models.Listing{
					{ID: surviving, Status: models.ListingStatusActive},
					{ID: vanished, Status: models.ListingStatusActive},
				}, nil
			}
			return nil, nil
		},
		getByIDsFunc: func(ctx context.Context, ids []uuid.UUID, activeOnly bool) ([]models.Listing, error) {
			if !activeOnly {
				t.Error("expected resolution restricted to active listings")
			}
			return []models.Listing{{ID: surviving, Status: models.ListingStatusActive}}, nil
		},
	}
	service := newTestService(&mockBehaviorRepo{}, listings)

	result, err := service.Recommend(context.Background(), uuid.New(), 10, models.AlgorithmPopularity)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Listings) != 1 || result.Listings[0].ID != surviving {
		t.Errorf("expected only the surviving listing, got %v", result.Listings)
	}
	// The scores keep both candidates; only the listing set shrinks.
	if len(result.Scores) != 2 {
		t.Errorf("expected both scores retained, got %d", len(result.Scores))
	}
}

func TestService_Recommend_LimitDefaultsAndCap(t *testing.T) {
	t.Parallel()

	var requestedLimit int
	listings := &mockListingRepo{
		queryActiveFunc: func(ctx context.Context, filter database.ListingFilter) ([]models.Listing, error) {
			requestedLimit = filter.Limit
			return nil, nil
		},
	}
	service := newTestService(&mockBehaviorRepo{}, listings)

	if _, err := service.Recommend(context.Background(), uuid.New(), 0, models.AlgorithmPopularity); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if requestedLimit != maxPopularListings {
		t.Errorf("expected popularity query limit %d, got %d", maxPopularListings, requestedLimit)
	}

	if _, err := service.Recommend(context.Background(), uuid.New(), 5000, models.AlgorithmPopularity); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestService_TrackBehavior_Validation(t *testing.T) {
	t.Parallel()

	service := newTestService(&mockBehaviorRepo{}, &mockListingRepo{})

	tests := []struct {
		name  string
		event models.BehaviorEvent
	}{
		{"missing user", models.BehaviorEvent{ListingID: uuid.New(), Action: models.BehaviorActionView}},
		{"missing listing", models.BehaviorEvent{UserID: uuid.New(), Action: models.BehaviorActionView}},
		{"unknown action", models.BehaviorEvent{UserID: uuid.New(), ListingID: uuid.New(), Action: "teleport"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			event := tt.event
			if err := service.TrackBehavior(context.Background(), &event); !IsValidation(err) {
				t.Errorf("expected a validation error, got %v", err)
			}
		})
	}
}

func TestService_TrackBehavior_EnqueuesWhenQueueConfigured(t *testing.T) {
	t.Parallel()

	jobs := &mockJobQueue{}
	inserted := false
	behaviors := &mockBehaviorRepo{
		insertFunc: func(ctx context.Context, event *models.BehaviorEvent) error {
			inserted = true
			return nil
		},
	}
	service := newTestService(behaviors, &mockListingRepo{}, WithJobQueue(jobs))

	event := &models.BehaviorEvent{
		UserID:    uuid.New(),
		ListingID: uuid.New(),
		Action:    models.BehaviorActionFavorite,
	}
	if err := service.TrackBehavior(context.Background(), event); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(jobs.enqueued) != 1 {
		t.Fatalf("expected 1 enqueued job, got %d", len(jobs.enqueued))
	}
	if inserted {
		t.Error("expected no direct insert when a queue is configured")
	}

	job := jobs.enqueued[0]
	if job.Type != queue.JobTypeBehaviorTrack {
		t.Errorf("expected job type %s, got %s", queue.JobTypeBehaviorTrack, job.Type)
	}
	if job.Event == nil || job.Event.ListingID != event.ListingID {
		t.Errorf("expected the event carried on the job, got %+v", job.Event)
	}
	if job.Event.CreatedAt.IsZero() {
		t.Error("expected a default timestamp set before enqueueing")
	}
}

func TestService_TrackBehavior_EnqueueFailureSwallowed(t *testing.T) {
	t.Parallel()

	jobs := &mockJobQueue{
		enqueueFunc: func(ctx context.Context, job *queue.Job) error {
			return errors.New("channel closed")
		},
	}
	service := newTestService(&mockBehaviorRepo{}, &mockListingRepo{}, WithJobQueue(jobs))

	err := service.TrackBehavior(context.Background(), &models.BehaviorEvent{
		UserID:    uuid.New(),
		ListingID: uuid.New(),
		Action:    models.BehaviorActionView,
	})
	if err != nil {
		t.Errorf("expected enqueue failure swallowed, got %v", err)
	}
}

func TestService_TrackBehavior_DirectInsertWithoutQueue(t *testing.T) {
	t.Parallel()

	var got *models.BehaviorEvent
	behaviors := &mockBehaviorRepo{
		insertFunc: func(ctx context.Context, event *models.BehaviorEvent) error {
			got = event
			return nil
		},
	}
	service := newTestService(behaviors, &mockListingRepo{})

	event := &models.BehaviorEvent{
		UserID:    uuid.New(),
		ListingID: uuid.New(),
		Action:    models.BehaviorActionOffer,
		Category:  "Electronics",
		Price:     floatPtr(125),
	}
	if err := service.TrackBehavior(context.Background(), event); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil || got.ListingID != event.ListingID {
		t.Errorf("expected the event inserted, got %+v", got)
	}
}

func TestService_TrackBehavior_InsertFailureSwallowed(t *testing.T) {
	t.Parallel()

	behaviors := &mockBehaviorRepo{
		insertFunc: func(ctx context.Context, event *models.BehaviorEvent) error {
			return errors.New("deadlock detected")
		},
	}
	service := newTestService(behaviors, &mockListingRepo{})

	err := service.TrackBehavior(context.Background(), &models.BehaviorEvent{
		UserID:    uuid.New(),
		ListingID: uuid.New(),
		Action:    models.BehaviorActionView,
	})
	if err != nil {
		t.Errorf("expected insert failure swallowed, got %v", err)
	}
}

func TestService_StepTimeoutApplied(t *testing.T) {
	t.Parallel()

	behaviors := &mockBehaviorRepo{
		queryFunc: func(ctx context.Context, filter database.BehaviorFilter) ([]models.BehaviorEvent, error) {
			deadline, ok := ctx.Deadline()
			if !ok {
				t.Error("expected a step deadline on store calls")
			} else if time.Until(deadline) > time.Second {
				t.Errorf("expected a tight step deadline, got %v away", time.Until(deadline))
			}
			return nil, nil
		},
	}
	service := newTestService(behaviors, &mockListingRepo{}, WithStepTimeout(50*time.Millisecond))

	if _, err := service.Recommend(context.Background(), uuid.New(), 10, models.AlgorithmCollaborative); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
