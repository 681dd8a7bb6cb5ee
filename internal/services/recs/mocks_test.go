package recs

import (
	"context"
	"errors"

	"github.com/bazario/smart-recs/internal/database"
	"github.com/bazario/smart-recs/internal/models"
	"github.com/bazario/smart-recs/internal/queue"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// mockBehaviorRepo is a mock implementation of BehaviorEventRepositoryInterface
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

// mockListingRepo is a mock implementation of ListingRepositoryInterface
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

// mockJobQueue is a mock implementation of JobQueue
type mockJobQueue struct {
	enqueueFunc func(ctx context.Context, job *queue.Job) error
	enqueued    []*queue.Job
}

func (m *mockJobQueue) Enqueue(ctx context.Context, job *queue.Job) error {
	if m.enqueueFunc != nil {
		return m.enqueueFunc(ctx, job)
	}
	m.enqueued = append(m.enqueued, job)
	return nil
}

func (m *mockJobQueue) Consume(ctx context.Context, prefetchCount int) (<-chan *queue.Message, <-chan error, error) {
	return nil, nil, errors.New("not implemented")
}

func (m *mockJobQueue) Close() error { return nil }

func (m *mockJobQueue) HealthCheck(ctx context.Context) error { return nil }

var _ queue.JobQueue = (*mockJobQueue)(nil)

func testLogger() *zap.Logger {
	return zap.NewNop()
}

func floatPtr(v float64) *float64 {
	return &v
}
