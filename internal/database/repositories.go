package database

import (
	"context"

	"github.com/bazario/smart-recs/internal/models"
	"github.com/google/uuid"
)

// BehaviorEventRepositoryInterface is the Behavior Store consumed by the
// recommendation pipeline. The interface exists so the pipeline can be unit
// tested with in-memory fakes.
type BehaviorEventRepositoryInterface interface {
	Query(ctx context.Context, filter BehaviorFilter) ([]models.BehaviorEvent, error)
	Insert(ctx context.Context, event *models.BehaviorEvent) error
}

// ListingRepositoryInterface is the Listing Store consumed by the
// recommendation pipeline
type ListingRepositoryInterface interface {
	QueryActive(ctx context.Context, filter ListingFilter) ([]models.Listing, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID, activeOnly bool) ([]models.Listing, error)
}

// Ensure concrete types implement the interfaces
var (
	_ BehaviorEventRepositoryInterface = (*BehaviorEventRepository)(nil)
	_ ListingRepositoryInterface       = (*ListingRepository)(nil)
)
