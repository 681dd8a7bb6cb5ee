package recs

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/bazario/smart-recs/internal/database"
	"github.com/bazario/smart-recs/internal/models"
	"github.com/google/uuid"
)

func TestPopularityScorer_RankDecay(t *testing.T) {
	t.Parallel()

	listings := make([]models.Listing, maxPopularListings)
	for i := range listings {
		listings[i] = models.Listing{ID: uuid.New()}
	}

	repo := &mockListingRepo{
		queryActiveFunc: func(ctx context.Context, filter database.ListingFilter) ([]models.Listing, error) {
			if filter.OrderBy != database.ListingOrderPopularity {
				t.Errorf("expected popularity ordering, got %s", filter.OrderBy)
			}
			if filter.Limit != maxPopularListings {
				t.Errorf("expected limit %d, got %d", maxPopularListings, filter.Limit)
			}
			return listings, nil
		},
	}
	scorer := NewPopularityScorer(repo, testLogger())

	scores, err := scorer.Score(context.Background(), contentPrefs())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(scores) != maxPopularListings {
		t.Fatalf("expected %d scores, got %d", maxPopularListings, len(scores))
	}

	for i, score := range scores {
		expected := 0.5 - float64(i)*0.05
		if expected < 0.1 {
			expected = 0.1
		}
		if math.Abs(score.Score-expected) > 1e-9 {
			t.Errorf("rank %d: expected score %f, got %f", i, expected, score.Score)
		}
		if score.ListingID != listings[i].ID {
			t.Errorf("rank %d: expected store order preserved", i)
		}
		if score.Reason != "popular listing" {
			t.Errorf("unexpected reason %q", score.Reason)
		}
		if score.Algorithm != models.AlgorithmPopularity {
			t.Errorf("expected popularity algorithm, got %s", score.Algorithm)
		}
	}

	// Ranks 9 onward sit on the floor.
	if scores[9].Score != 0.1 {
		t.Errorf("expected floor score 0.1 at rank 9, got %f", scores[9].Score)
	}
}

func TestPopularityScorer_EmptyStore(t *testing.T) {
	t.Parallel()

	scorer := NewPopularityScorer(&mockListingRepo{}, testLogger())

	scores, err := scorer.Score(context.Background(), contentPrefs())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if scores == nil || len(scores) != 0 {
		t.Errorf("expected an empty non-nil slice, got %v", scores)
	}
}

func TestPopularityScorer_StoreFailure(t *testing.T) {
	t.Parallel()

	repo := &mockListingRepo{
		queryActiveFunc: func(ctx context.Context, filter database.ListingFilter) ([]models.Listing, error) {
			return nil, errors.New("too many connections")
		},
	}
	scorer := NewPopularityScorer(repo, testLogger())

	_, err := scorer.Score(context.Background(), contentPrefs())
	if !IsDatabase(err) {
		t.Errorf("expected a database error, got %v", err)
	}
}
