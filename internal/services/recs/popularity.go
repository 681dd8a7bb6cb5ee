package recs

import (
	"context"

	"github.com/bazario/smart-recs/internal/database"
	"github.com/bazario/smart-recs/internal/models"
	"go.uber.org/zap"
)

const (
	maxPopularListings = 10

	popularityBaseScore = 0.5
	popularityStep      = 0.05
	popularityFloor     = 0.1
)

// PopularityScorer is the fallback scorer: trending listings within the
// user's budget, ranked by global engagement counters. It is deliberately
// category-agnostic.
type PopularityScorer struct {
	listings database.ListingRepositoryInterface
	logger   *zap.Logger
}

// NewPopularityScorer creates a new popularity scorer
func NewPopularityScorer(listings database.ListingRepositoryInterface, logger *zap.Logger) *PopularityScorer {
	return &PopularityScorer{listings: listings, logger: logger}
}

// Score produces popularity candidate scores within the preference price
// range. Scores decay with rank down to a floor.
func (s *PopularityScorer) Score(ctx context.Context, prefs *models.UserPreferences) ([]models.RecommendationScore, error) {
	popular, err := s.listings.QueryActive(ctx, database.ListingFilter{
		PriceRange: &prefs.PriceRange,
		OrderBy:    database.ListingOrderPopularity,
		Limit:      maxPopularListings,
	})
	if err != nil {
		return nil, DatabaseError("query popular listings", err)
	}

	scores := make([]models.RecommendationScore, 0, len(popular))
	for i, listing := range popular {
		score := popularityBaseScore - float64(i)*popularityStep
		if score < popularityFloor {
			score = popularityFloor
		}
		scores = append(scores, models.RecommendationScore{
			ListingID: listing.ID,
			Score:     score,
			Reason:    "popular listing",
			Algorithm: models.AlgorithmPopularity,
		})
	}

	s.logger.Debug("popularity_scores_computed", zap.Int("candidates", len(scores)))

	return scores, nil
}
