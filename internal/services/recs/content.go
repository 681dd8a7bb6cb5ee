package recs

import (
	"context"

	"github.com/bazario/smart-recs/internal/database"
	"github.com/bazario/smart-recs/internal/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// maxListingsPerContentPass bounds each store query; the store makes no
	// promise about total listing volume.
	maxListingsPerContentPass = 20

	categoryMatchScore = 0.8
	budgetMatchScore   = 0.6
)

// ContentScorer turns the user's own taste profile into candidate scores.
// Two passes: favorite-category listings within budget, then anything else
// within budget.
type ContentScorer struct {
	listings database.ListingRepositoryInterface
	logger   *zap.Logger
}

// NewContentScorer creates a new content scorer
func NewContentScorer(listings database.ListingRepositoryInterface, logger *zap.Logger) *ContentScorer {
	return &ContentScorer{listings: listings, logger: logger}
}

// Score produces content-based candidate scores from the preference profile
func (s *ContentScorer) Score(ctx context.Context, prefs *models.UserPreferences) ([]models.RecommendationScore, error) {
	var scores []models.RecommendationScore
	produced := make(map[uuid.UUID]struct{})

	if len(prefs.FavoriteCategories) > 0 {
		matched, err := s.listings.QueryActive(ctx, database.ListingFilter{
			Categories: prefs.FavoriteCategories,
			PriceRange: &prefs.PriceRange,
			Limit:      maxListingsPerContentPass,
		})
		if err != nil {
			return nil, DatabaseError("query category listings", err)
		}

		for _, listing := range matched {
			produced[listing.ID] = struct{}{}
			scores = append(scores, models.RecommendationScore{
				ListingID: listing.ID,
				Score:     categoryMatchScore,
				Reason:    "in favorite category",
				Algorithm: models.AlgorithmContent,
			})
		}
	}

	inBudget, err := s.listings.QueryActive(ctx, database.ListingFilter{
		PriceRange: &prefs.PriceRange,
		Limit:      maxListingsPerContentPass,
	})
	if err != nil {
		return nil, DatabaseError("query budget listings", err)
	}

	for _, listing := range inBudget {
		if _, ok := produced[listing.ID]; ok {
			continue
		}
		scores = append(scores, models.RecommendationScore{
			ListingID: listing.ID,
			Score:     budgetMatchScore,
			Reason:    "within budget",
			Algorithm: models.AlgorithmContent,
		})
	}

	s.logger.Debug("content_scores_computed",
		zap.Int("favorite_categories", len(prefs.FavoriteCategories)),
		zap.Int("candidates", len(scores)),
	)

	return scores, nil
}
