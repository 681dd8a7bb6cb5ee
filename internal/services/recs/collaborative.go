package recs

import (
	"context"
	"fmt"

	"github.com/bazario/smart-recs/internal/database"
	"github.com/bazario/smart-recs/internal/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// maxEventsPerSimilarUser caps how many high-intent events are considered per
// similar user. Keeps the pass at O(similarUsers x eventsPerUser).
const maxEventsPerSimilarUser = 20

// actionWeights grade high-intent actions by signal strength
var actionWeights = map[models.BehaviorAction]float64{
	models.BehaviorActionFavorite: 1.0,
	models.BehaviorActionOffer:    1.5,
	models.BehaviorActionContact:  0.8,
}

// CollaborativeScorer turns similar users' high-intent actions into candidate
// scores. A listing is scored once; the first (highest-similarity)
// contributor wins. Listings the current user already interacted with are
// never emitted.
type CollaborativeScorer struct {
	behaviors database.BehaviorEventRepositoryInterface
	logger    *zap.Logger
}

// NewCollaborativeScorer creates a new collaborative scorer
func NewCollaborativeScorer(behaviors database.BehaviorEventRepositoryInterface, logger *zap.Logger) *CollaborativeScorer {
	return &CollaborativeScorer{behaviors: behaviors, logger: logger}
}

// Score produces collaborative candidate scores from the given similar users,
// which must be ordered by descending similarity.
func (s *CollaborativeScorer) Score(ctx context.Context, similarUsers []models.UserSimilarity, userID uuid.UUID) ([]models.RecommendationScore, error) {
	if len(similarUsers) == 0 {
		return nil, nil
	}

	// Exclusion uses the user's entire history: anything they ever touched
	// must not come back as a recommendation.
	ownEvents, err := s.behaviors.Query(ctx, database.BehaviorFilter{UserID: &userID})
	if err != nil {
		return nil, DatabaseError("query own behavior", err)
	}

	seen := make(map[uuid.UUID]struct{}, len(ownEvents))
	for _, event := range ownEvents {
		seen[event.ListingID] = struct{}{}
	}

	var scores []models.RecommendationScore
	for _, similar := range similarUsers {
		similarID := similar.UserID
		events, err := s.behaviors.Query(ctx, database.BehaviorFilter{
			UserID:  &similarID,
			Actions: models.HighIntentActions,
			Limit:   maxEventsPerSimilarUser,
		})
		if err != nil {
			return nil, DatabaseError("query similar user behavior", err)
		}

		for _, event := range events {
			if _, ok := seen[event.ListingID]; ok {
				continue
			}
			seen[event.ListingID] = struct{}{}

			weight, ok := actionWeights[event.Action]
			if !ok {
				continue
			}

			scores = append(scores, models.RecommendationScore{
				ListingID: event.ListingID,
				Score:     similar.Similarity * weight,
				Reason:    fmt.Sprintf("similar users performed %s", event.Action),
				Algorithm: models.AlgorithmCollaborative,
			})
		}
	}

	s.logger.Debug("collaborative_scores_computed",
		zap.String("user_id", userID.String()),
		zap.Int("similar_users", len(similarUsers)),
		zap.Int("candidates", len(scores)),
	)

	return scores, nil
}
