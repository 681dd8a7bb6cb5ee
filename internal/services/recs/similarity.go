package recs

import (
	"context"
	"sort"
	"time"

	"github.com/bazario/smart-recs/internal/database"
	"github.com/bazario/smart-recs/internal/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// defaultSimilarUserLimit is used when the caller passes no limit
	defaultSimilarUserLimit = 10

	// minSimilarity discards candidates with too little category overlap
	minSimilarity = 0.1
)

// SimilarityEngine finds users whose category interests overlap the current
// user's, ranked by Jaccard similarity over category sets.
type SimilarityEngine struct {
	behaviors database.BehaviorEventRepositoryInterface
	logger    *zap.Logger
}

// NewSimilarityEngine creates a new similarity engine
func NewSimilarityEngine(behaviors database.BehaviorEventRepositoryInterface, logger *zap.Logger) *SimilarityEngine {
	return &SimilarityEngine{behaviors: behaviors, logger: logger}
}

// FindSimilarUsers returns up to limit users ordered by descending similarity
// to userID. Users with a similarity at or below the minimum are discarded.
// If the current user has no categorized behavior the result is empty.
func (e *SimilarityEngine) FindSimilarUsers(ctx context.Context, userID uuid.UUID, limit int) ([]models.UserSimilarity, error) {
	if limit <= 0 {
		limit = defaultSimilarUserLimit
	}

	since := time.Now().Add(-behaviorWindow)

	ownEvents, err := e.behaviors.Query(ctx, database.BehaviorFilter{
		UserID: &userID,
		Since:  &since,
	})
	if err != nil {
		return nil, DatabaseError("query own behavior", err)
	}

	ownCategories := categorySet(ownEvents)
	if len(ownCategories) == 0 {
		return nil, nil
	}

	otherEvents, err := e.behaviors.Query(ctx, database.BehaviorFilter{
		ExcludeUserID: &userID,
		Since:         &since,
	})
	if err != nil {
		return nil, DatabaseError("query other users behavior", err)
	}

	byUser := make(map[uuid.UUID]map[string]struct{})
	for _, event := range otherEvents {
		if event.Category == "" {
			continue
		}
		set, ok := byUser[event.UserID]
		if !ok {
			set = make(map[string]struct{})
			byUser[event.UserID] = set
		}
		set[event.Category] = struct{}{}
	}

	var similarities []models.UserSimilarity
	for otherID, otherCategories := range byUser {
		similarity, common := jaccard(ownCategories, otherCategories)
		if similarity <= minSimilarity {
			continue
		}
		sort.Strings(common)
		similarities = append(similarities, models.UserSimilarity{
			UserID:          otherID,
			Similarity:      similarity,
			CommonInterests: common,
		})
	}

	sort.Slice(similarities, func(i, j int) bool {
		if similarities[i].Similarity != similarities[j].Similarity {
			return similarities[i].Similarity > similarities[j].Similarity
		}
		// Deterministic order for equal similarities
		return similarities[i].UserID.String() < similarities[j].UserID.String()
	})

	if len(similarities) > limit {
		similarities = similarities[:limit]
	}

	e.logger.Debug("found_similar_users",
		zap.String("user_id", userID.String()),
		zap.Int("candidates", len(byUser)),
		zap.Int("matched", len(similarities)),
	)

	return similarities, nil
}

// jaccard computes |a ∩ b| / |a ∪ b| and returns the intersection members.
// Two empty sets have similarity 0, not NaN.
func jaccard(a, b map[string]struct{}) (float64, []string) {
	var common []string
	for category := range a {
		if _, ok := b[category]; ok {
			common = append(common, category)
		}
	}

	union := len(a) + len(b) - len(common)
	if union == 0 {
		return 0, nil
	}

	return float64(len(common)) / float64(union), common
}

func categorySet(events []models.BehaviorEvent) map[string]struct{} {
	set := make(map[string]struct{})
	for _, event := range events {
		if event.Category != "" {
			set[event.Category] = struct{}{}
		}
	}
	return set
}
