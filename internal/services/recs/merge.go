package recs

import (
	"sort"

	"github.com/bazario/smart-recs/internal/models"
	"github.com/google/uuid"
)

// strategyCount is the number of independent scoring strategies the
// confidence estimate normalizes against
const strategyCount = 3

// MergeScores deduplicates candidate scores by listing ID and ranks them.
// The first occurrence of a listing is kept as-is; each later occurrence
// folds in as a running average against the accumulated score (not an
// arithmetic mean of all occurrences), with reasons concatenated. The result
// is sorted by descending score, ties broken by first-occurrence order, and
// truncated to limit. Pure function; the input slice is not modified.
func MergeScores(scores []models.RecommendationScore, limit int) []models.RecommendationScore {
	merged := make(map[uuid.UUID]models.RecommendationScore, len(scores))
	var order []uuid.UUID

	for _, score := range scores {
		existing, ok := merged[score.ListingID]
		if !ok {
			merged[score.ListingID] = score
			order = append(order, score.ListingID)
			continue
		}

		existing.Score = (existing.Score + score.Score) / 2
		existing.Reason = existing.Reason + ", " + score.Reason
		merged[score.ListingID] = existing
	}

	result := make([]models.RecommendationScore, 0, len(order))
	for _, id := range order {
		result = append(result, merged[id])
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Score > result[j].Score
	})

	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}

	return result
}

// EstimateConfidence produces a [0,1] confidence for a merged score list:
// the average merged score scaled by how many distinct strategies contributed
// to the surviving listings. Returns 0 for an empty list.
func EstimateConfidence(merged, raw []models.RecommendationScore) float64 {
	if len(merged) == 0 {
		return 0
	}

	var total float64
	surviving := make(map[uuid.UUID]struct{}, len(merged))
	for _, score := range merged {
		total += score.Score
		surviving[score.ListingID] = struct{}{}
	}

	algorithms := make(map[models.Algorithm]struct{})
	for _, score := range raw {
		if _, ok := surviving[score.ListingID]; ok {
			algorithms[score.Algorithm] = struct{}{}
		}
	}

	confidence := (total / float64(len(merged))) * (float64(len(algorithms)) / strategyCount)
	if confidence > 1 {
		confidence = 1
	}
	if confidence < 0 {
		confidence = 0
	}
	return confidence
}
