package models

import (
	"time"

	"github.com/google/uuid"
)

// Algorithm identifies a scoring strategy, or the overall mode of a request
type Algorithm string

const (
	AlgorithmCollaborative Algorithm = "collaborative"
	AlgorithmContent       Algorithm = "content"
	AlgorithmPopularity    Algorithm = "popularity"
	AlgorithmHybrid        Algorithm = "hybrid"
)

// ActivityLevel buckets a user by how much they interacted recently
type ActivityLevel string

const (
	ActivityLevelLow    ActivityLevel = "low"
	ActivityLevelMedium ActivityLevel = "medium"
	ActivityLevelHigh   ActivityLevel = "high"
)

// PriceRange is an inclusive price band. Min <= Max always holds.
type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Contains reports whether p falls inside the range
func (r PriceRange) Contains(p float64) bool {
	return p >= r.Min && p <= r.Max
}

// UserPreferences is a user's short-term taste profile derived from recent
// behavior. It is recomputed per request and never persisted.
type UserPreferences struct {
	FavoriteCategories  []string           `json:"favorite_categories"`
	PriceRange          PriceRange         `json:"price_range"`
	PreferredConditions []ListingCondition `json:"preferred_conditions"`
	ActivityLevel       ActivityLevel      `json:"activity_level"`
}

// UserSimilarity pairs another user with their Jaccard similarity to the
// current user over category-interest sets. Similarity is always in [0,1].
type UserSimilarity struct {
	UserID          uuid.UUID `json:"user_id"`
	Similarity      float64   `json:"similarity"`
	CommonInterests []string  `json:"common_interests"`
}

// RecommendationScore is a candidate listing with its score and provenance.
// Before merging there is one per (listing, algorithm); after merging the
// listing ID is unique within a result.
type RecommendationScore struct {
	ListingID uuid.UUID `json:"listing_id"`
	Score     float64   `json:"score"`
	Reason    string    `json:"reason"`
	Algorithm Algorithm `json:"algorithm"`
}

// RecommendationResult is the final response of a recommendation request.
// Listings are ordered to match Scores; Confidence is in [0,1].
type RecommendationResult struct {
	Listings    []Listing             `json:"listings"`
	Scores      []RecommendationScore `json:"scores"`
	Algorithm   Algorithm             `json:"algorithm"`
	Confidence  float64               `json:"confidence"`
	GeneratedAt time.Time             `json:"generated_at"`
}
