package recs

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/bazario/smart-recs/internal/database"
	"github.com/bazario/smart-recs/internal/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// behaviorWindow is the canonical lookback for behavior-derived signals.
	// Both preference analysis and user similarity use it.
	behaviorWindow = 30 * 24 * time.Hour

	// maxFavoriteCategories caps the taste profile's category list
	maxFavoriteCategories = 5

	defaultPriceMin = 0
	defaultPriceMax = 10000
)

// PreferenceAnalyzer derives a user's short-term taste profile from their
// recent behavior. Profiles are recomputed per request, never persisted.
type PreferenceAnalyzer struct {
	behaviors database.BehaviorEventRepositoryInterface
	logger    *zap.Logger
}

// NewPreferenceAnalyzer creates a new preference analyzer
func NewPreferenceAnalyzer(behaviors database.BehaviorEventRepositoryInterface, logger *zap.Logger) *PreferenceAnalyzer {
	return &PreferenceAnalyzer{behaviors: behaviors, logger: logger}
}

// Analyze computes the user's preferences from behavior within the lookback
// window. A store failure is returned as a database error; the caller treats
// it as fatal because every downstream scorer needs the profile.
func (a *PreferenceAnalyzer) Analyze(ctx context.Context, userID uuid.UUID) (*models.UserPreferences, error) {
	since := time.Now().Add(-behaviorWindow)
	events, err := a.behaviors.Query(ctx, database.BehaviorFilter{
		UserID: &userID,
		Since:  &since,
	})
	if err != nil {
		return nil, DatabaseError("query user behavior", err)
	}

	if len(events) == 0 {
		return defaultPreferences(), nil
	}

	prefs := &models.UserPreferences{
		FavoriteCategories:  favoriteCategories(events),
		PriceRange:          observedPriceRange(events),
		PreferredConditions: defaultConditions(),
		ActivityLevel:       activityLevel(len(events)),
	}

	a.logger.Debug("analyzed_user_preferences",
		zap.String("user_id", userID.String()),
		zap.Int("event_count", len(events)),
		zap.Strings("favorite_categories", prefs.FavoriteCategories),
		zap.String("activity_level", string(prefs.ActivityLevel)),
	)

	return prefs, nil
}

func defaultPreferences() *models.UserPreferences {
	return &models.UserPreferences{
		FavoriteCategories:  []string{},
		PriceRange:          models.PriceRange{Min: defaultPriceMin, Max: defaultPriceMax},
		PreferredConditions: defaultConditions(),
		ActivityLevel:       models.ActivityLevelLow,
	}
}

func defaultConditions() []models.ListingCondition {
	return []models.ListingCondition{models.ListingConditionNew, models.ListingConditionLikeNew}
}

// favoriteCategories returns the top categories by occurrence count, ties
// broken by first-seen order
func favoriteCategories(events []models.BehaviorEvent) []string {
	counts := make(map[string]int)
	var order []string

	for _, event := range events {
		if event.Category == "" {
			continue
		}
		if _, seen := counts[event.Category]; !seen {
			order = append(order, event.Category)
		}
		counts[event.Category]++
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})

	if len(order) > maxFavoriteCategories {
		order = order[:maxFavoriteCategories]
	}
	if order == nil {
		order = []string{}
	}
	return order
}

// observedPriceRange widens the observed price band by 20% in both directions
func observedPriceRange(events []models.BehaviorEvent) models.PriceRange {
	var min, max float64
	found := false

	for _, event := range events {
		if event.Price == nil {
			continue
		}
		price := *event.Price
		if !found {
			min, max = price, price
			found = true
			continue
		}
		if price < min {
			min = price
		}
		if price > max {
			max = price
		}
	}

	if !found {
		return models.PriceRange{Min: defaultPriceMin, Max: defaultPriceMax}
	}

	return models.PriceRange{
		Min: math.Floor(min * 0.8),
		Max: math.Ceil(max * 1.2),
	}
}

func activityLevel(totalEvents int) models.ActivityLevel {
	switch {
	case totalEvents < 10:
		return models.ActivityLevelLow
	case totalEvents < 50:
		return models.ActivityLevelMedium
	default:
		return models.ActivityLevelHigh
	}
}
