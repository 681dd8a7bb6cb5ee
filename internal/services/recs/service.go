package recs

import (
	"context"
	"time"

	"github.com/bazario/smart-recs/internal/database"
	"github.com/bazario/smart-recs/internal/models"
	"github.com/bazario/smart-recs/internal/queue"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// DefaultLimit is the result size when the caller passes none
	DefaultLimit = 10
	// MaxLimit caps the result size a caller can request
	MaxLimit = 50

	// collaborativeSimilarUsers is how many similar users feed the
	// collaborative pass
	collaborativeSimilarUsers = 5

	// defaultStepTimeout bounds each store-facing pipeline step so one slow
	// similarity search cannot stall the whole request
	defaultStepTimeout = 300 * time.Millisecond
)

// Service wires the scoring strategies into one request-response pipeline.
// Only the preference-analysis step is fatal; every optional strategy catches
// its own failure and contributes an empty list, so a valid request degrades
// instead of erroring.
type Service struct {
	behaviors database.BehaviorEventRepositoryInterface
	listings  database.ListingRepositoryInterface

	analyzer      *PreferenceAnalyzer
	similarity    *SimilarityEngine
	collaborative *CollaborativeScorer
	content       *ContentScorer
	popularity    *PopularityScorer

	cache       *ResultCache
	jobs        queue.JobQueue
	logger      *zap.Logger
	stepTimeout time.Duration
}

// ServiceOption configures optional service collaborators
type ServiceOption func(*Service)

// WithResultCache attaches a Redis result cache
func WithResultCache(cache *ResultCache) ServiceOption {
	return func(s *Service) { s.cache = cache }
}

// WithJobQueue routes behavior tracking through a job queue instead of
// writing to the store inline
func WithJobQueue(jobs queue.JobQueue) ServiceOption {
	return func(s *Service) { s.jobs = jobs }
}

// WithStepTimeout overrides the per-step store call timeout
func WithStepTimeout(timeout time.Duration) ServiceOption {
	return func(s *Service) {
		if timeout > 0 {
			s.stepTimeout = timeout
		}
	}
}

// NewService creates the recommendation service
func NewService(
	behaviors database.BehaviorEventRepositoryInterface,
	listings database.ListingRepositoryInterface,
	logger *zap.Logger,
	opts ...ServiceOption,
) *Service {
	s := &Service{
		behaviors:     behaviors,
		listings:      listings,
		analyzer:      NewPreferenceAnalyzer(behaviors, logger),
		similarity:    NewSimilarityEngine(behaviors, logger),
		collaborative: NewCollaborativeScorer(behaviors, logger),
		content:       NewContentScorer(listings, logger),
		popularity:    NewPopularityScorer(listings, logger),
		logger:        logger,
		stepTimeout:   defaultStepTimeout,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// stepContext derives a context for one store-facing step, bounded by the
// per-call timeout while keeping the parent's cancellation
func (s *Service) stepContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.stepTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.stepTimeout)
}

// Recommend runs the recommendation pipeline for a user and mode.
// A zero limit means DefaultLimit; an empty algorithm means hybrid.
func (s *Service) Recommend(ctx context.Context, userID uuid.UUID, limit int, algorithm models.Algorithm) (*models.RecommendationResult, error) {
	if userID == uuid.Nil {
		return nil, ValidationError("user id is required")
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	if algorithm == "" {
		algorithm = models.AlgorithmHybrid
	}
	switch algorithm {
	case models.AlgorithmHybrid, models.AlgorithmCollaborative, models.AlgorithmContent, models.AlgorithmPopularity:
	default:
		return nil, ValidationError("unknown recommendation algorithm: " + string(algorithm))
	}

	if cached := s.cache.Get(ctx, userID, algorithm, limit); cached != nil {
		s.logger.Debug("recommendation_cache_hit",
			zap.String("user_id", userID.String()),
			zap.String("algorithm", string(algorithm)),
		)
		return cached, nil
	}

	// Preference analysis is mandatory: every scorer needs the profile
	stepCtx, cancel := s.stepContext(ctx)
	prefs, err := s.analyzer.Analyze(stepCtx, userID)
	cancel()
	if err != nil {
		return nil, err
	}

	var raw []models.RecommendationScore

	if algorithm == models.AlgorithmCollaborative || algorithm == models.AlgorithmHybrid {
		raw = append(raw, s.collaborativeScores(ctx, userID)...)
	}

	if algorithm == models.AlgorithmContent || algorithm == models.AlgorithmHybrid {
		stepCtx, cancel := s.stepContext(ctx)
		scores, err := s.content.Score(stepCtx, prefs)
		cancel()
		if err != nil {
			s.logger.Warn("scoring_strategy_failed",
				zap.String("strategy", "content"),
				zap.Error(err),
			)
		} else {
			raw = append(raw, scores...)
		}
	}

	if algorithm == models.AlgorithmPopularity || (algorithm == models.AlgorithmHybrid && len(raw) < limit) {
		stepCtx, cancel := s.stepContext(ctx)
		scores, err := s.popularity.Score(stepCtx, prefs)
		cancel()
		if err != nil {
			s.logger.Warn("scoring_strategy_failed",
				zap.String("strategy", "popularity"),
				zap.Error(err),
			)
		} else {
			raw = append(raw, scores...)
		}
	}

	merged := MergeScores(raw, limit)
	resolved := s.resolveListings(ctx, merged)

	result := &models.RecommendationResult{
		Listings:    resolved,
		Scores:      merged,
		Algorithm:   algorithm,
		Confidence:  EstimateConfidence(merged, raw),
		GeneratedAt: time.Now().UTC(),
	}

	s.cache.Set(ctx, userID, algorithm, limit, result)

	s.logger.Info("recommendations_generated",
		zap.String("user_id", userID.String()),
		zap.String("algorithm", string(algorithm)),
		zap.Int("listings", len(result.Listings)),
		zap.Float64("confidence", result.Confidence),
	)

	return result, nil
}

// collaborativeScores runs similarity search then collaborative scoring.
// Both steps degrade to an empty contribution on failure.
func (s *Service) collaborativeScores(ctx context.Context, userID uuid.UUID) []models.RecommendationScore {
	stepCtx, cancel := s.stepContext(ctx)
	similar, err := s.similarity.FindSimilarUsers(stepCtx, userID, collaborativeSimilarUsers)
	cancel()
	if err != nil {
		s.logger.Warn("similarity_search_failed",
			zap.String("user_id", userID.String()),
			zap.Error(err),
		)
		return nil
	}
	if len(similar) == 0 {
		return nil
	}

	stepCtx, cancel = s.stepContext(ctx)
	scores, err := s.collaborative.Score(stepCtx, similar, userID)
	cancel()
	if err != nil {
		s.logger.Warn("scoring_strategy_failed",
			zap.String("strategy", "collaborative"),
			zap.Error(err),
		)
		return nil
	}

	return scores
}

// resolveListings fetches the merged candidates from the Listing Store and
// reorders them to match the score order. Missing or inactive listings are
// silently dropped; a resolution failure degrades to an empty listing set.
func (s *Service) resolveListings(ctx context.Context, merged []models.RecommendationScore) []models.Listing {
	resolved := make([]models.Listing, 0, len(merged))
	if len(merged) == 0 {
		return resolved
	}

	ids := make([]uuid.UUID, len(merged))
	for i, score := range merged {
		ids[i] = score.ListingID
	}

	stepCtx, cancel := s.stepContext(ctx)
	fetched, err := s.listings.GetByIDs(stepCtx, ids, true)
	cancel()
	if err != nil {
		s.logger.Warn("listing_resolution_failed", zap.Error(err))
		return resolved
	}

	byID := make(map[uuid.UUID]models.Listing, len(fetched))
	for _, listing := range fetched {
		byID[listing.ID] = listing
	}

	for _, score := range merged {
		if listing, ok := byID[score.ListingID]; ok {
			resolved = append(resolved, listing)
		}
	}

	return resolved
}

// TrackBehavior records a user interaction. The write is fire-and-forget:
// validation failures are returned, but a queue or store failure is logged
// and swallowed so tracking never blocks or breaks the caller.
func (s *Service) TrackBehavior(ctx context.Context, event *models.BehaviorEvent) error {
	if event.UserID == uuid.Nil {
		return ValidationError("user id is required")
	}
	if event.ListingID == uuid.Nil {
		return ValidationError("listing id is required")
	}
	switch event.Action {
	case models.BehaviorActionView, models.BehaviorActionFavorite, models.BehaviorActionOffer,
		models.BehaviorActionContact, models.BehaviorActionShare:
	default:
		return ValidationError("unknown behavior action: " + string(event.Action))
	}

	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}

	if s.jobs != nil {
		if err := s.jobs.Enqueue(ctx, queue.NewBehaviorTrackJob(event)); err != nil {
			s.logger.Warn("behavior_track_enqueue_failed",
				zap.String("user_id", event.UserID.String()),
				zap.String("listing_id", event.ListingID.String()),
				zap.Error(err),
			)
		}
		return nil
	}

	if err := s.behaviors.Insert(ctx, event); err != nil {
		s.logger.Warn("behavior_track_insert_failed",
			zap.String("user_id", event.UserID.String()),
			zap.String("listing_id", event.ListingID.String()),
			zap.Error(err),
		)
	}
	return nil
}
