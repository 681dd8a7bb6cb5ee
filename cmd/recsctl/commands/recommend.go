package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/bazario/smart-recs/internal/config"
	"github.com/bazario/smart-recs/internal/database"
	"github.com/bazario/smart-recs/internal/logger"
	"github.com/bazario/smart-recs/internal/models"
	"github.com/bazario/smart-recs/internal/services/recs"
	"github.com/bazario/smart-recs/internal/validation"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// NewRecommendCmd creates the recommend command
func NewRecommendCmd() *cobra.Command {
	var userIDStr string
	var limit int
	var algorithm string

	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Run the recommendation pipeline for a user",
		Long:  "Runs the full recommendation pipeline against the configured stores and prints the result as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := uuid.Parse(userIDStr)
			if err != nil {
				return fmt.Errorf("invalid user ID: %w", err)
			}
			if err := validation.ValidateAlgorithm(algorithm); err != nil {
				return err
			}

			service, db, err := buildService()
			if err != nil {
				return err
			}
			defer func() {
				if err := db.Close(); err != nil {
					_ = err
				}
			}()

			result, err := service.Recommend(context.Background(), userID, limit, models.Algorithm(algorithm))
			if err != nil {
				return fmt.Errorf("recommendation failed: %w", err)
			}

			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			return encoder.Encode(result)
		},
	}

	cmd.Flags().StringVar(&userIDStr, "user", "", "User ID (required)")
	cmd.Flags().IntVar(&limit, "limit", recs.DefaultLimit, "Maximum number of recommendations")
	cmd.Flags().StringVar(&algorithm, "algorithm", string(models.AlgorithmHybrid), "Algorithm: hybrid, collaborative, content or popularity")
	if err := cmd.MarkFlagRequired("user"); err != nil {
		panic(err)
	}

	return cmd
}

// buildService wires a recommendation service straight onto the stores,
// without queue or cache, for one-shot CLI runs
func buildService() (*recs.Service, *database.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	zapLogger, err := logger.NewDevelopmentLogger(false)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	db, err := database.New(cfg.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	behaviorRepo := database.NewBehaviorEventRepository(db)
	listingRepo := database.NewListingRepository(db)

	service := recs.NewService(behaviorRepo, listingRepo, zapLogger,
		recs.WithStepTimeout(cfg.StepTimeout),
	)

	return service, db, nil
}
