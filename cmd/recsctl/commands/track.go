package commands

import (
	"context"
	"fmt"

	"github.com/bazario/smart-recs/internal/models"
	"github.com/bazario/smart-recs/internal/validation"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// NewTrackCmd creates the track command
func NewTrackCmd() *cobra.Command {
	var userIDStr string
	var listingIDStr string
	var action string
	var category string
	var price float64

	cmd := &cobra.Command{
		Use:   "track",
		Short: "Record a behavior event",
		Long:  "Inserts a behavior event directly into the Behavior Store, bypassing the queue",
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := uuid.Parse(userIDStr)
			if err != nil {
				return fmt.Errorf("invalid user ID: %w", err)
			}
			listingID, err := uuid.Parse(listingIDStr)
			if err != nil {
				return fmt.Errorf("invalid listing ID: %w", err)
			}
			if err := validation.ValidateBehaviorAction(action); err != nil {
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

			event := &models.BehaviorEvent{
				UserID:    userID,
				ListingID: listingID,
				Action:    models.BehaviorAction(action),
				Category:  category,
			}
			if cmd.Flags().Changed("price") {
				event.Price = &price
			}

			if err := service.TrackBehavior(context.Background(), event); err != nil {
				return fmt.Errorf("tracking failed: %w", err)
			}

			fmt.Printf("Tracked %s on listing %s for user %s\n", action, listingID, userID)
			return nil
		},
	}

	cmd.Flags().StringVar(&userIDStr, "user", "", "User ID (required)")
	cmd.Flags().StringVar(&listingIDStr, "listing", "", "Listing ID (required)")
	cmd.Flags().StringVar(&action, "action", string(models.BehaviorActionView), "Action: view, favorite, offer, contact or share")
	cmd.Flags().StringVar(&category, "category", "", "Listing category")
	cmd.Flags().Float64Var(&price, "price", 0, "Listing price")
	for _, flag := range []string{"user", "listing"} {
		if err := cmd.MarkFlagRequired(flag); err != nil {
			panic(err)
		}
	}

	return cmd
}
