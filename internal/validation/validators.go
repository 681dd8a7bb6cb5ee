package validation

import (
	"fmt"

	"github.com/bazario/smart-recs/internal/models"
	"github.com/go-playground/validator/v10"
)

var (
	// Validate is a shared validator instance
	Validate *validator.Validate
)

func init() {
	Validate = validator.New()

	if err := Validate.RegisterValidation("behavior_action", validateBehaviorAction); err != nil {
		panic(fmt.Sprintf("failed to register behavior_action validator: %v", err))
	}
	if err := Validate.RegisterValidation("recommendation_algorithm", validateAlgorithm); err != nil {
		panic(fmt.Sprintf("failed to register recommendation_algorithm validator: %v", err))
	}
}

// validateBehaviorAction validates that a string is a valid BehaviorAction enum value
func validateBehaviorAction(fl validator.FieldLevel) bool {
	return ValidateBehaviorAction(fl.Field().String()) == nil
}

// validateAlgorithm validates that a string is a valid Algorithm enum value
func validateAlgorithm(fl validator.FieldLevel) bool {
	return ValidateAlgorithm(fl.Field().String()) == nil
}

// ValidateBehaviorAction checks a behavior action enum value
func ValidateBehaviorAction(value string) error {
	switch models.BehaviorAction(value) {
	case models.BehaviorActionView, models.BehaviorActionFavorite, models.BehaviorActionOffer,
		models.BehaviorActionContact, models.BehaviorActionShare:
		return nil
	default:
		return fmt.Errorf("invalid behavior action: %q (must be one of view, favorite, offer, contact, share)", value)
	}
}

// ValidateAlgorithm checks a recommendation algorithm enum value
func ValidateAlgorithm(value string) error {
	switch models.Algorithm(value) {
	case models.AlgorithmHybrid, models.AlgorithmCollaborative, models.AlgorithmContent, models.AlgorithmPopularity:
		return nil
	default:
		return fmt.Errorf("invalid recommendation algorithm: %q (must be one of hybrid, collaborative, content, popularity)", value)
	}
}
