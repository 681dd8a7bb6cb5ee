package models

import (
	"time"

	"github.com/google/uuid"
)

// BehaviorAction represents the kind of interaction a user had with a listing
type BehaviorAction string

const (
	BehaviorActionView     BehaviorAction = "view"
	BehaviorActionFavorite BehaviorAction = "favorite"
	BehaviorActionOffer    BehaviorAction = "offer"
	BehaviorActionContact  BehaviorAction = "contact"
	BehaviorActionShare    BehaviorAction = "share"
)

// HighIntentActions are the interaction signals considered stronger interest
// indicators than a plain view. Collaborative scoring only looks at these.
var HighIntentActions = []BehaviorAction{
	BehaviorActionFavorite,
	BehaviorActionOffer,
	BehaviorActionContact,
}

// BehaviorEvent records a single user interaction with a listing.
// Events are append-only; this subsystem never mutates or deletes them.
type BehaviorEvent struct {
	ID        uuid.UUID      `json:"id"`
	UserID    uuid.UUID      `json:"user_id"`
	ListingID uuid.UUID      `json:"listing_id"`
	Action    BehaviorAction `json:"action"`
	Category  string         `json:"category,omitempty"`
	Price     *float64       `json:"price,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}
