package models

import (
	"time"

	"github.com/google/uuid"
)

// ListingStatus represents the lifecycle state of a marketplace listing
type ListingStatus string

const (
	ListingStatusActive  ListingStatus = "active"
	ListingStatusPaused  ListingStatus = "paused"
	ListingStatusSold    ListingStatus = "sold"
	ListingStatusDeleted ListingStatus = "deleted"
)

// ListingCondition represents the advertised condition of the item
type ListingCondition string

const (
	ListingConditionNew     ListingCondition = "new"
	ListingConditionLikeNew ListingCondition = "like_new"
	ListingConditionGood    ListingCondition = "good"
	ListingConditionFair    ListingCondition = "fair"
)

// Listing is the recommendation engine's view of a marketplace listing.
// Only listings with active status are ever returned to callers.
type Listing struct {
	ID             uuid.UUID        `json:"id"`
	SellerID       uuid.UUID        `json:"seller_id"`
	Title          string           `json:"title"`
	Category       string           `json:"category"`
	Price          float64          `json:"price"`
	Condition      ListingCondition `json:"condition"`
	Status         ListingStatus    `json:"status"`
	ViewsCount     int              `json:"views_count"`
	FavoritesCount int              `json:"favorites_count"`
	CreatedAt      time.Time        `json:"created_at"`
}

// IsActive reports whether the listing can appear in recommendations
func (l *Listing) IsActive() bool {
	return l.Status == ListingStatusActive
}
