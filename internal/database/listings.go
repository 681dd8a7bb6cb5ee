package database

import (
	"context"
	"fmt"
	"strings"

	"github.com/bazario/smart-recs/internal/models"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

// ListingOrder selects the sort order for listing queries
type ListingOrder string

const (
	// ListingOrderNewest sorts by creation time, most recent first
	ListingOrderNewest ListingOrder = "newest"
	// ListingOrderPopularity sorts by views then favorites, descending
	ListingOrderPopularity ListingOrder = "popularity"
)

// ListingFilter narrows an active-listing query. Zero-value fields are
// ignored; Limit 0 means no limit.
type ListingFilter struct {
	Categories []string
	PriceRange *models.PriceRange
	ExcludeIDs []uuid.UUID
	OrderBy    ListingOrder
	Limit      int
}

// ListingRepository handles listing database operations
type ListingRepository struct {
	db *DB
}

// NewListingRepository creates a new listing repository
func NewListingRepository(db *DB) *ListingRepository {
	return &ListingRepository{db: db}
}

const listingColumns = `id, seller_id, title, category, price, condition, status, views_count, favorites_count, created_at`

// QueryActive retrieves active listings matching the filter
func (r *ListingRepository) QueryActive(ctx context.Context, filter ListingFilter) ([]models.Listing, error) {
	conditions := []string{"status = 'active'"}
	var args []any

	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if len(filter.Categories) > 0 {
		conditions = append(conditions, "category = ANY("+arg(pq.Array(filter.Categories))+")")
	}
	if filter.PriceRange != nil {
		conditions = append(conditions, "price >= "+arg(filter.PriceRange.Min))
		conditions = append(conditions, "price <= "+arg(filter.PriceRange.Max))
	}
	if len(filter.ExcludeIDs) > 0 {
		ids := make([]string, len(filter.ExcludeIDs))
		for i, id := range filter.ExcludeIDs {
			ids[i] = id.String()
		}
		conditions = append(conditions, "id <> ALL("+arg(pq.Array(ids))+")")
	}

	query := "SELECT " + listingColumns + " FROM listings WHERE " + strings.Join(conditions, " AND ")

	switch filter.OrderBy {
	case ListingOrderPopularity:
		query += " ORDER BY views_count DESC, favorites_count DESC"
	default:
		query += " ORDER BY created_at DESC"
	}

	if filter.Limit > 0 {
		query += " LIMIT " + arg(filter.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query active listings: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			_ = err
		}
	}()

	return scanListings(rows)
}

// GetByIDs retrieves listings by ID, most recent first. IDs that do not
// resolve (deleted, or inactive when activeOnly is set) are simply absent
// from the result.
func (r *ListingRepository) GetByIDs(ctx context.Context, ids []uuid.UUID, activeOnly bool) ([]models.Listing, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	idStrings := make([]string, len(ids))
	for i, id := range ids {
		idStrings[i] = id.String()
	}

	query := "SELECT " + listingColumns + " FROM listings WHERE id = ANY($1)"
	if activeOnly {
		query += " AND status = 'active'"
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.db.QueryContext(ctx, query, pq.Array(idStrings))
	if err != nil {
		return nil, fmt.Errorf("failed to get listings by IDs: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			_ = err
		}
	}()

	return scanListings(rows)
}

type rowScanner interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanListings(rows rowScanner) ([]models.Listing, error) {
	var listings []models.Listing
	for rows.Next() {
		var listing models.Listing
		if err := rows.Scan(
			&listing.ID,
			&listing.SellerID,
			&listing.Title,
			&listing.Category,
			&listing.Price,
			&listing.Condition,
			&listing.Status,
			&listing.ViewsCount,
			&listing.FavoritesCount,
			&listing.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan listing: %w", err)
		}
		listings = append(listings, listing)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating listings: %w", err)
	}

	return listings, nil
}
