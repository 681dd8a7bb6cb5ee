package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/bazario/smart-recs/internal/models"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

// BehaviorFilter narrows a behavior event query. Zero-value fields are
// ignored; Limit 0 means no limit.
type BehaviorFilter struct {
	UserID        *uuid.UUID
	ExcludeUserID *uuid.UUID
	Actions       []models.BehaviorAction
	Categories    []string
	Since         *time.Time
	Limit         int
}

// BehaviorEventRepository handles behavior event database operations
type BehaviorEventRepository struct {
	db *DB
}

// NewBehaviorEventRepository creates a new behavior event repository
func NewBehaviorEventRepository(db *DB) *BehaviorEventRepository {
	return &BehaviorEventRepository{db: db}
}

// Insert appends a behavior event. Events are never updated or deleted here;
// retention is an external concern.
func (r *BehaviorEventRepository) Insert(ctx context.Context, event *models.BehaviorEvent) error {
	query := `
		INSERT INTO behavior_events (id, user_id, listing_id, action, category, price, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	var category sql.NullString
	if event.Category != "" {
		category = sql.NullString{String: event.Category, Valid: true}
	}
	var price sql.NullFloat64
	if event.Price != nil {
		price = sql.NullFloat64{Float64: *event.Price, Valid: true}
	}

	_, err := r.db.ExecContext(ctx, query,
		event.ID,
		event.UserID,
		event.ListingID,
		event.Action,
		category,
		price,
		event.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert behavior event: %w", err)
	}

	return nil
}

// Query retrieves behavior events matching the filter, newest first
func (r *BehaviorEventRepository) Query(ctx context.Context, filter BehaviorFilter) ([]models.BehaviorEvent, error) {
	var conditions []string
	var args []any

	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.UserID != nil {
		conditions = append(conditions, "user_id = "+arg(*filter.UserID))
	}
	if filter.ExcludeUserID != nil {
		conditions = append(conditions, "user_id <> "+arg(*filter.ExcludeUserID))
	}
	if len(filter.Actions) > 0 {
		actions := make([]string, len(filter.Actions))
		for i, a := range filter.Actions {
			actions[i] = string(a)
		}
		conditions = append(conditions, "action = ANY("+arg(pq.Array(actions))+")")
	}
	if len(filter.Categories) > 0 {
		conditions = append(conditions, "category = ANY("+arg(pq.Array(filter.Categories))+")")
	}
	if filter.Since != nil {
		conditions = append(conditions, "created_at >= "+arg(*filter.Since))
	}

	query := `
		SELECT id, user_id, listing_id, action, category, price, created_at
		FROM behavior_events
	`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at DESC"
	if filter.Limit > 0 {
		query += " LIMIT " + arg(filter.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query behavior events: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			_ = err
		}
	}()

	var events []models.BehaviorEvent
	for rows.Next() {
		var event models.BehaviorEvent
		var category sql.NullString
		var price sql.NullFloat64

		if err := rows.Scan(
			&event.ID,
			&event.UserID,
			&event.ListingID,
			&event.Action,
			&category,
			&price,
			&event.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan behavior event: %w", err)
		}

		if category.Valid {
			event.Category = category.String
		}
		if price.Valid {
			p := price.Float64
			event.Price = &p
		}

		events = append(events, event)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating behavior events: %w", err)
	}

	return events, nil
}
