package queue

import (
	"time"

	"github.com/bazario/smart-recs/internal/models"
	"github.com/google/uuid"
)

// JobType represents the type of job
type JobType string

const (
	// JobTypeBehaviorTrack records a user interaction in the Behavior Store
	JobTypeBehaviorTrack JobType = "behavior_track"
)

// Job represents a job in the queue
type Job struct {
	ID         uuid.UUID             `json:"id"`
	Type       JobType               `json:"type"`
	UserID     uuid.UUID             `json:"user_id"`
	Event      *models.BehaviorEvent `json:"event,omitempty"`
	CreatedAt  time.Time             `json:"created_at"`
	RetryCount int                   `json:"retry_count"`
	MaxRetries int                   `json:"max_retries"`
}

// NewBehaviorTrackJob creates a job that records the given behavior event.
// Behavior tracking is best-effort: MaxRetries is zero and a failed insert is
// dropped, never retried.
func NewBehaviorTrackJob(event *models.BehaviorEvent) *Job {
	return &Job{
		ID:         uuid.New(),
		Type:       JobTypeBehaviorTrack,
		UserID:     event.UserID,
		Event:      event,
		CreatedAt:  time.Now(),
		RetryCount: 0,
		MaxRetries: 0,
	}
}

// CanRetry checks if the job can be retried
func (j *Job) CanRetry() bool {
	return j.RetryCount < j.MaxRetries
}

// IncrementRetry increments the retry count
func (j *Job) IncrementRetry() {
	j.RetryCount++
}
