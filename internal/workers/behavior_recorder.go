package workers

import (
	"context"
	"fmt"

	"github.com/bazario/smart-recs/internal/database"
	"github.com/bazario/smart-recs/internal/queue"
	"go.uber.org/zap"
)

// BehaviorRecorder drains behavior-track jobs from the queue and appends the
// events to the Behavior Store. The write path is best-effort: a failed
// insert is logged and the message acknowledged anyway, never retried.
type BehaviorRecorder struct {
	behaviors database.BehaviorEventRepositoryInterface
	logger    *zap.Logger
}

// NewBehaviorRecorder creates a new behavior recorder
func NewBehaviorRecorder(behaviors database.BehaviorEventRepositoryInterface, logger *zap.Logger) *BehaviorRecorder {
	return &BehaviorRecorder{behaviors: behaviors, logger: logger}
}

// ProcessJob handles one queued message, acknowledging it in all outcomes
// except an unknown job type, which goes to the dead letter queue
func (r *BehaviorRecorder) ProcessJob(ctx context.Context, msg queue.MessageInterface) error {
	job := msg.GetJob()

	if job.Type != queue.JobTypeBehaviorTrack {
		r.logger.Warn("unknown_job_type",
			zap.String("job_id", job.ID.String()),
			zap.String("job_type", string(job.Type)),
		)
		if err := msg.Nack(false); err != nil {
			return fmt.Errorf("failed to nack unknown job: %w", err)
		}
		return nil
	}

	if err := r.recordEvent(ctx, job); err != nil {
		// Best-effort analytics: the event is dropped, not retried
		r.logger.Warn("behavior_event_dropped",
			zap.String("job_id", job.ID.String()),
			zap.String("user_id", job.UserID.String()),
			zap.Error(err),
		)
	}

	if err := msg.Ack(); err != nil {
		return fmt.Errorf("failed to ack job: %w", err)
	}
	return nil
}

func (r *BehaviorRecorder) recordEvent(ctx context.Context, job *queue.Job) error {
	if job.Event == nil {
		return fmt.Errorf("behavior track job %s has no event payload", job.ID)
	}

	if err := r.behaviors.Insert(ctx, job.Event); err != nil {
		return fmt.Errorf("failed to insert behavior event: %w", err)
	}

	r.logger.Debug("behavior_event_recorded",
		zap.String("user_id", job.Event.UserID.String()),
		zap.String("listing_id", job.Event.ListingID.String()),
		zap.String("action", string(job.Event.Action)),
	)

	return nil
}
