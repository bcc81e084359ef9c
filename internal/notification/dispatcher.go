package notification

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/PlanifyOrg/planify/internal/id"
	"github.com/PlanifyOrg/planify/pkg/metrics"
)

// Notifier delivers notices on a best effort basis.
type Notifier interface {
	Dispatch(ctx context.Context, notices ...Notice)
}

// Publisher pushes a stored notification to an outbound channel.
type Publisher interface {
	Publish(ctx context.Context, n *Notification) error
}

// Dispatcher stores notices and forwards them to an optional publisher.
//
// Dispatch must only be called after the mutation that triggered it has
// committed. Failures are logged and counted, never returned.
type Dispatcher struct {
	repo      *Repository
	publisher Publisher
	logger    *zap.Logger
	now       func() time.Time
}

var _ Notifier = (*Dispatcher)(nil)

// NewDispatcher creates a dispatcher. publisher may be nil.
func NewDispatcher(repo *Repository, publisher Publisher, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{
		repo:      repo,
		publisher: publisher,
		logger:    logger.Named("notification"),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Dispatch delivers each notice independently.
func (d *Dispatcher) Dispatch(ctx context.Context, notices ...Notice) {
	for _, notice := range notices {
		err := d.deliver(ctx, notice)
		metrics.ObserveNotification(string(notice.Type), err)
		if err != nil {
			d.logger.Warn("notification delivery failed",
				zap.String("type", string(notice.Type)),
				zap.Int64("recipient_id", notice.RecipientID),
				zap.Error(err),
			)
		}
	}
}

func (d *Dispatcher) deliver(ctx context.Context, notice Notice) error {
	if notice.RecipientID == 0 {
		return errors.New("notice has no recipient")
	}

	n := &Notification{
		ID:              id.New(),
		RecipientID:     notice.RecipientID,
		SenderID:        notice.SenderID,
		Type:            notice.Type,
		Title:           notice.Title,
		Message:         notice.Message,
		RelatedEntityID: notice.RelatedEntityID,
		CreatedAt:       d.now(),
	}
	if err := d.repo.Create(ctx, n); err != nil {
		return err
	}

	if d.publisher == nil {
		return nil
	}
	// The notification is already stored; a failed publish only loses the push.
	if err := d.publisher.Publish(ctx, n); err != nil {
		d.logger.Warn("notification publish failed",
			zap.Int64("notification_id", n.ID),
			zap.Error(err),
		)
	}
	return nil
}
