package job

import (
	"context"
	"time"

	"github.com/BillyHamid/backendGlobal/internal/adapter/repository/repo_interfaces"
	"github.com/BillyHamid/backendGlobal/internal/domain"
	"github.com/BillyHamid/backendGlobal/internal/logger"
)

type EventPublisher interface {
	Publish(ctx context.Context, topic, key string, payload []byte) error
}

// OutboxDispatcher drains PENDING outbox rows to the broker. Delivery is
// at-least-once: a row is marked SENT only after the publish succeeded.
type OutboxDispatcher struct {
	outbox     repo_interfaces.OutboxRepository
	publisher  EventPublisher
	interval   time.Duration
	batchSize  int
	maxRetries int
}

func NewOutboxDispatcher(outbox repo_interfaces.OutboxRepository, publisher EventPublisher, interval time.Duration, batchSize, maxRetries int) *OutboxDispatcher {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	if batchSize <= 0 {
		batchSize = 50
	}
	return &OutboxDispatcher{
		outbox:     outbox,
		publisher:  publisher,
		interval:   interval,
		batchSize:  batchSize,
		maxRetries: maxRetries,
	}
}

// Run blocks until the context is cancelled.
func (d *OutboxDispatcher) Run(ctx context.Context) {
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	logger.Info("outbox dispatcher started", logger.Fields{
		"interval":  d.interval.String(),
		"batchSize": d.batchSize,
	})

	for {
		select {
		case <-ctx.Done():
			logger.Info("outbox dispatcher stopped", nil)
			return
		case <-ticker.C:
			d.DispatchBatch(ctx)
		}
	}
}

// DispatchBatch publishes one batch of pending messages.
func (d *OutboxDispatcher) DispatchBatch(ctx context.Context) {
	pending, err := d.outbox.GetPending(ctx, d.batchSize)
	if err != nil {
		logger.Error("outbox dispatcher fetch failed", err, nil)
		return
	}

	for _, message := range pending {
		d.dispatch(ctx, message)
	}
}

func (d *OutboxDispatcher) dispatch(ctx context.Context, message domain.OutboxMessage) {
	if err := d.publisher.Publish(ctx, message.Topic, message.MessageKey, []byte(message.Payload)); err != nil {
		logger.Error("outbox dispatcher publish failed", err, logger.Fields{
			"messageId":  message.ID,
			"topic":      message.Topic,
			"retryCount": message.RetryCount,
		})

		if message.RetryCount+1 >= d.maxRetries {
			if err := d.outbox.MarkFailed(ctx, message.ID); err != nil {
				logger.Error("outbox dispatcher mark failed error", err, logger.Fields{
					"messageId": message.ID,
				})
			}
			return
		}
		if err := d.outbox.IncrementRetryCount(ctx, message.ID); err != nil {
			logger.Error("outbox dispatcher retry increment error", err, logger.Fields{
				"messageId": message.ID,
			})
		}
		return
	}

	if err := d.outbox.MarkSent(ctx, message.ID); err != nil {
		logger.Error("outbox dispatcher mark sent error", err, logger.Fields{
			"messageId": message.ID,
		})
	}
}
