package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Saqqqi/Food-Delivery-System-sub000/kafka"
	"github.com/Saqqqi/Food-Delivery-System-sub000/models"
	"github.com/Saqqqi/Food-Delivery-System-sub000/pkg/aws"
	"github.com/Saqqqi/Food-Delivery-System-sub000/repository"
	"go.uber.org/zap"
)

const dispatchBatchSize = 50

// OutboxDispatcher polls pending outbox events and publishes them to Kafka,
// mirroring to SNS when configured. An event is marked dispatched only after
// the Kafka publish succeeds, so delivery is at-least-once and consumers must
// dedupe on event ID.
type OutboxDispatcher struct {
	outboxRepo  repository.OutboxRepository
	producer    *kafka.Producer
	snsClient   aws.SNSPublisher
	snsTopicARN string
	interval    time.Duration
	logger      *zap.Logger
}

func NewOutboxDispatcher(
	outboxRepo repository.OutboxRepository,
	producer *kafka.Producer,
	snsClient aws.SNSPublisher,
	snsTopicARN string,
	interval time.Duration,
	logger *zap.Logger,
) *OutboxDispatcher {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	return &OutboxDispatcher{
		outboxRepo:  outboxRepo,
		producer:    producer,
		snsClient:   snsClient,
		snsTopicARN: snsTopicARN,
		interval:    interval,
		logger:      logger,
	}
}

// Run polls until ctx is cancelled. Intended to be started as a goroutine
// from main.
func (d *OutboxDispatcher) Run(ctx context.Context) {
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	d.logger.Info("Outbox dispatcher started", zap.Duration("interval", d.interval))
	for {
		select {
		case <-ctx.Done():
			d.logger.Info("Outbox dispatcher stopped")
			return
		case <-ticker.C:
			d.DispatchPending(ctx)
		}
	}
}

// DispatchPending publishes one batch of pending events. Returns the number
// successfully dispatched.
func (d *OutboxDispatcher) DispatchPending(ctx context.Context) int {
	events, err := d.outboxRepo.FindPending(ctx, dispatchBatchSize)
	if err != nil {
		d.logger.Error("Failed to fetch pending outbox events", zap.Error(err))
		return 0
	}

	dispatched := 0
	for i := range events {
		event := &events[i]
		if err := d.publish(ctx, event); err != nil {
			d.logger.Error("Failed to publish outbox event",
				zap.String("event_id", event.ID),
				zap.String("type", event.Type),
				zap.Error(err),
			)
			continue
		}
		if err := d.outboxRepo.MarkDispatched(ctx, event.ID); err != nil {
			d.logger.Error("Failed to mark event dispatched",
				zap.String("event_id", event.ID),
				zap.Error(err),
			)
			continue
		}
		dispatched++
	}

	if dispatched > 0 {
		d.logger.Info("Outbox events dispatched", zap.Int("count", dispatched))
	}
	return dispatched
}

func (d *OutboxDispatcher) publish(ctx context.Context, event *models.OutboxEvent) error {
	if err := d.producer.PublishEvent(ctx, event); err != nil {
		return err
	}

	// The SNS mirror is best effort: a failure there never blocks the event
	// or leaves it pending, Kafka is the system of record.
	if d.snsClient != nil && d.snsTopicARN != "" {
		payload, err := json.Marshal(event)
		if err == nil {
			err = d.snsClient.Publish(ctx, d.snsTopicARN, event.Type, payload)
		}
		if err != nil {
			d.logger.Warn("SNS mirror publish failed",
				zap.String("event_id", event.ID),
				zap.Error(err),
			)
		}
	}
	return nil
}
