package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"

	"github.com/medicab/booking-api/internal/config"
	"github.com/medicab/booking-api/internal/model"
	"github.com/medicab/booking-api/internal/repository"
	"github.com/medicab/booking-api/pkg/messaging"
	"github.com/medicab/booking-api/pkg/metrics"
)

// OutboxProcessor drains pending outbox events to the message broker.
type OutboxProcessor struct {
	outbox  repository.OutboxRepository
	broker  messaging.Broker
	cfg     config.OutboxConfig
	metrics *metrics.Metrics
	logger  *zerolog.Logger
}

func NewOutboxProcessor(
	outbox repository.OutboxRepository,
	broker messaging.Broker,
	cfg config.OutboxConfig,
	m *metrics.Metrics,
	logger *zerolog.Logger,
) *OutboxProcessor {
	return &OutboxProcessor{
		outbox:  outbox,
		broker:  broker,
		cfg:     cfg,
		metrics: m,
		logger:  logger,
	}
}

// Start polls for pending events until the context is cancelled.
func (p *OutboxProcessor) Start(ctx context.Context) {
	ticker := time.NewTicker(p.cfg.PollInterval)
	defer ticker.Stop()

	p.logger.Info().
		Dur("poll_interval", p.cfg.PollInterval).
		Int("batch_size", p.cfg.BatchSize).
		Msg("outbox processor started")

	for {
		select {
		case <-ctx.Done():
			p.logger.Info().Msg("outbox processor stopped")
			return
		case <-ticker.C:
			if err := p.processBatch(ctx); err != nil {
				p.logger.Error().Err(err).Msg("failed to process outbox batch")
			}
		}
	}
}

func (p *OutboxProcessor) processBatch(ctx context.Context) error {
	events, err := p.outbox.GetPendingEvents(ctx, p.cfg.BatchSize)
	if err != nil {
		return err
	}

	for _, event := range events {
		start := time.Now()
		if err := p.publishWithRetry(ctx, event); err != nil {
			p.metrics.OutboxEventsFailed.Inc()
			if mErr := p.outbox.MarkFailed(ctx, event.ID, err.Error()); mErr != nil {
				p.logger.Error().Err(mErr).Str("event_id", event.ID.String()).Msg("failed to mark event failed")
			}
			continue
		}

		p.metrics.OutboxEventsProcessed.Inc()
		p.metrics.OutboxProcessingLatency.Observe(time.Since(start).Seconds())
		if err := p.outbox.MarkProcessed(ctx, event.ID); err != nil {
			p.logger.Error().Err(err).Str("event_id", event.ID.String()).Msg("failed to mark event processed")
		}
	}
	return nil
}

func (p *OutboxProcessor) publishWithRetry(ctx context.Context, event *model.OutboxEvent) error {
	var lastErr error
	for attempt := 0; attempt < p.cfg.RetryAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(p.cfg.RetryDelay):
			}
		}

		if lastErr = p.broker.Publish(ctx, event.EventType, json.RawMessage(event.Payload)); lastErr == nil {
			return nil
		}

		p.logger.Warn().
			Err(lastErr).
			Str("event_id", event.ID.String()).
			Int("attempt", attempt+1).
			Msg("publish attempt failed")
	}
	return lastErr
}
