package services

import (
	"context"

	"rental-backend/internal/models"
)

// ReportCache is the read-through cache for rendered reports. Generation
// reports false when entries can be neither trusted nor stored.
type ReportCache interface {
	Generation(ctx context.Context, p models.Period) (string, bool)
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, data []byte)
	InvalidatePeriod(ctx context.Context, p models.Period)
	InvalidateAll(ctx context.Context)
}

// EventPublisher receives every committed payment write.
type EventPublisher interface {
	Publish(event models.PaymentEvent)
}

type noopCache struct{}

func (noopCache) Generation(context.Context, models.Period) (string, bool) { return "", false }
func (noopCache) Get(context.Context, string) ([]byte, bool) { return nil, false }
func (noopCache) Set(context.Context, string, []byte) {}
func (noopCache) InvalidatePeriod(context.Context, models.Period) {}
func (noopCache) InvalidateAll(context.Context) {}

type noopPublisher struct{}

func (noopPublisher) Publish(models.PaymentEvent) {}

func cacheOrNoop(c ReportCache) ReportCache {
	if c == nil {
		return noopCache{}
	}
	return c
}

func publisherOrNoop(p EventPublisher) EventPublisher {
	if p == nil {
		return noopPublisher{}
	}
	return p
}
