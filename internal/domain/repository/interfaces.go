package repository

import (
	"context"
	"time"

	"FinSight/internal/domain/models"
)

// NewsStore persists ingested news items.
type NewsStore interface {
	SaveNews(ctx context.Context, item models.NewsItem) error
	RecentNews(ctx context.Context, symbol string, since time.Time, limit int) ([]models.NewsItem, error)
}

// AlertPublisher fans risk alerts out to downstream consumers.
type AlertPublisher interface {
	PublishAlert(ctx context.Context, a models.RiskAlert) error
	Close() error
}

type Metrics interface {
	RecordComputation(engine, op string, seconds float64)
	RecordError(kind string)
	RecordCacheResult(cache string, hit bool)
	RecordAlert(severity string)
	RecordIngested(source string)
}
