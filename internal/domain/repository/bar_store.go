package repository

import (
	"context"
	"errors"
	"time"

	"FinSight/internal/domain/models"
)

// Timeframe represents bar resolution buckets.
type Timeframe string

const (
	TF1m Timeframe = "1m"
	TF1h Timeframe = "1h"
	TF1d Timeframe = "1d"
)

var (
	// ErrNotFound is returned when a symbol has no stored bars.
	ErrNotFound = errors.New("not found")
	// ErrUnavailable is returned while a storage circuit breaker is open.
	ErrUnavailable = errors.New("storage unavailable")
)

// BarStore provides access to OHLCV bars. Results are time-ascending.
type BarStore interface {
	GetBars(ctx context.Context, symbol string, from, to time.Time, tf Timeframe) (models.Series, error)
	GetLatestNBars(ctx context.Context, symbol string, n int, tf Timeframe) (models.Series, error)
	SaveBars(ctx context.Context, symbol string, tf Timeframe, bars models.Series) error
}
