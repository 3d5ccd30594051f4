package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/sourcegraph/conc"

	"FinSight/internal/domain/models"
)

const dashboardTimeout = 10 * time.Second

// Dashboard fans the per-symbol engines out concurrently. Parts that fail
// are listed in Errors; the call itself only fails on bad input.
func (a *Analytics) Dashboard(ctx context.Context, symbol, tf string) (*models.Dashboard, error) {
	if symbol == "" {
		return nil, models.InvalidParameterf("symbol is required")
	}

	ctx, cancel := context.WithTimeout(ctx, dashboardTimeout)
	defer cancel()

	res := &models.Dashboard{
		Symbol:    symbol,
		Timestamp: a.now().UTC(),
		Errors:    map[string]string{},
	}

	type item struct {
		name string
		val  interface{}
		err  error
	}
	ch := make(chan item, 4)
	var wg conc.WaitGroup

	wg.Go(func() {
		v, err := a.Technical(ctx, symbol, 0, tf)
		ch <- item{"technical", v, err}
	})
	wg.Go(func() {
		v, err := a.StockRisk(ctx, symbol, "", 0, tf)
		ch <- item{"risk", v, err}
	})
	wg.Go(func() {
		v, err := a.Predict(ctx, symbol, nil, 0, tf)
		ch <- item{"predictions", v, err}
	})
	wg.Go(func() {
		v, err := a.SentimentTrend(ctx, symbol, a.now().Add(-24*time.Hour))
		ch <- item{"sentiment", v, err}
	})

	// Wait re-panics on the caller goroutine if an engine panicked.
	wg.Wait()
	close(ch)

	for it := range ch {
		if it.err != nil {
			res.Errors[it.name] = it.err.Error()
			continue
		}
		switch v := it.val.(type) {
		case models.TechnicalReport:
			res.Technical = &v
		case models.StockRiskReport:
			res.Risk = &v
		case []models.PredictionResult:
			res.Predictions = v
		case []models.TrendPoint:
			res.Sentiment = v
		default:
			res.Errors[it.name] = fmt.Sprintf("unexpected result %T", v)
		}
	}

	if len(res.Errors) == 0 {
		res.Errors = nil
	}
	return res, nil
}
