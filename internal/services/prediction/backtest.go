package prediction

import (
	"fmt"
	"math"

	"FinSight/internal/domain/models"
	"FinSight/internal/services/seriesmath"
)

// Backtest fits a private ensemble on bars before startIndex, then walks
// forward predicting from each prefix. At most one position is open; it is
// closed on an opposite high-confidence signal or at the last bar.
func (e *Engine) Backtest(series models.Series, startIndex int, strategy models.Strategy) (models.BacktestResult, error) {
	if err := series.Validate(); err != nil {
		return models.BacktestResult{}, err
	}
	if strategy.Horizon == "" {
		strategy.Horizon = "1d"
	}
	if strategy.ConfidenceThreshold == 0 {
		strategy.ConfidenceThreshold = 0.6
	}
	h, ok := LookupHorizon(strategy.Horizon)
	if !ok {
		return models.BacktestResult{}, models.InvalidParameterf("unknown horizon %q", strategy.Horizon)
	}
	if startIndex < 0 || startIndex >= len(series) {
		return models.BacktestResult{}, models.InvalidParameterf("start index %d outside series of %d bars", startIndex, len(series))
	}

	en := e.fit(fmt.Sprintf("backtest|%s|%d", h.Name, startIndex), h, series, startIndex)

	res := models.BacktestResult{StartIndex: startIndex, Trades: []models.Trade{}}
	var open *models.Trade
	closeAt := func(i int) {
		open.ExitIndex = i
		open.ExitPrice = series[i].Close
		open.Return = tradeReturn(*open)
		res.Trades = append(res.Trades, *open)
		open = nil
	}

	for t := startIndex; t < len(series); t++ {
		res.Steps++
		v := en.Vote(e.extractor.Extract(series[:t+1].Tail(featureWindow), nil, nil))
		if v.Confidence <= strategy.ConfidenceThreshold {
			continue
		}
		switch v.Direction {
		case models.DirectionUp:
			if open != nil && open.Side == models.SideShort {
				closeAt(t)
			}
			if open == nil {
				open = &models.Trade{Side: models.SideLong, EntryIndex: t, EntryPrice: series[t].Close}
			}
		case models.DirectionDown:
			if open != nil && open.Side == models.SideLong {
				closeAt(t)
			}
			if open == nil && strategy.AllowShort {
				open = &models.Trade{Side: models.SideShort, EntryIndex: t, EntryPrice: series[t].Close}
			}
		}
	}
	if open != nil {
		closeAt(len(series) - 1)
	}
	summarizeTrades(&res)
	return res, nil
}

func tradeReturn(t models.Trade) float64 {
	if t.EntryPrice == 0 {
		return 0
	}
	if t.Side == models.SideShort {
		return 1 - t.ExitPrice/t.EntryPrice
	}
	return t.ExitPrice/t.EntryPrice - 1
}

func summarizeTrades(res *models.BacktestResult) {
	if len(res.Trades) == 0 {
		return
	}
	returns := make([]float64, len(res.Trades))
	var wins, losses []float64
	equity, peak := 1.0, 1.0
	for i, tr := range res.Trades {
		returns[i] = tr.Return
		if tr.Return > 0 {
			wins = append(wins, tr.Return)
		} else if tr.Return < 0 {
			losses = append(losses, tr.Return)
		}
		equity *= 1 + tr.Return
		peak = math.Max(peak, equity)
		if peak > 0 {
			res.MaxDrawdown = math.Max(res.MaxDrawdown, (peak-equity)/peak)
		}
	}
	res.TotalReturn = equity - 1
	res.WinRate = float64(len(wins)) / float64(len(res.Trades))
	res.AverageWin = seriesmath.Mean(wins)
	res.AverageLoss = seriesmath.Mean(losses)
	if sd := seriesmath.StdDev(returns); sd > 0 {
		res.SharpeRatio = seriesmath.Mean(returns) / sd
	}
}
