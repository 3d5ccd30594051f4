package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"FinSight/internal/domain/models"
	domrepo "FinSight/internal/domain/repository"
	pkgch "FinSight/pkg/clickhouse"
	applogger "FinSight/pkg/logger"
)

const insertChunk = 2000

// CHBarStore implements BarStore backed by ClickHouse.
type CHBarStore struct {
	db       *sql.DB
	database string
	cb       *gobreaker.CircuitBreaker
	l        *applogger.Logger
}

var _ domrepo.BarStore = (*CHBarStore)(nil)

func NewCHBarStore(ch *pkgch.Client, cfg BreakerConfig, l *applogger.Logger) *CHBarStore {
	return &CHBarStore{
		db:       ch.DB(),
		database: ch.Database(),
		cb:       newBreaker("clickhouse-bars", cfg, l),
		l:        l,
	}
}

func (s *CHBarStore) GetBars(ctx context.Context, symbol string, from, to time.Time, tf domrepo.Timeframe) (models.Series, error) {
	from, to = tf.Align(from, to)
	q := fmt.Sprintf(`
        SELECT ts, open, high, low, close, volume
        FROM %s FINAL
        WHERE symbol = ? AND ts >= ? AND ts <= ?
        ORDER BY ts ASC`, barTable(s.database, tf))
	return s.query(ctx, "get_bars", symbol, tf, false, q, symbol, from, to)
}

func (s *CHBarStore) GetLatestNBars(ctx context.Context, symbol string, n int, tf domrepo.Timeframe) (models.Series, error) {
	if n <= 0 {
		return nil, models.InvalidParameterf("n must be positive, got %d", n)
	}
	q := fmt.Sprintf(`
        SELECT ts, open, high, low, close, volume
        FROM %s FINAL
        WHERE symbol = ?
        ORDER BY ts DESC
        LIMIT ?`, barTable(s.database, tf))
	return s.query(ctx, "latest_bars", symbol, tf, true, q, symbol, n)
}

func (s *CHBarStore) query(ctx context.Context, op, symbol string, tf domrepo.Timeframe, desc bool, q string, args ...interface{}) (models.Series, error) {
	start := time.Now()
	out, err := guarded(s.cb, func() (models.Series, error) {
		rows, err := s.db.QueryContext(ctx, q, args...)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		defer rows.Close()

		series := make(models.Series, 0, 256)
		for rows.Next() {
			var (
				ts time.Time
				b  models.Bar
			)
			if err := rows.Scan(&ts, &b.Open, &b.High, &b.Low, &b.Close, &b.Volume); err != nil {
				return nil, fmt.Errorf("%s scan: %w", op, err)
			}
			b.Timestamp = ts.UnixMilli()
			series = append(series, b)
		}
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("%s rows: %w", op, err)
		}
		if len(series) == 0 {
			return nil, fmt.Errorf("bars for %s (%s): %w", symbol, tf, domrepo.ErrNotFound)
		}
		if desc {
			reverse(series)
		}
		return series, nil
	})
	if err != nil {
		s.l.Error("clickhouse bars query failed",
			applogger.String("op", op),
			applogger.String("symbol", symbol),
			applogger.String("tf", string(tf)),
			applogger.Error(err),
		)
		return nil, err
	}
	s.l.Debug("clickhouse bars query ok",
		applogger.String("op", op),
		applogger.String("symbol", symbol),
		applogger.Int("rows", len(out)),
		applogger.Duration("duration_ms", time.Since(start)),
	)
	return out, nil
}

// SaveBars inserts bars in multi-row chunks. Re-inserting a timestamp
// replaces the earlier row on merge.
func (s *CHBarStore) SaveBars(ctx context.Context, symbol string, tf domrepo.Timeframe, bars models.Series) error {
	table := barTable(s.database, tf)
	for start := 0; start < len(bars); start += insertChunk {
		end := start + insertChunk
		if end > len(bars) {
			end = len(bars)
		}
		q, args := buildBarInsert(table, symbol, bars[start:end])
		if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
			return fmt.Errorf("save bars: %w", err)
		}
	}
	return nil
}

func buildBarInsert(table, symbol string, bars models.Series) (string, []interface{}) {
	values := make([]string, 0, len(bars))
	args := make([]interface{}, 0, len(bars)*7)
	for _, b := range bars {
		values = append(values, "(?, ?, ?, ?, ?, ?, ?)")
		args = append(args, symbol, b.Time(), b.Open, b.High, b.Low, b.Close, b.Volume)
	}
	q := fmt.Sprintf("INSERT INTO %s (symbol, ts, open, high, low, close, volume) VALUES %s", table, strings.Join(values, ","))
	return q, args
}

func reverse(s models.Series) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}
