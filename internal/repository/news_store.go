package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/sony/gobreaker"

	"FinSight/internal/domain/models"
	domrepo "FinSight/internal/domain/repository"
	pkgch "FinSight/pkg/clickhouse"
	applogger "FinSight/pkg/logger"
)

// CHNewsStore implements NewsStore backed by ClickHouse.
type CHNewsStore struct {
	db       *sql.DB
	database string
	cb       *gobreaker.CircuitBreaker
	l        *applogger.Logger
}

var _ domrepo.NewsStore = (*CHNewsStore)(nil)

func NewCHNewsStore(ch *pkgch.Client, cfg BreakerConfig, l *applogger.Logger) *CHNewsStore {
	return &CHNewsStore{
		db:       ch.DB(),
		database: ch.Database(),
		cb:       newBreaker("clickhouse-news", cfg, l),
		l:        l,
	}
}

func (s *CHNewsStore) SaveNews(ctx context.Context, item models.NewsItem) error {
	q := fmt.Sprintf(`INSERT INTO %s.news (id, title, summary, source, published_at, sentiment, symbols)
        VALUES (?, ?, ?, ?, ?, ?, ?)`, s.database)
	var sentiment interface{}
	if item.Sentiment != nil {
		sentiment = *item.Sentiment
	}
	symbols := item.RelevantSymbols
	if symbols == nil {
		symbols = []string{}
	}
	if _, err := s.db.ExecContext(ctx, q,
		item.ID, item.Title, item.Summary, item.Source,
		time.UnixMilli(item.PublishedAt).UTC(), sentiment, symbols,
	); err != nil {
		return fmt.Errorf("save news: %w", err)
	}
	return nil
}

// RecentNews returns up to limit items for symbol published at or after
// since, oldest first. An empty symbol matches every item.
func (s *CHNewsStore) RecentNews(ctx context.Context, symbol string, since time.Time, limit int) ([]models.NewsItem, error) {
	if limit <= 0 {
		limit = 200
	}
	q := fmt.Sprintf(`
        SELECT id, title, summary, source, published_at, sentiment, symbols
        FROM %s.news FINAL
        WHERE (? = '' OR has(symbols, ?)) AND published_at >= ?
        ORDER BY published_at DESC
        LIMIT ?`, s.database)

	items, err := guarded(s.cb, func() ([]models.NewsItem, error) {
		rows, err := s.db.QueryContext(ctx, q, symbol, symbol, since.UTC(), limit)
		if err != nil {
			return nil, fmt.Errorf("recent news: %w", err)
		}
		defer rows.Close()

		out := make([]models.NewsItem, 0, limit)
		for rows.Next() {
			var (
				it        models.NewsItem
				published time.Time
				sentiment sql.NullFloat64
			)
			if err := rows.Scan(&it.ID, &it.Title, &it.Summary, &it.Source, &published, &sentiment, &it.RelevantSymbols); err != nil {
				return nil, fmt.Errorf("recent news scan: %w", err)
			}
			it.PublishedAt = published.UnixMilli()
			if sentiment.Valid {
				v := sentiment.Float64
				it.Sentiment = &v
			}
			out = append(out, it)
		}
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("recent news rows: %w", err)
		}
		for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
			out[i], out[j] = out[j], out[i]
		}
		return out, nil
	})
	if err != nil {
		s.l.Error("clickhouse news query failed", applogger.String("symbol", symbol), applogger.Error(err))
		return nil, err
	}
	return items, nil
}
