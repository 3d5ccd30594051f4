package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"

	"FinSight/internal/domain/models"
	domrepo "FinSight/internal/domain/repository"
	domsvc "FinSight/internal/domain/service"
	"FinSight/pkg/logger"
	"FinSight/pkg/util"
)

var errMalformedNews = errors.New("malformed news message")

// NewsIngestHandler consumes news messages from Kafka and persists them.
type NewsIngestHandler struct {
	topic   string
	store   domrepo.NewsStore
	scorer  domsvc.SentimentScorer
	metrics domrepo.Metrics
	log     *logger.Logger
	now     func() time.Time
}

func NewNewsIngestHandler(topic string, store domrepo.NewsStore, scorer domsvc.SentimentScorer, metrics domrepo.Metrics, l *logger.Logger) *NewsIngestHandler {
	if l == nil {
		l = logger.Nop()
	}
	return &NewsIngestHandler{topic: topic, store: store, scorer: scorer, metrics: metrics, log: l, now: time.Now}
}

func (h *NewsIngestHandler) Topic() string { return h.topic }

// Handle accepts {id, title, summary, source, published_at, sentiment,
// symbols}. Messages without a title and summary are rejected so the
// consumer can dead-letter them.
func (h *NewsIngestHandler) Handle(ctx context.Context, b []byte) error {
	item, err := h.parse(b)
	if err != nil {
		h.metrics.RecordError("news_parse")
		return err
	}
	if item.Sentiment == nil && h.scorer != nil {
		s := h.scorer.AnalyzeSentiment(item.Text()).Score
		item.Sentiment = &s
	}
	if err := h.store.SaveNews(ctx, item); err != nil {
		h.metrics.RecordError("news_store")
		return fmt.Errorf("save news %s: %w", item.ID, err)
	}
	h.metrics.RecordIngested("news")
	h.log.Debug("news ingested", logger.String("id", item.ID), logger.Strings("symbols", item.RelevantSymbols))
	return nil
}

func (h *NewsIngestHandler) parse(b []byte) (models.NewsItem, error) {
	if !gjson.ValidBytes(b) {
		return models.NewsItem{}, fmt.Errorf("%w: invalid json", errMalformedNews)
	}
	doc := gjson.ParseBytes(b)

	item := models.NewsItem{
		ID:      strings.TrimSpace(doc.Get("id").String()),
		Title:   strings.TrimSpace(doc.Get("title").String()),
		Summary: strings.TrimSpace(doc.Get("summary").String()),
		Source:  strings.TrimSpace(doc.Get("source").String()),
	}
	if item.Title == "" && item.Summary == "" {
		return models.NewsItem{}, fmt.Errorf("%w: no title or summary", errMalformedNews)
	}
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	item.PublishedAt = publishedAt(doc.Get("published_at"), h.now())

	if s := doc.Get("sentiment"); s.Type == gjson.Number {
		v := s.Float()
		if v < -1 {
			v = -1
		} else if v > 1 {
			v = 1
		}
		item.Sentiment = &v
	}

	syms := doc.Get("symbols")
	if !syms.Exists() {
		syms = doc.Get("relevant_symbols")
	}
	item.RelevantSymbols = parseSymbolList(syms)
	return item, nil
}

// publishedAt returns unix ms; missing or unparsable values fall back to now.
func publishedAt(v gjson.Result, now time.Time) int64 {
	switch v.Type {
	case gjson.Number:
		if ts := v.Int(); ts > 0 {
			return util.FromUnix(ts).UnixMilli()
		}
	case gjson.String:
		if t, ok := util.ParseTime(v.String()); ok {
			return t.UnixMilli()
		}
	}
	return now.UnixMilli()
}

func parseSymbolList(v gjson.Result) []string {
	var out []string
	if v.IsArray() {
		for _, s := range v.Array() {
			if sym := strings.TrimSpace(s.String()); sym != "" {
				out = append(out, sym)
			}
		}
	} else {
		out = util.SplitList(v.String())
	}
	return util.UpperAll(out)
}
