package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/google/uuid"

	"FinSight/internal/domain/models"
	domrepo "FinSight/internal/domain/repository"
	"FinSight/pkg/logger"
)

// Broadcaster pushes alerts to live subscribers.
type Broadcaster interface {
	Broadcast(alert models.RiskAlert) int
}

// AlertScanner periodically assesses a watchlist and publishes risk alerts.
// The same (symbol, type, severity) is published at most once per interval.
type AlertScanner struct {
	analytics *Analytics
	publisher domrepo.AlertPublisher
	hub       Broadcaster
	metrics   domrepo.Metrics
	log       *logger.Logger
	symbols   []string
	interval  time.Duration
	tf        string
	now       func() time.Time

	mu        sync.Mutex
	seen      map[string]time.Time
	scheduler *gocron.Scheduler
}

func NewAlertScanner(a *Analytics, publisher domrepo.AlertPublisher, hub Broadcaster, symbols []string, interval time.Duration, l *logger.Logger) *AlertScanner {
	if l == nil {
		l = logger.Nop()
	}
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &AlertScanner{
		analytics: a,
		publisher: publisher,
		hub:       hub,
		metrics:   a.metrics,
		log:       l,
		symbols:   symbols,
		interval:  interval,
		tf:        string(domrepo.TF1d),
		now:       time.Now,
		seen:      make(map[string]time.Time),
	}
}

// Start schedules Scan every interval; the first run is immediate.
func (s *AlertScanner) Start(ctx context.Context) error {
	if len(s.symbols) == 0 {
		return nil
	}
	sched := gocron.NewScheduler(time.UTC)
	sched.SingletonModeAll()
	if _, err := sched.Every(s.interval).Do(func() {
		if _, err := s.Scan(ctx); err != nil {
			s.log.Warn("alert scan incomplete", logger.Error(err))
		}
	}); err != nil {
		return fmt.Errorf("schedule alert scan: %w", err)
	}
	sched.StartAsync()

	s.mu.Lock()
	s.scheduler = sched
	s.mu.Unlock()
	s.log.Info("alert scanner started", logger.Strings("symbols", s.symbols), logger.Duration("interval", s.interval))
	return nil
}

func (s *AlertScanner) Stop() {
	s.mu.Lock()
	sched := s.scheduler
	s.scheduler = nil
	s.mu.Unlock()
	if sched != nil {
		sched.Stop()
	}
}

// Scan assesses every symbol once and returns how many alerts were published.
// A failing symbol does not stop the others; the last error is returned.
func (s *AlertScanner) Scan(ctx context.Context) (int, error) {
	var lastErr error
	published := 0
	for _, sym := range s.symbols {
		if ctx.Err() != nil {
			return published, ctx.Err()
		}
		rep, err := s.analytics.StockRisk(ctx, sym, "", 0, s.tf)
		if err != nil {
			s.log.Warn("risk scan failed", logger.String("symbol", sym), logger.Error(err))
			lastErr = err
			continue
		}
		for _, alert := range rep.Alerts {
			if !s.claim(alert) {
				continue
			}
			alert.ID = uuid.NewString()
			alert.CreatedAt = s.now().UTC()
			if s.publisher != nil {
				if err := s.publisher.PublishAlert(ctx, alert); err != nil {
					s.metrics.RecordError("alert_publish")
					s.log.Error("publish alert", logger.String("symbol", sym), logger.String("type", alert.Type), logger.Error(err))
					s.release(alert)
					lastErr = err
					continue
				}
			}
			if s.hub != nil {
				s.hub.Broadcast(alert)
			}
			s.metrics.RecordAlert(string(alert.Severity))
			published++
		}
	}
	return published, lastErr
}

func alertKey(a models.RiskAlert) string {
	return a.Symbol + "|" + a.Type + "|" + string(a.Severity)
}

// claim reserves the alert key unless it was published within the interval.
func (s *AlertScanner) claim(a models.RiskAlert) bool {
	key := alertKey(a)
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()
	if last, ok := s.seen[key]; ok && now.Sub(last) < s.interval {
		return false
	}
	s.seen[key] = now
	return true
}

func (s *AlertScanner) release(a models.RiskAlert) {
	s.mu.Lock()
	delete(s.seen, alertKey(a))
	s.mu.Unlock()
}
