package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"FinSight/internal/domain/models"
	domrepo "FinSight/internal/domain/repository"
	icache "FinSight/internal/service/cache"
	"FinSight/internal/service/ratelimit"
	"FinSight/internal/usecase"
	xhttp "FinSight/pkg/http"
	xlogger "FinSight/pkg/logger"
	pkgmetrics "FinSight/pkg/metrics"
)

// HealthCheck reports whether a dependency is reachable.
type HealthCheck func(ctx context.Context) error

// AlertStream serves the websocket alert feed.
type AlertStream interface {
	ServeWS(c echo.Context) error
}

type Option func(*AnalyticsHandler)

// WithCache caches successful GET responses for ttl.
func WithCache(c icache.BytesCache, ttl time.Duration) Option {
	return func(h *AnalyticsHandler) {
		h.cache = c
		h.cacheTTL = ttl
	}
}

func WithRateLimiter(rl *ratelimit.Limiter) Option {
	return func(h *AnalyticsHandler) { h.rl = rl }
}

func WithStream(s AlertStream) Option {
	return func(h *AnalyticsHandler) { h.stream = s }
}

func WithMetrics(m domrepo.Metrics) Option {
	return func(h *AnalyticsHandler) {
		if m != nil {
			h.metrics = m
		}
	}
}

func WithHealthCheck(name string, check HealthCheck) Option {
	return func(h *AnalyticsHandler) { h.checks[name] = check }
}

// AnalyticsHandler exposes every analytics operation over echo.
type AnalyticsHandler struct {
	uc       *usecase.Analytics
	logger   *xlogger.Logger
	cache    icache.BytesCache
	cacheTTL time.Duration
	rl       *ratelimit.Limiter
	stream   AlertStream
	metrics  domrepo.Metrics
	checks   map[string]HealthCheck
}

func NewAnalyticsHandler(logger *xlogger.Logger, uc *usecase.Analytics, opts ...Option) *AnalyticsHandler {
	if logger == nil {
		logger = xlogger.Nop()
	}
	h := &AnalyticsHandler{
		uc:       uc,
		logger:   logger,
		cacheTTL: 30 * time.Second,
		metrics:  pkgmetrics.Nop{},
		checks:   map[string]HealthCheck{},
	}
	for _, o := range opts {
		o(h)
	}
	return h
}

func (h *AnalyticsHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", h.Health)
	if h.stream != nil {
		e.GET("/ws/alerts", h.stream.ServeWS)
	}

	g := e.Group("/api")
	if h.rl != nil {
		g.Use(h.rl.Middleware())
	}
	g.GET("/technical", h.Technical)
	g.GET("/technical/score", h.TechnicalScore)
	g.GET("/risk", h.StockRisk)
	g.POST("/risk/portfolio", h.Portfolio)
	g.POST("/risk/montecarlo", h.MonteCarlo)
	g.GET("/predict", h.Predict)
	g.POST("/predict/backtest", h.Backtest)
	g.POST("/predict/retrain", h.Retrain)
	g.POST("/sentiment", h.Sentiment)
	g.POST("/news/impact", h.NewsImpact)
	g.GET("/news/trend", h.NewsTrend)
	g.GET("/news/relevant", h.NewsRelevant)
	g.GET("/news/correlation", h.NewsCorrelation)
	g.GET("/dashboard", h.Dashboard)
}

func (h *AnalyticsHandler) Health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 3*time.Second)
	defer cancel()
	status := map[string]string{}
	healthy := true
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			h.logger.Warn("health check failed", xlogger.String("dependency", name), xlogger.Error(err))
			status[name] = err.Error()
			healthy = false
			continue
		}
		status[name] = "ok"
	}
	if !healthy {
		return xhttp.DataResponse(c, http.StatusServiceUnavailable, status)
	}
	return xhttp.SuccessResponse(c, status)
}

func (h *AnalyticsHandler) Technical(c echo.Context) error {
	req := &models.SeriesRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	return h.cached(c, "technical", func(ctx context.Context) (interface{}, error) {
		return h.uc.Technical(ctx, req.Symbol, req.N, req.TF)
	})
}

func (h *AnalyticsHandler) TechnicalScore(c echo.Context) error {
	req := &models.SeriesRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	return h.cached(c, "technical_score", func(ctx context.Context) (interface{}, error) {
		return h.uc.TechnicalScore(ctx, req.Symbol, req.N, req.TF)
	})
}

func (h *AnalyticsHandler) StockRisk(c echo.Context) error {
	req := &models.StockRiskRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	return h.cached(c, "risk", func(ctx context.Context) (interface{}, error) {
		return h.uc.StockRisk(ctx, req.Symbol, req.Benchmark, req.N, req.TF)
	})
}

func (h *AnalyticsHandler) Portfolio(c echo.Context) error {
	req := &models.PortfolioRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	res, err := h.uc.Portfolio(c.Request().Context(), req.Holdings, req.N, req.TF)
	if err != nil {
		return h.fail(c, "portfolio", err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *AnalyticsHandler) MonteCarlo(c echo.Context) error {
	req := &models.MonteCarloRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	res, err := h.uc.MonteCarlo(c.Request().Context(), *req)
	if err != nil {
		return h.fail(c, "montecarlo", err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *AnalyticsHandler) Predict(c echo.Context) error {
	req := &models.PredictRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	return h.cached(c, "predict", func(ctx context.Context) (interface{}, error) {
		return h.uc.Predict(ctx, req.Symbol, splitHorizons(req.Horizons), req.N, req.TF)
	})
}

func (h *AnalyticsHandler) Backtest(c echo.Context) error {
	req := &models.BacktestRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	res, err := h.uc.Backtest(c.Request().Context(), *req)
	if err != nil {
		return h.fail(c, "backtest", err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *AnalyticsHandler) Retrain(c echo.Context) error {
	req := &models.RetrainRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	res, err := h.uc.Retrain(c.Request().Context(), req.Symbol, req.N, req.TF)
	if err != nil {
		return h.fail(c, "retrain", err)
	}
	h.logger.Info("prediction models retrained", xlogger.String("symbol", req.Symbol), xlogger.String("tf", req.TF))
	return xhttp.SuccessResponse(c, res)
}

func (h *AnalyticsHandler) Sentiment(c echo.Context) error {
	req := &models.SentimentRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	return xhttp.SuccessResponse(c, h.uc.Sentiment(req.Text))
}

func (h *AnalyticsHandler) NewsImpact(c echo.Context) error {
	req := &models.NewsImpactRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	return xhttp.SuccessResponse(c, h.uc.NewsImpact(req.Item))
}

func (h *AnalyticsHandler) NewsTrend(c echo.Context) error {
	req := &models.NewsTrendRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	return h.cached(c, "news_trend", func(ctx context.Context) (interface{}, error) {
		return h.uc.SentimentTrend(ctx, req.Symbol, hoursAgo(req.Hours))
	})
}

func (h *AnalyticsHandler) NewsRelevant(c echo.Context) error {
	req := &models.NewsRelevanceRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	return h.cached(c, "news_relevant", func(ctx context.Context) (interface{}, error) {
		return h.uc.FilterNews(ctx, req.Symbol, req.MinCredibility, req.MinImpact, hoursAgo(req.Hours))
	})
}

func (h *AnalyticsHandler) NewsCorrelation(c echo.Context) error {
	req := &models.NewsTrendRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	return h.cached(c, "news_correlation", func(ctx context.Context) (interface{}, error) {
		return h.uc.SentimentCorrelation(ctx, req.Symbol, hoursAgo(req.Hours))
	})
}

func (h *AnalyticsHandler) Dashboard(c echo.Context) error {
	req := &models.DashboardRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	return h.cached(c, "dashboard", func(ctx context.Context) (interface{}, error) {
		return h.uc.Dashboard(ctx, req.Symbol, req.TF)
	})
}

// cached serves a GET from the bytes cache or computes, encodes and stores
// the success envelope. Cache failures only cost a recomputation.
func (h *AnalyticsHandler) cached(c echo.Context, op string, compute func(context.Context) (interface{}, error)) error {
	key := "api:" + c.Path() + "?" + c.QueryParams().Encode()
	if h.cache != nil {
		b, ok, err := h.cache.GetBytes(key)
		switch {
		case err != nil:
			h.logger.Warn("cache get failed", xlogger.String("key", key), xlogger.Error(err))
		case ok:
			h.metrics.RecordCacheResult("http", true)
			h.logger.Debug("cache hit", xlogger.String("key", key))
			return c.JSONBlob(http.StatusOK, b)
		default:
			h.metrics.RecordCacheResult("http", false)
			h.logger.Debug("cache miss", xlogger.String("key", key))
		}
	}

	res, err := compute(c.Request().Context())
	if err != nil {
		return h.fail(c, op, err)
	}
	b, err := json.Marshal(xhttp.APIResponse{Status: http.StatusOK, Message: http.StatusText(http.StatusOK), Data: res})
	if err != nil {
		h.logger.Error("encode response", xlogger.String("op", op), xlogger.Error(err))
		return xhttp.InternalServerErrorResponse(c)
	}
	if h.cache != nil {
		if err := h.cache.SetBytes(key, b, h.cacheTTL); err != nil {
			h.logger.Warn("cache set failed", xlogger.String("key", key), xlogger.Error(err))
		}
	}
	return c.JSONBlob(http.StatusOK, b)
}

func (h *AnalyticsHandler) fail(c echo.Context, op string, err error) error {
	appErr := xhttp.ToAppError(err)
	if appErr == nil || appErr.Status >= http.StatusInternalServerError {
		h.logger.Error("analytics request failed", xlogger.String("op", op), xlogger.Error(err))
	} else {
		h.logger.Debug("analytics request rejected", xlogger.String("op", op), xlogger.Error(err))
	}
	return xhttp.AppErrorResponse(c, err)
}
