package di

import (
	"context"
	"fmt"
	"io"
	"time"

	"FinSight/internal/domain/repository"
	"FinSight/internal/handler/api"
	internalrepo "FinSight/internal/repository"
	"FinSight/internal/service/cache"
	"FinSight/internal/service/ratelimit"
	"FinSight/internal/service/stream"
	"FinSight/internal/services/features"
	"FinSight/internal/services/prediction"
	"FinSight/internal/services/risk"
	"FinSight/internal/services/sentiment"
	"FinSight/internal/services/technical"
	"FinSight/internal/usecase"
	pkgch "FinSight/pkg/clickhouse"
	"FinSight/pkg/config"
	xhttp "FinSight/pkg/http"
	pkgkafka "FinSight/pkg/kafka"
	applogger "FinSight/pkg/logger"
	"FinSight/pkg/metrics"
	"FinSight/pkg/server"
)

const hubBuffer = 64

// ProvideLogger builds the application logger from config.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	l, err := applogger.New(&applogger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l.With(applogger.String("env", cfg.Environment)), nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideClickHouseClient connects and creates the bar and news tables.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	client, err := pkgch.NewClient(ctx,
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithAsyncInsert(cfg.ClickHouse.AsyncInsert, cfg.ClickHouse.WaitForAsync),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	if err := client.InitSchema(ctx, internalrepo.SchemaStatements(cfg.ClickHouse.Database)); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}
	return client, nil
}

func breakerConfig(cfg *config.Config) internalrepo.BreakerConfig {
	return internalrepo.BreakerConfig{
		MaxRequests:         cfg.Breaker.MaxRequests,
		Interval:            cfg.Breaker.Interval,
		Timeout:             cfg.Breaker.Timeout,
		ConsecutiveFailures: cfg.Breaker.ConsecutiveFailures,
	}
}

func ProvideBarStore(ch *pkgch.Client, cfg *config.Config, l *applogger.Logger) repository.BarStore {
	return internalrepo.NewCHBarStore(ch, breakerConfig(cfg), l)
}

func ProvideNewsStore(ch *pkgch.Client, cfg *config.Config, l *applogger.Logger) repository.NewsStore {
	return internalrepo.NewCHNewsStore(ch, breakerConfig(cfg), l)
}

// ProvideKafkaProducer returns nil when no brokers are configured.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	if len(cfg.Kafka.Brokers) == 0 {
		return nil, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatchSize(cfg.Kafka.Producer.BatchSize),
		pkgkafka.WithBatchBytes(cfg.Kafka.Producer.BatchBytes),
		pkgkafka.WithBatchTimeout(cfg.Kafka.Producer.Linger),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

// ProvideAlertPublisher publishes to the alerts topic, or nowhere without Kafka.
func ProvideAlertPublisher(producer *pkgkafka.Producer, cfg *config.Config) repository.AlertPublisher {
	if producer == nil {
		return nil
	}
	return internalrepo.NewKafkaAlertPublisher(producer, cfg.Kafka.AlertsTopic)
}

// ProvideKafkaConsumer returns nil when no brokers are configured.
func ProvideKafkaConsumer(cfg *config.Config, l *applogger.Logger) (*pkgkafka.Consumer, error) {
	if len(cfg.Kafka.Brokers) == 0 {
		return nil, nil
	}
	consumer, err := pkgkafka.NewConsumer(
		pkgkafka.WithConsumerBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithConsumerGroupID(cfg.Kafka.Consumer.GroupID),
		pkgkafka.WithConsumerWorkers(cfg.Kafka.Consumer.Workers),
		pkgkafka.WithConsumerBufferSize(cfg.Kafka.Consumer.BufferSize),
		pkgkafka.WithConsumerRetry(cfg.Kafka.Consumer.RetryMax, cfg.Kafka.Consumer.BackoffMin, cfg.Kafka.Consumer.BackoffMax),
		pkgkafka.WithConsumerDLQ(cfg.Kafka.Consumer.DLQTopic),
		pkgkafka.WithConsumerFetch(cfg.Kafka.Consumer.MinBytes, cfg.Kafka.Consumer.MaxBytes),
		pkgkafka.WithConsumerLogger(l),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka consumer: %w", err)
	}
	return consumer, nil
}

// ProvideResponseCache shares HTTP responses through Redis when enabled and
// keeps them in process otherwise.
func ProvideResponseCache(cfg *config.Config) cache.BytesCache {
	if !cfg.Redis.Enabled {
		return cache.NewTTLCache()
	}
	return cache.NewRedisCache(cache.RedisConfig{
		Addr:      cfg.Redis.Addr,
		Password:  cfg.Redis.Password,
		DB:        cfg.Redis.DB,
		Prefix:    cfg.Redis.Prefix,
		OpTimeout: cfg.Redis.Timeout,
	})
}

func ProvidePredictionCache() cache.Store {
	return cache.NewTTLCache()
}

func ProvideTechnicalEngine() *technical.Engine {
	return technical.New()
}

func ProvideSentimentScorer() *sentiment.Scorer {
	return sentiment.New()
}

func ProvideRiskEngine(cfg *config.Config) *risk.Engine {
	return risk.New(risk.WithSeed(cfg.Analytics.Seed))
}

func ProvidePredictionEngine(cfg *config.Config, tech *technical.Engine, scorer *sentiment.Scorer, store cache.Store) *prediction.Engine {
	return prediction.New(
		prediction.WithSeed(cfg.Analytics.Seed),
		prediction.WithExtractor(features.NewExtractor(tech, scorer)),
		prediction.WithCache(store, cfg.Analytics.PredictionCacheTTL),
	)
}

func ProvideAnalytics(
	cfg *config.Config,
	bars repository.BarStore,
	news repository.NewsStore,
	tech *technical.Engine,
	rsk *risk.Engine,
	pred *prediction.Engine,
	scorer *sentiment.Scorer,
	m repository.Metrics,
	l *applogger.Logger,
) *usecase.Analytics {
	return usecase.NewAnalytics(bars, news, tech, rsk, pred, scorer, m, l, usecase.AnalyticsConfig{
		RiskFreeRate:      cfg.Analytics.RiskFreeRate,
		Benchmark:         cfg.Analytics.Benchmark,
		Lookback:          cfg.Analytics.BarsLookback,
		MonteCarloPaths:   cfg.Analytics.MonteCarloPaths,
		MonteCarloWorkers: cfg.Analytics.MonteCarloWorkers,
		Thresholds:        cfg.Analytics.Thresholds,
	})
}

func ProvideHub(l *applogger.Logger) *stream.Hub {
	return stream.NewHub(l, hubBuffer)
}

// ProvideAlertScanner returns nil when alerts are disabled.
func ProvideAlertScanner(cfg *config.Config, a *usecase.Analytics, pub repository.AlertPublisher, hub *stream.Hub, l *applogger.Logger) *usecase.AlertScanner {
	if !cfg.Alerts.Enabled {
		return nil
	}
	return usecase.NewAlertScanner(a, pub, hub, cfg.Alerts.Symbols, cfg.Alerts.Interval, l)
}

func ProvideNewsIngestHandler(cfg *config.Config, news repository.NewsStore, scorer *sentiment.Scorer, m repository.Metrics, l *applogger.Logger) *usecase.NewsIngestHandler {
	return usecase.NewNewsIngestHandler(cfg.Kafka.NewsTopic, news, scorer, m, l)
}

func ProvideAnalyticsHandler(
	cfg *config.Config,
	l *applogger.Logger,
	uc *usecase.Analytics,
	respCache cache.BytesCache,
	hub *stream.Hub,
	m repository.Metrics,
	ch *pkgch.Client,
) *api.AnalyticsHandler {
	opts := []api.Option{
		api.WithCache(respCache, cfg.Analytics.ResponseCacheTTL),
		api.WithRateLimiter(ratelimit.New(cfg.RateLimit.RPS, cfg.RateLimit.Burst)),
		api.WithStream(hub),
		api.WithMetrics(m),
		api.WithHealthCheck("clickhouse", ch.Health),
	}
	if rc, ok := respCache.(*cache.RedisCache); ok {
		opts = append(opts, api.WithHealthCheck("redis", rc.Ping))
	}
	return api.NewAnalyticsHandler(l, uc, opts...)
}

func ProvideHTTPServer(cfg *config.Config, l *applogger.Logger, h *api.AnalyticsHandler) *xhttp.Server {
	metricsPath := ""
	if cfg.Metrics.Enabled {
		metricsPath = cfg.Metrics.Path
	}
	return xhttp.NewServer(l, []xhttp.Handler{h},
		xhttp.WithPort(cfg.Server.Port),
		xhttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.ShutdownTimeout),
		xhttp.WithSlowRequest(cfg.Server.SlowRequest),
		xhttp.WithMetricsPath(metricsPath),
	)
}

// ProvideApp assembles the lifecycle. Optional components that are nil are
// left out.
func ProvideApp(
	cfg *config.Config,
	l *applogger.Logger,
	srv *xhttp.Server,
	consumer *pkgkafka.Consumer,
	ingest *usecase.NewsIngestHandler,
	scanner *usecase.AlertScanner,
	hub *stream.Hub,
	ch *pkgch.Client,
	producer *pkgkafka.Producer,
	respCache cache.BytesCache,
) *server.App {
	opts := []server.Option{server.WithHub(hub)}
	if consumer != nil {
		opts = append(opts, server.WithConsumer(consumer, ingest))
	}
	if scanner != nil {
		opts = append(opts, server.WithScanner(scanner))
	}
	// producer is closed after the scanner stops publishing
	if producer != nil {
		opts = append(opts, server.WithClosers(server.Closer{Name: "kafka producer", Closer: producer}))
	}
	if c, ok := respCache.(io.Closer); ok {
		opts = append(opts, server.WithClosers(server.Closer{Name: "redis", Closer: c}))
	}
	opts = append(opts, server.WithClosers(server.Closer{Name: "clickhouse", Closer: ch}))
	return server.New(cfg, l, srv, opts...)
}
