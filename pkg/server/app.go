package server

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"FinSight/pkg/config"
	xhttp "FinSight/pkg/http"
	pkgkafka "FinSight/pkg/kafka"
	applogger "FinSight/pkg/logger"
)

// Scanner is a background job started with the app.
type Scanner interface {
	Start(ctx context.Context) error
	Stop()
}

// Closer is an infrastructure client released on shutdown, in order.
type Closer struct {
	Name string
	io.Closer
}

// App encapsulates the entire application lifecycle.
type App struct {
	cfg      *config.Config
	log      *applogger.Logger
	http     *xhttp.Server
	consumer *pkgkafka.Consumer
	handlers []pkgkafka.MessageHandler
	scanner  Scanner
	hub      interface{ Close() }
	closers  []Closer
}

type Option func(*App)

// WithConsumer attaches a Kafka consumer and the handlers it dispatches to.
// A nil consumer leaves ingest disabled.
func WithConsumer(c *pkgkafka.Consumer, handlers ...pkgkafka.MessageHandler) Option {
	return func(a *App) {
		a.consumer = c
		a.handlers = handlers
	}
}

func WithScanner(s Scanner) Option {
	return func(a *App) { a.scanner = s }
}

// WithHub closes the websocket hub before the HTTP server stops.
func WithHub(h interface{ Close() }) Option {
	return func(a *App) { a.hub = h }
}

func WithClosers(c ...Closer) Option {
	return func(a *App) { a.closers = append(a.closers, c...) }
}

func New(cfg *config.Config, l *applogger.Logger, httpServer *xhttp.Server, opts ...Option) *App {
	if l == nil {
		l = applogger.Nop()
	}
	a := &App{cfg: cfg, log: l, http: httpServer}
	for _, o := range opts {
		o(a)
	}
	return a
}

// Run starts every component and blocks until ctx ends or the process is
// interrupted, then shuts down.
func (a *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if a.consumer != nil && len(a.handlers) > 0 {
		topics := make([]string, 0, len(a.handlers))
		for _, h := range a.handlers {
			a.consumer.RegisterHandler(h)
			topics = append(topics, h.Topic())
		}
		if err := a.consumer.Start(); err != nil {
			return a.abort(err, "kafka consumer start")
		}
		a.log.Info("kafka consumer started", applogger.Strings("topics", topics))
	}

	if a.scanner != nil {
		if err := a.scanner.Start(ctx); err != nil {
			return a.abort(err, "alert scanner start")
		}
	}

	if err := a.http.Start(); err != nil {
		return a.abort(err, "http server start")
	}
	a.log.Info("finsight started", applogger.String("env", a.cfg.Environment), applogger.Int("port", a.cfg.Server.Port))

	<-ctx.Done()
	a.log.Info("shutdown signal received")
	return a.shutdown()
}

func (a *App) abort(err error, what string) error {
	a.log.Error(what+" failed", applogger.Error(err))
	if serr := a.shutdown(); serr != nil {
		return errors.Join(err, serr)
	}
	return err
}

// shutdown stops producers of work before the clients they use.
func (a *App) shutdown() error {
	timeout := a.cfg.Server.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	var errs []error
	if a.scanner != nil {
		a.scanner.Stop()
	}
	if a.hub != nil {
		a.hub.Close()
	}
	if err := a.http.Stop(ctx); err != nil {
		a.log.Error("http shutdown error", applogger.Error(err))
		errs = append(errs, err)
	}
	if a.consumer != nil {
		if err := a.consumer.Stop(ctx); err != nil {
			a.log.Warn("kafka consumer stop error", applogger.Error(err))
			errs = append(errs, err)
		}
	}
	for _, c := range a.closers {
		if c.Closer == nil {
			continue
		}
		if err := c.Close(); err != nil {
			a.log.Warn("close error", applogger.String("component", c.Name), applogger.Error(err))
			errs = append(errs, err)
		}
	}

	a.log.Info("shutdown complete")
	return errors.Join(errs...)
}
