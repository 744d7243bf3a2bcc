package di

import (
	"fmt"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sudz7/n50-swing-algo/internal/domain/repository"
	"github.com/sudz7/n50-swing-algo/internal/handler/api"
	"github.com/sudz7/n50-swing-algo/internal/handler/ws"
	"github.com/sudz7/n50-swing-algo/internal/service/publish"
	"github.com/sudz7/n50-swing-algo/internal/service/yahoo"
	"github.com/sudz7/n50-swing-algo/internal/signal"
	"github.com/sudz7/n50-swing-algo/internal/usecase"
	"github.com/sudz7/n50-swing-algo/pkg/cache"
	"github.com/sudz7/n50-swing-algo/pkg/config"
	xhttp "github.com/sudz7/n50-swing-algo/pkg/http"
	pkgkafka "github.com/sudz7/n50-swing-algo/pkg/kafka"
	"github.com/sudz7/n50-swing-algo/pkg/logger"
	"github.com/sudz7/n50-swing-algo/pkg/metrics"
	"github.com/sudz7/n50-swing-algo/pkg/server"
)

// ProvideLogger creates the application logger and installs it globally.
func ProvideLogger(cfg *config.Config) (*logger.Logger, error) {
	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	logger.SetGlobal(log)
	return log, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideHistoryCache creates the provider-history cache. With Redis
// enabled the cache is layered so restarts survive warm; otherwise it is
// purely in-process.
func ProvideHistoryCache(cfg *config.Config) (cache.Service, error) {
	if !cfg.Redis.Enabled {
		return cache.NewMemoryCache(5 * time.Minute), nil
	}
	rc, err := cache.NewRedisCache(cache.RedisConfig{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return nil, fmt.Errorf("redis cache: %w", err)
	}
	return cache.NewLayeredCache(rc), nil
}

// ProvideMarketData creates the Yahoo Finance provider.
func ProvideMarketData(cfg *config.Config, log *logger.Logger, histCache cache.Service) repository.MarketData {
	return yahoo.NewClient(log,
		yahoo.WithBaseURL(cfg.Yahoo.BaseURL),
		yahoo.WithSuffix(cfg.Yahoo.Suffix),
		yahoo.WithHTTPClient(xhttp.NewClient(xhttp.WithTimeout(cfg.Yahoo.Timeout))),
		yahoo.WithRateLimit(cfg.Yahoo.RatePerSec, cfg.Yahoo.Burst),
		yahoo.WithHistoryCache(histCache, cfg.Yahoo.HistoryCache),
	)
}

// ProvideGenerator creates the signal generator.
func ProvideGenerator() *signal.Generator {
	return signal.New()
}

// ProvideHub creates the websocket broadcast hub.
func ProvideHub(log *logger.Logger) *ws.Hub {
	return ws.NewHub(log)
}

// ProvideKafkaSink creates the Kafka snapshot sink, or nil when Kafka is
// disabled in config.
func ProvideKafkaSink(cfg *config.Config, log *logger.Logger) (*publish.KafkaSink, error) {
	if !cfg.Kafka.Enabled {
		return nil, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithMaxAttempts(cfg.Kafka.MaxAttempts),
		pkgkafka.WithTimeouts(cfg.Kafka.WriteTimeout, cfg.Kafka.WriteTimeout),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return publish.NewKafkaSink(producer, cfg.Kafka.Topic, log), nil
}

// ProvideCoordinator creates the refresh coordinator with all sinks wired.
func ProvideCoordinator(
	cfg *config.Config,
	market repository.MarketData,
	gen *signal.Generator,
	m repository.Metrics,
	log *logger.Logger,
	hub *ws.Hub,
	kafkaSink *publish.KafkaSink,
) *usecase.Coordinator {
	sinks := []repository.SnapshotSink{hub}
	if kafkaSink != nil {
		sinks = append(sinks, kafkaSink)
	}
	return usecase.NewCoordinator(usecase.Config{
		Symbols:      cfg.Market.Symbols,
		IndexSymbol:  cfg.Market.IndexSymbol,
		LookbackDays: cfg.Market.LookbackDays,
		BatchSize:    cfg.Market.BatchSize,
		CacheTTL:     cfg.Market.CacheTTL,
		FetchTimeout: cfg.Market.FetchTimeout,
	}, market, gen, m, log, usecase.WithSinks(sinks...))
}

// routes registers the REST endpoints and the websocket endpoint on one
// Echo instance.
type routes struct {
	api *api.Handler
	hub *ws.Hub
}

func (r *routes) RegisterRoutes(e *echo.Echo) {
	r.api.RegisterRoutes(e)
	r.hub.RegisterRoutes(e)
}

// ProvideHandler bundles all route registrars into one HTTP handler.
func ProvideHandler(coord *usecase.Coordinator, hub *ws.Hub) xhttp.Handler {
	return &routes{api: api.New(coord), hub: hub}
}

// ProvideApp assembles the application.
func ProvideApp(
	cfg *config.Config,
	log *logger.Logger,
	coord *usecase.Coordinator,
	hub *ws.Hub,
	handler xhttp.Handler,
	kafkaSink *publish.KafkaSink,
) *server.App {
	app := server.New(cfg, log, coord, hub, handler)
	if kafkaSink != nil {
		app.AddCloser(kafkaSink)
	}
	return app
}
