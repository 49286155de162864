package di

import (
	"fmt"

	"Mercado/internal/domain/repository"
	"Mercado/internal/handler/api"
	internalrepo "Mercado/internal/repository"
	"Mercado/internal/service/classify"
	"Mercado/internal/service/marketdata"
	"Mercado/internal/usecase"
	"Mercado/pkg/cache"
	"Mercado/pkg/config"
	pkgkafka "Mercado/pkg/kafka"
	"Mercado/pkg/logger"
	"Mercado/pkg/metrics"
	"Mercado/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*logger.Logger, error) {
	log, err := logger.New(&logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return log, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideCache builds the classification cache: memory-only by default,
// layered over Redis when Redis is configured.
func ProvideCache(cfg *config.Config) (cache.Service, error) {
	if !cfg.Cache.Redis.Enabled {
		return cache.NewMemoryCache(cache.WithMemoryMaxSize(cfg.Cache.MemorySize)), nil
	}

	redisCache, err := cache.NewRedisCache(
		cache.WithRedisHost(cfg.Cache.Redis.Host),
		cache.WithRedisPort(cfg.Cache.Redis.Port),
		cache.WithRedisPassword(cfg.Cache.Redis.Password),
		cache.WithRedisDB(cfg.Cache.Redis.DB),
	)
	if err != nil {
		return nil, fmt.Errorf("redis cache: %w", err)
	}

	return cache.NewLayeredCache(redisCache, cache.WithLayeredMemorySize(cfg.Cache.MemorySize)), nil
}

// ProvideMarketData creates the market data client.
func ProvideMarketData(cfg *config.Config, log *logger.Logger) repository.MarketData {
	return marketdata.NewClient(cfg.Market.BaseURL, log,
		marketdata.WithVsCurrency(cfg.Market.VsCurrency),
		marketdata.WithTimeout(cfg.Market.Timeout),
	)
}

// ProvideClassifier creates the cached classification client.
func ProvideClassifier(cfg *config.Config, c cache.Service, log *logger.Logger) repository.Classifier {
	client := classify.NewClient(cfg.Classifier.ServiceURL, log,
		classify.WithTimeout(cfg.Classifier.Timeout),
	)
	return classify.NewCachedClassifier(client, c, cfg.Classifier.CacheTTL, log)
}

// ProvideSnapshotPublisher creates the optional Kafka snapshot fan-out.
// Returns nil when Kafka is disabled.
func ProvideSnapshotPublisher(cfg *config.Config) (repository.SnapshotPublisher, error) {
	if !cfg.Kafka.Enabled {
		return nil, nil
	}

	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithMaxAttempts(cfg.Kafka.MaxAttempts),
		pkgkafka.WithTimeouts(cfg.Kafka.WriteTimeout, cfg.Kafka.ReadTimeout),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}

	return internalrepo.NewKafkaSnapshotPublisher(producer, cfg.Kafka.Topic), nil
}

// ProvideRefresher creates the chart refresh controller.
func ProvideRefresher(
	market repository.MarketData,
	cls repository.Classifier,
	m repository.Metrics,
	log *logger.Logger,
	pub repository.SnapshotPublisher,
	cfg *config.Config,
) *usecase.Refresher {
	r := usecase.NewRefresher(market, cls, m, log, cfg.Market.RefreshInterval, cfg.Lookback())
	if pub != nil {
		r.SetPublisher(pub)
	}
	return r
}

// ProvideChartHandler creates the chart HTTP handler.
func ProvideChartHandler(refresher *usecase.Refresher, log *logger.Logger) *api.ChartHandler {
	return api.NewChartHandler(refresher, log)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	log *logger.Logger,
	refresher *usecase.Refresher,
	handler *api.ChartHandler,
	pub repository.SnapshotPublisher,
	c cache.Service,
) *server.App {
	return server.New(cfg, log, refresher, handler, pub, c)
}
