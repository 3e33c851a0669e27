package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"mediatracker/kinopoisk/configs"
	"mediatracker/kinopoisk/internal/controller/kinopoisk"
	"mediatracker/kinopoisk/internal/controller/ratings"
	"mediatracker/kinopoisk/internal/controller/resolver"
	kinopoiskgateway "mediatracker/kinopoisk/internal/gateway/kinopoisk/http"
	reviewgateway "mediatracker/kinopoisk/internal/gateway/review/http"
	tmdbgateway "mediatracker/kinopoisk/internal/gateway/tmdb/http"
	httphandler "mediatracker/kinopoisk/internal/handler/http"
	kafkapublisher "mediatracker/kinopoisk/internal/publisher/kafka"
	"mediatracker/kinopoisk/internal/repository/memory"
	"mediatracker/kinopoisk/internal/repository/mysql"
	"mediatracker/kinopoisk/pkg/model"
	"mediatracker/pkg/discovery"
	"mediatracker/pkg/discovery/consul"
	"mediatracker/pkg/dns"
	"mediatracker/pkg/limiter"
	"mediatracker/pkg/logging"
	"mediatracker/pkg/metrics"
	"mediatracker/pkg/resilience"
	"mediatracker/pkg/tracing"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.uber.org/zap"
)

const serviceName = "kinopoisk"

type runRepository interface {
	Put(ctx context.Context, run *model.ImportRun) error
	ListByUser(ctx context.Context, userID string) ([]model.ImportRun, error)
}

type eventPublisher interface {
	Publish(ctx context.Context, event *model.ImportEvent) error
}

func main() {
	configPath := flag.String("config", "defaults.yaml", "path to the service config")
	flag.Parse()

	logConfig := zap.NewProductionConfig()
	log, err := logConfig.Build()
	if err != nil {
		panic(err)
	}
	log = log.With(zap.String(logging.FieldService, serviceName))

	cfg, err := configs.Load(*configPath)
	if err != nil {
		log.Fatal("Failed to load config", zap.Error(err))
	}

	log.Info("Starting the service", zap.Int(logging.FieldPort, cfg.API.Port))

	ctx, cancel := context.WithCancel(context.Background())

	if cfg.Tracing.URL != "" {
		tp, err := tracing.NewJaegerProvider(cfg.Tracing.URL, serviceName)
		if err != nil {
			log.Fatal("Failed to initialize tracing provider", zap.Error(err))
		}
		defer func() {
			if err := tp.Shutdown(context.Background()); err != nil {
				log.Warn("Failed to shutdown tracing provider", zap.Error(err))
			}
		}()
		otel.SetTracerProvider(tp)
		otel.SetTextMapPropagator(propagation.TraceContext{})
	}

	scope, closer := metrics.NewMetricsReporter(log, serviceName, cfg.Metrics.Port)
	defer func() {
		if err := closer.Close(); err != nil {
			log.Warn("Failed to close Prometheus reporter scope", zap.Error(err))
		}
	}()

	registry, err := consul.NewRegistry(cfg.ServiceDiscovery.Consul.Address, log)
	if err != nil {
		panic(err)
	}
	addr, err := dns.AdvertiseAddr(cfg.API.Port)
	if err != nil {
		addr = fmt.Sprintf("kinopoisk:%d", cfg.API.Port)
	}
	instanceID := discovery.GenerateInstanceID(serviceName)
	if err := registry.Register(ctx, instanceID, serviceName, addr); err != nil {
		panic(err)
	}
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-time.After(1 * time.Second):
				if err := registry.ReportHealthyState(instanceID, serviceName); err != nil {
					log.Warn("Failed to report healthy state", zap.Error(err))
				}
			}
		}
	}()
	defer func() {
		if err := registry.Deregister(context.Background(), instanceID, serviceName); err != nil {
			log.Warn("Failed to deregister service", zap.Error(err))
		}
	}()

	kinopoiskLimiter := limiter.New(log, cfg.Kinopoisk.RateLimit, cfg.Kinopoisk.RateBurst)
	kinopoiskClient := resilience.NewClient(
		resilience.New("kinopoisk", cfg.Kinopoisk.Resilience, log, scope), kinopoiskLimiter, nil)
	tmdbClient := resilience.NewClient(
		resilience.New("tmdb", cfg.Tmdb.Resilience, log, scope), nil, nil)
	reviewClient := resilience.NewClient(
		resilience.New("review", cfg.ReviewService.Resilience, log, scope), nil, nil)

	catalog := kinopoiskgateway.New(cfg.Kinopoisk.BaseURL, cfg.Kinopoisk.APIKey, kinopoiskClient, log)
	canonical, err := tmdbgateway.New(cfg.Tmdb.BaseURL, cfg.Tmdb.APIKey, cfg.Tmdb.Language, tmdbClient, log)
	if err != nil {
		log.Fatal("Failed to create TMDb gateway", zap.Error(err))
	}
	reviews := reviewgateway.New(registry, cfg.ReviewService.Name, cfg.ReviewService.Token, reviewClient, log)

	res := resolver.New(catalog, canonical, log)
	importer := ratings.NewImporter(catalog, log)
	converter := ratings.NewConverter(res, reviews, cfg.Converter.Workers, log)

	var repo runRepository
	if cfg.DatabaseConfig.Mysql.Host != "" {
		db, err := mysql.New(cfg.DatabaseConfig.Mysql, log)
		if err != nil {
			log.Fatal("Failed to connect to MySQL", zap.Error(err))
		}
		defer func() {
			if err := db.Close(); err != nil {
				log.Warn("Failed to close MySQL connection", zap.Error(err))
			}
		}()
		repo = db
	} else {
		log.Info("MySQL is not configured, keeping import history in memory")
		repo = memory.New(log)
	}

	var publisher eventPublisher
	if cfg.MessengerConfig.Kafka.Address != "" {
		p, err := kafkapublisher.NewPublisher(cfg.MessengerConfig.Kafka.Address, cfg.MessengerConfig.Kafka.Topic, log)
		if err != nil {
			log.Fatal("Failed to initialize publisher", zap.Error(err))
		}
		defer p.Close()
		publisher = p
	}
	svc := kinopoisk.New(importer, converter, res, repo, publisher, log)

	inbound := limiter.New(log, cfg.API.RateLimit, cfg.API.RateBurst)
	secret := []byte(cfg.Auth.Secret)
	h := httphandler.New(svc, func() []byte { return secret }, inbound, scope, log)
	mux := http.NewServeMux()
	h.Register(mux)
	srv := &http.Server{
		Addr:              fmt.Sprintf("0.0.0.0:%d", cfg.API.Port),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		s := <-sigChan
		cancel()
		log.Info("Got signal, attempting graceful shutdown", zap.Stringer(logging.FieldSignal, s))
		shutdownCtx, done := context.WithTimeout(context.Background(), 30*time.Second)
		defer done()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Warn("Failed to shutdown the HTTP server", zap.Error(err))
		}
		log.Info("Gracefully stopped the HTTP server")
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal("HTTP server failed", zap.Error(err))
	}
	wg.Wait()
}
