package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/contrib/instrumentation/runtime"

	catalogcfg "github.com/Skotchmaster/product_catalog/internal/config"
	"github.com/Skotchmaster/product_catalog/internal/events"
	"github.com/Skotchmaster/product_catalog/internal/external"
	"github.com/Skotchmaster/product_catalog/internal/httpserver"
	"github.com/Skotchmaster/product_catalog/internal/repo"
	"github.com/Skotchmaster/product_catalog/internal/searchindex"
	"github.com/Skotchmaster/product_catalog/internal/service"
	pkgdb "github.com/Skotchmaster/product_catalog/pkg/db"
	"github.com/Skotchmaster/product_catalog/pkg/logging"
	loggingmw "github.com/Skotchmaster/product_catalog/pkg/middleware/logging"
	"github.com/Skotchmaster/product_catalog/pkg/telemetry"
)

const serviceVersion = "1.0.0"

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: could not load .env: %v", err)
	}

	cfg := catalogcfg.Load()

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	ctx := context.Background()

	shutdownTracer, err := telemetry.InitTracerProvider(ctx, cfg.OTLPEndpoint, cfg.ServiceName, serviceVersion)
	if err != nil {
		log.Fatalf("init tracer: %v", err)
	}

	var metricsHandler http.Handler
	shutdownMeter := func(context.Context) error { return nil }
	if cfg.MetricsEnabled {
		metricsHandler, shutdownMeter, err = telemetry.InitMeterProvider(cfg.ServiceName, serviceVersion)
		if err != nil {
			log.Fatalf("init meter: %v", err)
		}
		if err := runtime.Start(); err != nil {
			logger.Warn("runtime metrics disabled", "error", err)
		}
	}

	openCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	db, err := pkgdb.Open(openCtx, cfg.DatabaseDriver, cfg.DatabaseURL)
	cancel()
	if err != nil {
		log.Fatalf("db open: %v", err)
	}
	if cfg.AutoMigrate {
		if err := repo.AutoMigrate(db); err != nil {
			log.Fatalf("db migrate: %v", err)
		}
	}
	if cfg.Seed {
		if err := repo.Seed(ctx, db); err != nil {
			log.Fatalf("db seed: %v", err)
		}
	}

	r := &repo.GormRepo{DB: db}

	var (
		publisher service.EventPublisher = events.Nop{}
		producer  *events.Producer
	)
	if len(cfg.KafkaBrokers) > 0 {
		producer = events.NewProducer(cfg.KafkaBrokers)
		publisher = producer
		logger.Info("kafka events enabled", "brokers", cfg.KafkaBrokers)
	}

	var index service.ProductIndex
	if cfg.SearchEnabled() {
		esCtx, esCancel := context.WithTimeout(ctx, 10*time.Second)
		ix, err := searchindex.New(esCtx, cfg.Search)
		esCancel()
		if err != nil {
			logger.Warn("search index disabled", "error", err)
		} else {
			index = ix
		}
	}

	orderMetrics, err := service.NewOrderMetrics()
	if err != nil {
		log.Fatalf("order metrics: %v", err)
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.Secure())
	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(loggingmw.RequestLogger(logger))
	e.Use(echomw.CORS())

	httpserver.Register(e, &httpserver.Deps{
		Products:   &httpserver.ProductHTTP{Svc: &service.ProductService{Repo: r, Events: publisher, Index: index}},
		Categories: &httpserver.CategoryHTTP{Svc: &service.CategoryService{Repo: r}},
		Customers:  &httpserver.CustomerHTTP{Svc: &service.CustomerService{Repo: r}},
		Orders:     &httpserver.OrderHTTP{Svc: &service.OrderService{Repo: r, Events: publisher, Metrics: orderMetrics}},
		Search:     &httpserver.SearchHTTP{Svc: &service.SearchService{Repo: r, Index: index}},
		Analytics:  &httpserver.AnalyticsHTTP{Svc: &service.AnalyticsService{Repo: r}},
		External:   &httpserver.ExternalHTTP{Client: external.NewClient(cfg.External)},
		Ready:      r.Ping,
		Metrics:    metricsHandler,
		RouteIndex: !cfg.IsProduction(),
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:           otelhttp.NewHandler(e, cfg.ServiceName),
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
	}

	go func() {
		logger.Info("catalog listening", "addr", srv.Addr, "environment", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown failed", "error", err)
	}
	if producer != nil {
		if err := producer.Close(); err != nil {
			logger.Error("kafka producer close failed", "error", err)
		}
	}
	if err := pkgdb.Close(db); err != nil {
		logger.Error("db close failed", "error", err)
	}
	if err := shutdownMeter(shutdownCtx); err != nil {
		logger.Error("meter shutdown failed", "error", err)
	}
	if err := shutdownTracer(shutdownCtx); err != nil {
		logger.Error("tracer shutdown failed", "error", err)
	}

	logger.Info("catalog stopped")
}
