package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/claimshield/compliance-engine/internal/audit"
	"github.com/claimshield/compliance-engine/internal/catalog"
	"github.com/claimshield/compliance-engine/internal/config"
	"github.com/claimshield/compliance-engine/internal/handlers"
	"github.com/claimshield/compliance-engine/internal/metrics"
	"github.com/claimshield/compliance-engine/internal/monitoring"
	"github.com/claimshield/compliance-engine/internal/scheduler"
	"github.com/claimshield/compliance-engine/internal/store"
	"github.com/claimshield/compliance-engine/internal/validation"
)

var (
	Version   = "1.0.0"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

func main() {
	var configPath string
	var showVersion bool

	flag.StringVar(&configPath, "config", "configs/config.yaml", "Path to configuration file")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.Parse()

	if showVersion {
		fmt.Printf("compliance-engine %s (commit %s, built %s)\n", Version, GitCommit, BuildTime)
		return
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := cfg.InitLogger()
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting Claims Compliance Engine",
		zap.String("version", Version),
		zap.String("environment", cfg.Environment),
		zap.String("config_path", configPath))

	cat, err := loadCatalog(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to load rule catalog", zap.Error(err))
	}

	sink := buildAuditSink(cfg, logger)
	defer sink.Close()

	clock := clockwork.NewRealClock()
	engine, err := validation.NewEngine(cat, cfg.Engine, clock, sink, logger)
	if err != nil {
		logger.Fatal("Failed to create validation engine", zap.Error(err))
	}

	reportStore, err := store.New(cfg.DSN(), logger)
	if err != nil {
		logger.Fatal("Failed to connect to report store", zap.Error(err))
	}
	defer reportStore.Close()

	var cache monitoring.Cache
	metricsCache, err := store.NewMetricsCache(cfg.RedisAddr(), cfg.Redis.Password, cfg.Redis.Database, cfg.Redis.CacheTTL, logger)
	if err != nil {
		logger.Warn("Metrics cache unavailable, serving uncached", zap.Error(err))
	} else {
		cache = metricsCache
		defer metricsCache.Close()
	}

	alertManager := monitoring.NewAlertManager(cfg.Monitoring.AlertThresholds, clock, sink, logger)
	if persisted, err := reportStore.Alerts(context.Background()); err != nil {
		logger.Warn("Failed to restore persisted alerts", zap.Error(err))
	} else {
		alertManager.Restore(persisted)
	}

	monitor := monitoring.NewMonitor(reportStore, cache, alertManager, cfg.Monitoring, cfg.Engine.RiskThresholds, clock, logger)

	collector := metrics.NewCollector(prometheus.DefaultRegisterer)

	scanScheduler, err := scheduler.New(cfg.Monitoring.ScanSchedule, monitor, reportStore, collector, logger)
	if err != nil {
		logger.Fatal("Failed to create scan scheduler", zap.Error(err))
	}
	scanScheduler.Start()
	defer scanScheduler.Stop()

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	handlers.RegisterValidations()
	router := gin.New()
	router.Use(gin.Recovery())
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	apiHandler := handlers.NewHandler(engine, monitor, reportStore, reportStore, collector, logger)
	apiHandler.RegisterRoutes(router)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.HTTPPort),
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.Timeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.Timeout) * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening",
			zap.String("host", cfg.Server.Host),
			zap.Int("port", cfg.Server.HTTPPort))
		errCh <- httpServer.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("Received shutdown signal", zap.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server failed", zap.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("Failed to shutdown HTTP server gracefully", zap.Error(err))
	}

	logger.Info("Service shutdown complete")
}

// loadCatalog reads the configured rule catalog, falling back to the
// built-in catalog when no path is configured. A malformed catalog is fatal.
func loadCatalog(cfg *config.Config, logger *zap.Logger) (*catalog.Catalog, error) {
	if cfg.Engine.CatalogPath == "" {
		logger.Info("No catalog path configured, using built-in catalog")
		return catalog.Default(), nil
	}
	cat, err := catalog.Load(cfg.Engine.CatalogPath)
	if err != nil {
		return nil, err
	}
	logger.Info("Rule catalog loaded",
		zap.String("path", cfg.Engine.CatalogPath),
		zap.String("version", cat.Version))
	return cat, nil
}

// buildAuditSink connects the Kafka audit sink, falling back to the log sink
// when brokers are unreachable so validation stays available.
func buildAuditSink(cfg *config.Config, logger *zap.Logger) audit.Sink {
	if cfg.Kafka.Brokers == "" {
		return audit.NewLogSink(logger)
	}
	sink, err := audit.NewKafkaSink(cfg.Kafka.Brokers, cfg.Kafka.AuditTopic, logger)
	if err != nil {
		logger.Warn("Kafka audit sink unavailable, falling back to log sink", zap.Error(err))
		return audit.NewLogSink(logger)
	}
	logger.Info("Kafka audit sink connected",
		zap.String("brokers", cfg.Kafka.Brokers),
		zap.String("topic", cfg.Kafka.AuditTopic))
	return sink
}
