package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v2"

	"github.com/gaganrajn/urban-company-backend/internal/api"
	"github.com/gaganrajn/urban-company-backend/internal/auth"
	"github.com/gaganrajn/urban-company-backend/internal/config"
	"github.com/gaganrajn/urban-company-backend/internal/database"
	"github.com/gaganrajn/urban-company-backend/internal/domain"
	"github.com/gaganrajn/urban-company-backend/internal/events"
	"github.com/gaganrajn/urban-company-backend/internal/google"
	"github.com/gaganrajn/urban-company-backend/internal/logging"
	"github.com/gaganrajn/urban-company-backend/internal/metrics"
	"github.com/gaganrajn/urban-company-backend/internal/models"
	"github.com/gaganrajn/urban-company-backend/internal/repository"
	"github.com/gaganrajn/urban-company-backend/internal/service"
	"github.com/gaganrajn/urban-company-backend/internal/sms"
	"github.com/gaganrajn/urban-company-backend/internal/worker"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	cfg, logger, closer, err := loadConfigAndLogger()
	if err != nil {
		return err
	}
	if closer != nil {
		defer (func() { _ = closer.Close() })()
	}

	db, err := initDatabase(cfg, &logger)
	if err != nil {
		return err
	}
	defer db.Close()

	redisClient := initRedis(cfg, &logger)
	if redisClient != nil {
		defer redisClient.Close()
	}

	sheetsService := initGoogleSheets(cfg, &logger)

	throttle := buildThrottle(redisClient, &logger)
	gateway := sms.New(cfg.SMS, &logger)
	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.App.Name, cfg.Auth.TokenTTL())
	bus := events.NewEventBus()
	events.AttachObservers(bus, &logger)

	var sheetsWorker *worker.SheetsWorker
	var syncWorker domain.SyncWorker
	if sheetsService != nil {
		sheetsWorker = worker.NewSheetsWorker(db, sheetsService, redisClient, worker.DefaultRetryPolicy(), &logger)
		syncWorker = sheetsWorker
	}

	authService := service.NewAuthService(db, throttle, gateway, tokens, bus, cfg.Auth, cfg.App.IsProduction(), &logger)
	userService := service.NewUserService(db, &logger)
	catalogService := service.NewCatalogService(db, &logger)
	bookingService := service.NewBookingService(db, bus, syncWorker, &logger)

	handlers := api.NewHandlers(authService, userService, catalogService, bookingService, &logger)
	router := api.NewRouter(handlers, tokens, cfg.API, &logger)
	httpServer := api.NewServer(cfg.API.Port, router, &logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if sheetsService != nil {
		go sheetsWorker.Start(ctx)
		go sheetsWorker.RunFullSync(ctx, sheetsService, time.Hour)
	}

	startMetrics(ctx, cfg, &logger)

	go func() {
		if err := httpServer.Start(); err != nil {
			logger.Error().Err(err).Msg("http server stopped")
		}
	}()

	logger.Info().Int("port", cfg.API.Port).Str("env", cfg.App.Environment).Msg("API server started")

	<-ctx.Done()
	logger.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = httpServer.Shutdown(shutdownCtx)

	logger.Info().Msg("API server stopped")
	return nil
}

func loadConfigAndLogger() (*config.Config, zerolog.Logger, io.Closer, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, zerolog.Logger{}, nil, fmt.Errorf("load config: %w", err)
	}

	baseLogger, closer, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		return nil, zerolog.Logger{}, nil, fmt.Errorf("init logger: %w", err)
	}
	logger := baseLogger.With().Str("component", "api-main").Logger()

	return cfg, logger, closer, nil
}

func initDatabase(cfg *config.Config, logger *zerolog.Logger) (*database.DB, error) {
	db, err := database.NewDB(cfg.Database.Path, logger)
	if err != nil {
		logger.Error().Err(err).Str("db_path", cfg.Database.Path).Msg("init database")
		return nil, err
	}

	seed, err := loadCatalogSeed(logger)
	if err != nil {
		db.Close()
		return nil, err
	}
	if len(seed) > 0 {
		if _, err := db.SeedServices(context.Background(), seed); err != nil {
			db.Close()
			return nil, err
		}
	}

	return db, nil
}

func loadCatalogSeed(logger *zerolog.Logger) ([]models.Service, error) {
	seedPath := os.Getenv("CATALOG_PATH")
	if seedPath == "" {
		seedPath = "configs/services.yaml"
	}

	data, err := os.ReadFile(seedPath)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Warn().Str("catalog_path", seedPath).Msg("no catalog seed file, skipping")
			return nil, nil
		}
		return nil, fmt.Errorf("read catalog seed: %w", err)
	}

	var seedConfig struct {
		Services []models.Service `yaml:"services"`
	}
	if err := yaml.Unmarshal(data, &seedConfig); err != nil {
		return nil, fmt.Errorf("parse catalog seed: %w", err)
	}

	return seedConfig.Services, nil
}

func initRedis(cfg *config.Config, logger *zerolog.Logger) *redis.Client {
	if cfg.Redis.Address == "" {
		return nil
	}

	redisClient := repository.NewRedisClient(cfg.Redis)
	if err := repository.Ping(context.Background(), redisClient); err != nil {
		logger.Warn().Err(err).Msg("redis connection failed, continuing without redis")
		redisClient.Close()
		return nil
	}

	logger.Info().Str("addr", cfg.Redis.Address).Msg("redis connected")
	return redisClient
}

func initGoogleSheets(cfg *config.Config, logger *zerolog.Logger) *google.SheetsService {
	if cfg.Google.CredentialsFile == "" || cfg.Google.BookingsSpreadSheetID == "" {
		return nil
	}

	sheetsService, err := google.NewSheetsService(cfg.Google)
	if err != nil {
		logger.Warn().Err(err).Msg("google sheets init failed, continuing without sheets")
		return nil
	}

	logger.Info().Msg("google sheets connected")
	return sheetsService
}

func buildThrottle(redisClient *redis.Client, logger *zerolog.Logger) domain.Throttle {
	memory := repository.NewMemoryThrottle()
	if redisClient == nil {
		return memory
	}
	return repository.NewFailoverThrottle(repository.NewRedisThrottle(redisClient), memory, logger)
}

func startMetrics(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) {
	if !cfg.Monitoring.PrometheusEnabled {
		return
	}

	metrics.Register()
	port := cfg.Monitoring.PrometheusPort
	if port == 0 {
		port = 9090
	}
	go startMetricsServer(ctx, port, logger)
}

func startMetricsServer(ctx context.Context, port int, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error().Err(err).Msg("metrics server error")
	}
}
