package main

import (
	"context"
	"log"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/newrelic/go-agent/v3/integrations/nrecho-v4"
	"github.com/piresc/tebengan/internal/pkg/config"
	"github.com/piresc/tebengan/internal/pkg/database"
	"github.com/piresc/tebengan/internal/pkg/health"
	"github.com/piresc/tebengan/internal/pkg/logger"
	"github.com/piresc/tebengan/internal/pkg/middleware"
	"github.com/piresc/tebengan/internal/pkg/nats"
	nrpkg "github.com/piresc/tebengan/internal/pkg/newrelic"
	"github.com/piresc/tebengan/internal/pkg/retry"
	"github.com/piresc/tebengan/internal/pkg/server"
	"github.com/piresc/tebengan/services/rides"
	"github.com/piresc/tebengan/services/rides/gateway"
	"github.com/piresc/tebengan/services/rides/handler"
	"github.com/piresc/tebengan/services/rides/repository"
	"github.com/piresc/tebengan/services/rides/usecase"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	configPath := "config/rides.env"
	configs := config.InitConfig(configPath)
	appName := configs.App.Name

	// Initialize New Relic and Zap logger
	nrApp := nrpkg.InitNewRelic(configs)

	zapLogger, err := logger.InitZapLoggerFromConfig(configs, nrApp)
	if err != nil {
		log.Fatalf("Failed to create Zap logger: %v", err)
	}
	defer zapLogger.Close()

	logger.SetGlobalLogger(zapLogger)

	logger.Info("Starting application",
		logger.String("app", appName),
		logger.String("version", configs.App.Version),
		logger.String("environment", configs.App.Environment),
	)

	startupCtx, cancelStartup := context.WithTimeout(context.Background(), time.Minute)
	defer cancelStartup()

	// PostgreSQL may still be starting when the service comes up
	var postgresClient *database.PostgresClient
	err = retry.NewWithDefaults("postgres-connect").Execute(startupCtx, func(ctx context.Context) error {
		var connErr error
		postgresClient, connErr = database.NewPostgresClient(configs.Database)
		return connErr
	})
	if err != nil {
		zapLogger.Fatal("Failed to connect to PostgreSQL", logger.Err(err))
	}

	redisClient, err := database.NewRedisClient(configs.Redis)
	if err != nil {
		zapLogger.Fatal("Failed to connect to Redis", logger.Err(err))
	}

	// NATS is optional; without it lifecycle events are not published
	var natsClient *nats.Client
	var rideGW rides.RideGW
	if configs.NATS.URL != "" {
		natsClient, err = nats.NewClient(configs.NATS.URL)
		if err != nil {
			zapLogger.Fatal("Failed to connect to NATS", logger.Err(err))
		}
		rideGW = gateway.NewRideGW(natsClient)
		logger.Info("NATS client initialized", logger.String("url", configs.NATS.URL))
	} else {
		logger.Warn("NATS_URL not set, ride notifications are disabled")
	}

	rideRepo := repository.NewRideRepository(configs, postgresClient.GetDB())

	var availabilityCache rides.AvailabilityCache
	if configs.Rides.AvailabilityCacheTTL > 0 {
		availabilityCache = repository.NewAvailabilityCache(configs, redisClient)
	}

	rideUC, err := usecase.NewRideUC(configs, rideRepo, rideGW, availabilityCache)
	if err != nil {
		zapLogger.Fatal("Failed to initialize ride use case", logger.Err(err))
	}

	rideHandler := handler.NewHandler(rideUC, rideUC, rideUC, configs)

	e := echo.New()
	e.HideBanner = true

	// Panic recovery must stay first
	e.Use(middleware.PanicRecoveryWithZapMiddleware(zapLogger))
	if nrApp != nil {
		e.Use(nrecho.Middleware(nrApp))
	}
	e.Use(echomw.RequestID())
	e.Use(logger.ZapEchoMiddleware(zapLogger))
	e.Use(middleware.PrometheusMiddleware())

	healthService := health.NewHealthService()
	healthService.AddChecker("postgres", health.NewPostgresHealthChecker(postgresClient))
	healthService.AddChecker("redis", health.NewRedisHealthChecker(redisClient))
	if natsClient != nil {
		healthService.AddChecker("nats", health.NewNATSHealthChecker(natsClient))
	}
	health.RegisterHealthEndpoints(e, appName, configs.App.Version, healthService)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	rideHandler.RegisterRoutes(e)

	srv := server.NewGracefulServer(e, configs.Server)
	srv.OnShutdown(func(context.Context) error {
		return postgresClient.Close()
	})
	srv.OnShutdown(func(context.Context) error {
		return redisClient.Close()
	})
	if natsClient != nil {
		srv.OnShutdown(func(context.Context) error {
			natsClient.Close()
			return nil
		})
	}
	if nrApp != nil {
		srv.OnShutdown(func(context.Context) error {
			nrApp.Shutdown(10 * time.Second)
			return nil
		})
	}

	// Registered last so queued events are flushed before NATS closes
	srv.OnShutdown(rideUC.Close)

	if err := srv.Start(); err != nil {
		zapLogger.Error("Server stopped with error", logger.Err(err))
	}
	zapLogger.Info("Server exiting gracefully")
}
