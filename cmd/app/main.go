package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "spin-raffle-backend/docs"
	"spin-raffle-backend/internal/common/cache"
	"spin-raffle-backend/internal/common/config"
	"spin-raffle-backend/internal/common/logger"
	"spin-raffle-backend/internal/common/metrics"
	"spin-raffle-backend/internal/common/middleware"
	raffleHTTP "spin-raffle-backend/internal/features/raffle/delivery/http"
	"spin-raffle-backend/internal/features/raffle/repository"
	"spin-raffle-backend/internal/features/raffle/repository/memory"
	rafflePostgres "spin-raffle-backend/internal/features/raffle/repository/postgres"
	raffleService "spin-raffle-backend/internal/features/raffle/service"
	"spin-raffle-backend/internal/platform/postgres"
	"spin-raffle-backend/internal/platform/redis"
)

const serviceName = "spin-raffle-backend"

// @title           Spin Raffle API
// @version         1.0
// @description     Spin-the-wheel raffle backend: player registration, spins, campaigns and winner draws.

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey AdminToken
// @in header
// @name Authorization
// @description Bearer token returned by /admin/login

// @tag.name players
// @tag.description Player registration

// @tag.name spins
// @tag.description Wheel spins

// @tag.name campaigns
// @tag.description Campaign state, participants and statistics

// @tag.name winners
// @tag.description Past winners

// @tag.name admin
// @tag.description Campaign lifecycle, draws and participant maintenance

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Init(serviceName, cfg.Debug)
	logger.Info().
		Str("version", "1.0.0").
		Str("tenant", cfg.TenantID).
		Str("storage", cfg.Storage.Driver).
		Msg("Starting Spin Raffle Backend")

	ctx := context.Background()

	var (
		store          *repository.Store
		postgresClient *postgres.Client
	)
	switch cfg.Storage.Driver {
	case config.StorageDriverPostgres:
		if cfg.Postgres.AutoMigrate {
			if err := postgres.MigrateUp(cfg.Postgres.GetDSN()); err != nil {
				logger.Fatal().Err(err).Msg("Failed to migrate database")
			}
		}

		postgresClient, err = postgres.NewClient(ctx, cfg.Postgres)
		if err != nil {
			logger.Fatal().Err(err).Msg("Failed to connect to database")
		}
		defer postgresClient.Close()

		store = rafflePostgres.New(postgresClient.GetDB(), cfg.TenantID)
		logger.Info().Msg("Database connection established")
	default:
		store = memory.New(cfg.TenantID)
		logger.Warn().Msg("Using in-memory storage, data is lost on restart")
	}

	var (
		redisClient *goredis.Client
		readCache   raffleService.ReadCache
	)
	if cfg.Redis.Enabled {
		redisClient, err = redis.Open(ctx, cfg)
		if err != nil {
			logger.Fatal().Err(err).Msg("Failed to connect to Redis")
		}
		defer redisClient.Close()

		readCache = cache.NewCacheService(redisClient, cfg.TenantID, cfg.Redis.CacheTTL)
		logger.Info().Dur("ttl", cfg.Redis.CacheTTL).Msg("Cache service initialized")
	}

	m := metrics.New()
	svc := raffleService.NewRaffleService(store, readCache, m, cfg)
	handler := raffleHTTP.NewRaffleHandler(svc, cfg.Admin.Token)

	expiration := raffleService.NewExpirationService(svc, cfg.Raffle.ExpireInterval)
	expiration.Start()

	logger.Info().Msg("Services initialized")

	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger("/health", "/live", "/ready", "/metrics"))
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.Recovery())
	router.Use(m.Middleware())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{cfg.Server.Origin}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Content-Type", "Authorization", "Accept", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID", "X-Total-Participants", "Content-Disposition"}
	router.Use(cors.New(corsConfig))

	setupRoutes(router, handler, m, postgresClient, redisClient)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Int("port", cfg.Server.Port).Msg("Starting HTTP server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Shutting down server...")

	expiration.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Server forced to shutdown")
	}

	logger.Info().Msg("Server exited")
}

func setupRoutes(
	router *gin.Engine,
	handler *raffleHTTP.RaffleHandler,
	m *metrics.Metrics,
	postgresClient *postgres.Client,
	redisClient *goredis.Client,
) {
	handler.RegisterRoutes(router.Group("/api/v1"))

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/metrics", gin.WrapH(m.Handler()))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"timestamp": time.Now().UTC(),
			"service":   serviceName,
		})
	})

	router.GET("/live", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	router.GET("/ready", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if postgresClient != nil {
			if err := postgresClient.HealthCheck(ctx); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{
					"status":  "unready",
					"error":   "postgres unavailable",
					"details": err.Error(),
				})
				return
			}
		}

		if redisClient != nil {
			if err := redisClient.Ping(ctx).Err(); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{
					"status":  "unready",
					"error":   "redis unavailable",
					"details": err.Error(),
				})
				return
			}
		}

		resp := gin.H{
			"status":    "ready",
			"timestamp": time.Now().UTC(),
			"service":   serviceName,
		}
		if postgresClient != nil {
			stats := postgresClient.Stats()
			resp["db"] = gin.H{
				"open_connections": stats.OpenConnections,
				"in_use":           stats.InUse,
				"idle":             stats.Idle,
				"wait_count":       stats.WaitCount,
			}
		}
		c.JSON(http.StatusOK, resp)
	})
}
