package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	_ "github.com/aigymos/gym-console/docs"
	"github.com/aigymos/gym-console/internal/adapter/handler"
	"github.com/aigymos/gym-console/internal/adapter/repository"
	"github.com/aigymos/gym-console/internal/domain/repositories"
	"github.com/aigymos/gym-console/internal/infrastructure/backend"
	"github.com/aigymos/gym-console/internal/infrastructure/cache"
	"github.com/aigymos/gym-console/internal/infrastructure/database"
	externalocr "github.com/aigymos/gym-console/internal/infrastructure/external/ocr"
	httpmw "github.com/aigymos/gym-console/internal/infrastructure/http/middleware"
	"github.com/aigymos/gym-console/internal/infrastructure/storage"
	dashboardUsecase "github.com/aigymos/gym-console/internal/usecase/dashboard"
	ocrUsecase "github.com/aigymos/gym-console/internal/usecase/ocr"
	preferenceUsecase "github.com/aigymos/gym-console/internal/usecase/preference"
	taskUsecase "github.com/aigymos/gym-console/internal/usecase/task"
	"github.com/aigymos/gym-console/pkg/clock"
	"github.com/aigymos/gym-console/pkg/config"
	"github.com/aigymos/gym-console/pkg/jwt"
	pkglogger "github.com/aigymos/gym-console/pkg/logger"
	pkgvalidator "github.com/aigymos/gym-console/pkg/validator"
)

// @title           Gym Console API
// @version         1.0
// @description     View models for the AI Gym OS dashboard: grouped task board, BI overview and body composition OCR.

// @BasePath  /v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the access token issued by the gym backend.

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := pkglogger.New(cfg.Server.Environment)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server.failed", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx := context.Background()

	e := echo.New()
	e.Validator = pkgvalidator.New()
	e.HideBanner = true

	e.Use(httpmw.RequestID())
	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "${time_rfc3339} | ${id} | ${status} | ${method} ${uri} | ${latency_human}\n",
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.Server.AllowedOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization, echo.HeaderXRequestID},
		ExposeHeaders:    []string{echo.HeaderXRequestID},
		AllowCredentials: true,
	}))
	e.Use(middleware.BodyLimit(bodyLimit(cfg.OCR.MaxImageBytes)))
	e.Use(middleware.ContextTimeout(cfg.Server.RequestTimeout))
	e.Use(echoprometheus.NewMiddleware("gym_console"))
	e.GET("/metrics", echoprometheus.NewHandler())

	clk, err := clock.New(cfg.Gym.Timezone)
	if err != nil {
		return err
	}

	backendClient, err := backend.NewClient(backend.Options{
		BaseURL:    cfg.Backend.URL,
		Timeout:    cfg.Backend.Timeout,
		MaxRetries: cfg.Backend.MaxRetries,
		Logger:     logger.Named("backend"),
	})
	if err != nil {
		return err
	}

	checks := map[string]handler.Checker{}

	// Payload cache
	var payloadCache repositories.PayloadCache
	if cfg.Redis.Enabled {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.GetRedisAddr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()

		redisCache := cache.NewRedisCache(redisClient, "gym-console", logger.Named("cache"))
		if err := redisCache.Ping(ctx); err != nil {
			// misses fall through to the backend; readiness reports the outage
			logger.Warn("redis.unavailable", zap.Error(err))
		}
		checks["redis"] = redisCache.Ping
		payloadCache = redisCache
		logger.Info("cache.redis", zap.String("addr", cfg.GetRedisAddr()))
	} else {
		memoryCache := cache.NewMemoryStore(time.Minute)
		defer memoryCache.Close()
		payloadCache = memoryCache
		logger.Info("cache.memory")
	}

	// Database
	var (
		photoRepo   repositories.OCRPhotoRepository
		prefReader  taskUsecase.PreferenceReader
		prefHandler *handler.Preference
	)
	if cfg.Database.Enabled {
		db, err := database.NewPostgresDB(cfg, logger)
		if err != nil {
			return err
		}
		defer func() {
			if err := database.CloseDB(db); err != nil {
				logger.Warn("database.close_failed", zap.Error(err))
			}
		}()
		if err := database.Migrate(db, database.DefaultMigrationsDir, logger); err != nil {
			return err
		}
		checks["database"] = func(ctx context.Context) error { return database.Ping(ctx, db) }

		photoRepo = repository.NewOCRPhotoRepository(db)
		preferenceService := preferenceUsecase.NewService(repository.NewPreferenceRepository(db), logger)
		prefReader = preferenceService
		prefHandler = handler.NewPreferenceHandler(preferenceService, logger)
	} else {
		logger.Warn("database.disabled", zap.String("effect", "board preferences and photo index unavailable"))
	}

	// Object storage
	var objectStore repositories.ObjectStore
	if cfg.Storage.Enabled {
		minioClient, err := storage.NewMinIOClient(ctx, cfg.Storage)
		if err != nil {
			return err
		}
		checks["storage"] = minioClient.Ping
		objectStore = minioClient
	}

	recognizer := externalocr.NewClient(externalocr.Options{
		URL:        cfg.OCR.URL,
		APIKey:     cfg.OCR.APIKey,
		Timeout:    cfg.OCR.Timeout,
		MaxRetries: cfg.OCR.MaxRetries,
		Logger:     logger.Named("ocr"),
	})

	taskService := taskUsecase.NewService(backendClient, payloadCache, prefReader, clk, logger, taskUsecase.Config{
		TaskPageSize:   cfg.Backend.TaskPageSize,
		MemberPageSize: cfg.Backend.MemberPageSize,
		MaxPages:       cfg.Backend.MaxPages,
		Concurrency:    cfg.Backend.Concurrency,
		CacheTTL:       cfg.Cache.TaskTTL,
	})
	dashboardService := dashboardUsecase.NewService(backendClient, payloadCache, cfg.Cache.DashboardTTL, logger)
	ocrService := ocrUsecase.NewService(recognizer, objectStore, photoRepo, logger, ocrUsecase.Config{
		MaxImageBytes: cfg.OCR.MaxImageBytes,
		URLExpiry:     cfg.Storage.URLExpiry,
	})

	jwtManager := jwt.NewManager(cfg.JWT.AccessSecret, 0, cfg.JWT.Issuer)

	router := handler.NewRouter(cfg, logger, httpmw.EchoAuth(jwtManager, logger), handler.Handlers{
		Task:       handler.NewTaskHandler(taskService, logger),
		Preference: prefHandler,
		Dashboard:  handler.NewDashboardHandler(dashboardService, logger),
		OCR:        handler.NewOCRHandler(ocrService, cfg.OCR.MaxImageBytes, logger),
		Health:     handler.NewHealthHandler(cfg.Server.Environment, checks),
	})
	router.Setup(e)

	// Start server
	errCh := make(chan error, 1)
	go func() {
		addr := cfg.GetServerAddr()
		logger.Info("server.starting",
			zap.String("addr", addr),
			zap.String("environment", cfg.Server.Environment),
		)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return err
	case <-quit:
	}

	logger.Info("server.shutting_down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		return err
	}

	logger.Info("server.stopped")
	return nil
}

// bodyLimit leaves headroom above the image limit for multipart framing
func bodyLimit(maxImageBytes int64) string {
	const headroom = 1 << 20
	if maxImageBytes <= 0 {
		maxImageBytes = 10 << 20
	}
	return fmt.Sprintf("%dK", (maxImageBytes+headroom+1023)/1024)
}
