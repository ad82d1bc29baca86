package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/waste3d/tianji-twin-api/config"
	"github.com/waste3d/tianji-twin-api/internal/application/usecase"
	"github.com/waste3d/tianji-twin-api/internal/domain"
	rediscache "github.com/waste3d/tianji-twin-api/internal/infrastructure/cache"
	"github.com/waste3d/tianji-twin-api/internal/infrastructure/repository"
	"github.com/waste3d/tianji-twin-api/internal/infrastructure/security"
	"github.com/waste3d/tianji-twin-api/internal/middleware"
	handlers "github.com/waste3d/tianji-twin-api/internal/transport/http"
	"github.com/waste3d/tianji-twin-api/pkg/logger"

	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	slogger := logger.New()

	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort)

	// TranslateError turns unique-index violations into gorm.ErrDuplicatedKey,
	// which is what resolves concurrent duplicate unlocks.
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}

	log.Println("Running migrations...")
	if err := db.AutoMigrate(
		&domain.User{},
		&domain.CoinTransaction{},
		&domain.StarChart{},
		&domain.Subscription{},
		&domain.PaymentOrder{},
		&domain.UsageCounter{},
		&domain.TimeAssetUnlock{},
		&domain.AnalysisCache{},
	); err != nil {
		log.Fatalf("Failed to migrate DB: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
	})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}

	loc := time.UTC
	if cfg.Timezone != "" {
		loc, err = time.LoadLocation(cfg.Timezone)
		if err != nil {
			log.Fatalf("Invalid TIMEZONE %q: %v", cfg.Timezone, err)
		}
	}

	userRepo := repository.NewUserRepository(db)
	walletRepo := repository.NewWalletRepository(db)
	chartRepo := repository.NewChartRepository(db)
	cacheRepo := repository.NewCacheRepository(db)
	assetRepo := repository.NewTimeAssetRepository(db)
	subRepo := repository.NewSubscriptionRepository(db)
	usageRepo := repository.NewUsageRepository(db)

	statusCache := rediscache.NewStatusCache(rdb)
	tokenManager := security.NewTokenManager(cfg.AccessSecret)
	limiter := middleware.NewRateLimiter(rdb)

	walletUC := usecase.NewWalletUseCase(walletRepo)
	completenessUC := usecase.NewCompletenessUseCase(userRepo, walletRepo, slogger)
	astrologyUC := usecase.NewAstrologyUseCase(chartRepo, cacheRepo)
	timeAssetUC := usecase.NewTimeAssetUseCase(assetRepo)
	subscriptionUC := usecase.NewSubscriptionUseCase(subRepo, usageRepo, statusCache, loc, slogger)

	router := handlers.NewRouter(
		cfg.AllowedOrigins,
		handlers.NewAstrologyHandler(astrologyUC, timeAssetUC),
		handlers.NewSubscriptionHandler(subscriptionUC),
		handlers.NewProfileHandler(userRepo, completenessUC),
		handlers.NewWalletHandler(walletUC),
		limiter,
		tokenManager,
		userRepo,
	)

	// Sweep overdue subscriptions in the background; the status endpoint
	// also catches stragglers lazily on read.
	go func() {
		ticker := time.NewTicker(10 * time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			if _, err := subscriptionUC.CheckExpired(context.Background()); err != nil {
				slogger.Error("expiry sweep failed", "error", err)
			}
		}
	}()

	port := cfg.Port
	if port == "" {
		port = "8080"
	}
	log.Printf("Tianji twin API running on :%s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to serve: %v", err)
	}
}
