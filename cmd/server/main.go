package main

import (
	"context"
	"errors"
	stdhttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"shop-service/internal/config"
	"shop-service/internal/controllers/http"
	"shop-service/internal/infra/cache"
	"shop-service/internal/infra/database"
	"shop-service/internal/infra/rabbitmq"
	"shop-service/internal/infra/token"
	"shop-service/internal/logger"
	"shop-service/internal/repository/gormrepo"
	"shop-service/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
)

func main() {
	// .env is optional; real environment variables win.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		bootLog := logger.New("info", false)
		bootLog.Fatal().Err(err).Msg("load config")
	}
	log := logger.New(cfg.LogLevel, cfg.LogPretty)

	db, err := database.Open(database.Options{Driver: cfg.DBDriver, DSN: cfg.DSN()})
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.DBDriver).Msg("db: connect")
	}
	store := gormrepo.NewStore(db)

	var productCache services.ProductCache
	var redisCache *cache.ProductCache
	if addr := cfg.RedisAddr(); addr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:         addr,
			DB:           cfg.RedisDB,
			PoolSize:     200,
			MinIdleConns: 20,
			DialTimeout:  2 * time.Second,
			ReadTimeout:  500 * time.Millisecond,
			WriteTimeout: 500 * time.Millisecond,
		})
		defer redisClient.Close()
		redisCache = cache.NewProductCache(redisClient, cfg.ProductCacheTTL)
		productCache = redisCache
	} else {
		log.Info().Msg("REDIS_HOST not set, product cache disabled")
	}

	var publisher rabbitmq.PublisherInterface = rabbitmq.NopPublisher{}
	if cfg.RabbitMQURL != "" {
		p, err := rabbitmq.NewPublisher(cfg.RabbitMQURL, cfg.RabbitMQExchange)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to init publisher")
		}
		defer p.Close()
		publisher = p
	} else {
		log.Info().Msg("RABBITMQ_URL not set, events are dropped")
	}

	maker, err := token.NewMaker(cfg.JWTSecret, cfg.RefreshTokenTTL)
	if err != nil {
		log.Fatal().Err(err).Msg("token maker")
	}

	h := http.NewHandler(
		services.NewAuthService(store, maker, publisher, cfg.AdminEmails, log),
		services.NewCatalogService(store, productCache, log),
		services.NewCartService(store, productCache, log),
		services.NewOrderService(store, publisher, log),
		log,
	)
	h.AddHealthCheck("database", store)
	if redisCache != nil {
		h.AddHealthCheck("redis", redisCache)
	}

	gin.SetMode(gin.ReleaseMode)
	r := http.NewRouter(h, log, cfg.CORSOrigins)

	srv := &stdhttp.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("starting shop service")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server run")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
}
