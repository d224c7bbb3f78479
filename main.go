package main

import (
	"context"
	"log"

	"github.com/gaf135/ivegan-versao-atual/cache"
	"github.com/gaf135/ivegan-versao-atual/config"
	"github.com/gaf135/ivegan-versao-atual/events"
	"github.com/gaf135/ivegan-versao-atual/handlers"
	"github.com/gaf135/ivegan-versao-atual/middleware"
	"github.com/gaf135/ivegan-versao-atual/routes"
	"github.com/gaf135/ivegan-versao-atual/services"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("❌ Invalid configuration: ", err)
	}
	gin.SetMode(cfg.GinMode)

	// Initialize database
	db, err := config.OpenDB(cfg)
	if err != nil {
		log.Fatal("❌ Failed to connect to database: ", err)
	}
	if err := config.Migrate(db); err != nil {
		log.Fatal("❌ Failed to migrate database: ", err)
	}
	if err := config.SeedAdmin(db, cfg); err != nil {
		log.Fatal("❌ Failed to seed admin account: ", err)
	}
	log.Printf("✅ Database ready (%s)", cfg.DBDriver)

	// Redis backs the shared rate limiter and the dashboard cache when configured
	var limiter middleware.Limiter = middleware.NewMemoryLimiter(cfg.RateLimitMax, cfg.RateLimitWindow)
	var statsCache services.StatsCache
	rdb, err := config.NewRedisClient(context.Background(), cfg)
	if err != nil {
		log.Printf("⚠️ Redis unavailable, using in-process rate limiting: %v", err)
	}
	if rdb != nil {
		defer rdb.Close()
		limiter = middleware.NewRedisLimiter(rdb, cfg.RateLimitMax, cfg.RateLimitWindow)
		statsCache = cache.NewRedisCache(rdb, cfg.StatsCacheTTL)
		log.Printf("✅ Redis connected (%s)", cfg.RedisAddr)
	}

	var publisher events.Publisher = events.NopPublisher{}
	if writer := config.NewKafkaWriter(cfg); writer != nil {
		defer writer.Close()
		publisher = events.NewKafkaPublisher(writer)
		log.Printf("✅ Publishing order events to %s/%s", cfg.KafkaBroker, cfg.KafkaTopic)
	}

	stats := services.NewStatsService(db, statsCache)
	orders := services.NewOrderService(db, publisher, cfg.PricePolicy, cfg.DeliveryFee)
	orders.Stats = stats

	h := handlers.New(db, cfg, orders, stats, services.NewReviewService(db), services.NewOrderQRCode(cfg.PublicBaseURL))
	r := routes.NewRouter(h, limiter)

	log.Printf("🚀 Server running on http://localhost:%s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
