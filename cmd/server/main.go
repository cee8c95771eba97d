package main // Entry point package

import (
	"context"
	"log" // Logging library
	"time"

	"github.com/joho/godotenv"    // .env loader for local development
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/iliyamo/ecommerce-backend/internal/config"
	"github.com/iliyamo/ecommerce-backend/internal/database"
	"github.com/iliyamo/ecommerce-backend/internal/handler"
	"github.com/iliyamo/ecommerce-backend/internal/middleware"
	"github.com/iliyamo/ecommerce-backend/internal/queue"
	"github.com/iliyamo/ecommerce-backend/internal/repository"
	"github.com/iliyamo/ecommerce-backend/internal/router"
	queue_publisher "github.com/iliyamo/ecommerce-backend/internal/service"
)

func main() {
	_ = godotenv.Load() // load .env if present; real env vars win

	cfg := config.Load()

	// Primary store: MongoDB.
	client, err := database.Open(cfg.MongoURI)
	if err != nil {
		log.Fatalf("mongo connect failed: %v", err)
	}
	db := client.Database(cfg.MongoDB)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := database.EnsureIndexes(ctx, db); err != nil {
		cancel()
		log.Fatalf("ensure indexes failed: %v", err)
	}
	cancel()

	// Session cache and hot-read cache: Redis.  The session cache is what
	// makes refresh tokens revocable, so running without it is not an option.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Fatal("redis unreachable; the session cache requires it")
	}

	users := repository.NewUserRepo(db)
	products := repository.NewProductRepo(db)
	coupons := repository.NewCouponRepo(db)
	sessions := repository.NewSessionRepo(rdb)
	featured := repository.NewProductCache(rdb)

	authH := handler.NewAuthHandler(cfg, users, sessions)
	authH.Publish = queue_publisher.PublishUserRegistered
	productH := handler.NewProductHandler(products, featured)
	cartH := handler.NewCartHandler(users, products)
	couponH := handler.NewCouponHandler(coupons)

	protect := middleware.Protect(cfg.AccessSecret, users)
	limit := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)

	// Background audit trail for signups.
	go func() {
		if err := queue.StartAuditConsumer(); err != nil {
			log.Printf("audit consumer stopped: %v", err)
		}
	}()

	e := echo.New()
	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, protect, limit)
	router.RegisterProducts(e, productH, protect)
	router.RegisterCart(e, cartH, protect)
	router.RegisterCoupons(e, couponH, protect)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
