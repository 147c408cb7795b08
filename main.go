package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"table_order/cart"
	"table_order/config"
	"table_order/database"
	"table_order/handler"
	"table_order/media"
	"table_order/realtime"
	"table_order/router"
	"table_order/scheduler"
	"table_order/service"
	"table_order/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

func redisClient() *redis.Client {
	addr := config.Config("REDIS_ADDR")
	if addr == "" {
		return nil
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: config.Config("REDIS_PASSWORD"),
		DB:       config.Int("REDIS_DB", 0),
	})
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatalf("redis ping %s: %v", addr, err)
	}
	log.Println("Connected to Redis")
	return rdb
}

func setupNotifier(rdb *redis.Client) realtime.Notifier {
	switch driver := config.ConfigOr("NOTIFIER_DRIVER", "memory"); driver {
	case "redis":
		if rdb == nil {
			log.Fatal("NOTIFIER_DRIVER=redis needs REDIS_ADDR")
		}
		return realtime.NewRedisNotifier(rdb)
	case "amqp":
		n, err := realtime.NewAMQPNotifier(config.Config("AMQP_URL"))
		if err != nil {
			log.Fatalf("connect amqp: %v", err)
		}
		log.Println("Connected to RabbitMQ")
		return n
	case "memory":
		return realtime.NewMemoryNotifier()
	default:
		log.Fatalf("unsupported NOTIFIER_DRIVER %q", driver)
		return nil
	}
}

func main() {
	decimal.MarshalJSONWithoutQuotes = true

	database.ConnectDB()

	rdb := redisClient()
	realtime.Default = setupNotifier(rdb)
	defer realtime.Default.Close()

	cartTTL := config.Duration("CART_TTL", 2*time.Hour)
	if rdb != nil {
		cart.Default = cart.NewRedisStore(rdb, cartTTL)
	} else {
		cart.Default = cart.NewMemoryStore(cartTTL)
	}

	cld, err := media.NewCloudinaryFromEnv()
	if err != nil {
		log.Fatalf("cloudinary: %v", err)
	}
	if cld != nil {
		handler.Media = cld
	} else {
		log.Println("Cloudinary not configured, image upload disabled")
	}

	orders := service.NewOrderService(database.DB, realtime.Default)
	if err := scheduler.StartStaleOrderScheduler(orders, config.Duration("ORDER_PENDING_TTL", 0)); err != nil {
		log.Fatalf("start order scheduler: %v", err)
	}
	defer scheduler.StopStaleOrderScheduler()

	auth := service.NewAuthService(database.DB, utils.SMTPMailer{},
		config.ConfigOr("APP_NAME", "TableOrder"),
		config.ConfigOr("FRONTEND_URL", "http://localhost:3000"),
		config.Duration("RESET_TOKEN_TTL", time.Hour))
	if err := scheduler.StartTokenPurgeScheduler(auth, config.Location()); err != nil {
		log.Fatalf("start token scheduler: %v", err)
	}
	defer scheduler.StopTokenPurgeScheduler()

	app := fiber.New(fiber.Config{
		AppName:   config.ConfigOr("APP_NAME", "TableOrder"),
		BodyLimit: 10 * 1024 * 1024,
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     config.ConfigOr("CORS_ORIGINS", "http://localhost:3000"),
		AllowMethods:     "GET,POST,PUT,DELETE,PATCH,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Authorization, Accept, X-Cart-Session",
		AllowCredentials: true,
		ExposeHeaders:    "Set-Cookie, X-Cart-Session",
		MaxAge:           600,
	}))

	router.SetupRoutes(app)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		log.Println("Shutting down")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Printf("shutdown: %v", err)
		}
	}()

	if err := app.Listen(":" + config.ConfigOr("PORT", "8080")); err != nil {
		log.Printf("listen: %v", err)
	}
}
