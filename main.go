package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Saqqqi/Food-Delivery-System-sub000/controllers"
	"github.com/Saqqqi/Food-Delivery-System-sub000/database"
	"github.com/Saqqqi/Food-Delivery-System-sub000/kafka"
	"github.com/Saqqqi/Food-Delivery-System-sub000/models"
	aws_pkg "github.com/Saqqqi/Food-Delivery-System-sub000/pkg/aws"
	"github.com/Saqqqi/Food-Delivery-System-sub000/repository"
	"github.com/Saqqqi/Food-Delivery-System-sub000/routes"
	"github.com/Saqqqi/Food-Delivery-System-sub000/services"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer logger.Sync()

	cfg, err := LoadConfig()
	if err != nil {
		logger.Fatal("Config load failed", zap.Error(err))
	}

	// --- Databases ---
	mongoClient, mongoDB, err := database.ConnectMongo(cfg.MongoURL, cfg.MongoDBName, logger)
	if err != nil {
		logger.Fatal("MongoDB connection failed", zap.Error(err))
	}

	indexCtx, cancelIndexes := context.WithTimeout(context.Background(), 10*time.Second)
	if err := repository.EnsureCartIndexes(indexCtx, mongoDB); err != nil {
		logger.Fatal("Cart index creation failed", zap.Error(err))
	}
	if err := repository.EnsureCouponIndexes(indexCtx, mongoDB); err != nil {
		logger.Fatal("Coupon index creation failed", zap.Error(err))
	}
	cancelIndexes()

	redisClient, err := database.ConnectRedis(cfg.RedisURL, logger)
	if err != nil {
		logger.Fatal("Redis connection failed", zap.Error(err))
	}

	chatDB, err := database.ConnectPostgres(cfg.Postgres, logger, &models.ChatMessage{})
	if err != nil {
		logger.Fatal("PostgreSQL connection failed", zap.Error(err))
	}

	// --- Event plumbing ---
	producer := kafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic)
	defer producer.Close()

	// SNS mirror is optional; a failed AWS setup downgrades to Kafka-only.
	var snsClient aws_pkg.SNSPublisher
	if cfg.OrderSNSTopicARN != "" {
		awsCfg, err := aws_pkg.LoadAWSConfig(context.Background())
		if err != nil {
			logger.Warn("AWS config load failed, SNS mirror disabled", zap.Error(err))
		} else {
			snsClient = aws_pkg.NewSNSClient(awsCfg)
		}
	}

	// --- Repositories ---
	productRepo := repository.NewMongoProductRepository(mongoDB)
	cartRepo := repository.NewMongoCartRepository(mongoDB)
	couponRepo := repository.NewMongoCouponRepository(mongoDB)
	orderRepo := repository.NewMongoOrderRepository(mongoDB)
	userRepo := repository.NewMongoUserRepository(mongoDB)
	loyaltyRepo := repository.NewMongoLoyaltyRepository(mongoDB)
	outboxRepo := repository.NewMongoOutboxRepository(mongoDB)
	restaurantRepo := repository.NewMongoRestaurantRepository(mongoDB)
	chatRepo := repository.NewGormChatRepository(chatDB)
	idemStore := repository.NewRedisIdempotencyStore(redisClient)

	// --- Services ---
	loyaltyService := services.NewLoyaltyService(loyaltyRepo, userRepo, logger)
	cartService := services.NewCartService(cartRepo, productRepo, couponRepo, loyaltyRepo, userRepo, logger)
	couponService := services.NewCouponService(couponRepo, logger)
	orderService := services.NewOrderService(
		orderRepo, cartRepo, productRepo, couponRepo, userRepo,
		restaurantRepo, outboxRepo, idemStore, loyaltyService, logger,
	)
	deliveryService := services.NewDeliveryService(orderRepo, userRepo, orderService, logger)
	chatService := services.NewChatService(chatRepo, redisClient, logger)
	productService := services.NewProductService(productRepo, logger)
	restaurantService := services.NewRestaurantService(restaurantRepo, logger)

	dispatcher := services.NewOutboxDispatcher(
		outboxRepo, producer, snsClient, cfg.OrderSNSTopicARN, cfg.OutboxInterval, logger,
	)
	dispatcherCtx, stopDispatcher := context.WithCancel(context.Background())
	go dispatcher.Run(dispatcherCtx)

	// --- HTTP router ---
	r := gin.New()
	r.Use(gin.Recovery())

	// Structured HTTP request logging
	r.Use(func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method
		c.Next()
		latency := time.Since(start)
		status := c.Writer.Status()
		fields := []zap.Field{
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", status),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
			zap.Int("body_size", c.Writer.Size()),
		}
		switch {
		case status >= 500:
			logger.Error("http_request", fields...)
		case status >= 400:
			logger.Warn("http_request", fields...)
		default:
			logger.Info("http_request", fields...)
		}
	})

	// Request timeout middleware
	r.Use(func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	})

	routes.RegisterRoutes(r, routes.Controllers{
		Cart:       controllers.NewCartController(cartService),
		Order:      controllers.NewOrderController(orderService),
		Coupon:     controllers.NewCouponController(couponService),
		Loyalty:    controllers.NewLoyaltyController(loyaltyService),
		Delivery:   controllers.NewDeliveryController(deliveryService),
		Chat:       controllers.NewChatController(chatService),
		Product:    controllers.NewProductController(productService),
		Restaurant: controllers.NewRestaurantController(restaurantService),
	}, []byte(cfg.JWTSecret), cfg.ServiceKeys, logger)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK", "service": "food-delivery-backend"})
	})

	// --- HTTP server ---
	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r}
	go func() {
		logger.Info("Food delivery backend started", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Initiating graceful shutdown...")
	stopDispatcher()

	httpShutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(httpShutdownCtx); err != nil {
		logger.Error("Server shutdown error", zap.Error(err))
	}

	if err := database.CloseMongo(mongoClient); err != nil {
		logger.Error("MongoDB close error", zap.Error(err))
	}
	if err := database.ClosePostgres(chatDB); err != nil {
		logger.Error("PostgreSQL close error", zap.Error(err))
	}
	if err := redisClient.Close(); err != nil {
		logger.Error("Redis close error", zap.Error(err))
	}

	logger.Info("Service stopped gracefully")
}
