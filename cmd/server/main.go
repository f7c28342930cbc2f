package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	redisadapter "github.com/shlok1014/ReWear/internal/adapter/cache/redis"
	"github.com/shlok1014/ReWear/internal/adapter/email"
	"github.com/shlok1014/ReWear/internal/adapter/httpapi"
	"github.com/shlok1014/ReWear/internal/adapter/mongo"
	natsadapter "github.com/shlok1014/ReWear/internal/adapter/nats"
	"github.com/shlok1014/ReWear/internal/adapter/ws"
	"github.com/shlok1014/ReWear/internal/config"
	"github.com/shlok1014/ReWear/internal/usecase"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer logger.Sync()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config"
	}
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}

	mongoClient, err := mongo.NewMongoDBConnection(&cfg.Mongo)
	if err != nil {
		logger.Fatal("Failed to connect to MongoDB", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := mongoClient.Disconnect(ctx); err != nil {
			logger.Error("Failed to disconnect MongoDB client", zap.Error(err))
		}
	}()
	logger.Info("Successfully connected to MongoDB")

	itemRepo := mongo.NewItemMongoRepository(mongoClient, cfg.Mongo.Database)
	userRepo := mongo.NewUserMongoRepository(mongoClient, cfg.Mongo.Database)
	{
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := itemRepo.EnsureIndexes(ctx); err != nil {
			logger.Fatal("Failed to create item indexes", zap.Error(err))
		}
		if err := userRepo.EnsureIndexes(ctx); err != nil {
			logger.Fatal("Failed to create user indexes", zap.Error(err))
		}
		cancel()
	}

	redisClient, err := redisadapter.NewRedisClient(&cfg.Redis, logger)
	if err != nil {
		logger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer redisClient.Close()
	cacheRepo := redisadapter.NewRedisCacheRepository(redisClient, logger)

	publisher, err := natsadapter.NewNATSPublisher(&cfg.NATS, logger)
	if err != nil {
		logger.Fatal("Failed to connect to NATS", zap.Error(err))
	}
	defer publisher.Close()

	mailSender := email.NewSMTPSender(&cfg.SMTP, logger)

	hub := ws.NewHub(logger)
	go hub.Run()

	// Every notification published on the bus fans out to the websocket
	// room matching its channel, regardless of which instance emitted it.
	sub, err := publisher.SubscribeAll(func(channel string, data []byte) {
		hub.Deliver(channel, data)
	})
	if err != nil {
		logger.Fatal("Failed to subscribe to notification subjects", zap.Error(err))
	}
	defer sub.Unsubscribe()

	itemUC := usecase.NewItemUsecase(itemRepo, userRepo, publisher, cacheRepo, logger)
	swapUC := usecase.NewSwapUsecase(itemRepo, userRepo, publisher, cacheRepo, logger)
	moderationUC := usecase.NewModerationUsecase(itemRepo, userRepo, publisher, cacheRepo, mailSender, logger)
	userUC := usecase.NewUserUsecase(userRepo, itemRepo, cfg.JWT.Secret, cfg.JWT.TokenTTL, logger)

	app := fiber.New(fiber.Config{
		ReadTimeout: cfg.HTTP.ReadTimeout,
	})

	router := &httpapi.Router{
		Items: httpapi.NewItemHandler(itemUC, swapUC),
		Users: httpapi.NewUserHandler(userUC, swapUC),
		Admin: httpapi.NewAdminHandler(moderationUC, userUC),
		WS:    httpapi.NewWSHandler(hub, cfg.JWT.Secret),
	}
	router.Register(app, cfg)

	go func() {
		logger.Info("Starting HTTP server", zap.String("port", cfg.HTTP.Port))
		if err := app.Listen(":" + cfg.HTTP.Port); err != nil {
			logger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}
	logger.Info("Server exited")
}
