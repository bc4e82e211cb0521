package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/hyejin-dev/bakerly-cart/config"
	"github.com/hyejin-dev/bakerly-cart/internal/app/controller"
	"github.com/hyejin-dev/bakerly-cart/internal/app/repository"
	"github.com/hyejin-dev/bakerly-cart/internal/app/service"
	"github.com/hyejin-dev/bakerly-cart/internal/middleware"
	"github.com/hyejin-dev/bakerly-cart/internal/router"
	"github.com/hyejin-dev/bakerly-cart/internal/scheduler"
	"github.com/hyejin-dev/bakerly-cart/pkg/bakeryapi"
	"github.com/hyejin-dev/bakerly-cart/pkg/logger"
	"github.com/hyejin-dev/bakerly-cart/pkg/redis"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel := "info"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      "console", // Use "json" for production
		EnableColor: true,
	})

	logger.Info("Starting Bakerly cart gateway", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
	})

	// Initialize cart snapshot storage: Redis when reachable, in-memory
	// fallback otherwise (the cart must keep working either way)
	var storage repository.CartStorage
	if err := redis.Init(&cfg.Redis); err != nil {
		logger.Warn("Redis unavailable, falling back to in-memory cart snapshots", map[string]interface{}{
			"error": err.Error(),
		})
		storage = repository.NewMemoryStorage()
	} else {
		defer func() {
			if err := redis.Close(); err != nil {
				logger.Error("Failed to close Redis connection", err)
			}
		}()
		storage = repository.NewRedisStorage(redis.GetClient(), cfg.Cart.KeyPrefix, cfg.Cart.GuestTTL)
	}

	// Initialize the bakery backend client
	backendClient, err := bakeryapi.NewClient(bakeryapi.Config{
		BaseURL: cfg.Backend.BaseURL,
		APIKey:  cfg.Backend.APIKey,
		Timeout: cfg.Backend.Timeout,
	})
	if err != nil {
		logger.Fatal("Failed to initialize bakery backend client", err)
	}

	// Initialize store, service, controller
	cartStore := repository.NewCartStore(storage)
	cartService := service.NewCartService(cartStore, backendClient, cfg.Cart.Currency)
	cartController := controller.NewCartController(cartService)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret)

	// Start idle cart eviction
	expiryScheduler := scheduler.NewCartExpiryScheduler(cartStore, cfg.Cart.GuestTTL)
	if err := expiryScheduler.Start(); err != nil {
		logger.Fatal("Failed to start cart expiry scheduler", err)
	}
	defer expiryScheduler.Stop()

	// Setup router
	r := router.NewRouter(cartController, authMiddleware, cfg)
	engine := r.Setup()

	// Start server in a goroutine
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server started successfully", map[string]interface{}{
			"address": addr,
			"pid":     os.Getpid(),
		})
		if err := engine.Run(addr); err != nil {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")
	logger.Info("Server stopped successfully")
}
