// File: wanderly/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"wanderly/config"
	"wanderly/cron"
	"wanderly/handlers"
	"wanderly/middleware"
	"wanderly/routes"
	"wanderly/services/cart"
	"wanderly/services/remote"
	"wanderly/services/tasks"
	"wanderly/utils"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()
	defer logger.Sync()

	if err := config.AppConfig.Validate(); err != nil {
		logger.Sugar().Fatalf("main: invalid configuration: %v", err)
	}

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	rootCtx, stop := context.WithCancel(context.Background())
	defer stop()

	// Cart cache.
	var cache cart.CartCache = cart.NewMemoryCartCache()
	if config.AppConfig.CartCacheBackend == "redis" {
		if err := utils.InitCache(); err != nil {
			logger.Sugar().Fatalf("main: %v", err)
		}
		cache = cart.NewRedisCartCache(utils.GetCacheClient(), config.AppConfig.CartCacheTTL)
	}
	utils.StartHealthMonitor(rootCtx, utils.GetCacheClient(), 30*time.Second)

	// services.
	api := remote.NewClient(remote.Options{
		BaseURL: config.AppConfig.APIURL,
		Timeout: config.AppConfig.APITimeout,
		Logger:  logger.Named("remote"),
	})
	cartService := cart.NewCartService(api, api, cache, logger.Named("cart"), cart.Options{
		StaleAfter:      config.AppConfig.CartStaleAfter,
		RefreshTimeout:  config.AppConfig.APITimeout,
		StrictInventory: config.AppConfig.CartStrictInventory,
	})

	// Checkout webhooks invalidate inline unless a worker queue is configured.
	var invalidator handlers.Invalidator = cartService
	var worker *asynq.Server
	var queue *asynq.Client
	if config.AppConfig.CartAsyncInvalidation {
		queue = asynq.NewClient(cron.RedisOpt())
		invalidator = tasks.NewAsyncInvalidator(queue, "checkout.session.completed")
		worker = cron.InitCartWorker(cartService, logger.Named("worker"))
	}

	var webhookHandler *handlers.StripeWebhookHandler
	if secret := config.AppConfig.StripeWebhookSecret; secret != "" {
		webhookHandler = handlers.NewStripeWebhookHandler(secret, invalidator, logger)
	} else {
		logger.Warn("STRIPE_WEBHOOK_SECRET not set; checkout webhooks are disabled")
	}

	cartHandler := handlers.NewCartHandler(cartService, logger)
	handlerBundle := handlers.NewHandlerBundle(cartHandler, webhookHandler, []byte(config.AppConfig.JWTSecret))

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RequestLoggerMiddleware(logger))
	router.Use(middleware.RateLimitMiddleware(config.AppConfig.MaxRequestsPerMin))

	routes.RegisterRoutes(router, handlerBundle)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Errorf("main: server forced to shutdown: %v", err)
	}

	cartService.Wait()
	if worker != nil {
		worker.Shutdown()
	}
	if queue != nil {
		_ = queue.Close()
	}
	if client := utils.GetCacheClient(); client != nil {
		_ = client.Close()
	}
	stop()

	logger.Sugar().Info("main: server stopped gracefully")
}
