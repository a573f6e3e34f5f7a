package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wolfman30/mozbe-site/internal/api/router"
	"github.com/wolfman30/mozbe-site/internal/app/bootstrap"
	"github.com/wolfman30/mozbe-site/internal/chatdemo"
	appconfig "github.com/wolfman30/mozbe-site/internal/config"
	"github.com/wolfman30/mozbe-site/pkg/logging"
)

func main() {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	// Load configuration
	cfg := appconfig.Load()

	// Initialize logger
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting mozbe site server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	redisClient := bootstrap.BuildRedisClient(context.Background(), cfg, logger, true)
	if redisClient != nil {
		defer redisClient.Close()
	}

	catalog, err := chatdemo.LoadCatalog()
	if err != nil {
		logger.Error("failed to load demo transcripts", "error", err)
		os.Exit(1)
	}

	// Initialize handlers
	chatHandler, err := bootstrap.BuildChatHandler(cfg, catalog, reg, logger)
	if err != nil {
		logger.Error("failed to build chat demo", "error", err)
		os.Exit(1)
	}
	contactHandler, err := bootstrap.BuildContactHandler(cfg, redisClient, reg, logger)
	if err != nil {
		logger.Error("failed to build contact handler", "error", err)
		os.Exit(1)
	}
	siteHandler, err := bootstrap.BuildSiteHandler(cfg, catalog, logger)
	if err != nil {
		logger.Error("failed to build site handler", "error", err)
		os.Exit(1)
	}

	// Setup router
	r := router.New(&router.Config{
		Logger:             logger,
		SiteHandler:        siteHandler,
		ContactHandler:     contactHandler,
		ChatHandler:        chatHandler,
		MetricsHandler:     promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		RateLimitRPS:       cfg.RateLimitRPS,
		RateLimitBurst:     cfg.RateLimitBurst,
	})

	// WriteTimeout stays zero: demo sockets outlive any single write window.
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped", "open_demo_sessions", chatHandler.ActiveSessions())
	fmt.Println("Server exited gracefully")
}
