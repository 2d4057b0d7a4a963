package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/kohara42/supportdesk/api"
	"github.com/kohara42/supportdesk/classifier"
	"github.com/kohara42/supportdesk/config"
	"github.com/kohara42/supportdesk/dialog"
	"github.com/kohara42/supportdesk/engine"
	"github.com/kohara42/supportdesk/orders"
	"github.com/kohara42/supportdesk/policy"
	"github.com/kohara42/supportdesk/store"
)

func main() {
	// Load configuration
	cfg := config.Load()

	log.Printf("Starting supportdesk...")
	log.Printf("HTTP Port: %d", cfg.HTTPPort)
	log.Printf("Database: %s", cfg.DatabaseURL)
	log.Printf("Classifier URL: %s", cfg.ClassifierURL)
	log.Printf("Routing policy: %s", cfg.RoutingPolicy)

	// Initialize store
	db, err := store.NewSQLiteStore(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer db.Close()

	// Initialize classifier (real or mock, per SUPPORTDESK_MODE)
	clf := classifier.NewClassifier(cfg.ClassifierURL, cfg.ClassifierTimeout)

	// Initialize policy engine
	ctx := context.Background()
	policyEngine, err := policy.NewEngine(ctx, policy.DefaultPolicy)
	if err != nil {
		log.Fatalf("Failed to initialize policy engine: %v", err)
	}

	// Initialize dialogue controller and engine
	controller := dialog.NewController(
		orders.NewSyntheticLookup(),
		policyEngine,
		dialog.WithClassifier(clf, cfg.RoutingPolicy, cfg.ConfidenceThreshold),
	)
	eng := engine.New(db, controller, cfg.ConfidenceThreshold, cfg.HistoryLimit)

	// Initialize handler
	h := api.NewHandler(db, eng, cfg)

	// Create Echo server
	server := echo.New()
	server.HideBanner = true

	// Middleware
	server.Use(middleware.Logger())
	server.Use(middleware.Recover())
	server.Use(middleware.CORS())

	// Register routes
	h.RegisterRoutes(server)

	// Start server
	go func() {
		addr := fmt.Sprintf(":%d", cfg.HTTPPort)
		if err := server.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	log.Printf("API started on port %d", cfg.HTTPPort)

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down supportdesk...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Failed to shutdown server gracefully: %v", err)
	}

	log.Println("Supportdesk stopped")
}
