package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"secondarypro/internal/config"
	"secondarypro/internal/seed"
	"secondarypro/internal/services"
	"secondarypro/pkg/rabbitmq"

	"github.com/joho/godotenv"
)

func main() {
	// --- Configuration ---
	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var cs closers
	defer cs.closeAll()

	// --- Storage ---
	productRepo, orderRepo, err := openStores(ctx, cfg, &cs)
	if err != nil {
		log.Fatalf("Failed to open %s store: %v", cfg.StoreDriver, err)
	}
	if cfg.SeedProducts {
		if _, err := seed.SeedIfEmpty(ctx, productRepo); err != nil {
			log.Printf("Failed to seed products: %v", err)
		}
	}

	// --- Messaging ---
	var mq *rabbitmq.Client
	if needsRabbitMQ(cfg) {
		mq, err = connectRabbitMQ(cfg, &cs)
		if err != nil {
			log.Fatalf("Failed to initialize RabbitMQ client: %v", err)
		}
	}
	publisher := newPublisher(cfg, mq, &cs)
	notifier, err := newNotifier(cfg, mq)
	if err != nil {
		log.Fatalf("Failed to initialize %s notifier: %v", cfg.Notifier, err)
	}

	// --- Services ---
	productService := services.NewProductService(productRepo, cfg.ProductsPageSize, cfg.FeaturedLimit)
	if cache := newFeaturedCache(ctx, cfg, &cs); cache != nil {
		productService.SetCache(cache)
	}
	orderService := services.NewOrderService(orderRepo, productRepo, notifier, publisher, services.OrderPolicy{
		RequireInStock:     cfg.RequireInStock,
		EnforceTransitions: cfg.EnforceTransitions,
		PageSize:           cfg.OrdersPageSize,
		Producer:           cfg.ServiceName,
	})
	adminService, err := services.NewAdminService(cfg.AdminPassword, productRepo, orderRepo)
	if err != nil {
		log.Fatalf("Failed to initialize admin service: %v", err)
	}

	app := newApp(cfg, appServices{
		products: productService,
		orders:   orderService,
		admin:    adminService,
	})

	// --- Start HTTP Server ---
	go func() {
		log.Printf("Starting server on %s (store: %s, events: %s, notifier: %s)", cfg.AppPort, cfg.StoreDriver, cfg.EventBroker, cfg.Notifier)
		if err := app.Listen(cfg.AppPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}
	orderService.Wait()
	log.Println("Server gracefully stopped")
}
