package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/shopsense/backend/config"
	httpDelivery "github.com/shopsense/backend/internal/delivery/http"
	"github.com/shopsense/backend/internal/infrastructure/catalog"
	"github.com/shopsense/backend/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting ShopSense Backend v1.0.0")
	log.Printf("Environment: %s", cfg.Server.Environment)
	log.Printf("Port: %s", cfg.Server.Port)
	log.Printf("Catalog: %s", cfg.Catalog.Path)

	// Initialize infrastructure dependencies
	loader := catalog.NewLoader(cfg.Catalog.Path)

	// Build the recommendation engine: loads the catalog and builds the
	// similarity index once, before any query is served.
	engine, err := usecase.NewRecommendService(
		context.Background(),
		loader,
		usecase.RecommendServiceConfig{
			MaxResults:         cfg.Recommend.MaxResults,
			EnableDebugLogging: cfg.Matching.EnableDebugLogging,
		},
	)
	if err != nil {
		log.Fatalf("Failed to build recommendation engine: %v", err)
	}

	log.Printf("Engine ready: %d products, cap=%d, accessory display limit=%d",
		engine.CatalogSize(), cfg.Recommend.MaxResults, cfg.Recommend.AccessoryDisplayLimit)

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(engine, cfg.Recommend.AccessoryDisplayLimit)

	// Setup router
	router := httpDelivery.SetupRouter(cfg, handler)

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("Server listening on %s", addr)

	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func init() {
	// Set log flags for better debugging
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.SetOutput(os.Stdout)
}
