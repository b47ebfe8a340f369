package main

import (
	"log"

	"github.com/joho/godotenv"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"

	appfx "github.com/arjunmehta31/forkcast/internal/fx"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	app := fx.New(
		appfx.ConfigModule,      // Provides: config.Config
		appfx.StoreModule,       // Provides: store.Store (optional)
		appfx.CacheModule,       // Provides: *cache.Memory
		appfx.ScraperModule,     // Provides: *scraper.Scraper
		appfx.AIModule,          // Provides: ai.Provider (optional)
		appfx.SearchModule,      // Provides: *search.Registry, *ratelimit.Limiter
		appfx.CoreModule,        // Provides: *enrich.Enricher, *core.Aggregator
		appfx.MaintenanceModule, // Provides: *maintenance.Worker
		appfx.ServerModule,      // Starts HTTP server and worker

		fx.WithLogger(func() fxevent.Logger {
			return &fxevent.ConsoleLogger{W: log.Writer()}
		}),
	)

	// Run blocks until the app receives a shutdown signal
	app.Run()
}
