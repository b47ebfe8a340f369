package fx

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"go.uber.org/fx"

	"github.com/arjunmehta31/forkcast/internal/cache"
	"github.com/arjunmehta31/forkcast/internal/config"
	"github.com/arjunmehta31/forkcast/internal/core"
	"github.com/arjunmehta31/forkcast/internal/maintenance"
	"github.com/arjunmehta31/forkcast/internal/ratelimit"
	"github.com/arjunmehta31/forkcast/internal/search"
	"github.com/arjunmehta31/forkcast/internal/server"
	"github.com/arjunmehta31/forkcast/internal/store"
)

// ServerModule starts the HTTP server and the maintenance worker
var ServerModule = fx.Module("server",
	fx.Invoke(
		StartHTTPServer,
		StartMaintenanceWorker,
	),
)

// ServerParams groups dependencies for the HTTP server
type ServerParams struct {
	fx.In
	Lifecycle  fx.Lifecycle
	Aggregator *core.Aggregator
	Registry   *search.Registry
	Limiter    *ratelimit.Limiter
	Memory     *cache.Memory
	Store      store.Store `optional:"true"`
	Config     config.Config
}

// StartHTTPServer starts the REST server with lifecycle management
func StartHTTPServer(p ServerParams) {
	services := server.Services{
		Aggregator:  p.Aggregator,
		Registry:    p.Registry,
		Limiter:     p.Limiter,
		ResultCache: p.Memory,
		Store:       p.Store,
	}
	handler := server.CreateRecoveryHandler(
		server.CreateHTTPHandler(
			server.CreateRESTHandler(services, p.Config)))

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", p.Config.HTTPPort),
		Handler: handler,
	}

	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				log.Printf("[FX] HTTP Server listening on %s", srv.Addr)
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Printf("[FX] HTTP Server error: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Printf("[FX] Shutting down HTTP server...")
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

// WorkerStartParams for the maintenance worker
type WorkerStartParams struct {
	fx.In
	Lifecycle fx.Lifecycle
	Worker    *maintenance.Worker
	Store     store.Store `optional:"true"`
}

// StartMaintenanceWorker starts the housekeeping scheduler and closes the
// store on shutdown
func StartMaintenanceWorker(p WorkerStartParams) {
	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			p.Worker.Start()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			p.Worker.Stop()
			if p.Store != nil {
				p.Store.Close()
			}
			return nil
		},
	})
}
