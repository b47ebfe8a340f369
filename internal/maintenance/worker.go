package maintenance

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/arjunmehta31/forkcast/internal/cache"
	"github.com/arjunmehta31/forkcast/internal/config"
	"github.com/arjunmehta31/forkcast/internal/core"
	"github.com/arjunmehta31/forkcast/internal/ratelimit"
	"github.com/arjunmehta31/forkcast/internal/search"
	"github.com/arjunmehta31/forkcast/internal/store"
)

// Worker runs the scheduled housekeeping jobs: nightly cache purge, an
// optional warm-up pass over configured queries, and an hourly quota log.
type Worker struct {
	cfg        config.Config
	aggregator *core.Aggregator
	limiter    *ratelimit.Limiter
	memory     *cache.Memory
	store      store.Store
	cron       *cron.Cron
}

// NewWorker creates a maintenance worker. memory and st may be nil; the
// purge job then skips the missing backend.
func NewWorker(cfg config.Config, aggregator *core.Aggregator, limiter *ratelimit.Limiter, memory *cache.Memory, st store.Store) *Worker {
	return &Worker{
		cfg:        cfg,
		aggregator: aggregator,
		limiter:    limiter,
		memory:     memory,
		store:      st,
		cron:       cron.New(),
	}
}

// Start schedules the jobs: purge at 3 AM, warm-up right after, quota
// snapshot every hour
func (w *Worker) Start() {
	log.Println("[Maintenance] Starting schedulers...")

	if _, err := w.cron.AddFunc("0 3 * * *", func() {
		go w.RunPurge(context.Background())
	}); err != nil {
		log.Printf("[Maintenance] Failed to schedule purge job: %v", err)
	}

	if len(w.cfg.WarmupQueries) > 0 {
		if _, err := w.cron.AddFunc("10 3 * * *", func() {
			go w.RunWarmup(context.Background())
		}); err != nil {
			log.Printf("[Maintenance] Failed to schedule warm-up job: %v", err)
		}
	}

	if _, err := w.cron.AddFunc("0 * * * *", w.logQuotas); err != nil {
		log.Printf("[Maintenance] Failed to schedule quota log: %v", err)
	}

	w.cron.Start()
	log.Println("[Maintenance] Scheduled nightly purge at 3:00 AM")
}

// Stop stops the scheduler
func (w *Worker) Stop() {
	w.cron.Stop()
	log.Println("[Maintenance] Stopped")
}

// RunPurge removes expired entries from every configured cache backend
func (w *Worker) RunPurge(ctx context.Context) {
	log.Println("[Maintenance] Running cache purge...")
	if w.memory != nil {
		n, err := w.memory.Purge(ctx)
		if err != nil {
			log.Printf("[Maintenance] Memory purge failed: %v", err)
		} else {
			log.Printf("[Maintenance] Purged %d expired memory entries", n)
		}
	}
	if w.store != nil {
		if _, err := w.store.PurgeExpired(ctx); err != nil {
			log.Printf("[Maintenance] Database purge failed: %v", err)
		}
	}
}

// RunWarmup re-runs the configured queries so the result cache is fresh
// before the morning traffic. Runs serially; each search respects the
// provider rate limits like any user search.
func (w *Worker) RunWarmup(ctx context.Context) {
	log.Printf("[Maintenance] Warming up %d queries...", len(w.cfg.WarmupQueries))
	for _, query := range w.cfg.WarmupQueries {
		jobCtx, cancel := context.WithTimeout(ctx, time.Minute)
		resp, err := w.aggregator.Search(jobCtx, search.Request{
			Query:     query,
			OriginLat: w.cfg.WarmupLat,
			OriginLng: w.cfg.WarmupLng,
		})
		cancel()
		if err != nil {
			log.Printf("[Maintenance] Warm-up failed for %q: %v", query, err)
			continue
		}
		log.Printf("[Maintenance] Warm-up %q: %d results from %s", query, len(resp.Results), resp.Source)
	}
}

func (w *Worker) logQuotas() {
	for _, s := range w.limiter.Snapshots() {
		log.Printf("[Maintenance] Quota %s: %d/min %d/hour %d/day (limits %d/%d/%d)",
			s.Provider, s.CountMinute, s.CountHour, s.CountDay, s.PerMinute, s.PerHour, s.PerDay)
	}
}
