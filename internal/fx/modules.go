package fx

import (
	"context"
	"log"
	"time"

	"go.uber.org/fx"

	"github.com/arjunmehta31/forkcast/internal/ai"
	"github.com/arjunmehta31/forkcast/internal/ai/models"
	"github.com/arjunmehta31/forkcast/internal/cache"
	"github.com/arjunmehta31/forkcast/internal/config"
	"github.com/arjunmehta31/forkcast/internal/core"
	"github.com/arjunmehta31/forkcast/internal/enrich"
	"github.com/arjunmehta31/forkcast/internal/maintenance"
	"github.com/arjunmehta31/forkcast/internal/ratelimit"
	"github.com/arjunmehta31/forkcast/internal/scraper"
	"github.com/arjunmehta31/forkcast/internal/search"
	"github.com/arjunmehta31/forkcast/internal/serpapi"
	"github.com/arjunmehta31/forkcast/internal/store"
	"github.com/arjunmehta31/forkcast/internal/synthetic"
	"github.com/arjunmehta31/forkcast/internal/wolt"
	"github.com/arjunmehta31/forkcast/internal/yelp"
)

// ============================================================================
// FX MODULES - Group related providers together (like Spring @Configuration)
// ============================================================================

// ConfigModule provides application configuration
var ConfigModule = fx.Module("config",
	fx.Provide(config.Load),
)

// StoreModule provides database connectivity (optional)
var StoreModule = fx.Module("store",
	fx.Provide(NewStore),
)

// CacheModule provides the in-process result and content caches
var CacheModule = fx.Module("cache",
	fx.Provide(NewMemoryCache),
)

// ScraperModule provides web scraping capabilities
var ScraperModule = fx.Module("scraper",
	fx.Provide(scraper.NewScraper),
)

// AIModule provides the LLM provider chain for enrichment
var AIModule = fx.Module("ai",
	fx.Provide(NewEnrichmentAIProvider),
)

// SearchModule provides the registry with all restaurant providers plus
// the rate limiter that gates them
var SearchModule = fx.Module("search",
	fx.Provide(
		NewSearchRegistry,
		NewRateLimiter,
	),
)

// CoreModule provides the enrichment and aggregation pipeline
var CoreModule = fx.Module("core",
	fx.Provide(
		NewEnricher,
		NewAggregator,
	),
)

// MaintenanceModule provides the scheduled housekeeping worker
var MaintenanceModule = fx.Module("maintenance",
	fx.Provide(NewMaintenanceWorker),
)

// ============================================================================
// PROVIDER FUNCTIONS - Constructors that FX will call automatically
// ============================================================================

// NewStore creates the database connection (optional - returns nil store
// when no DATABASE_URL is reachable, the app then runs without the local
// fallback tier)
func NewStore(cfg config.Config) store.Store {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	st, err := store.NewPostgresStore(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Printf("[FX] PostgresStore disabled: %v", err)
		return nil
	}
	log.Printf("[FX] PostgresStore initialized")
	return st
}

// NewMemoryCache creates the in-process cache shared by results and
// generated content
func NewMemoryCache() *cache.Memory {
	m := cache.NewMemory()
	log.Printf("[FX] Memory cache initialized")
	return m
}

// NewEnrichmentAIProvider creates the LLM chain for content generation
// (optional - the enricher falls back to templated content without it)
func NewEnrichmentAIProvider(cfg config.Config) ai.Provider {
	if cfg.GroqAPIKey != "" {
		groq := ai.NewLLMProvider("groq", cfg.GroqAPIKey, models.TaskEnrichmentModel)
		if cfg.CerebrasAPIKey != "" {
			cerebras := ai.NewLLMProvider("cerebras", cfg.CerebrasAPIKey, models.ModelCerebrasLlama3_1_8b)
			log.Printf("[FX] EnrichmentAIProvider initialized (MultiProvider: Groq + Cerebras)")
			return ai.NewMultiProvider(groq, cerebras)
		}
		log.Printf("[FX] EnrichmentAIProvider initialized (Groq)")
		return groq
	}
	if cfg.CerebrasAPIKey != "" {
		log.Printf("[FX] EnrichmentAIProvider initialized (Cerebras)")
		return ai.NewLLMProvider("cerebras", cfg.CerebrasAPIKey, models.ModelCerebrasLlama3_1_8b)
	}
	log.Printf("[FX] EnrichmentAIProvider disabled (no GROQ_API_KEY or CEREBRAS_API_KEY)")
	return nil
}

// NewSearchRegistry creates the registry with all configured providers
func NewSearchRegistry(cfg config.Config) *search.Registry {
	registry := search.NewRegistry()

	if cfg.SerpAPIKey != "" {
		registry.Register(serpapi.NewClient(cfg.SerpAPIKey))
		log.Printf("[FX] SearchRegistry: SerpApi registered")
	}
	if cfg.YelpAPIKey != "" {
		registry.Register(yelp.NewClient(cfg.YelpAPIKey))
		log.Printf("[FX] SearchRegistry: Yelp registered")
	}
	if cfg.WoltEnabled {
		registry.Register(wolt.NewClient())
		log.Printf("[FX] SearchRegistry: Wolt registered")
	}

	log.Printf("[FX] SearchRegistry initialized with %d providers", registry.Count())
	return registry
}

// NewRateLimiter creates the provider rate limiter from the configured
// ceilings
func NewRateLimiter(cfg config.Config) *ratelimit.Limiter {
	limiter := ratelimit.NewLimiter(map[string]config.ProviderLimits{
		"serpapi": cfg.SerpAPILimits,
		"yelp":    cfg.YelpLimits,
		"wolt":    cfg.WoltLimits,
	})
	log.Printf("[FX] RateLimiter initialized")
	return limiter
}

// EnricherParams groups dependencies for the enricher
type EnricherParams struct {
	fx.In
	Config  config.Config
	Memory  *cache.Memory
	LLM     ai.Provider `optional:"true"`
	Scraper *scraper.Scraper
	Store   store.Store `optional:"true"`
}

// NewEnricher creates the content enricher. Generated content goes to the
// database cache when available, the memory cache otherwise.
func NewEnricher(p EnricherParams) *enrich.Enricher {
	var contentCache cache.Cache = p.Memory
	if p.Store != nil {
		contentCache = store.NewCache(p.Store)
	}
	ttl := time.Duration(p.Config.ContentCacheTTLDays) * 24 * time.Hour
	e := enrich.NewEnricher(contentCache, p.LLM, p.Scraper, ttl)
	log.Printf("[FX] Enricher initialized (content TTL: %d days)", p.Config.ContentCacheTTLDays)
	return e
}

// AggregatorParams groups dependencies for the aggregator
type AggregatorParams struct {
	fx.In
	Config   config.Config
	Registry *search.Registry
	Limiter  *ratelimit.Limiter
	Enricher *enrich.Enricher
	Memory   *cache.Memory
	Store    store.Store `optional:"true"`
}

// NewAggregator creates the search pipeline
func NewAggregator(p AggregatorParams) *core.Aggregator {
	generator := synthetic.NewGenerator(time.Now().UnixNano())
	a := core.NewAggregator(p.Config, p.Registry, p.Limiter, p.Enricher, p.Memory, p.Store, generator)
	log.Printf("[FX] Aggregator initialized")
	return a
}

// MaintenanceParams groups dependencies for the maintenance worker
type MaintenanceParams struct {
	fx.In
	Config     config.Config
	Aggregator *core.Aggregator
	Limiter    *ratelimit.Limiter
	Memory     *cache.Memory
	Store      store.Store `optional:"true"`
}

// NewMaintenanceWorker creates the housekeeping worker
func NewMaintenanceWorker(p MaintenanceParams) *maintenance.Worker {
	w := maintenance.NewWorker(p.Config, p.Aggregator, p.Limiter, p.Memory, p.Store)
	log.Printf("[FX] MaintenanceWorker initialized")
	return w
}
