package core

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/arjunmehta31/forkcast/internal/cache"
	"github.com/arjunmehta31/forkcast/internal/config"
	"github.com/arjunmehta31/forkcast/internal/dedupe"
	"github.com/arjunmehta31/forkcast/internal/enrich"
	"github.com/arjunmehta31/forkcast/internal/geo"
	"github.com/arjunmehta31/forkcast/internal/normalize"
	"github.com/arjunmehta31/forkcast/internal/ratelimit"
	"github.com/arjunmehta31/forkcast/internal/search"
	"github.com/arjunmehta31/forkcast/internal/store"
	"github.com/arjunmehta31/forkcast/internal/synthetic"
)

// Result sources reported to callers
const (
	SourceCache     = "cache"
	SourceProviders = "providers"
	SourceLocal     = "local"
	SourceSynthetic = "synthetic"
)

// Response is the terminal search payload. Results are never empty: the
// pipeline falls back to stored records and then to synthetic ones, so
// callers see an empty state only for an invalid request.
type Response struct {
	Query   string          `json:"query"`
	Source  string          `json:"source"`
	Results []search.Ranked `json:"results"`
}

// Aggregator runs the full search pipeline: cache check, provider fan-out,
// normalization, dedup, detail fetches, enrichment, distance ranking and
// fallbacks.
type Aggregator struct {
	cfg       config.Config
	registry  *search.Registry
	limiter   *ratelimit.Limiter
	enricher  *enrich.Enricher
	results   cache.Cache
	store     store.Store
	generator *synthetic.Generator
}

// NewAggregator creates an aggregator. st may be nil when no database is
// configured; the local fallback tier is then skipped.
func NewAggregator(cfg config.Config, registry *search.Registry, limiter *ratelimit.Limiter, enricher *enrich.Enricher, results cache.Cache, st store.Store, generator *synthetic.Generator) *Aggregator {
	return &Aggregator{
		cfg:       cfg,
		registry:  registry,
		limiter:   limiter,
		enricher:  enricher,
		results:   results,
		store:     st,
		generator: generator,
	}
}

// Search runs one aggregated search. The only hard error is an invalid
// request or a cancelled context; provider failures degrade through the
// fallback tiers instead.
func (a *Aggregator) Search(ctx context.Context, req search.Request) (*Response, error) {
	if req.Query == "" {
		return nil, fmt.Errorf("query must not be empty")
	}
	if req.RadiusM <= 0 {
		req.RadiusM = a.cfg.DefaultRadiusMeters
	}
	origin := search.LatLng{Lat: req.OriginLat, Lng: req.OriginLng}

	cacheKey := cache.ResultKey(req.OriginLat, req.OriginLng, req.Query, a.cfg.CacheCoordPrecision)
	if cached := a.cachedResults(ctx, cacheKey); cached != nil {
		log.Printf("[Aggregator] Cache hit for %q (%d results)", req.Query, len(cached))
		return &Response{Query: req.Query, Source: SourceCache, Results: cached}, nil
	}

	candidates := a.fanOut(ctx, req)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	merged := dedupe.Merge(candidates)
	log.Printf("[Aggregator] %d candidates merged into %d for %q", len(candidates), len(merged), req.Query)

	if len(merged) == 0 {
		return a.fallback(ctx, req, origin)
	}

	ordered := geo.PreSort(origin, merged)
	a.fetchDetails(ctx, ordered)

	enriched := a.enricher.Enrich(ctx, ordered, a.cfg.EnrichTopK)
	ranked := geo.Rank(origin, enriched)
	for i := range ranked {
		if ranked[i].Hours == "" {
			ranked[i].Hours = normalize.HoursUnknown
		}
	}

	a.storeResults(ctx, cacheKey, ranked)
	return &Response{Query: req.Query, Source: SourceProviders, Results: ranked}, nil
}

type providerResult struct {
	providerID string
	candidates []search.Candidate
	err        error
}

// fanOut queries every registered provider concurrently and waits for all
// of them. Each call gets its own deadline; a slow or failing provider
// costs its own results only.
func (a *Aggregator) fanOut(ctx context.Context, req search.Request) []search.Candidate {
	providers := a.registry.GetAll()
	timeout := time.Duration(a.cfg.ProviderTimeoutMs) * time.Millisecond

	resultCh := make(chan providerResult, len(providers))
	var wg sync.WaitGroup
	launched := 0
	for _, p := range providers {
		if !a.limiter.TryAcquire(p.Name()) {
			log.Printf("[Aggregator] Rate limit reached for %s, skipping", p.Name())
			continue
		}
		launched++
		wg.Add(1)
		go func(p search.Provider) {
			defer wg.Done()
			callCtx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()
			candidates, err := p.Search(callCtx, req)
			resultCh <- providerResult{providerID: p.Name(), candidates: candidates, err: err}
		}(p)
	}
	wg.Wait()
	close(resultCh)

	var all []search.Candidate
	for r := range resultCh {
		if r.err != nil {
			log.Printf("[Aggregator] Provider %s failed: %v", r.providerID, r.err)
			continue
		}
		log.Printf("[Aggregator] Provider %s returned %d candidates", r.providerID, len(r.candidates))
		all = append(all, r.candidates...)
	}
	if launched == 0 {
		log.Printf("[Aggregator] No provider had quota for %q", req.Query)
	}
	return all
}

// fetchDetails runs the second provider pass for the nearest records. The
// pass is serial and rate limited like any other provider call; failures
// leave the record as merged.
func (a *Aggregator) fetchDetails(ctx context.Context, records []search.Merged) {
	timeout := time.Duration(a.cfg.ProviderTimeoutMs) * time.Millisecond
	byName := make(map[string]search.Provider)
	for _, p := range a.registry.GetAll() {
		byName[p.Name()] = p
	}

	fetched := 0
	for i := range records {
		if fetched >= a.cfg.DetailFetchLimit {
			break
		}
		if ctx.Err() != nil {
			return
		}
		r := &records[i]
		p, ok := byName[r.ProviderID]
		if !ok || r.ProviderRef == "" {
			continue
		}
		if !a.limiter.TryAcquire(r.ProviderID) {
			log.Printf("[Aggregator] Rate limit reached for %s, stopping detail fetches", r.ProviderID)
			continue
		}
		fetched++

		callCtx, cancel := context.WithTimeout(ctx, timeout)
		details, err := p.FetchDetails(callCtx, r.ProviderRef)
		cancel()
		if err != nil {
			log.Printf("[Aggregator] Detail fetch failed for %q via %s: %v", r.Name, r.ProviderID, err)
			continue
		}
		applyDetails(r, details)

		if len(r.Photos) == 0 {
			a.fetchMedia(ctx, p, r, timeout)
		}
	}
}

// fetchMedia pulls photos for a record that has none. Separate limiter
// gate; providers without a media endpoint are skipped silently.
func (a *Aggregator) fetchMedia(ctx context.Context, p search.Provider, r *search.Merged, timeout time.Duration) {
	if !a.limiter.TryAcquire(r.ProviderID) {
		return
	}
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	photos, err := p.FetchMedia(callCtx, r.ProviderRef)
	cancel()
	if err != nil {
		if !errors.Is(err, search.ErrNotSupported) {
			log.Printf("[Aggregator] Media fetch failed for %q via %s: %v", r.Name, r.ProviderID, err)
		}
		return
	}
	r.Photos = appendCapped(r.Photos, photos, dedupe.MaxPhotos)
}

// applyDetails fills gaps on a merged record from second-pass data. Detail
// data never overwrites fields the merge already settled.
func applyDetails(r *search.Merged, d *search.Details) {
	if d == nil {
		return
	}
	if r.Phone == "" {
		r.Phone = d.Phone
	}
	if r.Website == "" {
		r.Website = d.Website
	}
	if r.Hours == "" || r.Hours == normalize.HoursUnknown {
		if d.Hours != "" {
			r.Hours = d.Hours
		}
	}
	r.Photos = appendCapped(r.Photos, d.Photos, dedupe.MaxPhotos)
	r.ReviewSnippets = appendCapped(r.ReviewSnippets, d.ReviewSnippets, dedupe.MaxReviewSnippets)
}

func appendCapped(existing, incoming []string, max int) []string {
	seen := make(map[string]bool, len(existing))
	for _, v := range existing {
		seen[v] = true
	}
	for _, v := range incoming {
		if len(existing) >= max {
			break
		}
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		existing = append(existing, v)
	}
	return existing
}

// fallback serves the query from previously stored restaurants, then from
// the synthetic generator. Fallback results are never cached as search
// results; a later search should retry the providers.
func (a *Aggregator) fallback(ctx context.Context, req search.Request, origin search.LatLng) (*Response, error) {
	if a.store != nil {
		stored, err := a.store.FindByNameSubstring(ctx, req.Query, 20)
		if err != nil {
			log.Printf("[Aggregator] Local fallback lookup failed: %v", err)
		} else if len(stored) > 0 {
			log.Printf("[Aggregator] Serving %d stored records for %q", len(stored), req.Query)
			return &Response{Query: req.Query, Source: SourceLocal, Results: rerank(origin, stored)}, nil
		}
	}

	results := a.generator.Generate(req)
	return &Response{Query: req.Query, Source: SourceSynthetic, Results: results}, nil
}

// rerank recomputes distances against the current origin; stored records
// carry distances from the search that produced them
func rerank(origin search.LatLng, records []search.Ranked) []search.Ranked {
	enriched := make([]search.Enriched, len(records))
	for i, r := range records {
		enriched[i] = r.Enriched
	}
	return geo.Rank(origin, enriched)
}

func (a *Aggregator) cachedResults(ctx context.Context, key string) []search.Ranked {
	payload, ok, err := a.results.Get(ctx, key)
	if err != nil {
		log.Printf("[Aggregator] Result cache read failed: %v", err)
		return nil
	}
	if !ok {
		return nil
	}
	var results []search.Ranked
	if err := json.Unmarshal(payload, &results); err != nil {
		log.Printf("[Aggregator] Discarding undecodable cache entry %s: %v", key, err)
		return nil
	}
	if len(results) == 0 {
		return nil
	}
	return results
}

// storeResults writes the finished results to the result cache and seeds
// the local store. Both writes are best effort.
func (a *Aggregator) storeResults(ctx context.Context, key string, results []search.Ranked) {
	payload, err := json.Marshal(results)
	if err != nil {
		log.Printf("[Aggregator] Result marshal failed: %v", err)
		return
	}
	ttl := time.Duration(a.cfg.ResultCacheTTLDays) * 24 * time.Hour
	if err := a.results.Set(ctx, key, payload, ttl); err != nil {
		log.Printf("[Aggregator] Result cache write failed: %v", err)
	}
	if a.store != nil {
		if err := a.store.SaveRestaurants(ctx, results); err != nil {
			log.Printf("[Aggregator] Store seeding failed: %v", err)
		}
	}
}
