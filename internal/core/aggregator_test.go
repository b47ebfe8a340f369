package core

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/arjunmehta31/forkcast/internal/cache"
	"github.com/arjunmehta31/forkcast/internal/config"
	"github.com/arjunmehta31/forkcast/internal/enrich"
	"github.com/arjunmehta31/forkcast/internal/ratelimit"
	"github.com/arjunmehta31/forkcast/internal/search"
	"github.com/arjunmehta31/forkcast/internal/store"
	"github.com/arjunmehta31/forkcast/internal/synthetic"
)

type stubProvider struct {
	name       string
	candidates []search.Candidate
	err        error
	delay      time.Duration
	calls      int
}

func (p *stubProvider) Name() string { return p.name }

func (p *stubProvider) Search(ctx context.Context, req search.Request) ([]search.Candidate, error) {
	p.calls++
	if p.delay > 0 {
		select {
		case <-time.After(p.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if p.err != nil {
		return nil, p.err
	}
	return p.candidates, nil
}

func (p *stubProvider) FetchDetails(ctx context.Context, ref string) (*search.Details, error) {
	return nil, search.ErrNotSupported
}

func (p *stubProvider) FetchMedia(ctx context.Context, ref string) ([]string, error) {
	return nil, search.ErrNotSupported
}

type stubStore struct {
	records []search.Ranked
	saved   []search.Ranked
}

func (s *stubStore) SaveRestaurants(ctx context.Context, records []search.Ranked) error {
	s.saved = append(s.saved, records...)
	return nil
}

func (s *stubStore) FindByNameSubstring(ctx context.Context, fragment string, limit int) ([]search.Ranked, error) {
	return s.records, nil
}

func (s *stubStore) CacheGet(ctx context.Context, key string) ([]byte, bool, error) {
	return nil, false, nil
}

func (s *stubStore) CacheSet(ctx context.Context, key string, payload []byte, ttlSeconds int64) error {
	return nil
}

func (s *stubStore) PurgeExpired(ctx context.Context) (int64, error) { return 0, nil }

func (s *stubStore) Close() {}

func candidate(providerID, name string, lat, lng float64) search.Candidate {
	rating := 4.2
	return search.Candidate{
		ProviderID:   providerID,
		ProviderName: providerID,
		ProviderRef:  "ref-" + name,
		Name:         name,
		Cuisine:      "Italian",
		Rating:       &rating,
		Address:      "1 Main St",
		Location:     &search.LatLng{Lat: lat, Lng: lng},
	}
}

func testConfig() config.Config {
	return config.Config{
		ProviderTimeoutMs:   5000,
		EnrichTopK:          15,
		DetailFetchLimit:    8,
		ContentCacheTTLDays: 90,
		ResultCacheTTLDays:  90,
		CacheCoordPrecision: 3,
		DefaultRadiusMeters: 5000,
	}
}

func newTestAggregator(t *testing.T, st *stubStore, providers ...search.Provider) *Aggregator {
	t.Helper()
	registry := search.NewRegistry()
	for _, p := range providers {
		registry.Register(p)
	}
	limiter := ratelimit.NewLimiter(map[string]config.ProviderLimits{})
	enricher := enrich.NewEnricher(cache.NewMemory(), nil, nil, time.Hour)
	var storeArg store.Store
	if st != nil {
		storeArg = st
	}
	return NewAggregator(testConfig(), registry, limiter, enricher, cache.NewMemory(), storeArg, synthetic.NewGenerator(1))
}

func TestSearchEmptyQuery(t *testing.T) {
	a := newTestAggregator(t, nil)
	if _, err := a.Search(context.Background(), search.Request{}); err == nil {
		t.Fatal("expected error for empty query")
	}
}

func TestSearchAggregatesAndMerges(t *testing.T) {
	p1 := &stubProvider{name: "serpapi", candidates: []search.Candidate{
		candidate("serpapi", "Trattoria Roma", 40.71, -74.00),
		candidate("serpapi", "Sushi Zen", 40.75, -74.01),
	}}
	p2 := &stubProvider{name: "yelp", candidates: []search.Candidate{
		candidate("yelp", "Trattoria Roma", 40.71, -74.00),
	}}
	a := newTestAggregator(t, nil, p1, p2)

	resp, err := a.Search(context.Background(), search.Request{Query: "italian", OriginLat: 40.71, OriginLng: -74.00})
	if err != nil {
		t.Fatal(err)
	}
	if resp.Source != SourceProviders {
		t.Fatalf("source = %q, want providers", resp.Source)
	}
	if len(resp.Results) != 2 {
		t.Fatalf("got %d results, want 2 after merge", len(resp.Results))
	}
	var roma *search.Ranked
	for i := range resp.Results {
		if resp.Results[i].Name == "Trattoria Roma" {
			roma = &resp.Results[i]
		}
	}
	if roma == nil {
		t.Fatal("merged record missing")
	}
	if len(roma.Sources) != 2 {
		t.Errorf("sources = %v, want both providers", roma.Sources)
	}
	if roma.Hours != "Hours vary" {
		t.Errorf("hours = %q, want the fallback text", roma.Hours)
	}
}

func TestSearchResultsSortedByDistance(t *testing.T) {
	p := &stubProvider{name: "serpapi", candidates: []search.Candidate{
		candidate("serpapi", "Far", 40.80, -74.00),
		candidate("serpapi", "Near", 40.711, -74.00),
	}}
	a := newTestAggregator(t, nil, p)

	resp, err := a.Search(context.Background(), search.Request{Query: "pizza", OriginLat: 40.71, OriginLng: -74.00})
	if err != nil {
		t.Fatal(err)
	}
	if resp.Results[0].Name != "Near" {
		t.Fatalf("nearest first, got %q", resp.Results[0].Name)
	}
	if resp.Results[0].Proximity != search.ProximityVeryClose {
		t.Errorf("near proximity = %q", resp.Results[0].Proximity)
	}
}

func TestSearchCachesResults(t *testing.T) {
	p := &stubProvider{name: "serpapi", candidates: []search.Candidate{
		candidate("serpapi", "Trattoria Roma", 40.71, -74.00),
	}}
	a := newTestAggregator(t, nil, p)
	req := search.Request{Query: "italian", OriginLat: 40.71, OriginLng: -74.00}

	if _, err := a.Search(context.Background(), req); err != nil {
		t.Fatal(err)
	}
	resp, err := a.Search(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.Source != SourceCache {
		t.Fatalf("second search source = %q, want cache", resp.Source)
	}
	if p.calls != 1 {
		t.Errorf("provider called %d times, want 1", p.calls)
	}
}

func TestSearchFallsBackToLocalStore(t *testing.T) {
	st := &stubStore{}
	var stored search.Ranked
	stored.Name = "Saved Bistro"
	stored.Cuisine = "French"
	stored.Location = &search.LatLng{Lat: 40.72, Lng: -74.00}
	st.records = []search.Ranked{stored}

	p := &stubProvider{name: "serpapi", err: errors.New("upstream down")}
	a := newTestAggregator(t, st, p)

	resp, err := a.Search(context.Background(), search.Request{Query: "bistro", OriginLat: 40.71, OriginLng: -74.00})
	if err != nil {
		t.Fatal(err)
	}
	if resp.Source != SourceLocal {
		t.Fatalf("source = %q, want local", resp.Source)
	}
	if len(resp.Results) != 1 || resp.Results[0].Name != "Saved Bistro" {
		t.Fatalf("unexpected results %+v", resp.Results)
	}
	if resp.Results[0].DistanceMeters == 0 {
		t.Error("stored record distance not recomputed against the new origin")
	}
}

func TestSearchFallsBackToSynthetic(t *testing.T) {
	p := &stubProvider{name: "serpapi", err: errors.New("upstream down")}
	a := newTestAggregator(t, nil, p)

	resp, err := a.Search(context.Background(), search.Request{Query: "ramen", OriginLat: 40.71, OriginLng: -74.00})
	if err != nil {
		t.Fatal(err)
	}
	if resp.Source != SourceSynthetic {
		t.Fatalf("source = %q, want synthetic", resp.Source)
	}
	if len(resp.Results) < 8 || len(resp.Results) > 12 {
		t.Fatalf("got %d synthetic results, want 8..12", len(resp.Results))
	}
	for _, r := range resp.Results {
		if r.Name == "" || r.Cuisine == "" || r.Rating == nil {
			t.Fatalf("incomplete synthetic record %+v", r)
		}
	}
}

func TestSearchCancelledContext(t *testing.T) {
	p := &stubProvider{name: "serpapi", delay: 50 * time.Millisecond, candidates: []search.Candidate{
		candidate("serpapi", "Slow Diner", 40.71, -74.00),
	}}
	a := newTestAggregator(t, nil, p)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := a.Search(ctx, search.Request{Query: "diner"}); err == nil {
		t.Fatal("expected context error")
	}
}

func TestSearchRateLimitedProviderSkipped(t *testing.T) {
	registry := search.NewRegistry()
	p := &stubProvider{name: "serpapi", candidates: []search.Candidate{
		candidate("serpapi", "Trattoria Roma", 40.71, -74.00),
	}}
	registry.Register(p)
	limiter := ratelimit.NewLimiter(map[string]config.ProviderLimits{
		"serpapi": {PerMinute: 1, PerHour: 1, PerDay: 1},
	})
	if !limiter.TryAcquire("serpapi") {
		t.Fatal("first acquire should pass")
	}
	enricher := enrich.NewEnricher(cache.NewMemory(), nil, nil, time.Hour)
	a := NewAggregator(testConfig(), registry, limiter, enricher, cache.NewMemory(), nil, synthetic.NewGenerator(1))

	resp, err := a.Search(context.Background(), search.Request{Query: "italian", OriginLat: 40.71, OriginLng: -74.00})
	if err != nil {
		t.Fatal(err)
	}
	if p.calls != 0 {
		t.Errorf("rate limited provider was called %d times", p.calls)
	}
	if resp.Source != SourceSynthetic {
		t.Errorf("source = %q, want synthetic when no provider has quota", resp.Source)
	}
}
