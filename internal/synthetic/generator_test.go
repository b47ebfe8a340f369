package synthetic

import (
	"sync"
	"testing"

	"github.com/arjunmehta31/forkcast/internal/search"
)

func TestGenerateCountAndCompleteness(t *testing.T) {
	g := NewGenerator(1)
	for i := 0; i < 20; i++ {
		results := g.Generate(search.Request{Query: "dinner", OriginLat: 40.7, OriginLng: -74.0, CityHint: "Brooklyn"})
		if len(results) < 8 || len(results) > 12 {
			t.Fatalf("got %d results, want 8..12", len(results))
		}
		for _, r := range results {
			if r.Name == "" {
				t.Errorf("empty name in synthetic result")
			}
			if r.Cuisine == "" {
				t.Errorf("empty cuisine for %q", r.Name)
			}
			if r.Rating == nil {
				t.Errorf("nil rating for %q", r.Name)
			} else if *r.Rating < 3.5 || *r.Rating > 5.0 {
				t.Errorf("rating %.1f out of range for %q", *r.Rating, r.Name)
			}
			if r.ProviderID != "synthetic" {
				t.Errorf("provider id = %q, want synthetic", r.ProviderID)
			}
			if r.Proximity == "" {
				t.Errorf("missing proximity bucket for %q", r.Name)
			}
		}
	}
}

// A single Generator serves every request, including overlapping ones when
// all providers are down at once. Run under -race.
func TestGenerateConcurrent(t *testing.T) {
	g := NewGenerator(11)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				results := g.Generate(search.Request{Query: "dinner", CityHint: "Oslo"})
				if len(results) < 8 || len(results) > 12 {
					t.Errorf("got %d results, want 8..12", len(results))
					return
				}
			}
		}()
	}
	wg.Wait()
}

func TestGenerateSortedByDistance(t *testing.T) {
	g := NewGenerator(7)
	results := g.Generate(search.Request{Query: "lunch", CityHint: "Austin"})
	for i := 1; i < len(results); i++ {
		if results[i].DistanceMeters < results[i-1].DistanceMeters {
			t.Fatalf("results not sorted at index %d: %.0f < %.0f",
				i, results[i].DistanceMeters, results[i-1].DistanceMeters)
		}
	}
}

func TestGenerateQueryBias(t *testing.T) {
	g := NewGenerator(42)
	italian := 0
	for i := 0; i < 10; i++ {
		for _, r := range g.Generate(search.Request{Query: "pizza near me"}) {
			if r.Cuisine == "Italian" {
				italian++
			}
		}
	}
	if italian == 0 {
		t.Fatal("pizza query produced no Italian results across 10 runs")
	}
}

func TestGenerateUsesCityHint(t *testing.T) {
	g := NewGenerator(3)
	results := g.Generate(search.Request{Query: "dinner", CityHint: "Lisbon"})
	for _, r := range results {
		if r.Address == "" {
			t.Fatalf("empty address for %q", r.Name)
		}
	}
}
