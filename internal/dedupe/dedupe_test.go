package dedupe

import (
	"testing"

	"github.com/arjunmehta31/forkcast/internal/search"
)

func f(v float64) *float64 { return &v }
func i(v int) *int         { return &v }

func candidate(provider, name string) search.Candidate {
	return search.Candidate{
		ProviderID:   provider,
		ProviderName: provider,
		Name:         name,
		Address:      "1 Test St",
	}
}

func TestMerge_ExactNameCollisionMerges(t *testing.T) {
	merged := Merge([]search.Candidate{
		candidate("serpapi", "Lombardi's"),
		candidate("yelp", "lombardi's"),
		candidate("wolt", "LOMBARDI'S"),
	})

	if len(merged) != 1 {
		t.Fatalf("expected 1 merged record, got %d", len(merged))
	}
	if len(merged[0].Sources) != 3 {
		t.Fatalf("expected 3 sources, got %v", merged[0].Sources)
	}
}

func TestMerge_ApostropheVariantsStayDistinct(t *testing.T) {
	a := candidate("serpapi", "Joe's Pizza")
	a.Rating = f(4.5)
	b := candidate("yelp", "Joes Pizza")
	b.Rating = f(4.6)

	merged := Merge([]search.Candidate{a, b})
	if len(merged) != 2 {
		t.Fatalf("exact-name baseline must keep apostrophe variants distinct, got %d records", len(merged))
	}
}

func TestMerge_ScalarProviderPriority(t *testing.T) {
	yelp := candidate("yelp", "Casa Enrique")
	yelp.Rating = f(4.2)
	yelp.Phone = "+1-718-555-0100"
	yelp.Cuisine = "Mexican"

	serp := candidate("serpapi", "Casa Enrique")
	serp.Rating = f(4.6)
	serp.Location = &search.LatLng{Lat: 40.74, Lng: -73.95}

	// Lower-priority provider arrives first; serpapi must still win scalars
	merged := Merge([]search.Candidate{yelp, serp})
	if len(merged) != 1 {
		t.Fatalf("expected 1 merged record, got %d", len(merged))
	}
	m := merged[0]
	if m.Rating == nil || *m.Rating != 4.6 {
		t.Errorf("rating should come from serpapi, got %v", m.Rating)
	}
	if m.Phone != "+1-718-555-0100" {
		t.Errorf("phone gap should be filled from yelp, got %q", m.Phone)
	}
	if m.Cuisine != "Mexican" {
		t.Errorf("cuisine should survive from yelp, got %q", m.Cuisine)
	}
	if m.Location == nil {
		t.Error("location from serpapi lost in merge")
	}
}

func TestMerge_ArrayUnionCaps(t *testing.T) {
	a := candidate("serpapi", "Katz's")
	for n := 0; n < 10; n++ {
		a.Photos = append(a.Photos, string(rune('a'+n)))
	}
	b := candidate("yelp", "Katz's")
	for n := 5; n < 15; n++ {
		b.Photos = append(b.Photos, string(rune('a'+n)))
	}
	b.ReviewSnippets = []string{"great", "good", "great", "fine", "ok", "meh", "nice"}

	merged := Merge([]search.Candidate{a, b})
	if len(merged) != 1 {
		t.Fatalf("expected 1 merged record, got %d", len(merged))
	}
	if len(merged[0].Photos) != MaxPhotos {
		t.Errorf("photos = %d, want cap %d", len(merged[0].Photos), MaxPhotos)
	}
	if len(merged[0].ReviewSnippets) != MaxReviewSnippets {
		t.Errorf("snippets = %d, want cap %d", len(merged[0].ReviewSnippets), MaxReviewSnippets)
	}
	// Union must not duplicate identical entries
	seen := map[string]bool{}
	for _, p := range merged[0].Photos {
		if seen[p] {
			t.Errorf("duplicate photo %q after union", p)
		}
		seen[p] = true
	}
}

func TestMerge_Idempotent(t *testing.T) {
	input := []search.Candidate{
		candidate("serpapi", "Joe's Pizza"),
		candidate("yelp", "Joe's Pizza"),
		candidate("wolt", "Shake Shack"),
		candidate("yelp", "Shake Shack"),
		candidate("serpapi", "Via Carota"),
	}

	once := Merge(input)

	// Re-feed the merged set as single-source candidates
	again := make([]search.Candidate, 0, len(once))
	for _, m := range once {
		again = append(again, m.Candidate)
	}
	twice := Merge(again)

	if len(twice) != len(once) {
		t.Fatalf("merge not idempotent: %d then %d records", len(once), len(twice))
	}
	for idx := range once {
		if twice[idx].Name != once[idx].Name {
			t.Errorf("record %d changed name: %q vs %q", idx, once[idx].Name, twice[idx].Name)
		}
	}
}

func TestMerge_NoSourceLoss(t *testing.T) {
	input := []search.Candidate{
		candidate("serpapi", "A"),
		candidate("yelp", "A"),
		candidate("yelp", "B"),
		candidate("wolt", "C"),
	}
	merged := Merge(input)

	counts := map[string]int{}
	for _, m := range merged {
		key := m.Name
		for _, s := range m.Sources {
			counts[key+"/"+s]++
		}
	}
	for _, want := range []string{"A/serpapi", "A/yelp", "B/yelp", "C/wolt"} {
		if counts[want] != 1 {
			t.Errorf("source %s appears %d times, want exactly 1", want, counts[want])
		}
	}
}

func TestMerge_SkipsEmptyNames(t *testing.T) {
	merged := Merge([]search.Candidate{candidate("yelp", "  "), candidate("yelp", "Real Place")})
	if len(merged) != 1 || merged[0].Name != "Real Place" {
		t.Fatalf("unexpected merge output: %+v", merged)
	}
}
