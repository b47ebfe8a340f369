package enrich

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/arjunmehta31/forkcast/internal/cache"
	"github.com/arjunmehta31/forkcast/internal/search"
)

type stubLLM struct {
	response string
	picks    string
	err      error
	calls    int
}

func (s *stubLLM) Name() string { return "stub" }

func (s *stubLLM) GenerateCompletion(ctx context.Context, prompt string) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	if strings.Contains(prompt, "JSON array") && s.picks != "" {
		return s.picks, nil
	}
	return s.response, nil
}

func merged(name, cuisine string, rating float64) search.Merged {
	var m search.Merged
	m.ProviderID = "yelp"
	m.ProviderRef = "ref-" + name
	m.Name = name
	m.Cuisine = cuisine
	m.Rating = &rating
	m.Sources = []string{"yelp"}
	return m
}

func TestValidVibeTag(t *testing.T) {
	tests := []struct {
		tag  string
		want bool
	}{
		{"romantic", true},
		{"Cozy", true},
		{"Family-friendly", true},
		{"x", false},
		{"an adjective far too long to be a tag", false},
		{"zzqx", false},
	}
	for _, tt := range tests {
		if got := ValidVibeTag(tt.tag); got != tt.want {
			t.Errorf("ValidVibeTag(%q) = %v, want %v", tt.tag, got, tt.want)
		}
	}
}

func TestValidTopPickRejectsPlaceholders(t *testing.T) {
	for _, dish := range []string{"Chef's Choice", "house special platter", "ask your server", ""} {
		if ValidTopPick(dish) {
			t.Errorf("ValidTopPick(%q) = true, want false", dish)
		}
	}
	if !ValidTopPick("Margherita Pizza") {
		t.Error("ValidTopPick rejected a real dish")
	}
}

func TestEnrichTopKOnly(t *testing.T) {
	e := NewEnricher(cache.NewMemory(), nil, nil, time.Hour)
	records := []search.Merged{
		merged("Alpha", "Italian", 4.6),
		merged("Beta", "Thai", 4.1),
		merged("Gamma", "Indian", 3.9),
	}
	out := e.Enrich(context.Background(), records, 2)
	if len(out) != 3 {
		t.Fatalf("got %d records, want 3", len(out))
	}
	for i := 0; i < 2; i++ {
		if out[i].Description == "" {
			t.Errorf("record %d missing description", i)
		}
		if n := len(out[i].VibeTags); n < 3 || n > 5 {
			t.Errorf("record %d has %d vibe tags, want 3..5", i, n)
		}
	}
	if out[2].Description != "" || len(out[2].VibeTags) != 0 {
		t.Error("record beyond top-K received generated content")
	}
}

func TestFallbackVibeTagMinimumAllCuisines(t *testing.T) {
	// Every canonical cuisine must reach at least three tags from its base
	// set alone, with no review snippets to help.
	cuisines := []string{
		"Italian", "Pizza", "Japanese", "Sushi", "Mexican", "Indian", "Thai",
		"French", "Chinese", "American", "BBQ", "Seafood", "Steakhouse",
		"Burgers", "Cafe", "Bakery", "Vegetarian", "Mediterranean", "Korean",
		"Vietnamese", "International", "Ethiopian",
	}
	for _, cuisine := range cuisines {
		tags := fallbackVibeTags(merged("Alpha", cuisine, 4.0))
		if n := len(tags); n < 3 || n > 5 {
			t.Errorf("%s: got %d vibe tags %v, want 3..5", cuisine, n, tags)
		}
	}
}

func TestEnrichUsesLLMAndCaches(t *testing.T) {
	llm := &stubLLM{
		response: "A beloved Italian spot with consistently warm reviews from regulars.",
		picks:    `["Spaghetti Carbonara", "Tiramisu"]`,
	}
	mem := cache.NewMemory()
	e := NewEnricher(mem, llm, nil, time.Hour)

	out := e.Enrich(context.Background(), []search.Merged{merged("Alpha", "Italian", 4.6)}, 1)
	if out[0].Description != llm.response {
		t.Fatalf("description = %q, want the generated text", out[0].Description)
	}
	firstCalls := llm.calls

	// Second pass must come from the content cache
	out = e.Enrich(context.Background(), []search.Merged{merged("Alpha", "Italian", 4.6)}, 1)
	if out[0].Description != llm.response {
		t.Fatalf("cached description = %q", out[0].Description)
	}
	if llm.calls != firstCalls {
		t.Errorf("LLM called again for cached content (%d -> %d)", firstCalls, llm.calls)
	}
}

func TestEnrichDegradesOnLLMFailure(t *testing.T) {
	llm := &stubLLM{err: errors.New("upstream 503")}
	e := NewEnricher(cache.NewMemory(), llm, nil, time.Hour)

	out := e.Enrich(context.Background(), []search.Merged{merged("Trattoria Alpha", "Italian", 4.6)}, 1)
	if out[0].Description == "" {
		t.Fatal("no fallback description after LLM failure")
	}
	if !strings.Contains(out[0].Description, "Italian") {
		t.Errorf("fallback description %q does not mention the cuisine", out[0].Description)
	}
	if len(out[0].TopPicks) == 0 {
		t.Error("no fallback top picks after LLM failure")
	}
}

func TestEnrichRejectsInvalidGeneratedDescription(t *testing.T) {
	llm := &stubLLM{response: "```json garbage```"}
	e := NewEnricher(cache.NewMemory(), llm, nil, time.Hour)

	out := e.Enrich(context.Background(), []search.Merged{merged("Alpha", "Thai", 4.0)}, 1)
	if strings.Contains(out[0].Description, "```") {
		t.Fatal("invalid generated description was attached")
	}
	if out[0].Description == "" {
		t.Fatal("rejection did not fall back to templated description")
	}
}

func TestParseTopPicks(t *testing.T) {
	raw := "```json\n[\"Pad Thai\", \"Chef's Choice\", \"Green Curry\"]\n```"
	picks := parseTopPicks(raw)
	if len(picks) != 2 {
		t.Fatalf("got %v, want the two real dishes", picks)
	}
	for _, p := range picks {
		if strings.Contains(strings.ToLower(p), "chef") {
			t.Errorf("placeholder %q survived validation", p)
		}
	}
}

func TestFallbackTopPicksNameHeuristic(t *testing.T) {
	m := merged("Tony's Pizza Palace", "Italian", 4.2)
	picks := fallbackTopPicks(m)
	found := false
	for _, p := range picks {
		if strings.Contains(strings.ToLower(p), "pizza") {
			found = true
		}
	}
	if !found {
		t.Errorf("picks %v ignore the pizza name hint", picks)
	}
}
