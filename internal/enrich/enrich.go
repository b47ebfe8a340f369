package enrich

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/arjunmehta31/forkcast/internal/ai"
	"github.com/arjunmehta31/forkcast/internal/cache"
	"github.com/arjunmehta31/forkcast/internal/search"
	"github.com/arjunmehta31/forkcast/prompts"
)

const (
	contentDescription = "description"
	contentVibeTags    = "vibe_tags"
	contentTopPicks    = "top_picks"

	maxTopPicks = 8
)

// MenuFetcher pulls menu text from a restaurant website. Optional; the
// top-picks prompt works without it.
type MenuFetcher interface {
	FetchMenuText(ctx context.Context, url string) (string, error)
}

// Enricher attaches generated descriptive content to merged records.
// Generation runs through the configured LLM chain when available and
// degrades to templated content otherwise; every generated field passes a
// validator before attachment. Enrich never fails the search.
type Enricher struct {
	cache cache.Cache
	llm   ai.Provider
	menus MenuFetcher
	ttl   time.Duration
}

// NewEnricher builds an enricher. llm and menus may be nil; the enricher
// then runs on templated content alone.
func NewEnricher(c cache.Cache, llm ai.Provider, menus MenuFetcher, contentTTL time.Duration) *Enricher {
	return &Enricher{cache: c, llm: llm, menus: menus, ttl: contentTTL}
}

// Enrich returns one enriched record per input. The first topK records get
// descriptive content; the rest pass through untouched so callers still
// see them in results.
func (e *Enricher) Enrich(ctx context.Context, records []search.Merged, topK int) []search.Enriched {
	out := make([]search.Enriched, 0, len(records))
	for i, r := range records {
		enriched := search.Enriched{Merged: r}
		if i < topK {
			id := contentID(r)
			enriched.Description = e.description(ctx, id, r)
			enriched.VibeTags = e.vibeTags(ctx, id, r)
			enriched.TopPicks = e.topPicks(ctx, id, r)
		}
		out = append(out, enriched)
	}
	return out
}

// contentID is the stable cache identity for one restaurant. Provider
// references survive re-searches; the name key is the fallback for merged
// records without one.
func contentID(r search.Merged) string {
	if r.ProviderID != "" && r.ProviderRef != "" {
		return r.ProviderID + ":" + r.ProviderRef
	}
	return "name:" + strings.ToLower(strings.TrimSpace(r.Name))
}

func (e *Enricher) description(ctx context.Context, id string, r search.Merged) string {
	key := cache.ContentKey(id, contentDescription)
	if payload, ok := e.cacheGet(ctx, key); ok {
		return string(payload)
	}

	if e.llm != nil {
		reviews := "(none)"
		if len(r.ReviewSnippets) > 0 {
			reviews = strings.Join(r.ReviewSnippets, "\n")
		}
		prompt := fmt.Sprintf(prompts.Description, r.Name, r.Cuisine, reviews)
		raw, err := e.llm.GenerateCompletion(ctx, prompt)
		if err != nil {
			log.Printf("[Enrich] Description generation failed for %q: %v", r.Name, err)
		} else if desc := strings.TrimSpace(raw); ValidDescription(desc) {
			e.cachePut(ctx, key, []byte(desc))
			return desc
		} else {
			log.Printf("[Enrich] Rejected generated description for %q", r.Name)
		}
	}
	return fallbackDescription(r)
}

func (e *Enricher) vibeTags(ctx context.Context, id string, r search.Merged) []string {
	key := cache.ContentKey(id, contentVibeTags)
	if payload, ok := e.cacheGet(ctx, key); ok {
		var tags []string
		if err := json.Unmarshal(payload, &tags); err == nil && len(tags) > 0 {
			return tags
		}
	}

	tags := fallbackVibeTags(r)
	if payload, err := json.Marshal(tags); err == nil {
		e.cachePut(ctx, key, payload)
	}
	return tags
}

func (e *Enricher) topPicks(ctx context.Context, id string, r search.Merged) []string {
	key := cache.ContentKey(id, contentTopPicks)
	if payload, ok := e.cacheGet(ctx, key); ok {
		var picks []string
		if err := json.Unmarshal(payload, &picks); err == nil && len(picks) > 0 {
			return picks
		}
	}

	if e.llm != nil {
		menuText := "(none)"
		if e.menus != nil && r.Website != "" {
			if text, err := e.menus.FetchMenuText(ctx, r.Website); err == nil && text != "" {
				menuText = text
			}
		}
		prompt := fmt.Sprintf(prompts.TopPicks, r.Name, r.Cuisine, menuText)
		raw, err := e.llm.GenerateCompletion(ctx, prompt)
		if err != nil {
			log.Printf("[Enrich] Top picks generation failed for %q: %v", r.Name, err)
		} else if picks := parseTopPicks(raw); len(picks) > 0 {
			if payload, err := json.Marshal(picks); err == nil {
				e.cachePut(ctx, key, payload)
			}
			return picks
		}
	}
	return fallbackTopPicks(r)
}

// parseTopPicks decodes the model's JSON array and keeps only names that
// pass the placeholder validator, capped at maxTopPicks
func parseTopPicks(raw string) []string {
	var dishes []string
	if err := json.Unmarshal([]byte(ai.CleanJSON(raw)), &dishes); err != nil {
		return nil
	}
	var picks []string
	for _, d := range dishes {
		if !ValidTopPick(d) {
			continue
		}
		picks = append(picks, strings.TrimSpace(d))
		if len(picks) == maxTopPicks {
			break
		}
	}
	return picks
}

func (e *Enricher) cacheGet(ctx context.Context, key string) ([]byte, bool) {
	if e.cache == nil {
		return nil, false
	}
	payload, ok, err := e.cache.Get(ctx, key)
	if err != nil {
		log.Printf("[Enrich] Cache read failed for %s: %v", key, err)
		return nil, false
	}
	return payload, ok
}

func (e *Enricher) cachePut(ctx context.Context, key string, payload []byte) {
	if e.cache == nil {
		return
	}
	if err := e.cache.Set(ctx, key, payload, e.ttl); err != nil {
		log.Printf("[Enrich] Cache write failed for %s: %v", key, err)
	}
}
