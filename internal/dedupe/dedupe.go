package dedupe

import (
	"github.com/arjunmehta31/forkcast/internal/normalize"
	"github.com/arjunmehta31/forkcast/internal/search"
)

const (
	// Payload caps for unioned array fields
	MaxPhotos         = 12
	MaxReviewSnippets = 5
)

// providerPriority resolves scalar field conflicts on merge. Lower is
// better: the primary place-search source wins over the review aggregator,
// which wins over the delivery directory.
var providerPriority = map[string]int{
	"serpapi": 0,
	"yelp":    1,
	"wolt":    2,
}

func priority(providerID string) int {
	if p, ok := providerPriority[providerID]; ok {
		return p
	}
	return len(providerPriority)
}

// Merge combines candidates that denote the same physical restaurant.
// The merge key is exact lowercase-trimmed name equality, so "Joe's Pizza"
// and "Joes Pizza" stay distinct. Output order follows first appearance
// of each name in the input, so merging is deterministic and idempotent.
func Merge(candidates []search.Candidate) []search.Merged {
	byName := make(map[string]*search.Merged)
	var order []string

	for _, c := range candidates {
		key := normalize.Name(c.Name)
		if key == "" {
			continue
		}

		existing, ok := byName[key]
		if !ok {
			m := search.Merged{
				Candidate:       c,
				Sources:         []string{c.ProviderID},
				MergeConfidence: 0.5,
			}
			m.Photos = capUnion(nil, c.Photos, MaxPhotos)
			m.ReviewSnippets = capUnion(nil, c.ReviewSnippets, MaxReviewSnippets)
			byName[key] = &m
			order = append(order, key)
			continue
		}

		mergeInto(existing, c)
	}

	out := make([]search.Merged, 0, len(order))
	for _, key := range order {
		out = append(out, *byName[key])
	}
	return out
}

// mergeInto folds one more candidate into an existing merged record.
// Scalars are resolved by provider priority, arrays unioned under caps.
func mergeInto(m *search.Merged, c search.Candidate) {
	incoming := priority(c.ProviderID)
	current := priority(m.ProviderID)

	if incoming < current {
		// Higher-priority provider takes over the scalar fields, but never
		// blanks out data the lower-priority source already supplied
		m.ProviderID = c.ProviderID
		m.ProviderName = c.ProviderName
		m.ProviderRef = c.ProviderRef
		m.Name = c.Name
		if c.Cuisine != "" && c.Cuisine != normalize.CuisineInternational {
			m.Cuisine = c.Cuisine
		}
		if c.Rating != nil {
			m.Rating = c.Rating
		}
		if c.PriceLevel != nil {
			m.PriceLevel = c.PriceLevel
		}
		if c.Address != "" {
			m.Address = c.Address
		}
		if c.Phone != "" {
			m.Phone = c.Phone
		}
		if c.Website != "" {
			m.Website = c.Website
		}
		if c.Hours != "" && c.Hours != normalize.HoursUnknown {
			m.Hours = c.Hours
		}
		if c.Location != nil {
			m.Location = c.Location
		}
	} else {
		// Lower-priority source only fills gaps
		if m.Cuisine == "" || m.Cuisine == normalize.CuisineInternational {
			if c.Cuisine != "" {
				m.Cuisine = c.Cuisine
			}
		}
		if m.Rating == nil {
			m.Rating = c.Rating
		}
		if m.PriceLevel == nil {
			m.PriceLevel = c.PriceLevel
		}
		if m.Address == "" {
			m.Address = c.Address
		}
		if m.Phone == "" {
			m.Phone = c.Phone
		}
		if m.Website == "" {
			m.Website = c.Website
		}
		if m.Hours == "" || m.Hours == normalize.HoursUnknown {
			if c.Hours != "" {
				m.Hours = c.Hours
			}
		}
		if m.Location == nil {
			m.Location = c.Location
		}
	}

	m.Photos = capUnion(m.Photos, c.Photos, MaxPhotos)
	m.ReviewSnippets = capUnion(m.ReviewSnippets, c.ReviewSnippets, MaxReviewSnippets)

	if !containsStr(m.Sources, c.ProviderID) {
		m.Sources = append(m.Sources, c.ProviderID)
	}
	m.MergeConfidence = confidence(m)
}

// confidence grows with each corroborating source, capped below certainty.
func confidence(m *search.Merged) float64 {
	conf := 0.5 + 0.2*float64(len(m.Sources)-1)
	if conf > 0.95 {
		conf = 0.95
	}
	return conf
}

// capUnion appends items not already present, up to max total entries
func capUnion(existing, incoming []string, max int) []string {
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

func containsStr(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
