package serpapi

import (
	"context"
	"fmt"
	"log"
	"strings"

	g "github.com/serpapi/google-search-results-golang"

	"github.com/arjunmehta31/forkcast/internal/normalize"
	"github.com/arjunmehta31/forkcast/internal/search"
)

const providerID = "serpapi"

// Client is the primary place-search provider, backed by the SerpApi
// Google Maps engine.
type Client struct {
	apiKey string
}

// NewClient creates a new SerpApi client
func NewClient(apiKey string) *Client {
	return &Client{
		apiKey: apiKey,
	}
}

// Name returns the provider identifier
func (c *Client) Name() string {
	return providerID
}

// Search runs a Google Maps search and maps local_results into canonical
// candidates
func (c *Client) Search(ctx context.Context, req search.Request) ([]search.Candidate, error) {
	if c.apiKey == "" {
		return nil, search.NewProviderError(providerID, search.ErrUnauthorized, "api key is not set")
	}

	parameter := map[string]string{
		"engine": "google_maps",
		"type":   "search",
		"q":      req.Query,
		"ll":     fmt.Sprintf("@%f,%f,14z", req.OriginLat, req.OriginLng),
		"hl":     "en",
	}

	log.Printf("[SerpApi] Searching maps for: %q near (%.4f, %.4f)", req.Query, req.OriginLat, req.OriginLng)

	results, err := c.getJSON(ctx, parameter)
	if err != nil {
		return nil, err
	}

	localResults, ok := results["local_results"].([]interface{})
	if !ok {
		log.Printf("[SerpApi] No local_results found in response")
		return []search.Candidate{}, nil
	}

	var candidates []search.Candidate
	for _, item := range localResults {
		place, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		if c := mapPlace(place, req); c != nil {
			candidates = append(candidates, *c)
		}
	}

	log.Printf("[SerpApi] Found %d places", len(candidates))
	return candidates, nil
}

// FetchDetails runs a place_id lookup for the second detail pass
func (c *Client) FetchDetails(ctx context.Context, providerRef string) (*search.Details, error) {
	if providerRef == "" {
		return nil, search.NewProviderError(providerID, search.ErrMalformed, "empty place reference")
	}

	parameter := map[string]string{
		"engine":   "google_maps",
		"type":     "place",
		"place_id": providerRef,
		"hl":       "en",
	}

	results, err := c.getJSON(ctx, parameter)
	if err != nil {
		return nil, err
	}

	place, ok := results["place_results"].(map[string]interface{})
	if !ok {
		return nil, search.NewProviderError(providerID, search.ErrMalformed, "no place_results in response")
	}

	details := &search.Details{
		Phone:   str(place["phone"]),
		Website: str(place["website"]),
		Hours:   normalize.Hours(structuredHours(place["hours"]), str(place["open_state"])),
	}
	if thumb := str(place["thumbnail"]); thumb != "" {
		details.Photos = append(details.Photos, thumb)
	}
	if desc := str(place["description"]); desc != "" {
		details.ReviewSnippets = append(details.ReviewSnippets, desc)
	}
	return details, nil
}

// FetchMedia returns photo URLs for a place
func (c *Client) FetchMedia(ctx context.Context, providerRef string) ([]string, error) {
	parameter := map[string]string{
		"engine":  "google_maps_photos",
		"data_id": providerRef,
		"hl":      "en",
	}

	results, err := c.getJSON(ctx, parameter)
	if err != nil {
		return nil, err
	}

	photos, ok := results["photos"].([]interface{})
	if !ok {
		return nil, nil
	}
	var urls []string
	for _, item := range photos {
		p, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		if u := str(p["image"]); u != "" {
			urls = append(urls, u)
		}
	}
	return urls, nil
}

// getJSON runs one SerpApi call honoring context cancellation. The SDK has
// no context plumbing, so the call runs in a goroutine and the result is
// abandoned when ctx fires.
func (c *Client) getJSON(ctx context.Context, parameter map[string]string) (map[string]interface{}, error) {
	type outcome struct {
		results map[string]interface{}
		err     error
	}
	ch := make(chan outcome, 1)

	go func() {
		s := g.NewGoogleSearch(parameter, c.apiKey)
		results, err := s.GetJSON()
		ch <- outcome{results: results, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, search.NewProviderError(providerID, search.ErrTimeout, "call abandoned: %v", ctx.Err())
	case out := <-ch:
		if out.err != nil {
			return nil, search.NewProviderError(providerID, search.ErrUnavailable, "search failed: %v", out.err)
		}
		return out.results, nil
	}
}

// mapPlace converts one local_results entry into a canonical candidate,
// running every string field through the shared normalization tables
func mapPlace(place map[string]interface{}, req search.Request) *search.Candidate {
	name := str(place["title"])
	if name == "" {
		return nil
	}

	cand := search.Candidate{
		ProviderID:   providerID,
		ProviderName: "Google Maps (SerpApi)",
		ProviderRef:  str(place["place_id"]),
		Name:         name,
		Cuisine:      normalize.Cuisine(typeTags(place)...),
		Address:      normalize.Address(str(place["address"]), req.CityHint),
		Phone:        str(place["phone"]),
		Website:      str(place["website"]),
		Hours:        normalize.Hours(nil, str(place["hours"])),
		PriceLevel:   normalize.PriceLevel(str(place["price"])),
	}

	if rating, ok := num(place["rating"]); ok {
		cand.Rating = &rating
	}
	if gps, ok := place["gps_coordinates"].(map[string]interface{}); ok {
		lat, latOK := num(gps["latitude"])
		lng, lngOK := num(gps["longitude"])
		if latOK && lngOK {
			cand.Location = &search.LatLng{Lat: lat, Lng: lng}
		}
	}
	if thumb := str(place["thumbnail"]); thumb != "" {
		cand.Photos = append(cand.Photos, thumb)
	}
	if desc := str(place["description"]); desc != "" {
		cand.ReviewSnippets = append(cand.ReviewSnippets, desc)
	}

	return &cand
}

// typeTags collects the place's taxonomy tags ("type" plus "types")
func typeTags(place map[string]interface{}) []string {
	var tags []string
	if t := str(place["type"]); t != "" {
		tags = append(tags, t)
	}
	if raw, ok := place["types"].([]interface{}); ok {
		for _, item := range raw {
			if t := str(item); t != "" {
				tags = append(tags, t)
			}
		}
	}
	return tags
}

// structuredHours maps SerpApi's per-day hours array into day->value form
func structuredHours(raw interface{}) map[string]string {
	items, ok := raw.([]interface{})
	if !ok {
		return nil
	}
	out := make(map[string]string)
	for _, item := range items {
		day, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		for k, v := range day {
			if s := str(v); s != "" {
				out[strings.ToLower(k)] = s
			}
		}
	}
	return out
}

func str(v interface{}) string {
	s, _ := v.(string)
	return strings.TrimSpace(s)
}

func num(v interface{}) (float64, bool) {
	f, ok := v.(float64)
	return f, ok
}
