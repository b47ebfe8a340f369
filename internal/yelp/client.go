package yelp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/arjunmehta31/forkcast/internal/normalize"
	"github.com/arjunmehta31/forkcast/internal/search"
)

const (
	providerID = "yelp"
	apiBase    = "https://api.yelp.com/v3"
)

// Client is the review-aggregator provider, backed by the Yelp Fusion API
type Client struct {
	apiKey string
	client *http.Client
}

// NewClient creates a new Yelp Fusion API client
func NewClient(apiKey string) *Client {
	return &Client{
		apiKey: apiKey,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

// Name returns the provider identifier
func (c *Client) Name() string {
	return providerID
}

// business is a single business from the Fusion search response
type business struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Rating     float64 `json:"rating"`
	Price      string  `json:"price"`
	Phone      string  `json:"display_phone"`
	URL        string  `json:"url"`
	ImageURL   string  `json:"image_url"`
	Categories []struct {
		Alias string `json:"alias"`
		Title string `json:"title"`
	} `json:"categories"`
	Coordinates struct {
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
	} `json:"coordinates"`
	Location struct {
		DisplayAddress []string `json:"display_address"`
	} `json:"location"`
}

// searchResponse is the Fusion /businesses/search payload
type searchResponse struct {
	Businesses []business `json:"businesses"`
	Total      int        `json:"total"`
}

// detailResponse is the Fusion /businesses/{id} payload
type detailResponse struct {
	business
	Photos []string `json:"photos"`
	Hours  []struct {
		HoursType string `json:"hours_type"`
		Open      []struct {
			Day   int    `json:"day"`
			Start string `json:"start"`
			End   string `json:"end"`
		} `json:"open"`
	} `json:"hours"`
}

// reviewsResponse is the Fusion /businesses/{id}/reviews payload
type reviewsResponse struct {
	Reviews []struct {
		Text   string  `json:"text"`
		Rating float64 `json:"rating"`
	} `json:"reviews"`
}

// Search queries Fusion business search and maps hits into candidates
func (c *Client) Search(ctx context.Context, req search.Request) ([]search.Candidate, error) {
	params := url.Values{}
	params.Set("term", req.Query)
	params.Set("latitude", strconv.FormatFloat(req.OriginLat, 'f', 6, 64))
	params.Set("longitude", strconv.FormatFloat(req.OriginLng, 'f', 6, 64))
	params.Set("categories", "restaurants")
	params.Set("limit", "20")
	if req.RadiusM > 0 {
		radius := req.RadiusM
		if radius > 40000 { // Fusion hard cap
			radius = 40000
		}
		params.Set("radius", strconv.Itoa(radius))
	}

	log.Printf("[Yelp] Searching for: %q near (%.4f, %.4f)", req.Query, req.OriginLat, req.OriginLng)

	var resp searchResponse
	if err := c.get(ctx, "/businesses/search?"+params.Encode(), &resp); err != nil {
		return nil, err
	}

	candidates := make([]search.Candidate, 0, len(resp.Businesses))
	for _, b := range resp.Businesses {
		if b.Name == "" {
			continue
		}
		candidates = append(candidates, c.mapBusiness(b, req))
	}

	log.Printf("[Yelp] Found %d businesses (of %d total)", len(candidates), resp.Total)
	return candidates, nil
}

// FetchDetails fetches the business detail record plus its top reviews
func (c *Client) FetchDetails(ctx context.Context, providerRef string) (*search.Details, error) {
	if providerRef == "" {
		return nil, search.NewProviderError(providerID, search.ErrMalformed, "empty business id")
	}

	var detail detailResponse
	if err := c.get(ctx, "/businesses/"+url.PathEscape(providerRef), &detail); err != nil {
		return nil, err
	}

	details := &search.Details{
		Phone:   detail.Phone,
		Website: detail.URL,
		Photos:  detail.Photos,
		Hours:   normalize.Hours(hoursByDay(detail), ""),
	}

	// Reviews are a separate endpoint; failure there shouldn't void the
	// detail fetch
	var reviews reviewsResponse
	if err := c.get(ctx, "/businesses/"+url.PathEscape(providerRef)+"/reviews", &reviews); err != nil {
		log.Printf("[Yelp] Review fetch failed for %s: %v", providerRef, err)
	} else {
		for _, r := range reviews.Reviews {
			if r.Text != "" {
				details.ReviewSnippets = append(details.ReviewSnippets, r.Text)
			}
		}
	}

	return details, nil
}

// FetchMedia returns the business photo URLs
func (c *Client) FetchMedia(ctx context.Context, providerRef string) ([]string, error) {
	var detail detailResponse
	if err := c.get(ctx, "/businesses/"+url.PathEscape(providerRef), &detail); err != nil {
		return nil, err
	}
	return detail.Photos, nil
}

// get performs one authenticated Fusion call and decodes the JSON payload
func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, "GET", apiBase+path, nil)
	if err != nil {
		return search.NewProviderError(providerID, search.ErrMalformed, "failed to create request: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return search.NewProviderError(providerID, search.ErrTimeout, "request abandoned: %v", ctx.Err())
		}
		return search.NewProviderError(providerID, search.ErrUnavailable, "request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return search.NewProviderError(providerID, search.KindForStatus(resp.StatusCode),
			"api error: %d %s", resp.StatusCode, string(bodyBytes))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return search.NewProviderError(providerID, search.ErrMalformed, "failed to decode response: %v", err)
	}
	return nil
}

// mapBusiness converts one Fusion business into a canonical candidate
func (c *Client) mapBusiness(b business, req search.Request) search.Candidate {
	tags := make([]string, 0, len(b.Categories)*2)
	for _, cat := range b.Categories {
		tags = append(tags, cat.Alias, cat.Title)
	}

	addr := ""
	for i, line := range b.Location.DisplayAddress {
		if i > 0 {
			addr += ", "
		}
		addr += line
	}

	cand := search.Candidate{
		ProviderID:   providerID,
		ProviderName: "Yelp",
		ProviderRef:  b.ID,
		Name:         b.Name,
		Cuisine:      normalize.Cuisine(tags...),
		Address:      normalize.Address(addr, req.CityHint),
		Phone:        b.Phone,
		Website:      b.URL,
		PriceLevel:   normalize.PriceLevel(b.Price),
	}
	if b.Rating > 0 {
		rating := b.Rating
		cand.Rating = &rating
	}
	if b.Coordinates.Latitude != 0 || b.Coordinates.Longitude != 0 {
		cand.Location = &search.LatLng{Lat: b.Coordinates.Latitude, Lng: b.Coordinates.Longitude}
	}
	if b.ImageURL != "" {
		cand.Photos = append(cand.Photos, b.ImageURL)
	}
	return cand
}

// hoursByDay flattens Fusion's structured hours into day-name keyed form
func hoursByDay(detail detailResponse) map[string]string {
	days := []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}
	out := make(map[string]string)
	for _, block := range detail.Hours {
		for _, open := range block.Open {
			if open.Day < 0 || open.Day > 6 {
				continue
			}
			span := fmt.Sprintf("%s-%s", clockTime(open.Start), clockTime(open.End))
			if existing := out[days[open.Day]]; existing != "" {
				span = existing + ", " + span
			}
			out[days[open.Day]] = span
		}
	}
	return out
}

// clockTime renders Fusion's "HHMM" strings as "HH:MM"
func clockTime(hhmm string) string {
	if len(hhmm) != 4 {
		return hhmm
	}
	return hhmm[:2] + ":" + hhmm[2:]
}
