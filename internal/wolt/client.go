package wolt

import (
	"context"
	"encoding/json"
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
	providerID = "wolt"
	apiBase    = "https://restaurant-api.wolt.com"
)

// Client is the delivery-directory provider, backed by the public Wolt
// discovery API. No credentials required.
type Client struct {
	client *http.Client
}

// NewClient creates a new Wolt discovery client
func NewClient() *Client {
	return &Client{
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

// Name returns the provider identifier
func (c *Client) Name() string {
	return providerID
}

// venue is a discovery search hit's venue payload
type venue struct {
	Slug       string   `json:"slug"`
	Name       string   `json:"name"`
	Address    string   `json:"address"`
	Tags       []string `json:"tags"`
	PriceRange int      `json:"price_range"`
	Rating     *struct {
		Rating float64 `json:"rating"`
		Score  float64 `json:"score"`
	} `json:"rating"`
	Location []float64 `json:"location"` // [lng, lat]
	Delivers bool      `json:"delivers"`
	Icon     string    `json:"icon"`
}

// searchResponse is the discovery search payload
type searchResponse struct {
	Sections []struct {
		Items []struct {
			Venue *venue `json:"venue"`
		} `json:"items"`
	} `json:"sections"`
}

// venueDetail is the long-form venue payload
type venueDetail struct {
	Results []struct {
		Phone     string `json:"phone"`
		Website   string `json:"website"`
		PublicURL string `json:"public_url"`
		Rating    *struct {
			Text string `json:"text"`
		} `json:"rating"`
	} `json:"results"`
}

// Search queries Wolt discovery for delivery venues near the origin
func (c *Client) Search(ctx context.Context, req search.Request) ([]search.Candidate, error) {
	params := url.Values{}
	params.Set("q", req.Query)
	params.Set("lat", strconv.FormatFloat(req.OriginLat, 'f', 6, 64))
	params.Set("lon", strconv.FormatFloat(req.OriginLng, 'f', 6, 64))

	log.Printf("[Wolt] Searching delivery venues for: %q", req.Query)

	var resp searchResponse
	if err := c.get(ctx, "/v1/pages/search?"+params.Encode(), &resp); err != nil {
		return nil, err
	}

	var candidates []search.Candidate
	for _, section := range resp.Sections {
		for _, item := range section.Items {
			if item.Venue == nil || item.Venue.Name == "" {
				continue
			}
			candidates = append(candidates, c.mapVenue(*item.Venue, req))
		}
	}

	log.Printf("[Wolt] Found %d delivery venues", len(candidates))
	return candidates, nil
}

// FetchDetails fetches the long-form venue record by slug
func (c *Client) FetchDetails(ctx context.Context, providerRef string) (*search.Details, error) {
	if providerRef == "" {
		return nil, search.NewProviderError(providerID, search.ErrMalformed, "empty venue slug")
	}

	var detail venueDetail
	if err := c.get(ctx, "/v3/venues/slug/"+url.PathEscape(providerRef), &detail); err != nil {
		return nil, err
	}
	if len(detail.Results) == 0 {
		return nil, search.NewProviderError(providerID, search.ErrMalformed, "venue %s not found", providerRef)
	}

	r := detail.Results[0]
	details := &search.Details{
		Phone:   r.Phone,
		Website: firstNonEmpty(r.Website, r.PublicURL),
	}
	if r.Rating != nil && r.Rating.Text != "" {
		details.ReviewSnippets = append(details.ReviewSnippets, r.Rating.Text)
	}
	return details, nil
}

// FetchMedia is not offered by the discovery API
func (c *Client) FetchMedia(ctx context.Context, providerRef string) ([]string, error) {
	return nil, search.ErrNotSupported
}

// get performs one discovery API call and decodes the JSON payload
func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, "GET", apiBase+path, nil)
	if err != nil {
		return search.NewProviderError(providerID, search.ErrMalformed, "failed to create request: %v", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "forkcast/1.0")

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

// mapVenue converts one discovery venue into a canonical candidate
func (c *Client) mapVenue(v venue, req search.Request) search.Candidate {
	cand := search.Candidate{
		ProviderID:   providerID,
		ProviderName: "Wolt",
		ProviderRef:  v.Slug,
		Name:         v.Name,
		Cuisine:      normalize.Cuisine(v.Tags...),
		Address:      normalize.Address(v.Address, req.CityHint),
	}
	if v.PriceRange > 0 {
		cand.PriceLevel = normalize.PriceLevel(strconv.Itoa(v.PriceRange))
	}
	if v.Rating != nil && v.Rating.Score > 0 {
		// Wolt scores are 0-10; the canonical scale is 0-5
		rating := v.Rating.Score / 2
		cand.Rating = &rating
	}
	if len(v.Location) == 2 {
		cand.Location = &search.LatLng{Lat: v.Location[1], Lng: v.Location[0]}
	}
	if v.Icon != "" {
		cand.Photos = append(cand.Photos, v.Icon)
	}
	return cand
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
