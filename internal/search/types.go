package search

// Request describes one restaurant search: a free-text query plus the
// geographic origin it should be ranked against. Immutable per call.
type Request struct {
	Query     string
	OriginLat float64
	OriginLng float64
	CityHint  string
	RadiusM   int
}

// LatLng is a geographic coordinate pair
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Candidate is the canonical provider-agnostic restaurant record.
// One per provider hit; never mutated after creation, later pipeline
// stages produce new merged instances instead.
type Candidate struct {
	ProviderID     string   `json:"provider_id"`
	ProviderName   string   `json:"provider_name"`
	ProviderRef    string   `json:"provider_ref,omitempty"` // provider-native ID for detail fetches
	Name           string   `json:"name"`
	Cuisine        string   `json:"cuisine"`
	Rating         *float64 `json:"rating,omitempty"`
	PriceLevel     *int     `json:"price_level,omitempty"` // 1..4
	Address        string   `json:"address"`
	Phone          string   `json:"phone,omitempty"`
	Website        string   `json:"website,omitempty"`
	Photos         []string `json:"photos,omitempty"`
	ReviewSnippets []string `json:"review_snippets,omitempty"`
	Hours          string   `json:"hours,omitempty"`
	Location       *LatLng  `json:"location,omitempty"`
}

// Merged is a candidate-shaped record combining every provider hit that
// denoted the same restaurant. Sources always has at least one entry.
type Merged struct {
	Candidate
	Sources         []string `json:"sources"`
	MergeConfidence float64  `json:"merge_confidence"`
}

// Enriched adds generated descriptive content to a merged record. Generated
// values must pass the content validators before attachment; a rejected
// field falls back to empty rather than an unvalidated value.
type Enriched struct {
	Merged
	Description string   `json:"description,omitempty"`
	VibeTags    []string `json:"vibe_tags,omitempty"`
	TopPicks    []string `json:"top_picks,omitempty"`
}

// Proximity is a coarse distance classification used for display
type Proximity string

const (
	ProximityVeryClose   Proximity = "VERY_CLOSE"   // < 1 km
	ProximityNearby      Proximity = "NEARBY"       // < 3 km
	ProximityClose       Proximity = "CLOSE"        // < 5 km
	ProximityWithinRange Proximity = "WITHIN_RANGE" // everything else
)

// Ranked is the terminal shape returned to callers
type Ranked struct {
	Enriched
	DistanceMeters float64   `json:"distance_meters"`
	Proximity      Proximity `json:"proximity"`
}

// Details carries the optional second-pass provider data fetched for top
// candidates only (extra photos, review text, contact fields).
type Details struct {
	Phone          string
	Website        string
	Hours          string
	Photos         []string
	ReviewSnippets []string
}
