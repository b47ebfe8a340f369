package search

import "context"

// Provider is the interface all restaurant data sources must implement
type Provider interface {
	// Name returns the provider identifier (e.g. "serpapi", "yelp", "wolt")
	Name() string

	// Search returns provider-native hits for the query, already mapped to
	// canonical candidates by the provider's normalizer
	Search(ctx context.Context, req Request) ([]Candidate, error)

	// FetchDetails fetches the second-pass detail record for one hit.
	// Providers without a detail endpoint return ErrNotSupported.
	FetchDetails(ctx context.Context, providerRef string) (*Details, error)

	// FetchMedia fetches photo URLs for one hit
	FetchMedia(ctx context.Context, providerRef string) ([]string, error)
}
