package geo

import (
	"math"
	"sort"

	"github.com/arjunmehta31/forkcast/internal/search"
)

const earthRadiusMeters = 6371000.0

// Proximity bucket thresholds in meters
const (
	veryCloseMeters = 1000.0
	nearbyMeters    = 3000.0
	closeMeters     = 5000.0
)

// HaversineMeters returns the great-circle distance between two points
func HaversineMeters(a, b search.LatLng) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLng := (b.Lng - a.Lng) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return earthRadiusMeters * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// Bucket classifies a distance into the display proximity bucket
func Bucket(distanceMeters float64) search.Proximity {
	switch {
	case distanceMeters < veryCloseMeters:
		return search.ProximityVeryClose
	case distanceMeters < nearbyMeters:
		return search.ProximityNearby
	case distanceMeters < closeMeters:
		return search.ProximityClose
	default:
		return search.ProximityWithinRange
	}
}

// Rank orders enriched records by great-circle distance from the origin.
// Records without a location rank at the origin (distance 0): unlocated
// results are kept, never dropped.
func Rank(origin search.LatLng, records []search.Enriched) []search.Ranked {
	ranked := make([]search.Ranked, 0, len(records))
	for _, r := range records {
		dist := 0.0
		if r.Location != nil {
			dist = HaversineMeters(origin, *r.Location)
		}
		ranked = append(ranked, search.Ranked{
			Enriched:       r,
			DistanceMeters: dist,
			Proximity:      Bucket(dist),
		})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].DistanceMeters < ranked[j].DistanceMeters
	})
	return ranked
}

// PreSort orders merged records by distance before enrichment, so the
// top-K enrichment bound applies to the nearest candidates.
func PreSort(origin search.LatLng, records []search.Merged) []search.Merged {
	out := make([]search.Merged, len(records))
	copy(out, records)
	sort.SliceStable(out, func(i, j int) bool {
		return distanceOrOrigin(origin, out[i].Location) < distanceOrOrigin(origin, out[j].Location)
	})
	return out
}

func distanceOrOrigin(origin search.LatLng, loc *search.LatLng) float64 {
	if loc == nil {
		return 0
	}
	return HaversineMeters(origin, *loc)
}
