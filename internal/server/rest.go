package server

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/arjunmehta31/forkcast/internal/cache"
	"github.com/arjunmehta31/forkcast/internal/config"
	"github.com/arjunmehta31/forkcast/internal/core"
	"github.com/arjunmehta31/forkcast/internal/ratelimit"
	"github.com/arjunmehta31/forkcast/internal/search"
	"github.com/arjunmehta31/forkcast/internal/store"
)

// Services groups all dependencies for REST handlers
type Services struct {
	Aggregator  *core.Aggregator
	Registry    *search.Registry
	Limiter     *ratelimit.Limiter
	ResultCache *cache.Memory
	Store       store.Store
}

// CreateRESTHandler creates the REST API endpoints
func CreateRESTHandler(services Services, cfg config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/search":
			handleSearch(w, r, services.Aggregator, cfg)
		case "/api/health":
			handleHealth(w, r, services.Registry)
		case "/api/admin/limits":
			handleAdminLimits(w, r, services.Limiter, cfg.AdminAPIKey)
		case "/api/admin/cache/purge":
			handleCachePurge(w, r, services, cfg.AdminAPIKey)
		default:
			http.NotFound(w, r)
		}
	}
}

func handleSearch(w http.ResponseWriter, r *http.Request, aggregator *core.Aggregator, cfg config.Config) {
	if r.Method != "GET" {
		http.Error(w, `{"error": "method not allowed"}`, http.StatusMethodNotAllowed)
		return
	}

	q := r.URL.Query()
	req := search.Request{
		Query:    q.Get("query"),
		CityHint: q.Get("city"),
	}
	if req.Query == "" {
		req.Query = q.Get("q")
	}
	if req.Query == "" {
		http.Error(w, `{"error": "query parameter is required"}`, http.StatusBadRequest)
		return
	}

	var err error
	if req.OriginLat, err = parseCoord(q.Get("lat"), -90, 90); err != nil {
		http.Error(w, `{"error": "lat must be a number in [-90, 90]"}`, http.StatusBadRequest)
		return
	}
	if req.OriginLng, err = parseCoord(q.Get("lng"), -180, 180); err != nil {
		http.Error(w, `{"error": "lng must be a number in [-180, 180]"}`, http.StatusBadRequest)
		return
	}
	if radius := q.Get("radius_m"); radius != "" {
		if parsed, err := strconv.Atoi(radius); err == nil && parsed > 0 {
			req.RadiusM = parsed
		}
	}

	resp, err := aggregator.Search(r.Context(), req)
	if err != nil {
		log.Printf("[REST] Search failed for %q: %v", req.Query, err)
		http.Error(w, `{"error": "search failed"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.Printf("[REST] Response encode failed: %v", err)
	}
}

func handleHealth(w http.ResponseWriter, r *http.Request, registry *search.Registry) {
	providers := []string{}
	if registry != nil {
		for _, p := range registry.GetAll() {
			providers = append(providers, p.Name())
		}
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(map[string]interface{}{
		"status":    "ok",
		"providers": providers,
	}); err != nil {
		log.Printf("[REST] Health encode failed: %v", err)
	}
}

func handleAdminLimits(w http.ResponseWriter, r *http.Request, limiter *ratelimit.Limiter, adminKey string) {
	if r.Method != "GET" {
		http.Error(w, `{"error": "method not allowed"}`, http.StatusMethodNotAllowed)
		return
	}
	if adminKey == "" || r.Header.Get("X-API-Key") != adminKey {
		http.Error(w, `{"error": "unauthorized - invalid or missing X-API-Key header"}`, http.StatusUnauthorized)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(map[string]interface{}{
		"providers": limiter.Snapshots(),
	}); err != nil {
		log.Printf("[REST] Limits encode failed: %v", err)
	}
}

func handleCachePurge(w http.ResponseWriter, r *http.Request, services Services, adminKey string) {
	if r.Method != "POST" {
		http.Error(w, `{"error": "method not allowed"}`, http.StatusMethodNotAllowed)
		return
	}
	if adminKey == "" || r.Header.Get("X-API-Key") != adminKey {
		http.Error(w, `{"error": "unauthorized - invalid or missing X-API-Key header"}`, http.StatusUnauthorized)
		return
	}

	memory := 0
	if services.ResultCache != nil {
		n, err := services.ResultCache.Purge(r.Context())
		if err != nil {
			log.Printf("[REST] Memory cache purge failed: %v", err)
		}
		memory = n
	}

	var db int64
	if services.Store != nil {
		n, err := services.Store.PurgeExpired(r.Context())
		if err != nil {
			log.Printf("[REST] Database cache purge failed: %v", err)
		}
		db = n
	}

	log.Printf("[REST] Cache purge: %d memory entries, %d database rows", memory, db)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "success", "purged_memory": ` + strconv.Itoa(memory) +
		`, "purged_database": ` + strconv.FormatInt(db, 10) + `}`))
}

func parseCoord(raw string, min, max float64) (float64, error) {
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, err
	}
	if v < min || v > max {
		return 0, strconv.ErrRange
	}
	return v, nil
}
