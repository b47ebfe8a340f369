package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/arjunmehta31/forkcast/internal/search"
)

type PostgresStore struct {
	db *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, connString string) (*PostgresStore, error) {
	db, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}
	if err := db.Ping(ctx); err != nil {
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}
	s := &PostgresStore{db: db}
	if err := s.ensureSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *PostgresStore) Close() {
	s.db.Close()
}

func (s *PostgresStore) ensureSchema(ctx context.Context) error {
	schema := `
        CREATE TABLE IF NOT EXISTS restaurants (
            id          BIGSERIAL PRIMARY KEY,
            name        TEXT NOT NULL,
            name_key    TEXT NOT NULL UNIQUE,
            cuisine     TEXT NOT NULL DEFAULT '',
            rating      DOUBLE PRECISION,
            payload     JSONB NOT NULL,
            updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
        );
        CREATE INDEX IF NOT EXISTS idx_restaurants_name_key ON restaurants (name_key);

        CREATE TABLE IF NOT EXISTS cache_entries (
            key         TEXT PRIMARY KEY,
            payload     BYTEA NOT NULL,
            stored_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            ttl_seconds BIGINT NOT NULL
        );
    `
	if _, err := s.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}
	return nil
}

// SaveRestaurants upserts finished search results so later searches can
// fall back to them when every provider is unavailable. Best effort per
// record; one bad record does not abort the batch.
func (s *PostgresStore) SaveRestaurants(ctx context.Context, records []search.Ranked) error {
	query := `
        INSERT INTO restaurants (name, name_key, cuisine, rating, payload, updated_at)
        VALUES ($1, $2, $3, $4, $5, NOW())
        ON CONFLICT (name_key) DO UPDATE
        SET cuisine = EXCLUDED.cuisine, rating = EXCLUDED.rating,
            payload = EXCLUDED.payload, updated_at = NOW();
    `
	saved := 0
	for _, r := range records {
		if r.Name == "" || r.ProviderID == "synthetic" {
			continue
		}
		payload, err := json.Marshal(r)
		if err != nil {
			log.Printf("[Store.SaveRestaurants] Marshal failed for %q: %v", r.Name, err)
			continue
		}
		nameKey := strings.ToLower(strings.TrimSpace(r.Name))
		if _, err := s.db.Exec(ctx, query, r.Name, nameKey, r.Cuisine, r.Rating, payload); err != nil {
			log.Printf("[Store.SaveRestaurants] Upsert failed for %q: %v", r.Name, err)
			continue
		}
		saved++
	}
	log.Printf("[Store.SaveRestaurants] Upserted %d/%d records", saved, len(records))
	return nil
}

// FindByNameSubstring returns previously stored restaurants whose name
// contains the fragment, case-insensitively, newest first.
func (s *PostgresStore) FindByNameSubstring(ctx context.Context, fragment string, limit int) ([]search.Ranked, error) {
	query := `
        SELECT payload FROM restaurants
        WHERE name_key LIKE '%' || $1 || '%'
        ORDER BY updated_at DESC
        LIMIT $2;
    `
	rows, err := s.db.Query(ctx, query, strings.ToLower(strings.TrimSpace(fragment)), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query restaurants: %w", err)
	}
	defer rows.Close()

	var results []search.Ranked
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("failed to scan restaurant row: %w", err)
		}
		var r search.Ranked
		if err := json.Unmarshal(payload, &r); err != nil {
			log.Printf("[Store.FindByNameSubstring] Skipping undecodable row: %v", err)
			continue
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

func (s *PostgresStore) CacheGet(ctx context.Context, key string) ([]byte, bool, error) {
	query := `
        SELECT payload FROM cache_entries
        WHERE key = $1 AND stored_at + ttl_seconds * INTERVAL '1 second' > NOW();
    `
	var payload []byte
	err := s.db.QueryRow(ctx, query, key).Scan(&payload)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to read cache entry: %w", err)
	}
	return payload, true, nil
}

func (s *PostgresStore) CacheSet(ctx context.Context, key string, payload []byte, ttlSeconds int64) error {
	query := `
        INSERT INTO cache_entries (key, payload, stored_at, ttl_seconds)
        VALUES ($1, $2, NOW(), $3)
        ON CONFLICT (key) DO UPDATE
        SET payload = EXCLUDED.payload, stored_at = NOW(), ttl_seconds = EXCLUDED.ttl_seconds;
    `
	if _, err := s.db.Exec(ctx, query, key, payload, ttlSeconds); err != nil {
		return fmt.Errorf("failed to write cache entry: %w", err)
	}
	return nil
}

// PurgeExpired deletes cache rows past their TTL. Run from the nightly
// maintenance job; reads never return expired rows regardless.
func (s *PostgresStore) PurgeExpired(ctx context.Context) (int64, error) {
	query := `DELETE FROM cache_entries WHERE stored_at + ttl_seconds * INTERVAL '1 second' <= NOW();`
	result, err := s.db.Exec(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("failed to purge cache entries: %w", err)
	}
	purged := result.RowsAffected()
	log.Printf("[Store.PurgeExpired] Removed %d expired cache entries", purged)
	return purged, nil
}
