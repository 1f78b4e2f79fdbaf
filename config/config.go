// Package config provides access to dynamic configuration values stored in
// the system_config table. The ranking tunables (relevance boosts, the
// coverage threshold) live here so they can be recalibrated without a deploy.
package config

import (
	"context"
	"database/sql"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Service reads configuration values with a small TTL cache. Environment
// variables override DB values when present; the env var name is derived
// from the key by uppercasing and replacing dots with underscores.
type Service struct {
	db    *sql.DB
	mu    sync.RWMutex
	cache map[string]cachedEntry
}

type cachedEntry struct {
	value     string
	expiresAt time.Time
}

const defaultTTL = time.Minute

func New(db *sql.DB) *Service {
	return &Service{db: db, cache: make(map[string]cachedEntry)}
}

// GetString returns a string config value.
func (s *Service) GetString(ctx context.Context, key string, defaultValue string) (string, error) {
	if v, ok := s.envOverride(key); ok {
		return v, nil
	}

	if v, ok := s.getFromCache(key); ok {
		return v, nil
	}

	const q = `SELECT value FROM system_config WHERE key = $1 LIMIT 1`

	var v string

	err := s.db.QueryRowContext(ctx, q, key).Scan(&v)
	if err != nil {
		if err == sql.ErrNoRows {
			return defaultValue, nil
		}

		return "", err
	}

	s.putInCache(key, v)

	return v, nil
}

// GetFloat returns a float64 config value.
func (s *Service) GetFloat(ctx context.Context, key string, defaultValue float64) (float64, error) {
	v, err := s.GetString(ctx, key, "")
	if err != nil {
		return 0, err
	}

	parsed, perr := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if v == "" || perr != nil {
		return defaultValue, nil
	}

	return parsed, nil
}

// GetBool returns a boolean config value.
func (s *Service) GetBool(ctx context.Context, key string, defaultValue bool) (bool, error) {
	v, err := s.GetString(ctx, key, "")
	if err != nil {
		return false, err
	}

	if v == "" {
		return defaultValue, nil
	}

	return strings.EqualFold(v, "true") || v == "1", nil
}

// CreateSchema creates the system_config table if it does not exist yet.
func (s *Service) CreateSchema(ctx context.Context) error {
	const q = `CREATE TABLE IF NOT EXISTS system_config (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`

	_, err := s.db.ExecContext(ctx, q)

	return err
}

// Upsert writes a configuration value.
func (s *Service) Upsert(ctx context.Context, key, value, description string) error {
	const q = `INSERT INTO system_config (key, value, description, updated_at)
	           VALUES ($1, $2, $3, NOW())
	           ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, description = EXCLUDED.description, updated_at = NOW()`

	_, err := s.db.ExecContext(ctx, q, key, value, description)
	if err == nil {
		s.mu.Lock()
		delete(s.cache, key)
		s.mu.Unlock()
	}

	return err
}

func (s *Service) envOverride(key string) (string, bool) {
	envKey := strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
	if v := os.Getenv(envKey); v != "" {
		return v, true
	}

	return "", false
}

func (s *Service) getFromCache(key string) (string, bool) {
	s.mu.RLock()
	entry, ok := s.cache[key]
	s.mu.RUnlock()

	if !ok {
		return "", false
	}

	if time.Now().After(entry.expiresAt) {
		s.mu.Lock()
		delete(s.cache, key)
		s.mu.Unlock()

		return "", false
	}

	return entry.value, true
}

func (s *Service) putInCache(key, value string) {
	s.mu.Lock()
	s.cache[key] = cachedEntry{value: value, expiresAt: time.Now().Add(defaultTTL)}
	s.mu.Unlock()
}
