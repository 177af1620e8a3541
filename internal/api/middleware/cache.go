package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/rbmarquez/DoctorQ-sub003/internal/domain/providers"
)

// CacheConfig controls response caching for one route prefix.
type CacheConfig struct {
	TTL     time.Duration
	Enabled bool
}

var (
	// Read-mostly catalog surfaces. Availability, calendar, slots and the
	// event stream live under /api/professionals too and must never be
	// cached here, so matching is by full route shape, not bare prefix.
	professionalsConfig = CacheConfig{TTL: 2 * time.Minute, Enabled: true}
	proceduresConfig    = CacheConfig{TTL: 10 * time.Minute, Enabled: true}
)

// ResponseCache serves repeated GET requests from Redis. The cache key
// hashes the full path and query so distinct filters cache separately.
// Availability is not cached here: the services layer already caches
// fetch windows and invalidates them on booking mutations.
func ResponseCache(cache providers.CacheProvider) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				next.ServeHTTP(w, r)
				return
			}

			config, ok := configForPath(r.URL.Path)
			if !ok || !config.Enabled {
				next.ServeHTTP(w, r)
				return
			}

			key := cacheKey(r)
			if cached, err := cache.Get(r.Context(), key); err == nil {
				w.Header().Set("Content-Type", "application/json")
				w.Header().Set("X-Cache", "HIT")
				w.WriteHeader(http.StatusOK)
				w.Write(cached)
				return
			}

			rec := &responseRecorder{ResponseWriter: w, statusCode: http.StatusOK, body: &bytes.Buffer{}}
			w.Header().Set("X-Cache", "MISS")
			next.ServeHTTP(rec, r)

			if rec.statusCode == http.StatusOK {
				if err := cache.Set(r.Context(), key, rec.body.Bytes(), config.TTL); err != nil {
					log.Warn().Err(err).Str("key", key).Msg("failed to cache response")
				}
			}
		})
	}
}

func configForPath(path string) (CacheConfig, bool) {
	if strings.HasPrefix(path, "/api/procedures") || strings.HasSuffix(path, "/procedures") {
		return proceduresConfig, true
	}
	if strings.HasPrefix(path, "/api/professionals") {
		// Directory listing and single-professional reads only; anything
		// with a sub-resource (availability, calendar, slots, events) is
		// dynamic.
		rest := strings.TrimPrefix(path, "/api/professionals")
		rest = strings.Trim(rest, "/")
		if !strings.Contains(rest, "/") {
			return professionalsConfig, true
		}
	}
	return CacheConfig{}, false
}

func cacheKey(r *http.Request) string {
	hash := sha256.Sum256([]byte(r.URL.Path + "?" + r.URL.RawQuery))
	return "http:cache:" + hex.EncodeToString(hash[:])
}

// responseRecorder buffers the response body while passing it through
type responseRecorder struct {
	http.ResponseWriter
	statusCode int
	body       *bytes.Buffer
}

func (rec *responseRecorder) WriteHeader(code int) {
	rec.statusCode = code
	rec.ResponseWriter.WriteHeader(code)
}

func (rec *responseRecorder) Write(b []byte) (int, error) {
	rec.body.Write(b)
	return rec.ResponseWriter.Write(b)
}
