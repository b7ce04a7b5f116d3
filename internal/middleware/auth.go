package middleware

import (
	"crypto/subtle"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/Lixing-Zhang/storefront-menu/internal/config"
)

// APIKeyHeader carries the admin credential.
const APIKeyHeader = "api_key"

// APIKeyAuth guards the menu builder routes. A missing key is 401, an
// unknown key is 403.
func APIKeyAuth(cfg config.AuthConfig, logger *slog.Logger) func(next http.Handler) http.Handler {
	keys := make([][]byte, 0, len(cfg.APIKeys))
	for _, k := range cfg.APIKeys {
		keys = append(keys, []byte(k))
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			apiKey := r.Header.Get(APIKeyHeader)

			if apiKey == "" {
				deny(w, http.StatusUnauthorized, "API key required")
				return
			}

			if !validKey(keys, []byte(apiKey)) {
				logger.Warn("rejected admin request",
					"method", r.Method,
					"path", r.URL.Path,
					"remote_addr", r.RemoteAddr,
				)
				deny(w, http.StatusForbidden, "invalid API key")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func validKey(keys [][]byte, candidate []byte) bool {
	valid := false
	for _, k := range keys {
		if subtle.ConstantTimeCompare(k, candidate) == 1 {
			valid = true
		}
	}
	return valid
}

func deny(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
