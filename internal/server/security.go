package server

import (
	"net/http"
	"strings"
)

// SecurityConfig controls the hardening applied to every HTTP response and
// the request caps for the search endpoint.
type SecurityConfig struct {
	// EnableCORS turns on CORS header handling.
	EnableCORS bool
	// AllowedOrigins lists origins allowed to call the API; "*" allows any.
	AllowedOrigins []string
	// AllowedMethods lists the methods advertised in CORS responses.
	AllowedMethods []string
	// MaxK caps the k parameter accepted by the search endpoint. A full grid
	// is (k-9)^2 evaluations, so an uncapped k is an easy way to pin a CPU.
	MaxK int
}

// DefaultSecurityConfig returns the default hardening: permissive CORS for a
// read-only API plus a k cap that keeps a single request under a second of
// work on commodity hardware.
func DefaultSecurityConfig() SecurityConfig {
	return SecurityConfig{
		EnableCORS:     true,
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		MaxK:           2000,
	}
}

// corsOrigin returns the Access-Control-Allow-Origin value for the request,
// or "" when the origin is not allowed.
func (c SecurityConfig) corsOrigin(requestOrigin string) string {
	for _, allowed := range c.AllowedOrigins {
		if allowed == "*" {
			return "*"
		}
		if allowed == requestOrigin && requestOrigin != "" {
			return requestOrigin
		}
	}
	return ""
}

// SecurityMiddleware wraps next with security headers, CORS handling and
// OPTIONS preflight short-circuiting.
func SecurityMiddleware(config SecurityConfig, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("X-XSS-Protection", "1; mode=block")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		h.Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")

		if config.EnableCORS {
			if origin := config.corsOrigin(r.Header.Get("Origin")); origin != "" {
				h.Set("Access-Control-Allow-Origin", origin)
				h.Set("Access-Control-Allow-Methods", strings.Join(config.AllowedMethods, ", "))
				h.Set("Access-Control-Allow-Headers", "Content-Type")
				h.Set("Access-Control-Max-Age", "86400")
			}
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next(w, r)
	}
}
