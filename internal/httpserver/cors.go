package httpserver

import (
	"log"
	"net/http"
	"strings"

	"github.com/fdg312/skin-hub/internal/config"
)

const (
	corsAllowMethods  = "GET,POST,DELETE,OPTIONS"
	corsAllowHeaders  = "Content-Type"
	corsExposeHeaders = "Content-Disposition,Retry-After"
)

type corsPolicy struct {
	origins     map[string]struct{}
	any         bool
	credentials bool
}

func newCORSPolicy(cfg *config.Config) corsPolicy {
	p := corsPolicy{
		origins:     make(map[string]struct{}, len(cfg.CORSAllowedOrigins)),
		credentials: cfg.CORSAllowCredentials,
	}
	for _, o := range cfg.CORSAllowedOrigins {
		o = strings.TrimSpace(o)
		switch o {
		case "":
		case "*":
			p.any = true
		default:
			p.origins[o] = struct{}{}
		}
	}
	if p.any && p.credentials {
		log.Printf("WARN cors: credentials are only sent to explicitly listed origins, not to \"*\"")
	}
	return p
}

func (p corsPolicy) listed(origin string) bool {
	_, ok := p.origins[origin]
	return ok
}

func (p corsPolicy) allows(origin string) bool {
	if origin == "" {
		return false
	}
	return p.any || p.listed(origin)
}

// allowsCredentials never holds for an origin admitted only by the wildcard.
func (p corsPolicy) allowsCredentials(origin string) bool {
	return p.credentials && p.listed(origin)
}

// CORSMiddleware adds CORS headers for allowed origins and answers preflights.
// "*" in CORS_ALLOWED_ORIGINS allows every origin and echoes the concrete
// origin, but Allow-Credentials is only sent to explicitly listed origins.
func CORSMiddleware(cfg *config.Config, next http.Handler) http.Handler {
	policy := newCORSPolicy(cfg)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		allowed := policy.allows(origin)

		if allowed {
			h := w.Header()
			h.Set("Access-Control-Allow-Origin", origin)
			h.Add("Vary", "Origin")
			h.Set("Access-Control-Expose-Headers", corsExposeHeaders)
			if policy.allowsCredentials(origin) {
				h.Set("Access-Control-Allow-Credentials", "true")
			}
		}

		if r.Method == http.MethodOptions && origin != "" {
			if allowed {
				h := w.Header()
				h.Set("Access-Control-Allow-Methods", corsAllowMethods)
				h.Set("Access-Control-Allow-Headers", corsAllowHeaders)
				h.Set("Access-Control-Max-Age", "600")
			}
			// Disallowed preflights get a bare 204 and the browser blocks the call.
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}
