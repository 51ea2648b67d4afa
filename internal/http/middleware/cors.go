package middleware

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
)

// OriginGate decides whether a browser origin may call the API. Requests
// without an Origin header (server-to-server callers, health probes) are
// always admitted regardless of policy. Exactly one policy is active per
// instance:
//
//   - allow-any: origins contains "*"
//   - allow-pattern: suffix is set, origin hosts matching it are admitted
//   - allow-list: origin must exactly match a configured entry; an empty
//     list denies every browser origin while still admitting non-browser
//     callers
type OriginGate struct {
	allowAny bool
	allow    map[string]struct{}
	suffix   string
}

// NewOriginGate builds a gate from a list of exact origins and an optional
// host suffix pattern. The suffix, when set, takes precedence over the list.
func NewOriginGate(origins []string, suffix string) *OriginGate {
	g := &OriginGate{
		allow:  map[string]struct{}{},
		suffix: strings.TrimSpace(suffix),
	}
	if g.suffix != "" {
		return g
	}
	for _, origin := range origins {
		origin = strings.TrimSpace(origin)
		if origin == "" {
			continue
		}
		if origin == "*" {
			g.allowAny = true
			continue
		}
		g.allow[origin] = struct{}{}
	}
	return g
}

// Allows reports whether the given Origin header value is admitted. An empty
// origin is always admitted.
func (g *OriginGate) Allows(origin string) bool {
	if origin == "" || g.allowAny {
		return true
	}
	if g.suffix != "" {
		u, err := url.Parse(origin)
		if err != nil || u.Host == "" {
			return false
		}
		host := u.Hostname()
		return host == strings.TrimPrefix(g.suffix, ".") || strings.HasSuffix(host, g.suffix)
	}
	_, ok := g.allow[origin]
	return ok
}

// Handler enforces the gate and emits CORS response headers for admitted
// origins. Denied origins receive a 403 before any other processing runs,
// so a gate rejection is distinguishable from a validation failure.
func (g *OriginGate) Handler(next http.Handler) http.Handler {
	allowedHeaders := "Authorization, Content-Type"
	allowedMethods := "GET, POST, OPTIONS"

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := strings.TrimSpace(r.Header.Get("Origin"))
		if !g.Allows(origin) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusForbidden)
			json.NewEncoder(w).Encode(map[string]any{
				"ok":    false,
				"error": "origin not allowed",
			})
			return
		}

		if origin != "" {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Add("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Headers", allowedHeaders)
			w.Header().Set("Access-Control-Allow-Methods", allowedMethods)
			w.Header().Set("Access-Control-Max-Age", "600")
		}

		// Handle preflight requests.
		if r.Method == http.MethodOptions && origin != "" && r.Header.Get("Access-Control-Request-Method") != "" {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}
