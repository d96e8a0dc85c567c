package router

import (
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/seongminoh/otpauth/internal/pkg/goerror"
	"github.com/seongminoh/otpauth/internal/pkg/ratelimit"
)

// Throttle limits requests per client IP for the route it wraps. Scope keeps
// counters separate between routes that share a limiter. When the limit is
// exceeded the client gets a 429 with the number of seconds to wait; limiter
// failures are surfaced as 500 rather than letting traffic through unmetered.
func Throttle(limiter ratelimit.Limiter, scope string, limit int, window time.Duration) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			res, err := limiter.Allow(r.Context(), scope+":"+clientIP(r), limit, window)
			if err != nil {
				slog.ErrorContext(r.Context(), "throttle check failed", "scope", scope, "error", err)
				writeError(w, "internal server error", http.StatusInternalServerError)
				return
			}

			if !res.Allowed {
				encodeError(r.Context(), w, goerror.NewThrottled(res.Wait))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// clientIP returns the request's client address. middlewareIP has already
// resolved proxy headers into RemoteAddr by the time this runs.
func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
