package router

import (
	"net/http"
	"strings"

	"github.com/seongminoh/otpauth/internal/pkg/jwt"
)

// middlewareAuthentication verifies the bearer token on every route not
// listed as public and stores the claims on the context. Public endpoints are
// keyed by method then route pattern.
func middlewareAuthentication(verifier jwt.JWT, publicEndpoints map[string]map[string]struct{}) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if routes, ok := publicEndpoints[r.Method]; ok {
				if _, public := routes[matchedRoutePath(r)]; public {
					next.ServeHTTP(w, r)
					return
				}
			}

			parts := strings.Fields(r.Header.Get("Authorization"))
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				writeFail(w, map[string]any{"detail": "not_authenticated"}, http.StatusUnauthorized)
				return
			}

			claims, err := verifier.Verify(parts[1])
			if err != nil {
				writeFail(w, map[string]any{"detail": "not_authenticated"}, http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(jwt.SetAuth(r.Context(), claims)))
		})
	}
}
