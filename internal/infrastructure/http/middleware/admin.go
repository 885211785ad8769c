package middleware

import (
	"net/http"
)

const adminSecretHeader = "X-Admin-Secret"

// RequireAdminSecret returns a middleware that requires X-Admin-Secret to match the given secret.
// If secret is empty, all requests are rejected with 401.
func RequireAdminSecret(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if secret == "" {
				writeAuthErr(w, http.StatusUnauthorized, "unauthorized", "admin API not configured (ADMIN_SECRET)")
				return
			}
			if r.Header.Get(adminSecretHeader) != secret {
				writeAuthErr(w, http.StatusUnauthorized, "unauthorized", "invalid or missing admin secret")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
