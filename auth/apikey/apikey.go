// auth/apikey/apikey.go
package apikey

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// Realm is sent in the WWW-Authenticate header.
const Realm = "regcheck"

// Require returns a middleware that enforces a static API key. An empty
// expected key disables the check. The key is read from, in order:
//  1. Authorization: Bearer <token>
//  2. X-API-Key header
//
// deny writes the 401 body; nil writes plain text.
func Require(expected string, deny http.HandlerFunc, logger *zap.Logger) func(next http.Handler) http.Handler {
	expected = strings.TrimSpace(expected)
	if expected == "" {
		return func(next http.Handler) http.Handler {
			return next
		}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if deny == nil {
		deny = func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
		}
	}
	want := []byte(expected)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key, ok := FromRequest(r)
			if !ok || subtle.ConstantTimeCompare([]byte(key), want) != 1 {
				logger.Warn("API key unauthorized",
					zap.String("path", r.URL.Path),
					zap.String("method", r.Method),
					zap.String("remote_ip", r.RemoteAddr),
					zap.Bool("key_present", ok),
				)
				w.Header().Set("WWW-Authenticate", `Bearer realm="`+Realm+`"`)
				deny(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// FromRequest extracts the API key from r. Query parameters are not
// consulted so keys stay out of access logs.
func FromRequest(r *http.Request) (string, bool) {
	auth := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(auth) > len("bearer ") && strings.EqualFold(auth[:len("bearer ")], "bearer ") {
		if token := strings.TrimSpace(auth[len("bearer "):]); token != "" {
			return token, true
		}
	}
	if key := strings.TrimSpace(r.Header.Get("X-API-Key")); key != "" {
		return key, true
	}
	return "", false
}
