// Package api implements the Othala REST API using chi.
package api

import (
	"context"
	"net/http"
	"strings"
)

// RootOverrideHeader lets a request address a knowledge base other than the
// server's configured default.
const RootOverrideHeader = "X-Othala-Root"

type ctxKey int

const rootKey ctxKey = iota

// RootResolver returns middleware that resolves the knowledge-base root for
// each request: the override header when present, the configured default
// otherwise.
func RootResolver(defaultRoot string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			root := defaultRoot
			if override := strings.TrimSpace(r.Header.Get(RootOverrideHeader)); override != "" {
				root = override
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), rootKey, root)))
		})
	}
}

// requestRoot returns the root resolved by RootResolver.
func requestRoot(r *http.Request) string {
	root, _ := r.Context().Value(rootKey).(string)
	return root
}

// AuthMiddleware returns middleware that validates a Bearer token.
// If enabled is false, all requests pass through (disabled mode).
func AuthMiddleware(enabled bool, token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !enabled {
				next.ServeHTTP(w, r)
				return
			}
			auth := r.Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") || strings.TrimPrefix(auth, "Bearer ") != token {
				writeJSON(w, http.StatusUnauthorized, errorBody("unauthorized"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
