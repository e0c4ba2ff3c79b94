// Package context carries request-scoped values across the HTTP middleware
// chain.
package context

type contextKey string
