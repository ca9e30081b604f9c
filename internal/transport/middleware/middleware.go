// Package middleware holds the HTTP middleware of the operational server.
// Each constructor returns a Middleware suitable for chi.Router.Use; the
// server installs them outermost first: RequestID, Logger, Metrics, Recovery.
package middleware

import "net/http"

// Middleware is a function that wraps an http.Handler.
type Middleware = func(http.Handler) http.Handler
