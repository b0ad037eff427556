// Package middleware stores global and route-specific middleware.
//
// These intercept requests to handle cross-cutting concerns
// such as request correlation, request logging, CORS,
// rate limiting, tracing and panic recovery, and own the
// final translation of errors into HTTP responses.
package middleware
