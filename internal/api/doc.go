// Package api contains the HTTP handlers of the board service. Handlers
// decode and validate requests, call the application services and translate
// their errors into status codes and safe client messages.
//
// Subpackage shared holds the response and request helpers used by both the
// handlers and the middleware; subpackage middleware holds bearer token
// authentication and request tracing.
package api
