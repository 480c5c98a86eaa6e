// Package observability builds the zap logger and the Prometheus collectors
// shared by the HTTP layer.
package observability
