// Package constants holds shared constant values used across layers.
package constants

// Pub/Sub provider types selectable via configuration.
const (
	PubSubProviderLocal  = "local"
	PubSubProviderGoogle = "google"
)

// RequestIDHeader is the HTTP header carrying the request ID for tracing.
const RequestIDHeader = "X-Request-Id"

// EnvDevelop is the environment name under which external auth checks are
// relaxed for local development.
const EnvDevelop = "develop"
