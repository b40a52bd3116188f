// Package delivery defines the contract every transport-facing server
// implements, so the application can start any mix of them uniformly.
package delivery

import "context"

// Delivery is a long-running server (HTTP API, pubsub worker) managed by the
// application lifecycle.
type Delivery interface {
	// Serve blocks, accepting work until the server is shut down.
	Serve(ctx context.Context) error
}
