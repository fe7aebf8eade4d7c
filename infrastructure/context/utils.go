// Package context holds the timeouts shared by start-up and shutdown code.
package context

import (
	"context"
	"time"
)

const (
	// DefaultShutdownTimeout bounds graceful shutdown.
	DefaultShutdownTimeout = 10 * time.Second

	// DefaultPingTimeout bounds a single dependency ping.
	DefaultPingTimeout = 5 * time.Second
)

// WithPingTimeout derives a context bounded by DefaultPingTimeout.
func WithPingTimeout(parent context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, DefaultPingTimeout)
}

// WithShutdownTimeout returns a fresh context bounded by DefaultShutdownTimeout.
// It deliberately does not derive from a request or signal context, which is
// usually already cancelled when shutdown starts.
func WithShutdownTimeout() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), DefaultShutdownTimeout)
}
