// Package optimization provides concurrency tuning for high load.
// Channel buffers, connection pool settings and per-operator rate limits.
package optimization

import (
	"runtime"
)

// Config holds tuned parameters for high-load scenarios.
type Config struct {
	// Channel buffer sizes
	BroadcastChannelBuffer int
	ClientSendBuffer       int

	// Connection pools
	DBMaxOpenConns int
	DBMaxIdleConns int

	// Rate limiting
	MaxKeysPerSecond int
	MaxClientsPerHub int
	MaxMessageLength int
}

// DefaultConfig returns sensible defaults for production.
func DefaultConfig() *Config {
	numCPU := runtime.NumCPU()

	return &Config{
		// Channel buffers - larger = more memory, less blocking
		BroadcastChannelBuffer: 256,
		ClientSendBuffer:       64,

		// Database connections
		DBMaxOpenConns: numCPU * 4,
		DBMaxIdleConns: numCPU * 2,

		// Rate limits
		MaxKeysPerSecond: 50, // A practiced operator peaks well under this
		MaxClientsPerHub: 200,
		MaxMessageLength: 4096,
	}
}

// LowResourceConfig returns minimal settings for development.
func LowResourceConfig() *Config {
	return &Config{
		BroadcastChannelBuffer: 32,
		ClientSendBuffer:       16,

		DBMaxOpenConns: 2,
		DBMaxIdleConns: 1,

		MaxKeysPerSecond: 20,
		MaxClientsPerHub: 10,
		MaxMessageLength: 1024,
	}
}
