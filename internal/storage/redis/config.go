package redis

import "time"

// Config holds Redis connection and behavior settings
type Config struct {
	// URL is the Redis connection URL (e.g., redis://localhost:6379)
	URL string

	// Pool settings
	PoolSize     int
	MinIdleConns int

	// SessionTTL bounds how long players and rooms may linger if the
	// process dies without cleaning up. Zero disables expiry.
	SessionTTL time.Duration

	// PendingTTL caps pending-disconnect records. The engine purges them
	// itself when the grace period elapses; this is a backstop.
	PendingTTL time.Duration
}

// DefaultConfig returns sensible defaults for Redis configuration
func DefaultConfig() Config {
	return Config{
		URL:          "redis://localhost:6379",
		PoolSize:     10,
		MinIdleConns: 2,
		SessionTTL:   24 * time.Hour,
		PendingTTL:   time.Hour,
	}
}
