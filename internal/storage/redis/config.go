package redis

import "time"

// Config holds Redis connection and behavior settings
type Config struct {
	// URL is the Redis connection URL (e.g., redis://localhost:6379)
	URL string

	// KeyPrefix namespaces every key, so several bots can share one Redis
	KeyPrefix string

	// Pool settings
	PoolSize     int
	MinIdleConns int

	// AttemptsTTL expires attempt counts that were never rolled over
	AttemptsTTL time.Duration

	// MaxSummaries bounds the game history list
	MaxSummaries int
}

// DefaultConfig returns sensible defaults for Redis configuration
func DefaultConfig() Config {
	return Config{
		URL:          "redis://localhost:6379",
		KeyPrefix:    DefaultKeyPrefix,
		PoolSize:     10,
		MinIdleConns: 2,
		AttemptsTTL:  48 * time.Hour,
		MaxSummaries: 100,
	}
}
