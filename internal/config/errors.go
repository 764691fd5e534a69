package config

import "errors"

// Sentinel errors for invalid configuration states.
var (
	// ErrRetryAttempts is returned when max_attempts is below 1.
	ErrRetryAttempts = errors.New("retry.max_attempts must be at least 1")

	// ErrRetrySchedule is returned when the delay schedule is shorter than
	// max_attempts or not strictly increasing.
	ErrRetrySchedule = errors.New("retry.delays_seconds must cover max_attempts with strictly increasing delays")

	// ErrCacheTTL is returned when the cache TTL is not positive.
	ErrCacheTTL = errors.New("cache.ttl_minutes must be positive")

	// ErrAlertThreshold is returned when alert thresholds are not positive.
	ErrAlertThreshold = errors.New("alerts.failure_threshold and alerts.window_minutes must be positive")
)
