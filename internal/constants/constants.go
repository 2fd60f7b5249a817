package constants

import "time"

var CacheTTL = struct {
	Profile      time.Duration
	RawInstagram time.Duration
	RawYouTube   time.Duration
	RawLinkedIn  time.Duration
}{
	Profile:      30 * time.Minute,
	RawInstagram: 15 * time.Minute,
	RawYouTube:   2 * time.Hour,
	RawLinkedIn:  6 * time.Hour,
}

var RetryConfig = struct {
	MaxAttempts int
	BaseDelay   time.Duration
	Jitter      time.Duration
}{
	MaxAttempts: 3,
	BaseDelay:   500 * time.Millisecond,
	Jitter:      250 * time.Millisecond,
}

var CircuitBreakerConfig = struct {
	FailureThreshold    int
	ResetTimeout        time.Duration
	RateLimitTimeout    time.Duration
	HealthCheckInterval time.Duration
	HealthCheckTimeout  time.Duration
}{
	FailureThreshold:    3,
	ResetTimeout:        30 * time.Second,
	RateLimitTimeout:    1 * time.Hour,
	HealthCheckInterval: 10 * time.Minute,
	HealthCheckTimeout:  10 * time.Second,
}

var PaginationConfig = struct {
	DefaultLimit int
	MaxLimit     int
}{
	DefaultLimit: 20,
	MaxLimit:     100,
}

var HTTPConfig = struct {
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
	UserAgent       string
}{
	RequestTimeout:  15 * time.Second,
	ShutdownTimeout: 10 * time.Second,
	UserAgent:       "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36",
}
