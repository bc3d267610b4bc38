package ratelimiter

import "time"

// Limiter admits or rejects a request for a client key. When a request is rejected
// the second return value is how long the client should wait.
type Limiter interface {
	Allow(key string) (bool, time.Duration)
}

type Config struct {
	RequestsPerTimeFrame int
	TimeFrame            time.Duration
	Enabled              bool
}
