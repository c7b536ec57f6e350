// Package ratelimit admits or rejects requests per caller identifier
// against a sliding time window and quota.
package ratelimit

import (
	"context"
	"time"
)

const (
	DefaultWindow = time.Hour
	DefaultQuota  = 5
)

// Limiter decides admission for a caller identifier. An admitted call counts
// toward the identifier's quota; a rejected call does not.
type Limiter interface {
	Allow(ctx context.Context, identifier string) (bool, error)
	Quota() int
	Window() time.Duration
}

// Config holds the window and quota shared by all limiter stores.
type Config struct {
	Window time.Duration
	Quota  int
}

func (c Config) withDefaults() Config {
	if c.Window <= 0 {
		c.Window = DefaultWindow
	}
	if c.Quota <= 0 {
		c.Quota = DefaultQuota
	}
	return c
}
