package identity

import "time"

const (
	defaultTimeout = 10 * time.Second
)

type config struct {
	Schema        string
	Timeout       time.Duration
	RetryTimes    int
	RetryInterval time.Duration
}

type Option func(*config)

func WithSchema(s string) Option {
	return func(c *config) {
		c.Schema = s
	}
}

func WithTimeout(t time.Duration) Option {
	return func(c *config) {
		c.Timeout = t
	}
}

// WithRetry sets the total number of lookup attempts, the default is 1. Only
// transport level failures are retried, http status failures are returned as
// is.
func WithRetry(times int, interval time.Duration) Option {
	return func(c *config) {
		c.RetryTimes = times
		c.RetryInterval = interval
	}
}
