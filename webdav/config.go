package webdav

import "net/http"

const (
	defaultMaxAttempts = 2
)

type config struct {
	Provider    CredentialProvider
	MaxAttempts int
	Transport   http.RoundTripper
	Factory     CollectionFactory
}

type Option func(*config)

func WithCredentialProvider(p CredentialProvider) Option {
	return func(c *config) {
		c.Provider = p
	}
}

// WithMaxAttempts sets how many credentialed retries SetupConnection may
// spend on challenges.
func WithMaxAttempts(n int) Option {
	return func(c *config) {
		c.MaxAttempts = n
	}
}

func WithTransport(tr http.RoundTripper) Option {
	return func(c *config) {
		c.Transport = tr
	}
}

func WithCollectionFactory(f CollectionFactory) Option {
	return func(c *config) {
		c.Factory = f
	}
}
