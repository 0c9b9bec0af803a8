package inventory

import (
	"github.com/xxxsen/cbdav/identity"
	"github.com/xxxsen/cbdav/webdav"
)

type config struct {
	Resolver    identity.IResolver
	Provider    webdav.CredentialProvider
	SessionOpts []webdav.Option
	UploadRetry int
}

type Option func(*config)

func WithResolver(r identity.IResolver) Option {
	return func(c *config) {
		c.Resolver = r
	}
}

func WithCredentialProvider(p webdav.CredentialProvider) Option {
	return func(c *config) {
		c.Provider = p
	}
}

// WithSessionOptions is appended after the credential provider, so an
// explicit webdav.WithCredentialProvider here wins.
func WithSessionOptions(opts ...webdav.Option) Option {
	return func(c *config) {
		c.SessionOpts = append(c.SessionOpts, opts...)
	}
}

// WithUploadRetry sets how many times UploadDir tries each file in total, the
// default is 1.
func WithUploadRetry(times int) Option {
	return func(c *config) {
		c.UploadRetry = times
	}
}
