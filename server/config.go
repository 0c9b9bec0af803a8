package server

import (
	"github.com/xxxsen/cbdav/auth"
	"github.com/xxxsen/cbdav/server/model"
)

const (
	defaultRealm = "cbdav inventory"
)

type config struct {
	users      []*model.User
	webdavRoot string
	authScheme string
	publicURL  string
	realm      string
}

type Option func(c *config)

func WithUsers(us []*model.User) Option {
	return func(c *config) {
		c.users = us
	}
}

func WithWebdavRoot(root string) Option {
	return func(c *config) {
		c.webdavRoot = root
	}
}

// WithAuthScheme picks the challenge sent for the inventory, basic or digest.
func WithAuthScheme(scheme string) Option {
	return func(c *config) {
		c.authScheme = scheme
	}
}

// WithPublicURL sets the url prefix used in lookup answers. When empty the
// request host is used.
func WithPublicURL(u string) Option {
	return func(c *config) {
		c.publicURL = u
	}
}

func WithRealm(realm string) Option {
	return func(c *config) {
		c.realm = realm
	}
}

func applyOpts(opts ...Option) *config {
	c := &config{
		authScheme: auth.DigestAuthName,
		realm:      defaultRealm,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}
