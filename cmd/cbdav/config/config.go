package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/xxxsen/cbdav/identity"
)

const (
	CacheKindLRU       = "lru"
	CacheKindExpirable = "expirable"
	CacheKindRistretto = "ristretto"
)

type CacheConfig struct {
	Kind string `json:"kind" validate:"omitempty,oneof=lru expirable ristretto"`
	Size int    `json:"size" validate:"gte=0"`
	TTL  int64  `json:"ttl" validate:"gte=0"` // seconds, expirable only
}

type Config struct {
	Schema       string      `json:"schema" validate:"oneof=http https"`
	Host         string      `json:"host" validate:"required"`
	IdentityType string      `json:"identity_type" validate:"oneof=openid normal"`
	Identity     string      `json:"identity" validate:"required_if=IdentityType openid"`
	FirstName    string      `json:"first_name" validate:"required_if=IdentityType normal"`
	LastName     string      `json:"last_name" validate:"required_if=IdentityType normal"`
	Password     string      `json:"password"`
	Timeout      int64       `json:"timeout" validate:"gt=0"` // seconds
	LogLevel     string      `json:"log_level" validate:"oneof=debug info warn fatal panic"`
	MaxAttempts  int         `json:"max_attempts" validate:"gte=0"`
	Cache        CacheConfig `json:"cache"`
}

// Request builds the identity lookup from the configured user.
func (c *Config) Request() *identity.Request {
	if identity.IdentityType(c.IdentityType) == identity.TypeNormal {
		return identity.NewNormalRequest(c.FirstName, c.LastName)
	}
	return identity.NewOpenIDRequest(c.Identity)
}

func Parse(f string) (*Config, error) {
	raw, err := os.ReadFile(f)
	if err != nil {
		return nil, fmt.Errorf("read file:%w", err)
	}
	c := &Config{
		Schema:       "http",
		IdentityType: string(identity.TypeOpenID),
		LogLevel:     "info",
		Timeout:      10,
		MaxAttempts:  2,
		Cache: CacheConfig{
			Size: 128,
			TTL:  300,
		},
	}
	if err := json.Unmarshal(raw, c); err != nil {
		return nil, fmt.Errorf("unmarshal file:%w", err)
	}
	if err := validator.New().Struct(c); err != nil {
		return nil, fmt.Errorf("validate config:%w", err)
	}
	return c, nil
}
