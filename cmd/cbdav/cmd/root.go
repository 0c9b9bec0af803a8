package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/xxxsen/cbdav/cacheapi"
	"github.com/xxxsen/cbdav/cmd/cbdav/config"
	"github.com/xxxsen/cbdav/identity"
	"github.com/xxxsen/cbdav/inventory"
	"github.com/xxxsen/cbdav/prompt"
	"github.com/xxxsen/cbdav/webdav"
	"github.com/xxxsen/common/logger"
)

const (
	defaultConfigFileEnv = "CBDAV_CONFIG"
)

var cmds []CreateFunc

type Context struct {
	Client *inventory.Client
	Config *config.Config
}

// Connect opens an authenticated session for the configured user.
func (c *Context) Connect(ctx context.Context) (*webdav.Session, error) {
	return c.Client.Connect(ctx, c.Config.Host, c.Config.Request())
}

type CreateFunc func(ctx *Context) *cobra.Command

func register(cr CreateFunc) {
	cmds = append(cmds, cr)
}

func buildResolver(c *config.Config) (identity.IResolver, error) {
	r := identity.New(identity.WithSchema(c.Schema), identity.WithTimeout(time.Duration(c.Timeout)*time.Second))
	var cache cacheapi.ICache[uint64, *identity.Result]
	var err error
	switch c.Cache.Kind {
	case "":
		return r, nil
	case config.CacheKindLRU:
		cache, err = cacheapi.NewLRU[uint64, *identity.Result](c.Cache.Size)
	case config.CacheKindExpirable:
		cache = cacheapi.NewExpirableLRU[uint64, *identity.Result](c.Cache.Size, time.Duration(c.Cache.TTL)*time.Second)
	case config.CacheKindRistretto:
		cache, err = cacheapi.NewRistretto[*identity.Result](int64(c.Cache.Size))
	default:
		return nil, fmt.Errorf("unsupported cache kind:%s", c.Cache.Kind)
	}
	if err != nil {
		return nil, fmt.Errorf("create identity cache failed, kind:%s, err:%w", c.Cache.Kind, err)
	}
	return identity.NewCachedResolver(r, cache), nil
}

func initContext(ctx *Context, cfgs []string) error {
	var c *config.Config
	err := errors.New("no config file given")
	for _, cfg := range cfgs {
		if len(cfg) == 0 {
			continue
		}
		c, err = config.Parse(cfg)
		if err == nil {
			break
		}
	}
	if err != nil {
		return fmt.Errorf("no valid config file found, last err:%w", err)
	}
	ctx.Config = c
	logger.Init("", c.LogLevel, 0, 0, 0, true)
	r, err := buildResolver(c)
	if err != nil {
		return err
	}
	var provider webdav.CredentialProvider = prompt.Terminal()
	if len(c.Password) != 0 {
		provider = webdav.StaticPassword(c.Password)
	}
	ctx.Client = inventory.New(
		inventory.WithResolver(r),
		inventory.WithCredentialProvider(provider),
		inventory.WithSessionOptions(webdav.WithMaxAttempts(c.MaxAttempts)),
	)
	return nil
}

func NewRoot() *cobra.Command {
	var configFile string
	ctx := &Context{}
	var rootCmd = &cobra.Command{
		Use:           "cbdav",
		Short:         "CableBeach WebDAV inventory CLI",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	for _, cr := range cmds {
		rootCmd.AddCommand(cr(ctx))
	}
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		envConfigFile, _ := os.LookupEnv(defaultConfigFileEnv)
		return initContext(ctx, []string{configFile, envConfigFile, "/etc/cbdav/cbdav_config.json", "C:/cbdav/cbdav_config.json"})
	}
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file")
	return rootCmd
}
