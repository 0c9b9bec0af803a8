package inventory

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/xxxsen/cbdav/identity"
	"github.com/xxxsen/cbdav/webdav"
	"github.com/xxxsen/common/logutil"
	"github.com/xxxsen/common/retry"
	"go.uber.org/zap"
)

var ErrIdentityNotFound = errors.New("identity not found")

// Client glues an identity lookup to a webdav session.
type Client struct {
	c *config
}

func New(opts ...Option) *Client {
	c := &config{
		UploadRetry: 1,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.Resolver == nil {
		c.Resolver = identity.New()
	}
	if c.UploadRetry <= 0 {
		c.UploadRetry = 1
	}
	return &Client{c: c}
}

func (c *Client) Lookup(ctx context.Context, host string, req *identity.Request) (*identity.Result, error) {
	rs, err := c.c.Resolver.Resolve(ctx, host, req)
	if err != nil {
		return nil, err
	}
	if !rs.Found() {
		return nil, fmt.Errorf("%w: host:%s", ErrIdentityNotFound, host)
	}
	return rs, nil
}

// Connect resolves the identity on host and returns a session that already
// passed SetupConnection.
func (c *Client) Connect(ctx context.Context, host string, req *identity.Request) (*webdav.Session, error) {
	rs, err := c.Lookup(ctx, host, req)
	if err != nil {
		return nil, err
	}
	logutil.GetLogger(ctx).Debug("identity resolved", zap.String("identity", rs.IdentityURL), zap.String("webdav", rs.WebDavURL))
	opts := make([]webdav.Option, 0, len(c.c.SessionOpts)+1)
	if c.c.Provider != nil {
		opts = append(opts, webdav.WithCredentialProvider(c.c.Provider))
	}
	opts = append(opts, c.c.SessionOpts...)
	sess, err := webdav.New(rs.IdentityURL, rs.WebDavURL, opts...)
	if err != nil {
		return nil, err
	}
	if err := sess.SetupConnection(ctx); err != nil {
		return nil, err
	}
	return sess, nil
}

func (c *Client) uploadFile(ctx context.Context, sess *webdav.Session, src string, remotePath string, size int64) error {
	start := time.Now()
	if err := retry.RetryDo(ctx, uint32(c.c.UploadRetry-1), time.Second, func(ctx context.Context) error {
		return sess.UploadFile(ctx, src, remotePath, filepath.Base(src))
	}); err != nil {
		logutil.GetLogger(ctx).Error("upload file failed", zap.Error(err), zap.String("src", src), zap.String("remote_path", remotePath))
		return err
	}
	cost := time.Since(start)
	speed := "-"
	if ms := int64(cost / time.Millisecond); ms > 0 {
		speed = humanize.IBytes(uint64(float64(size) * 1000 / float64(ms)))
	}
	logutil.GetLogger(ctx).Debug("file upload finish", zap.String("src", src), zap.String("size", humanize.IBytes(uint64(size))),
		zap.Duration("cost", cost), zap.String("speed", speed+"/s"))
	return nil
}

// UploadDir mirrors localDir into remotePath/<base of localDir>. Entries are
// sent one by one since a session serves a single caller.
func (c *Client) UploadDir(ctx context.Context, sess *webdav.Session, localDir string, remotePath string) error {
	info, err := os.Stat(localDir)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", localDir)
	}
	name := filepath.Base(filepath.Clean(localDir))
	if err := sess.CreateDirectory(ctx, remotePath, name); err != nil {
		return err
	}
	return c.uploadTree(ctx, sess, localDir, path.Join(remotePath, name))
}

func (c *Client) uploadTree(ctx context.Context, sess *webdav.Session, localDir string, remotePath string) error {
	ents, err := os.ReadDir(localDir)
	if err != nil {
		return err
	}
	for _, ent := range ents {
		src := filepath.Join(localDir, ent.Name())
		if ent.IsDir() {
			if err := sess.CreateDirectory(ctx, remotePath, ent.Name()); err != nil {
				return err
			}
			if err := c.uploadTree(ctx, sess, src, path.Join(remotePath, ent.Name())); err != nil {
				return err
			}
			continue
		}
		if !ent.Type().IsRegular() {
			logutil.GetLogger(ctx).Debug("skip non-regular file", zap.String("src", src))
			continue
		}
		fi, err := ent.Info()
		if err != nil {
			return err
		}
		if err := c.uploadFile(ctx, sess, src, remotePath, fi.Size()); err != nil {
			return err
		}
	}
	return nil
}
