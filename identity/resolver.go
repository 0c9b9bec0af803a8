package identity

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/xxxsen/common/logutil"
	"github.com/xxxsen/common/retry"
	"go.uber.org/zap"
)

var errUnexpectedStatus = errors.New("status code not ok")

type IResolver interface {
	Resolve(ctx context.Context, host string, req *Request) (*Result, error)
}

type defaultResolver struct {
	c *config
}

func New(opts ...Option) IResolver {
	c := &config{
		Schema:     "http",
		Timeout:    defaultTimeout,
		RetryTimes: 1,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.RetryTimes <= 0 {
		c.RetryTimes = 1
	}
	return &defaultResolver{c: c}
}

func checkHost(host string) error {
	if len(host) == 0 {
		return fmt.Errorf("%w: empty host", ErrInvalidRequest)
	}
	if strings.Contains(host, "://") || strings.ContainsAny(host, "/?#") {
		return fmt.Errorf("%w: host should be 'hostname:port' without schema or path, host:%s", ErrInvalidRequest, host)
	}
	return nil
}

func (d *defaultResolver) buildUrl(host string, query string) string {
	return fmt.Sprintf("%s://%s%s?%s", d.c.Schema, host, LookupPath, query)
}

// newHttpClient returns a one shot client, the connection is dropped as soon
// as the response body is closed.
func (d *defaultResolver) newHttpClient() *http.Client {
	return &http.Client{
		Timeout: d.c.Timeout,
		Transport: &http.Transport{
			DisableKeepAlives: true,
		},
	}
}

func (d *defaultResolver) Resolve(ctx context.Context, host string, req *Request) (*Result, error) {
	if err := checkHost(host); err != nil {
		return nil, err
	}
	query, err := BuildQuery(req)
	if err != nil {
		return nil, err
	}
	link := d.buildUrl(host, query)
	client := d.newHttpClient()
	defer client.CloseIdleConnections()

	var rs *Result
	var statusErr error
	if err := retry.RetryDo(ctx, uint32(d.c.RetryTimes-1), d.c.RetryInterval, func(ctx context.Context) error {
		res, err := d.doLookup(ctx, client, link)
		if errors.Is(err, errUnexpectedStatus) {
			statusErr = err
			return nil
		}
		if err != nil {
			logutil.GetLogger(ctx).Error("identity lookup failed, wait retry", zap.Error(err), zap.String("host", host))
			return err
		}
		rs = res
		return nil
	}); err != nil {
		return nil, fmt.Errorf("%w: lookup identity, host:%s, err:%w", ErrConnection, host, err)
	}
	if statusErr != nil {
		return nil, fmt.Errorf("%w: lookup identity, host:%s, err:%w", ErrConnection, host, statusErr)
	}
	logutil.GetLogger(ctx).Debug("identity lookup finish", zap.String("host", host),
		zap.String("identity_url", rs.IdentityURL), zap.String("webdav_url", rs.WebDavURL), zap.Bool("found", rs.Found()))
	return rs, nil
}

// doLookup wraps unexpected http status with errUnexpectedStatus, those are
// final and never retried.
func (d *defaultResolver) doLookup(ctx context.Context, client *http.Client, link string) (*Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link, nil)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	rsp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer rsp.Body.Close()
	logutil.GetLogger(ctx).Debug("identity lookup response", zap.Int("status", rsp.StatusCode), zap.Duration("cost", time.Since(start)))
	switch rsp.StatusCode {
	case http.StatusOK:
		return &Result{
			IdentityURL: rsp.Header.Get(HeaderIdentity),
			WebDavURL:   rsp.Header.Get(HeaderWebDavInventory),
		}, nil
	case http.StatusNotFound:
		return &Result{}, nil
	default:
		return nil, fmt.Errorf("%w, code:%d", errUnexpectedStatus, rsp.StatusCode)
	}
}
