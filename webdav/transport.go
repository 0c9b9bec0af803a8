package webdav

import (
	"net/http"
	"time"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"
)

func newDefaultTransport() http.RoundTripper {
	return &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		IdleConnTimeout:     20 * time.Second,
		MaxIdleConns:        5,
		MaxIdleConnsPerHost: 1,
	}
}

type loggingTransport struct {
	rt http.RoundTripper
}

func (t *loggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	rsp, err := t.rt.RoundTrip(req)
	logger := logutil.GetLogger(req.Context()).With(zap.String("method", req.Method), zap.String("url", req.URL.String()))
	if err != nil {
		logger.Error("webdav request failed", zap.Error(err), zap.Duration("cost", time.Since(start)))
		return nil, err
	}
	if rsp.StatusCode >= http.StatusInternalServerError {
		logger.Error("5xx error from webdav server", zap.Int("status", rsp.StatusCode), zap.Duration("cost", time.Since(start)))
		return rsp, nil
	}
	logger.Debug("webdav request finish", zap.Int("status", rsp.StatusCode), zap.Duration("cost", time.Since(start)))
	return rsp, nil
}

func (t *loggingTransport) CloseIdleConnections() {
	if c, ok := t.rt.(interface{ CloseIdleConnections() }); ok {
		c.CloseIdleConnections()
	}
}
