package client

import (
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"
)

type leveledZap struct {
	inner *zap.SugaredLogger
}

// retry noise is downgraded: the client retries on its own, so intermediate
// failures are warnings, not errors.
func (l leveledZap) Error(msg string, kv ...interface{}) { l.inner.Warnw(msg, kv...) }
func (l leveledZap) Warn(msg string, kv ...interface{})  { l.inner.Warnw(msg, kv...) }
func (l leveledZap) Info(msg string, kv ...interface{})  { l.inner.Infow(msg, kv...) }
func (l leveledZap) Debug(msg string, kv ...interface{}) { l.inner.Debugw(msg, kv...) }

// RobustHTTPClient builds an *http.Client with retry logic suitable for the
// doremi API: connection errors, 5xx and 429 are retried with backoff. The
// returned client has the stdlib interface.
func RobustHTTPClient(log *zap.Logger, timeout time.Duration, retryMax int) *http.Client {
	rc := retryablehttp.NewClient()
	rc.RetryMax = retryMax
	rc.RetryWaitMin = 250 * time.Millisecond
	rc.RetryWaitMax = 2 * time.Second
	rc.Logger = retryablehttp.LeveledLogger(leveledZap{log.Sugar()})
	std := rc.StandardClient()
	std.Timeout = timeout
	return std
}
