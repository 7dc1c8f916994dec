package client

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog/log"

	"github.com/rm-Shayan/finetech-frontened/client/internal/api"
	cerr "github.com/rm-Shayan/finetech-frontened/client/internal/errors"
)

// Ping probes the backend health endpoint once.
func (c *Client) Ping(ctx context.Context) error {
	return api.Health(ctx, c.http, c.baseURL)
}

// WaitReady polls the health endpoint with exponential backoff until it
// answers, maxWait elapses or ctx ends. Client errors other than 408 and
// 429 stop the wait immediately.
func (c *Client) WaitReady(ctx context.Context, maxWait time.Duration) error {
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = 100 * time.Millisecond
	exp.Multiplier = 2
	exp.MaxInterval = 2 * time.Second
	exp.MaxElapsedTime = maxWait
	exp.Reset()

	attempts := 0
	op := func() error {
		attempts++
		err := c.Ping(ctx)
		if err == nil {
			return nil
		}
		if ctx.Err() != nil || !recoverable(err) {
			return backoff.Permanent(err)
		}
		log.Debug().Err(err).Int("attempt", attempts).Msg("backend not ready")
		return err
	}
	return backoff.Retry(op, backoff.WithContext(exp, ctx))
}

// recoverable mirrors the usual HTTP retry split: network failures and 5xx
// are transient, 408 and 429 too; every other 4xx is final.
func recoverable(err error) bool {
	var ce *cerr.ClassifiedError
	if !errors.As(err, &ce) {
		return true
	}
	switch {
	case ce.Kind == cerr.KindNetwork:
		return true
	case ce.StatusCode == http.StatusRequestTimeout, ce.StatusCode == http.StatusTooManyRequests:
		return true
	case ce.StatusCode >= 400 && ce.StatusCode < 500:
		return false
	default:
		return true
	}
}
