package crawl

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/erldoc"
)

// FetchFunc is the signature for a fetch function.
type FetchFunc func(ctx context.Context, url string) (string, error)

// RetryDelays returns n exponential backoff delays starting at one second.
func RetryDelays(n int) []time.Duration {
	delays := make([]time.Duration, 0, max(n, 0))
	d := time.Second
	for i := 0; i < n; i++ {
		delays = append(delays, d)
		d *= 2
	}
	return delays
}

// FetchWithRetryDelays fetches url, retrying after each of delays in turn.
// Only transient errors are retried (see erldoc.IsTransient); a 404 or a
// parse failure is returned on the first attempt.
func FetchWithRetryDelays(ctx context.Context, url string, fetch FetchFunc, logger *slog.Logger, delays []time.Duration) (string, error) {
	maxAttempts := len(delays) + 1 // 1 initial + N retries

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		html, err := fetch(ctx, url)
		if err == nil {
			return html, nil
		}
		lastErr = err

		if !erldoc.IsTransient(err) || attempt >= maxAttempts-1 {
			break
		}

		if logger != nil {
			logger.Debug("retry fetch", "url", url, "attempt", attempt+2, "err", err)
		}

		select {
		case <-ctx.Done():
			return "", erldoc.Errorf(erldoc.ECANCELED, "fetch %s: %v", url, ctx.Err())
		case <-time.After(delays[attempt]):
		}
	}

	return "", lastErr
}
