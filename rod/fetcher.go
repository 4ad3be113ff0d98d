// Package rod provides a browser-based implementation of erldoc.Fetcher for
// documentation mirrors that render pages client-side.
package rod

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/fwojciec/erldoc"
	"github.com/go-rod/rod/lib/proto"
)

// DefaultFetchTimeout bounds a single page load, matching http.DefaultFetchTimeout.
const DefaultFetchTimeout = 10 * time.Second

// Ensure Fetcher implements erldoc.Fetcher at compile time.
var _ erldoc.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves rendered HTML using headless Chrome.
// Fetcher is safe for concurrent use by multiple goroutines.
type Fetcher struct {
	manager *BrowserManager
	timeout time.Duration
}

// Option configures a Fetcher.
type Option func(*fetcherOptions)

type fetcherOptions struct {
	timeout  time.Duration
	maxPages int64
}

// WithFetchTimeout sets the timeout of a single page load.
func WithFetchTimeout(d time.Duration) Option {
	return func(o *fetcherOptions) {
		o.timeout = d
	}
}

// WithRecycleAfter sets how many pages the browser renders before it is
// replaced with a fresh instance.
func WithRecycleAfter(n int64) Option {
	return func(o *fetcherOptions) {
		o.maxPages = n
	}
}

// NewFetcher launches a headless browser. Close must be called when the
// Fetcher is no longer needed.
//
// Returns an error if Chrome/Chromium cannot be found or launched.
func NewFetcher(opts ...Option) (*Fetcher, error) {
	o := fetcherOptions{
		timeout:  DefaultFetchTimeout,
		maxPages: DefaultMaxPages,
	}
	for _, opt := range opts {
		opt(&o)
	}

	manager, err := NewBrowserManager(WithMaxPages(o.maxPages))
	if err != nil {
		return nil, err
	}
	return &Fetcher{manager: manager, timeout: o.timeout}, nil
}

// Fetch navigates to url and returns the rendered HTML. A document response
// outside 2xx returns EHTTP with the status, like the HTTP fetcher.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", erldoc.Errorf(erldoc.ECANCELED, "fetch %s: %v", url, err)
	}

	browser, err := f.manager.Browser()
	if err != nil {
		return "", err
	}

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return "", erldoc.Errorf(erldoc.EINTERNAL, "open page: %v", err)
	}
	defer page.Close()

	page = page.Context(ctx).Timeout(f.timeout)

	if err := (proto.NetworkEnable{}).Call(page); err != nil {
		return "", f.pageError(ctx, url, err)
	}
	var resp proto.NetworkResponseReceived
	waitResponse := page.WaitEvent(&resp)

	if err := page.Navigate(url); err != nil {
		return "", f.pageError(ctx, url, err)
	}
	waitResponse()

	if resp.Response != nil {
		status := resp.Response.Status
		if status < 200 || status > 299 {
			return "", erldoc.HTTPErrorf(status, "GET %s: %d %s", url, status, http.StatusText(status))
		}
	}

	if err := page.WaitLoad(); err != nil {
		return "", f.pageError(ctx, url, err)
	}

	html, err := page.HTML()
	if err != nil {
		return "", f.pageError(ctx, url, err)
	}

	f.manager.IncrementPageCount()
	return html, nil
}

// pageError classifies a browser failure. Cancellation of the caller's
// context is ECANCELED; everything else, page timeouts included, is ENETWORK.
func (f *Fetcher) pageError(ctx context.Context, url string, err error) error {
	if ctx.Err() != nil {
		return erldoc.Errorf(erldoc.ECANCELED, "fetch %s: %v", url, ctx.Err())
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return erldoc.Errorf(erldoc.ENETWORK, "fetch %s: timeout after %s", url, f.timeout)
	}
	return erldoc.Errorf(erldoc.ENETWORK, "fetch %s: %v", url, err)
}

// Close releases browser resources. Close is safe to call multiple times.
func (f *Fetcher) Close() error {
	return f.manager.Close()
}

// LauncherPID returns the process ID of the browser launcher.
func (f *Fetcher) LauncherPID() int {
	return f.manager.LauncherPID()
}
