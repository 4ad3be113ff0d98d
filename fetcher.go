package erldoc

import "context"

// Fetcher retrieves raw documentation pages.
type Fetcher interface {
	// Fetch performs one retrieval of the page at url and returns its HTML.
	// Transport failures return ENETWORK, non-success responses return EHTTP
	// with the status attached, and a canceled context returns ECANCELED.
	// Fetch never retries; callers decide.
	Fetch(ctx context.Context, url string) (html string, err error)

	// Close releases resources held by the fetcher.
	Close() error
}
