package mock

import (
	"context"

	"github.com/fwojciec/erldoc"
)

var _ erldoc.SitemapService = (*SitemapService)(nil)

// SitemapService is a mock implementation of erldoc.SitemapService.
type SitemapService struct {
	DiscoverURLsFn func(ctx context.Context, baseURL string, filter *erldoc.URLFilter) ([]string, error)
}

func (s *SitemapService) DiscoverURLs(ctx context.Context, baseURL string, filter *erldoc.URLFilter) ([]string, error) {
	return s.DiscoverURLsFn(ctx, baseURL, filter)
}
