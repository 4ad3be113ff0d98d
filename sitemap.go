package erldoc

import (
	"context"
	"regexp"
)

// SitemapService discovers page URLs from a documentation host's sitemaps.
type SitemapService interface {
	// DiscoverURLs finds all URLs from a site's sitemap.
	// It first checks robots.txt for sitemap directives, then falls back
	// to /sitemap.xml. Sitemap indexes are resolved recursively.
	//
	// If filter is nil, all URLs are returned.
	DiscoverURLs(ctx context.Context, baseURL string, filter *URLFilter) ([]string, error)
}

// URLFilter specifies patterns for including/excluding URLs.
type URLFilter struct {
	// Include patterns - if set, only URLs matching at least one pattern are included.
	Include []*regexp.Regexp

	// Exclude patterns - URLs matching any pattern are excluded.
	// Exclude is applied after Include.
	Exclude []*regexp.Regexp
}

// Match returns true if the URL passes the filter.
// If the filter is nil, all URLs pass.
func (f *URLFilter) Match(url string) bool {
	if f == nil {
		return true
	}

	if len(f.Include) > 0 {
		matched := false
		for _, re := range f.Include {
			if re.MatchString(url) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}

	for _, re := range f.Exclude {
		if re.MatchString(url) {
			return false
		}
	}

	return true
}

// ModulePageFilter matches module documentation pages.
func ModulePageFilter() *URLFilter {
	return &URLFilter{
		Include: []*regexp.Regexp{modulePageRe},
	}
}

var modulePageRe = regexp.MustCompile(`/doc/man/([A-Za-z0-9_]+)\.html$`)

// ModuleNamesFromURLs extracts module names from module page URLs,
// preserving first-seen order and dropping duplicates and other pages.
func ModuleNamesFromURLs(urls []string) []string {
	var names []string
	seen := make(map[string]struct{})
	for _, u := range urls {
		m := modulePageRe.FindStringSubmatch(u)
		if m == nil {
			continue
		}
		if _, ok := seen[m[1]]; ok {
			continue
		}
		seen[m[1]] = struct{}{}
		names = append(names, m[1])
	}
	return names
}
