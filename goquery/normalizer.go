package goquery

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/erldoc"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var _ erldoc.Normalizer = (*Normalizer)(nil)

// Presentation hooks of the source site with no meaning on ours.
var strippedAttrs = []string{"onmouseover", "onmouseout"}

var (
	whitespaceRunRe = regexp.MustCompile(`\s\s+`)
	newlineRe       = regexp.MustCompile(`\n`)
)

// Normalizer rewrites documentation links to the site's router, strips
// presentation attributes and collapses whitespace.
type Normalizer struct {
	prefix string
	policy erldoc.AnchorPolicy
}

// NewNormalizer creates a Normalizer that routes links under prefix
// (e.g. "/erldoc/docs/") and treats in-page anchors according to policy.
// An empty prefix selects erldoc.DefaultRoutePrefix, an empty policy
// selects erldoc.AnchorKeep.
func NewNormalizer(prefix string, policy erldoc.AnchorPolicy) *Normalizer {
	if prefix == "" {
		prefix = erldoc.DefaultRoutePrefix
	}
	if policy == "" {
		policy = erldoc.AnchorKeep
	}
	return &Normalizer{prefix: prefix, policy: policy}
}

// maxPasses bounds the rewrite cycles Normalize runs to reach a fixed point.
const maxPasses = 8

// Normalize rewrites a markup fragment taken from module's page.
//
// Misnested markup (foster-parented tables, nested anchors or list items)
// renders into a tree that parses back into a different shape, so the
// rewrite is repeated until its output no longer changes.
func (n *Normalizer) Normalize(module, fragment string) (string, error) {
	if fragment == "" {
		return "", nil
	}

	out := fragment
	for range maxPasses {
		next, err := n.rewrite(module, out)
		if err != nil {
			return "", err
		}
		if next == out {
			break
		}
		out = next
	}
	return out, nil
}

// rewrite runs one parse, rewrite, render and collapse cycle. Attributes are
// rewritten on the parsed tree before rendering, so collapsing never runs
// across an attribute boundary.
func (n *Normalizer) rewrite(module, fragment string) (string, error) {
	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), body)
	if err != nil {
		return "", erldoc.Errorf(erldoc.EPARSE, "failed to parse fragment: %v", err)
	}

	root := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	for _, node := range nodes {
		root.AppendChild(node)
	}

	sel := goquery.NewDocumentFromNode(root).Selection
	sel.Find("[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		s.SetAttr("href", n.rewriteHref(module, href))
	})
	for _, attr := range strippedAttrs {
		sel.Find("[" + attr + "]").RemoveAttr(attr)
	}

	var b strings.Builder
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&b, c); err != nil {
			return "", erldoc.Errorf(erldoc.EPARSE, "failed to render fragment: %v", err)
		}
	}

	return collapseWhitespace(b.String()), nil
}

// rewriteHref maps a source-site link to a site route. "lists.html#map-2"
// becomes "/erldoc/docs/lists#map-2". Absolute URLs, non-HTTP schemes,
// empty links and links already under the prefix are returned unchanged.
func (n *Normalizer) rewriteHref(module, href string) string {
	switch {
	case href == "":
		return href
	case strings.HasPrefix(href, n.prefix):
		return href
	case strings.HasPrefix(href, "#"):
		if n.policy == erldoc.AnchorPage && module != "" {
			return n.prefix + module + href
		}
		return href
	case isAbsolute(href):
		return href
	}
	return n.prefix + strings.Replace(href, ".html", "", 1)
}

// isAbsolute reports whether href names its own scheme or host. Absolute
// links point off the site's router (erlang.org pages outside /doc/man, other
// hosts), so they are never mapped to a route even when they end in ".html".
func isAbsolute(href string) bool {
	if strings.HasPrefix(href, "//") {
		return true
	}
	u, err := url.Parse(href)
	if err != nil {
		return false
	}
	return u.Scheme != ""
}

// collapseWhitespace replaces whitespace runs with a single space and then
// drops remaining newlines.
func collapseWhitespace(s string) string {
	s = whitespaceRunRe.ReplaceAllString(s, " ")
	return newlineRe.ReplaceAllString(s, "")
}
