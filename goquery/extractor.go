// Package goquery implements erldoc.Extractor and erldoc.Normalizer on top
// of CSS selection over parsed HTML.
package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/erldoc"
)

// Regions of an Erlang/OTP module page. Two page layouts exist: module
// pages carry .module-summary-body, application file pages (app, appup)
// carry .file-summary-body instead.
const (
	ModuleSummarySelector = ".module-summary-body"
	FileSummarySelector   = ".file-summary-body"
	DescriptionSelector   = ".description-body"
	ExportsSelector       = ".exports-body"
	FuncHeadSelector      = ".func-head"
	TitleLinkSelector     = ".exports-body .title_link"
)

var _ erldoc.Extractor = (*Extractor)(nil)

// Extractor pulls the summary, description and function fragments out of
// an Erlang/OTP module page.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract parses raw HTML and returns its fragments. Regions missing from
// the page yield empty fields.
func (e *Extractor) Extract(html string) (*erldoc.Extraction, error) {
	if strings.IndexByte(html, 0) >= 0 {
		return nil, erldoc.Errorf(erldoc.EPARSE, "document contains NUL bytes, not markup")
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, erldoc.Errorf(erldoc.EPARSE, "failed to parse HTML: %v", err)
	}

	description, err := innerHTML(doc.Find(DescriptionSelector))
	if err != nil {
		return nil, err
	}

	funcs, err := funcsHTML(doc)
	if err != nil {
		return nil, err
	}

	return &erldoc.Extraction{
		Summary:     summary(doc),
		Description: description,
		Funcs:       funcs,
		FuncNames:   texts(doc.Find(FuncHeadSelector)),
		Titles:      texts(doc.Find(TitleLinkSelector)),
	}, nil
}

// summary prefers the module summary and falls back to the file summary.
func summary(doc *goquery.Document) string {
	sel := doc.Find(ModuleSummarySelector)
	if sel.Length() == 0 {
		sel = doc.Find(FileSummarySelector)
	}
	return strings.TrimSpace(sel.Text())
}

// funcsHTML returns the exports region, or the function headers themselves
// on pages that list functions without an exports wrapper.
func funcsHTML(doc *goquery.Document) (string, error) {
	exports := doc.Find(ExportsSelector)
	if exports.Length() > 0 {
		return innerHTML(exports)
	}

	var b strings.Builder
	var renderErr error
	doc.Find(FuncHeadSelector).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		html, err := goquery.OuterHtml(sel)
		if err != nil {
			renderErr = erldoc.Errorf(erldoc.EPARSE, "failed to render function header: %v", err)
			return false
		}
		b.WriteString(html)
		return true
	})
	if renderErr != nil {
		return "", renderErr
	}
	return b.String(), nil
}

// innerHTML returns the inner markup of the first matched element, or an
// empty string when nothing matched.
func innerHTML(sel *goquery.Selection) (string, error) {
	if sel.Length() == 0 {
		return "", nil
	}
	html, err := sel.Html()
	if err != nil {
		return "", erldoc.Errorf(erldoc.EPARSE, "failed to render fragment: %v", err)
	}
	return html, nil
}

// texts returns the whitespace-collapsed text of every matched element,
// skipping empty ones.
func texts(sel *goquery.Selection) []string {
	var out []string
	sel.Each(func(_ int, s *goquery.Selection) {
		if t := collapseText(s.Text()); t != "" {
			out = append(out, t)
		}
	})
	return out
}

func collapseText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
