package erldoc

// Extraction holds the fragments pulled from one module page.
type Extraction struct {
	// Summary is the plain text module summary.
	Summary string

	// Description is the inner markup of the description region.
	Description string

	// Funcs is the inner markup of the exported functions region.
	Funcs string

	// FuncNames are the whitespace-collapsed function signature headers.
	FuncNames []string

	// Titles are the whitespace-collapsed linked titles of the exports listing.
	Titles []string
}

// Extractor pulls documentation fragments out of a module page.
type Extractor interface {
	// Extract parses raw HTML and returns its fragments. A region missing
	// from the page yields an empty field, not an error. EPARSE is returned
	// only when the input cannot be read as markup at all.
	Extract(html string) (*Extraction, error)
}

// Normalizer rewrites markup fragments for the site's router.
type Normalizer interface {
	// Normalize rewrites links, strips presentation attributes and collapses
	// whitespace. The module names the page the fragment came from and is
	// used to resolve in-page anchors. Normalize is idempotent.
	Normalize(module, fragment string) (string, error)
}
