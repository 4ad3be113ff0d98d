package erldoc

import "context"

// Page is a module record rendered as Markdown.
type Page struct {
	Locale  Locale
	Module  string
	Summary string
	Content string // Markdown
}

// PageStore persists pages to storage with atomic semantics.
// Save writes to a temporary location; Commit makes changes permanent;
// Abort discards pending changes.
type PageStore interface {
	Save(ctx context.Context, page *Page) error
	Commit() error
	Abort() error
}
