package erldoc

// Converter converts HTML to Markdown.
type Converter interface {
	// Convert transforms an HTML fragment into Markdown.
	// An empty fragment converts to an empty string.
	Convert(html string) (string, error)
}
