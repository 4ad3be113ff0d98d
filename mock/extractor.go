package mock

import "github.com/fwojciec/erldoc"

var (
	_ erldoc.Extractor  = (*Extractor)(nil)
	_ erldoc.Normalizer = (*Normalizer)(nil)
)

// Extractor is a mock implementation of erldoc.Extractor.
type Extractor struct {
	ExtractFn func(html string) (*erldoc.Extraction, error)
}

func (e *Extractor) Extract(html string) (*erldoc.Extraction, error) {
	return e.ExtractFn(html)
}

// Normalizer is a mock implementation of erldoc.Normalizer.
type Normalizer struct {
	NormalizeFn func(module, fragment string) (string, error)
}

func (n *Normalizer) Normalize(module, fragment string) (string, error) {
	return n.NormalizeFn(module, fragment)
}
