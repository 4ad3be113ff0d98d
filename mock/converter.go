package mock

import "github.com/fwojciec/erldoc"

var _ erldoc.Converter = (*Converter)(nil)

// Converter is a mock implementation of erldoc.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}
