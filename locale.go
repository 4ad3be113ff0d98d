package erldoc

import "regexp"

// Locale identifies a language variant of the output corpus.
// Content is identical across locales.
type Locale string

// DefaultLocale is the locale the front-end falls back to.
const DefaultLocale Locale = "en"

// DefaultLocales returns the compiled-in locale list.
func DefaultLocales() []Locale {
	return []Locale{DefaultLocale, "ru", "uk"}
}

var localeRe = regexp.MustCompile(`^[a-z]{2}(-[A-Z]{2})?$`)

// Validate returns an error if the locale is not a language tag such as
// "en" or "pt-BR".
func (l Locale) Validate() error {
	if !localeRe.MatchString(string(l)) {
		return Errorf(EINVALID, "invalid locale %q", string(l))
	}
	return nil
}
