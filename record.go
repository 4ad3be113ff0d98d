package erldoc

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
)

// DocRecord is the persisted documentation of one module.
type DocRecord struct {
	Name        string `json:"name"`
	Summary     string `json:"summary"`
	Description string `json:"description"`
	Funcs       string `json:"funcs"`
}

// Validate returns an error if the record contains invalid fields.
func (r *DocRecord) Validate() error {
	return ValidateModuleName(r.Name)
}

// Tags holds the search terms of one module for the tag index.
type Tags struct {
	Module    string
	FuncNames []string
	Titles    []string
}

// MarshalJSON encodes the tags as a [module, funcs, titles] triple, dropping
// empty members.
func (t Tags) MarshalJSON() ([]byte, error) {
	triple := make([]string, 0, 3)
	for _, s := range []string{
		t.Module,
		strings.Join(t.FuncNames, " "),
		strings.Join(t.Titles, " "),
	} {
		if s != "" {
			triple = append(triple, s)
		}
	}
	return EncodeJSON(triple)
}

// TagIndex is the aggregate tag file, ordered as the module list.
type TagIndex []Tags

// EncodeJSON encodes v as compact JSON without escaping HTML characters,
// so markup fragments are stored as written.
func EncodeJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// RecordWriter persists documentation records.
type RecordWriter interface {
	// WriteRecords replaces the record file of rec.Name under every locale.
	// On error no record file of rec.Name has been replaced.
	WriteRecords(ctx context.Context, locales []Locale, rec *DocRecord) error
}

// TagWriter persists the tag index.
type TagWriter interface {
	WriteTags(ctx context.Context, index TagIndex) error
}

// RecordStore reads previously persisted records.
type RecordStore interface {
	// FindRecords returns the records of a locale ordered by file name.
	// Returns ENOTFOUND if the locale directory does not exist.
	FindRecords(ctx context.Context, locale Locale) ([]*DocRecord, error)
}
