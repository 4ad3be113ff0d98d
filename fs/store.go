// Package fs provides file-based storage for documentation records.
package fs

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/fwojciec/erldoc"
)

// TagsFile is the name of the tag index under the output root.
const TagsFile = "tags.json"

const recordExt = ".json"

// Compile-time interface verification.
var (
	_ erldoc.RecordWriter = (*Store)(nil)
	_ erldoc.TagWriter    = (*Store)(nil)
	_ erldoc.RecordStore  = (*Store)(nil)
)

// Store keeps one JSON file per locale and module under a root directory:
// <root>/<locale>/<module>.json, plus <root>/tags.json.
type Store struct {
	root string
}

// NewStore creates a new Store rooted at root.
func NewStore(root string) *Store {
	return &Store{root: root}
}

// Root returns the output root directory.
func (s *Store) Root() string {
	return s.root
}

// RecordPath returns the file path of a module record.
func (s *Store) RecordPath(locale erldoc.Locale, module string) string {
	return filepath.Join(s.root, string(locale), module+recordExt)
}

// TagsPath returns the file path of the tag index.
func (s *Store) TagsPath() string {
	return filepath.Join(s.root, TagsFile)
}

// WriteRecord replaces the record file of rec.Name under locale, creating
// the locale directory if needed.
func (s *Store) WriteRecord(ctx context.Context, locale erldoc.Locale, rec *erldoc.DocRecord) error {
	return s.WriteRecords(ctx, []erldoc.Locale{locale}, rec)
}

// WriteRecords replaces the record file of rec.Name under every locale.
// Every file is staged next to its target first and renamed into place only
// once all of them are staged, so a failing locale leaves the others as they
// were.
func (s *Store) WriteRecords(ctx context.Context, locales []erldoc.Locale, rec *erldoc.DocRecord) error {
	if err := ctx.Err(); err != nil {
		return erldoc.Errorf(erldoc.ECANCELED, "write %s: %v", rec.Name, err)
	}
	for _, locale := range locales {
		if err := locale.Validate(); err != nil {
			return err
		}
	}
	if err := rec.Validate(); err != nil {
		return err
	}

	data, err := erldoc.EncodeJSON(rec)
	if err != nil {
		return erldoc.Errorf(erldoc.EINTERNAL, "encode record %s: %v", rec.Name, err)
	}

	staged := make(map[string]string, len(locales)) // target path -> temp file
	defer func() {
		for _, tmp := range staged {
			_ = os.Remove(tmp)
		}
	}()

	paths := make([]string, 0, len(locales))
	for _, locale := range locales {
		path := s.RecordPath(locale, rec.Name)
		tmp, err := stageFile(path, data)
		if err != nil {
			return err
		}
		staged[path] = tmp
		paths = append(paths, path)
	}

	for _, path := range paths {
		if err := os.Rename(staged[path], path); err != nil {
			return erldoc.Errorf(erldoc.EIO, "rename to %s: %v", path, err)
		}
		delete(staged, path)
	}
	return nil
}

// WriteTags replaces the tag index file.
func (s *Store) WriteTags(ctx context.Context, index erldoc.TagIndex) error {
	if err := ctx.Err(); err != nil {
		return erldoc.Errorf(erldoc.ECANCELED, "write tags: %v", err)
	}
	if index == nil {
		index = erldoc.TagIndex{}
	}

	data, err := erldoc.EncodeJSON(index)
	if err != nil {
		return erldoc.Errorf(erldoc.EINTERNAL, "encode tags: %v", err)
	}

	return writeFileAtomic(s.TagsPath(), data)
}

// FindRecords returns the records of a locale ordered by file name.
func (s *Store) FindRecords(ctx context.Context, locale erldoc.Locale) ([]*erldoc.DocRecord, error) {
	files, err := s.recordFiles(locale)
	if err != nil {
		return nil, err
	}

	records := make([]*erldoc.DocRecord, 0, len(files))
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return nil, erldoc.Errorf(erldoc.ECANCELED, "read records: %v", err)
		}
		rec, err := readRecord(path)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

// recordFiles lists the record files of a locale in name order.
func (s *Store) recordFiles(locale erldoc.Locale) ([]string, error) {
	if err := locale.Validate(); err != nil {
		return nil, err
	}

	dir := filepath.Join(s.root, string(locale))
	entries, err := os.ReadDir(dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, erldoc.Errorf(erldoc.ENOTFOUND, "locale directory %s not found", dir)
	} else if err != nil {
		return nil, erldoc.Errorf(erldoc.EIO, "read %s: %v", dir, err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), recordExt) {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	return files, nil
}

func readRecord(path string) (*erldoc.DocRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, erldoc.Errorf(erldoc.EIO, "read %s: %v", path, err)
	}
	var rec erldoc.DocRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, erldoc.Errorf(erldoc.EPARSE, "decode %s: %v", path, err)
	}
	return &rec, nil
}

// moduleFromPath returns the module name encoded in a record file name.
func moduleFromPath(path string) string {
	return strings.TrimSuffix(filepath.Base(path), recordExt)
}

// writeFileAtomic writes data to a temporary file next to path and renames
// it into place, so readers never observe a truncated file.
func writeFileAtomic(path string, data []byte) error {
	tmp, err := stageFile(path, data)
	if err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return erldoc.Errorf(erldoc.EIO, "rename to %s: %v", path, err)
	}
	return nil
}

// stageFile writes data to a synced temporary file in the directory of path,
// creating the directory if needed, and returns the temporary file name.
func stageFile(path string, data []byte) (_ string, err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", erldoc.Errorf(erldoc.EIO, "create directory %s: %v", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return "", erldoc.Errorf(erldoc.EIO, "create temp file in %s: %v", dir, err)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return "", erldoc.Errorf(erldoc.EIO, "write %s: %v", tmp.Name(), err)
	}
	if err := tmp.Sync(); err != nil {
		return "", erldoc.Errorf(erldoc.EIO, "sync %s: %v", tmp.Name(), err)
	}
	if err := tmp.Chmod(0644); err != nil {
		return "", erldoc.Errorf(erldoc.EIO, "chmod %s: %v", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return "", erldoc.Errorf(erldoc.EIO, "close %s: %v", tmp.Name(), err)
	}
	return tmp.Name(), nil
}
