package fs

import (
	"context"

	"github.com/fwojciec/erldoc"
)

// Reindex sets the name of every record in locale to the module name of
// its file, rewriting the files whose name differed. With dryRun set no
// file is written. It returns the paths that were (or would be) rewritten.
func (s *Store) Reindex(ctx context.Context, locale erldoc.Locale, dryRun bool) ([]string, error) {
	files, err := s.recordFiles(locale)
	if err != nil {
		return nil, err
	}

	var changed []string
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return changed, erldoc.Errorf(erldoc.ECANCELED, "reindex: %v", err)
		}

		rec, err := readRecord(path)
		if err != nil {
			return changed, err
		}

		name := moduleFromPath(path)
		if rec.Name == name {
			continue
		}
		rec.Name = name

		if !dryRun {
			data, err := erldoc.EncodeJSON(rec)
			if err != nil {
				return changed, erldoc.Errorf(erldoc.EINTERNAL, "encode %s: %v", path, err)
			}
			if err := writeFileAtomic(path, data); err != nil {
				return changed, err
			}
		}
		changed = append(changed, path)
	}
	return changed, nil
}
