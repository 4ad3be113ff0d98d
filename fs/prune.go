package fs

import (
	"context"
	"os"

	"github.com/fwojciec/erldoc"
)

// Prune removes record files of modules that are no longer in modules.
// A missing locale directory is skipped. With dryRun set nothing is removed.
// It returns the affected paths in locale then name order.
func (s *Store) Prune(ctx context.Context, locales []erldoc.Locale, modules []string, dryRun bool) ([]string, error) {
	keep := make(map[string]struct{}, len(modules))
	for _, m := range modules {
		keep[m] = struct{}{}
	}

	var pruned []string
	for _, locale := range locales {
		files, err := s.recordFiles(locale)
		if erldoc.ErrorCode(err) == erldoc.ENOTFOUND {
			continue
		} else if err != nil {
			return pruned, err
		}

		for _, path := range files {
			if err := ctx.Err(); err != nil {
				return pruned, erldoc.Errorf(erldoc.ECANCELED, "prune: %v", err)
			}
			if _, ok := keep[moduleFromPath(path)]; ok {
				continue
			}
			if !dryRun {
				if err := os.Remove(path); err != nil {
					return pruned, erldoc.Errorf(erldoc.EIO, "remove %s: %v", path, err)
				}
			}
			pruned = append(pruned, path)
		}
	}
	return pruned, nil
}
