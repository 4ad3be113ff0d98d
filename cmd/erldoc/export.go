package main

import (
	"fmt"
	"path/filepath"

	"github.com/fwojciec/erldoc"
	"github.com/fwojciec/erldoc/fs"
)

// Run executes the export command. Every locale is exported into one
// directory that replaces the previous export only when all pages saved.
func (c *ExportCmd) Run(deps *Dependencies) error {
	store := fs.NewFileStore(filepath.Dir(c.Dir), filepath.Base(c.Dir))

	count, err := c.export(deps, store)
	if err != nil {
		if aerr := store.Abort(); aerr != nil {
			deps.Logger.Warn("abort export", "err", aerr)
		}
		fmt.Fprintf(deps.Stderr, "error: %s\n", erldoc.ErrorMessage(err))
		return err
	}
	if err := store.Commit(); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", erldoc.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Exported %d pages to %s\n", count, c.Dir)
	return nil
}

func (c *ExportCmd) export(deps *Dependencies, store erldoc.PageStore) (int, error) {
	count := 0
	for _, locale := range deps.Config.Locales {
		records, err := deps.Store.FindRecords(deps.Ctx, locale)
		if erldoc.ErrorCode(err) == erldoc.ENOTFOUND {
			continue
		} else if err != nil {
			return count, err
		}

		for _, rec := range records {
			content, err := deps.Converter.Convert(rec.Description + rec.Funcs)
			if err != nil {
				return count, erldoc.Errorf(erldoc.ErrorCode(err), "convert %s/%s: %s", locale, rec.Name, erldoc.ErrorMessage(err))
			}
			page := &erldoc.Page{
				Locale:  locale,
				Module:  rec.Name,
				Summary: rec.Summary,
				Content: content,
			}
			if err := store.Save(deps.Ctx, page); err != nil {
				return count, err
			}
			count++
		}
	}
	if count == 0 {
		return 0, erldoc.Errorf(erldoc.ENOTFOUND, "no records under %s", deps.Store.Root())
	}
	return count, nil
}
