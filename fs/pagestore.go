package fs

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/fwojciec/erldoc"
	"gopkg.in/yaml.v3"
)

// Ensure FileStore implements erldoc.PageStore at compile time.
var _ erldoc.PageStore = (*FileStore)(nil)

// FileStore implements erldoc.PageStore with atomic update semantics.
// Pages are saved to a temporary directory, then moved atomically on Commit.
type FileStore struct {
	baseDir string
	name    string
}

// NewFileStore creates a new FileStore.
// baseDir is the parent directory, name is the output directory name.
// Files are saved to baseDir/name.tmp and moved to baseDir/name on Commit.
func NewFileStore(baseDir, name string) *FileStore {
	return &FileStore{
		baseDir: baseDir,
		name:    name,
	}
}

func (s *FileStore) tempDir() string {
	return filepath.Join(s.baseDir, s.name+".tmp")
}

func (s *FileStore) finalDir() string {
	return filepath.Join(s.baseDir, s.name)
}

// Save writes a page to <name>.tmp/<locale>/<module>.md.
func (s *FileStore) Save(ctx context.Context, page *erldoc.Page) error {
	if err := ctx.Err(); err != nil {
		return erldoc.Errorf(erldoc.ECANCELED, "save %s: %v", page.Module, err)
	}
	if err := page.Locale.Validate(); err != nil {
		return err
	}
	if err := erldoc.ValidateModuleName(page.Module); err != nil {
		return err
	}

	content, err := FormatPage(page)
	if err != nil {
		return err
	}

	dir := filepath.Join(s.tempDir(), string(page.Locale))
	if err := os.MkdirAll(dir, 0755); err != nil {
		return erldoc.Errorf(erldoc.EIO, "create directory %s: %v", dir, err)
	}

	path := filepath.Join(dir, page.Module+".md")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return erldoc.Errorf(erldoc.EIO, "write %s: %v", path, err)
	}
	return nil
}

// frontmatter is the YAML header of an exported page.
type frontmatter struct {
	Module  string `yaml:"module"`
	Locale  string `yaml:"locale"`
	Summary string `yaml:"summary,omitempty"`
}

// FormatPage formats a page with YAML frontmatter.
func FormatPage(page *erldoc.Page) (string, error) {
	header, err := yaml.Marshal(frontmatter{
		Module:  page.Module,
		Locale:  string(page.Locale),
		Summary: page.Summary,
	})
	if err != nil {
		return "", erldoc.Errorf(erldoc.EINTERNAL, "encode frontmatter for %s: %v", page.Module, err)
	}

	var b strings.Builder
	b.WriteString("---\n")
	b.Write(header)
	b.WriteString("---\n\n")
	b.WriteString(page.Content)
	if !strings.HasSuffix(page.Content, "\n") {
		b.WriteString("\n")
	}
	return b.String(), nil
}

// Commit replaces the final directory with the saved pages.
func (s *FileStore) Commit() error {
	if err := os.RemoveAll(s.finalDir()); err != nil {
		return erldoc.Errorf(erldoc.EIO, "remove %s: %v", s.finalDir(), err)
	}

	if err := os.Rename(s.tempDir(), s.finalDir()); err != nil {
		return erldoc.Errorf(erldoc.EIO, "rename %s: %v", s.tempDir(), err)
	}

	return nil
}

// Abort discards the saved pages.
func (s *FileStore) Abort() error {
	return os.RemoveAll(s.tempDir())
}
