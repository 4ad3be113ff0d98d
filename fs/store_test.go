package fs_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/fwojciec/erldoc"
	"github.com/fwojciec/erldoc/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_ImplementsInterfaces(t *testing.T) {
	t.Parallel()

	var _ erldoc.RecordWriter = &fs.Store{}
	var _ erldoc.TagWriter = &fs.Store{}
	var _ erldoc.RecordStore = &fs.Store{}
}

func TestStore_WriteRecord(t *testing.T) {
	t.Parallel()

	t.Run("writes record json under locale directory", func(t *testing.T) {
		t.Parallel()

		root := filepath.Join(t.TempDir(), "static", "content")
		s := fs.NewStore(root)

		err := s.WriteRecord(context.Background(), "en", &erldoc.DocRecord{
			Name:        "array",
			Summary:     "Array module",
			Description: `<p>See <a href="/erldoc/docs/lists">lists</a></p>`,
			Funcs:       `<div class="func-head">new/1</div>`,
		})

		require.NoError(t, err)
		content, err := os.ReadFile(filepath.Join(root, "en", "array.json"))
		require.NoError(t, err)
		assert.Equal(t,
			`{"name":"array","summary":"Array module","description":"<p>See <a href=\"/erldoc/docs/lists\">lists</a></p>","funcs":"<div class=\"func-head\">new/1</div>"}`,
			string(content))
	})

	t.Run("overwrites existing record and leaves no temp files", func(t *testing.T) {
		t.Parallel()

		root := t.TempDir()
		s := fs.NewStore(root)

		require.NoError(t, s.WriteRecord(context.Background(), "ru", &erldoc.DocRecord{Name: "re", Summary: "old summary that is longer"}))
		require.NoError(t, s.WriteRecord(context.Background(), "ru", &erldoc.DocRecord{Name: "re", Summary: "new"}))

		content, err := os.ReadFile(s.RecordPath("ru", "re"))
		require.NoError(t, err)
		assert.Equal(t, `{"name":"re","summary":"new","description":"","funcs":""}`, string(content))

		entries, err := os.ReadDir(filepath.Join(root, "ru"))
		require.NoError(t, err)
		assert.Len(t, entries, 1)
	})

	t.Run("validates record", func(t *testing.T) {
		t.Parallel()

		s := fs.NewStore(t.TempDir())

		err := s.WriteRecord(context.Background(), "en", &erldoc.DocRecord{Name: "../escape"})

		require.Error(t, err)
		assert.Equal(t, erldoc.EINVALID, erldoc.ErrorCode(err))
	})

	t.Run("validates locale", func(t *testing.T) {
		t.Parallel()

		s := fs.NewStore(t.TempDir())

		err := s.WriteRecord(context.Background(), "../en", &erldoc.DocRecord{Name: "array"})

		require.Error(t, err)
		assert.Equal(t, erldoc.EINVALID, erldoc.ErrorCode(err))
	})

	t.Run("unwritable root is an io error", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		blocker := filepath.Join(dir, "file")
		require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))
		s := fs.NewStore(blocker)

		err := s.WriteRecord(context.Background(), "en", &erldoc.DocRecord{Name: "array"})

		require.Error(t, err)
		assert.Equal(t, erldoc.EIO, erldoc.ErrorCode(err))
	})

	t.Run("writes every locale", func(t *testing.T) {
		t.Parallel()

		root := t.TempDir()
		s := fs.NewStore(root)

		err := s.WriteRecords(context.Background(), []erldoc.Locale{"en", "ru", "uk"}, &erldoc.DocRecord{Name: "array"})

		require.NoError(t, err)
		for _, locale := range []erldoc.Locale{"en", "ru", "uk"} {
			assert.FileExists(t, s.RecordPath(locale, "array"))
		}
	})

	t.Run("failing locale replaces no file", func(t *testing.T) {
		t.Parallel()

		root := t.TempDir()
		s := fs.NewStore(root)
		require.NoError(t, os.WriteFile(filepath.Join(root, "uk"), []byte("x"), 0644))

		err := s.WriteRecords(context.Background(), []erldoc.Locale{"en", "ru", "uk"}, &erldoc.DocRecord{Name: "array"})

		require.Error(t, err)
		assert.Equal(t, erldoc.EIO, erldoc.ErrorCode(err))
		for _, locale := range []erldoc.Locale{"en", "ru"} {
			entries, err := os.ReadDir(filepath.Join(root, string(locale)))
			require.NoError(t, err)
			assert.Empty(t, entries, "locale %s", locale)
		}
	})

	t.Run("invalid locale writes nothing", func(t *testing.T) {
		t.Parallel()

		root := t.TempDir()
		s := fs.NewStore(root)

		err := s.WriteRecords(context.Background(), []erldoc.Locale{"en", "../ru"}, &erldoc.DocRecord{Name: "array"})

		assert.Equal(t, erldoc.EINVALID, erldoc.ErrorCode(err))
		assert.NoDirExists(t, filepath.Join(root, "en"))
	})

	t.Run("canceled context writes nothing", func(t *testing.T) {
		t.Parallel()

		root := t.TempDir()
		s := fs.NewStore(root)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := s.WriteRecord(ctx, "en", &erldoc.DocRecord{Name: "array"})

		require.Error(t, err)
		assert.Equal(t, erldoc.ECANCELED, erldoc.ErrorCode(err))
		_, err = os.Stat(filepath.Join(root, "en"))
		assert.True(t, os.IsNotExist(err))
	})
}

func TestStore_WriteTags(t *testing.T) {
	t.Parallel()

	t.Run("writes ordered triples", func(t *testing.T) {
		t.Parallel()

		root := t.TempDir()
		s := fs.NewStore(root)

		err := s.WriteTags(context.Background(), erldoc.TagIndex{
			{Module: "array", FuncNames: []string{"new/1"}, Titles: []string{"new/1"}},
			{Module: "app"},
		})

		require.NoError(t, err)
		content, err := os.ReadFile(filepath.Join(root, "tags.json"))
		require.NoError(t, err)
		assert.Equal(t, `[["array","new/1","new/1"],["app"]]`, string(content))
	})

	t.Run("empty index is an empty array", func(t *testing.T) {
		t.Parallel()

		s := fs.NewStore(t.TempDir())

		require.NoError(t, s.WriteTags(context.Background(), nil))

		content, err := os.ReadFile(s.TagsPath())
		require.NoError(t, err)
		assert.Equal(t, `[]`, string(content))
	})
}

func TestStore_FindRecords(t *testing.T) {
	t.Parallel()

	t.Run("returns records in file name order", func(t *testing.T) {
		t.Parallel()

		s := fs.NewStore(t.TempDir())
		for _, name := range []string{"re", "array", "app"} {
			require.NoError(t, s.WriteRecord(context.Background(), "en", &erldoc.DocRecord{Name: name}))
		}

		records, err := s.FindRecords(context.Background(), "en")

		require.NoError(t, err)
		require.Len(t, records, 3)
		assert.Equal(t, "app", records[0].Name)
		assert.Equal(t, "array", records[1].Name)
		assert.Equal(t, "re", records[2].Name)
	})

	t.Run("missing locale is not found", func(t *testing.T) {
		t.Parallel()

		s := fs.NewStore(t.TempDir())

		_, err := s.FindRecords(context.Background(), "uk")

		assert.Equal(t, erldoc.ENOTFOUND, erldoc.ErrorCode(err))
	})

	t.Run("malformed record is a parse error", func(t *testing.T) {
		t.Parallel()

		root := t.TempDir()
		require.NoError(t, os.MkdirAll(filepath.Join(root, "en"), 0755))
		require.NoError(t, os.WriteFile(filepath.Join(root, "en", "bad.json"), []byte("{"), 0644))
		s := fs.NewStore(root)

		_, err := s.FindRecords(context.Background(), "en")

		assert.Equal(t, erldoc.EPARSE, erldoc.ErrorCode(err))
	})
}

func TestStore_Prune(t *testing.T) {
	t.Parallel()

	setup := func(t *testing.T) (*fs.Store, string) {
		t.Helper()
		root := t.TempDir()
		s := fs.NewStore(root)
		for _, locale := range []erldoc.Locale{"en", "ru"} {
			for _, name := range []string{"array", "old_module"} {
				require.NoError(t, s.WriteRecord(context.Background(), locale, &erldoc.DocRecord{Name: name}))
			}
		}
		return s, root
	}

	t.Run("removes records of modules no longer listed", func(t *testing.T) {
		t.Parallel()

		s, root := setup(t)

		pruned, err := s.Prune(context.Background(), []erldoc.Locale{"en", "ru", "uk"}, []string{"array"}, false)

		require.NoError(t, err)
		assert.Equal(t, []string{
			filepath.Join(root, "en", "old_module.json"),
			filepath.Join(root, "ru", "old_module.json"),
		}, pruned)
		for _, p := range pruned {
			_, err := os.Stat(p)
			assert.True(t, os.IsNotExist(err))
		}
		_, err = os.Stat(filepath.Join(root, "en", "array.json"))
		require.NoError(t, err)
	})

	t.Run("dry run keeps files", func(t *testing.T) {
		t.Parallel()

		s, root := setup(t)

		pruned, err := s.Prune(context.Background(), []erldoc.Locale{"en"}, []string{"array"}, true)

		require.NoError(t, err)
		assert.Equal(t, []string{filepath.Join(root, "en", "old_module.json")}, pruned)
		_, err = os.Stat(pruned[0])
		require.NoError(t, err)
	})
}

func TestStore_Reindex(t *testing.T) {
	t.Parallel()

	writeRaw := func(t *testing.T, root, name, content string) {
		t.Helper()
		require.NoError(t, os.MkdirAll(filepath.Join(root, "en"), 0755))
		require.NoError(t, os.WriteFile(filepath.Join(root, "en", name), []byte(content), 0644))
	}

	t.Run("sets record names from file names", func(t *testing.T) {
		t.Parallel()

		root := t.TempDir()
		writeRaw(t, root, "array.json", `{"name":"array","summary":"ok","description":"","funcs":""}`)
		writeRaw(t, root, "re.json", `{"summary":"regular expressions","description":"","funcs":""}`)
		s := fs.NewStore(root)

		changed, err := s.Reindex(context.Background(), "en", false)

		require.NoError(t, err)
		assert.Equal(t, []string{filepath.Join(root, "en", "re.json")}, changed)
		content, err := os.ReadFile(filepath.Join(root, "en", "re.json"))
		require.NoError(t, err)
		assert.Equal(t, `{"name":"re","summary":"regular expressions","description":"","funcs":""}`, string(content))
	})

	t.Run("dry run reports without writing", func(t *testing.T) {
		t.Parallel()

		root := t.TempDir()
		original := `{"name":"wrong","summary":"","description":"","funcs":""}`
		writeRaw(t, root, "app.json", original)
		s := fs.NewStore(root)

		changed, err := s.Reindex(context.Background(), "en", true)

		require.NoError(t, err)
		assert.Len(t, changed, 1)
		content, err := os.ReadFile(filepath.Join(root, "en", "app.json"))
		require.NoError(t, err)
		assert.Equal(t, original, string(content))
	})
}
