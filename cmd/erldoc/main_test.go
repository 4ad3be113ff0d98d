package main_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fwojciec/erldoc"
	main "github.com/fwojciec/erldoc/cmd/erldoc"
	"github.com/fwojciec/erldoc/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const arrayPage = `<html><body>
<div class="module-summary-body">Functional, extendible arrays.</div>
<div class="description-body"><p>See <a href="lists.html">lists</a>.</p></div>
<div class="func-head"><a href="#new-0">new() -&gt; array()</a></div>
</body></html>`

// docFetcher serves the array module page and 404 for everything else.
func docFetcher() *mock.Fetcher {
	return &mock.Fetcher{
		FetchFn: func(_ context.Context, url string) (string, error) {
			if strings.HasSuffix(url, "/doc/man/array.html") {
				return arrayPage, nil
			}
			return "", erldoc.HTTPErrorf(404, "GET %s: 404 Not Found", url)
		},
	}
}

func newTestMain() *main.Main {
	return &main.Main{Fetcher: docFetcher()}
}

func run(t *testing.T, m *main.Main, args ...string) (string, string, error) {
	t.Helper()
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	err := m.Run(context.Background(), args, stdout, stderr)
	return stdout.String(), stderr.String(), err
}

func TestMain_Grab(t *testing.T) {
	t.Parallel()

	t.Run("writes records for every locale and the tag index", func(t *testing.T) {
		t.Parallel()

		out := t.TempDir()
		stdout, stderr, err := run(t, newTestMain(),
			"grab", "--modules", "array", "--locales", "en,ru", "--output", out, "--rps", "0")

		require.NoError(t, err)
		assert.Contains(t, stdout, "Saved 1 modules, 0 failed")
		assert.NotContains(t, stderr, "failed array")
		assert.FileExists(t, filepath.Join(out, "en", "array.json"))
		assert.FileExists(t, filepath.Join(out, "ru", "array.json"))

		tags, err := os.ReadFile(filepath.Join(out, "tags.json"))
		require.NoError(t, err)
		assert.Contains(t, string(tags), `"array"`)
	})

	t.Run("grab is the default command", func(t *testing.T) {
		t.Parallel()

		out := t.TempDir()
		_, _, err := run(t, newTestMain(), "--modules", "array", "--locales", "en", "--output", out, "--rps", "0")

		require.NoError(t, err)
		assert.FileExists(t, filepath.Join(out, "en", "array.json"))
	})

	t.Run("reports failed modules without failing the run", func(t *testing.T) {
		t.Parallel()

		out := t.TempDir()
		stdout, stderr, err := run(t, newTestMain(),
			"grab", "--modules", "array,nosuch", "--locales", "en", "--output", out, "--rps", "0")

		require.NoError(t, err)
		assert.Contains(t, stdout, "Saved 1 modules, 1 failed")
		assert.Contains(t, stderr, "failed nosuch at fetching: http")
		assert.NoFileExists(t, filepath.Join(out, "en", "nosuch.json"))
	})

	t.Run("strict mode fails the run when a module fails", func(t *testing.T) {
		t.Parallel()

		out := t.TempDir()
		_, _, err := run(t, newTestMain(),
			"grab", "--modules", "array,nosuch", "--locales", "en", "--output", out, "--rps", "0", "--strict")

		require.Error(t, err)
		assert.Contains(t, erldoc.ErrorMessage(err), "1 of 2 modules failed")
		assert.FileExists(t, filepath.Join(out, "en", "array.json"))
	})

	t.Run("no-tags skips the tag index", func(t *testing.T) {
		t.Parallel()

		out := t.TempDir()
		_, _, err := run(t, newTestMain(),
			"grab", "--modules", "array", "--locales", "en", "--output", out, "--rps", "0", "--no-tags")

		require.NoError(t, err)
		assert.FileExists(t, filepath.Join(out, "en", "array.json"))
		assert.NoFileExists(t, filepath.Join(out, "tags.json"))
	})

	t.Run("rejects an invalid configuration", func(t *testing.T) {
		t.Parallel()

		_, stderr, err := run(t, newTestMain(),
			"grab", "--modules", "array", "--output", t.TempDir(), "--concurrency", "0")

		require.Error(t, err)
		assert.Equal(t, erldoc.EINVALID, erldoc.ErrorCode(err))
		assert.Contains(t, stderr, "concurrency")
	})

	t.Run("discovers modules from the sitemap", func(t *testing.T) {
		t.Parallel()

		m := newTestMain()
		m.Sitemaps = &mock.SitemapService{
			DiscoverURLsFn: func(_ context.Context, baseURL string, filter *erldoc.URLFilter) ([]string, error) {
				assert.Equal(t, "http://erlang.org", baseURL)
				return []string{"http://erlang.org/doc/man/array.html"}, nil
			},
		}

		out := t.TempDir()
		stdout, _, err := run(t, m, "grab", "--discover", "--locales", "en", "--output", out, "--rps", "0")

		require.NoError(t, err)
		assert.Contains(t, stdout, "Grabbing 1 modules")
		assert.FileExists(t, filepath.Join(out, "en", "array.json"))
	})

	t.Run("falls back to the module index when the sitemap has no modules", func(t *testing.T) {
		t.Parallel()

		m := &main.Main{
			Fetcher: &mock.Fetcher{
				FetchFn: func(_ context.Context, url string) (string, error) {
					switch url {
					case "http://erlang.org/doc/man_index.html":
						return `<a href="man/array.html">array</a>`, nil
					case "http://erlang.org/doc/man/array.html":
						return arrayPage, nil
					}
					return "", erldoc.HTTPErrorf(404, "GET %s: 404 Not Found", url)
				},
			},
			Sitemaps: &mock.SitemapService{
				DiscoverURLsFn: func(context.Context, string, *erldoc.URLFilter) ([]string, error) {
					return []string{}, nil
				},
			},
		}

		out := t.TempDir()
		_, _, err := run(t, m, "grab", "--discover", "--locales", "en", "--output", out, "--rps", "0")

		require.NoError(t, err)
		assert.FileExists(t, filepath.Join(out, "en", "array.json"))
	})

	t.Run("writes a metrics textfile", func(t *testing.T) {
		t.Parallel()

		out := t.TempDir()
		metrics := filepath.Join(t.TempDir(), "erldoc.prom")
		_, _, err := run(t, newTestMain(),
			"grab", "--modules", "array", "--locales", "en", "--output", out, "--rps", "0", "--metrics-file", metrics)

		require.NoError(t, err)
		data, err := os.ReadFile(metrics)
		require.NoError(t, err)
		assert.Contains(t, string(data), "erldoc_modules_total")
		assert.Contains(t, string(data), `result="done"`)
		assert.Contains(t, string(data), "erldoc_last_run_timestamp_seconds")
	})
}

func TestMain_ConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("flags override the configuration file", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		out := filepath.Join(dir, "content")
		path := filepath.Join(dir, "erldoc.yaml")
		require.NoError(t, os.WriteFile(path, []byte(
			"modules: [array]\nlocales: [en]\noutput: "+out+"\nrequests_per_second: 0\ntags: false\n"), 0644))

		_, _, err := run(t, newTestMain(), "grab", "--config", path, "--locales", "ru")

		require.NoError(t, err)
		assert.FileExists(t, filepath.Join(out, "ru", "array.json"))
		assert.NoDirExists(t, filepath.Join(out, "en"))
		assert.NoFileExists(t, filepath.Join(out, "tags.json"))
	})

	t.Run("returns error for a malformed configuration file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "erldoc.yaml")
		require.NoError(t, os.WriteFile(path, []byte("modules: [array\n"), 0644))

		_, _, err := run(t, newTestMain(), "grab", "--config", path)

		require.Error(t, err)
		assert.Equal(t, erldoc.EINVALID, erldoc.ErrorCode(err))
	})
}

func TestMain_Tags(t *testing.T) {
	t.Parallel()

	out := t.TempDir()
	stdout, _, err := run(t, newTestMain(),
		"tags", "--modules", "array", "--locales", "en", "--output", out, "--rps", "0")

	require.NoError(t, err)
	assert.Contains(t, stdout, "Wrote "+filepath.Join(out, "tags.json"))
	assert.FileExists(t, filepath.Join(out, "tags.json"))
	assert.NoDirExists(t, filepath.Join(out, "en"))
}

func TestMain_History(t *testing.T) {
	t.Parallel()

	t.Run("requires a database", func(t *testing.T) {
		t.Parallel()

		_, stderr, err := run(t, newTestMain(), "history")

		require.Error(t, err)
		assert.Contains(t, stderr, "--db")
	})

	t.Run("lists recorded runs", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		db := filepath.Join(dir, "runs.db")
		out := filepath.Join(dir, "content")

		grabOut, _, err := run(t, newTestMain(),
			"grab", "--db", db, "--modules", "array", "--locales", "en", "--output", out, "--rps", "0")
		require.NoError(t, err)
		assert.Contains(t, grabOut, "1 changed")

		stdout, _, err := run(t, newTestMain(), "history", "--db", db)
		require.NoError(t, err)
		assert.Contains(t, stdout, "saved=1 failed=0 changed=1")
	})
}

func TestMain_EnvFiles(t *testing.T) {
	t.Parallel()

	t.Run("missing env file is ignored", func(t *testing.T) {
		t.Parallel()

		m := newTestMain()
		m.EnvFiles = []string{filepath.Join(t.TempDir(), ".env")}

		out := t.TempDir()
		_, _, err := run(t, m, "grab", "--modules", "array", "--locales", "en", "--output", out, "--rps", "0")

		require.NoError(t, err)
		assert.FileExists(t, filepath.Join(out, "en", "array.json"))
	})
}
