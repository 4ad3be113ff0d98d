package goquery_test

import (
	"strings"
	"testing"

	"github.com/fwojciec/erldoc"
	"github.com/fwojciec/erldoc/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Ensure Normalizer implements erldoc.Normalizer at compile time.
var _ erldoc.Normalizer = (*goquery.Normalizer)(nil)

// fragments covers the shapes found in description and exports regions.
var fragments = []string{
	"",
	"   ",
	"plain text",
	"line one\nline two",
	"a  \n\n  b\t\tc",
	`<p>See <a href="lists.html">lists</a>.</p>`,
	`<a href="lists.html#map-2">map/2</a>`,
	`<a href="#new-0">new/0</a>`,
	`<a href="../apps/stdlib/index.html">stdlib</a>`,
	`<a href="https://www.erlang.org/doc/man/lists.html">external</a>`,
	`<a href="mailto:erlang-questions@erlang.org">mail</a>`,
	`<a href="/erldoc/docs/lists">already routed</a>`,
	"<div class=\"func-head\" onmouseover=\"show('x')\" onmouseout=\"hide('x')\">\n  <span class=\"bold_code\">new() -&gt; array()</span>\n</div>",
	"<pre>\n  foo() -&gt;\n      ok.\n</pre>",
	`<p title="a  b">x &amp; y &lt; z "quoted" 'single'</p>`,
	"<table><tr><td>Key</td>\r\n<td>Value</td></tr></table>",
	`<span>unclosed <b>bold`,
	`<a href="">self</a>`,
	// Misnested markup the parser reshapes differently on each round trip.
	"<li></svg><table><li>&#10;",
	"<a href=\"x.html\"><table><a href=\"#y\">\f\f",
	"<table><a href=\"lists.html\">foster</a><tr><td>cell</td></tr></table>",
	"<li><a href=\"a.html\"><li><a href=\"#b\">nested</a></li></a></li>",
}

func TestNormalizer_Normalize(t *testing.T) {
	t.Parallel()

	n := goquery.NewNormalizer(erldoc.DefaultRoutePrefix, erldoc.AnchorKeep)

	tests := []struct {
		name     string
		fragment string
		want     string
	}{
		{
			name:     "rewrites html link to route",
			fragment: `<a href="lists.html">lists</a>`,
			want:     `<a href="/erldoc/docs/lists">lists</a>`,
		},
		{
			name:     "keeps fragment of rewritten link",
			fragment: `<a href="lists.html#map-2">map/2</a>`,
			want:     `<a href="/erldoc/docs/lists#map-2">map/2</a>`,
		},
		{
			name:     "routes link without html suffix",
			fragment: `<a href="stdlib_app">stdlib</a>`,
			want:     `<a href="/erldoc/docs/stdlib_app">stdlib</a>`,
		},
		{
			name:     "leaves in-page anchor untouched",
			fragment: `<a href="#new-0">new/0</a>`,
			want:     `<a href="#new-0">new/0</a>`,
		},
		{
			name:     "leaves absolute link untouched",
			fragment: `<a href="https://www.erlang.org/doc/man/lists.html">lists</a>`,
			want:     `<a href="https://www.erlang.org/doc/man/lists.html">lists</a>`,
		},
		{
			name:     "leaves protocol relative link untouched",
			fragment: `<a href="//erlang.org/doc/man/lists.html">lists</a>`,
			want:     `<a href="//erlang.org/doc/man/lists.html">lists</a>`,
		},
		{
			name:     "leaves mailto link untouched",
			fragment: `<a href="mailto:x@erlang.org">x</a>`,
			want:     `<a href="mailto:x@erlang.org">x</a>`,
		},
		{
			name:     "leaves empty href untouched",
			fragment: `<a href="">self</a>`,
			want:     `<a href="">self</a>`,
		},
		{
			name:     "strips mouse event attributes",
			fragment: `<div class="func-head" onmouseover="show(1)" onmouseout="hide(1)">new/1</div>`,
			want:     `<div class="func-head">new/1</div>`,
		},
		{
			name:     "collapses whitespace runs",
			fragment: "<p>a   b\t\tc</p>  <p>d</p>",
			want:     "<p>a b c</p> <p>d</p>",
		},
		{
			name:     "removes single newlines",
			fragment: "<p>a\nb</p>",
			want:     "<p>ab</p>",
		},
		{
			name:     "collapses newline runs to a space",
			fragment: "<p>a\n\n  b</p>\n",
			want:     "<p>a b</p>",
		},
		{
			name:     "empty fragment stays empty",
			fragment: "",
			want:     "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := n.Normalize("array", tt.fragment)

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizer_AnchorPagePolicy(t *testing.T) {
	t.Parallel()

	n := goquery.NewNormalizer(erldoc.DefaultRoutePrefix, erldoc.AnchorPage)

	got, err := n.Normalize("array", `<a href="#new-0">new/0</a>`)
	require.NoError(t, err)
	assert.Equal(t, `<a href="/erldoc/docs/array#new-0">new/0</a>`, got)

	again, err := n.Normalize("array", got)
	require.NoError(t, err)
	assert.Equal(t, got, again)
}

func TestNormalizer_CustomPrefix(t *testing.T) {
	t.Parallel()

	n := goquery.NewNormalizer("/docs/", "")

	got, err := n.Normalize("array", `<a href="lists.html">lists</a> <a href="#x">x</a>`)

	require.NoError(t, err)
	assert.Equal(t, `<a href="/docs/lists">lists</a> <a href="#x">x</a>`, got)
}

func TestNormalizer_Idempotent(t *testing.T) {
	t.Parallel()

	for _, policy := range []erldoc.AnchorPolicy{erldoc.AnchorKeep, erldoc.AnchorPage} {
		n := goquery.NewNormalizer(erldoc.DefaultRoutePrefix, policy)
		for _, fragment := range fragments {
			once, err := n.Normalize("array", fragment)
			require.NoError(t, err)

			twice, err := n.Normalize("array", once)
			require.NoError(t, err)

			assert.Equal(t, once, twice, "policy %s, fragment %q", policy, fragment)
		}
	}
}

func TestNormalizer_NoDoubleSpaceOrNewline(t *testing.T) {
	t.Parallel()

	n := goquery.NewNormalizer(erldoc.DefaultRoutePrefix, erldoc.AnchorKeep)

	for _, fragment := range fragments {
		got, err := n.Normalize("array", fragment)
		require.NoError(t, err)

		assert.NotContains(t, got, "  ", "fragment %q", fragment)
		assert.NotContains(t, got, "\n", "fragment %q", fragment)
		assert.NotContains(t, got, "onmouseover", "fragment %q", fragment)
		assert.NotContains(t, got, "onmouseout", "fragment %q", fragment)
	}
}

func TestNormalizer_HTMLLinksRouteUnderPrefix(t *testing.T) {
	t.Parallel()

	n := goquery.NewNormalizer(erldoc.DefaultRoutePrefix, erldoc.AnchorKeep)

	for _, name := range []string{"array", "gen_server", "erlang", "re", "ets", "os_mon_app"} {
		got, err := n.Normalize("array", `<a href="`+name+`.html">x</a>`)
		require.NoError(t, err)
		assert.Equal(t, `<a href="/erldoc/docs/`+name+`">x</a>`, got)
		assert.False(t, strings.Contains(got, ".html"))
	}
}
