package linkreport

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docregistry/internal/frontmatter"
	"git.home.luguber.info/inful/docregistry/internal/registry"
)

func pageWithBody(path, body string) registry.RawPage {
	return registry.RawPage{Path: path, Meta: frontmatter.Meta{Title: path}, Body: []byte(body)}
}

func TestExtractor_RootedMarkdownLink(t *testing.T) {
	extract := NewExtractor()

	refs, err := extract(&registry.Page{
		Path: "/v2.0/",
		Body: []byte("See [write data](/v2.0/write-data/)."),
	})
	require.NoError(t, err)
	require.Equal(t, []string{"/v2.0/write-data/"}, refs)
}

func TestExtractor_SkipsExternalAndFragments(t *testing.T) {
	extract := NewExtractor()

	refs, err := extract(&registry.Page{
		Path: "/v2.0/",
		Body: []byte("[ext](https://example.com/) [frag](#section) [mail](mailto:a@b.c)"),
	})
	require.NoError(t, err)
	require.Empty(t, refs)
}

func TestExtractor_SkipsAssets_KeepsMarkdownFiles(t *testing.T) {
	extract := NewExtractor()

	refs, err := extract(&registry.Page{
		Path: "/v2.0/",
		Body: []byte("![img](/img/chart.png) [raw](/v2.0/query-data.md)"),
	})
	require.NoError(t, err)
	require.Equal(t, []string{"/v2.0/query-data/"}, refs)
}

func TestExtractor_ResolvesRelativeAgainstPage(t *testing.T) {
	extract := NewExtractor()

	refs, err := extract(&registry.Page{
		Path: "/v2.0/write-data/",
		Body: []byte("[scrape](scrape-data) [up](../query-data/)"),
	})
	require.NoError(t, err)
	require.Equal(t, []string{"/v2.0/write-data/scrape-data/", "/v2.0/query-data/"}, refs)
}

func TestExtractor_StripsQueryAndFragment(t *testing.T) {
	extract := NewExtractor()

	refs, err := extract(&registry.Page{
		Path: "/v2.0/",
		Body: []byte("[a](/v2.0/write-data/#precision) [b](/v2.0/query-data/?hl=flux)"),
	})
	require.NoError(t, err)
	require.Equal(t, []string{"/v2.0/write-data/", "/v2.0/query-data/"}, refs)
}

func TestExtractor_ShortcodeRefs(t *testing.T) {
	extract := NewExtractor()

	refs, err := extract(&registry.Page{
		Path: "/v2.0/",
		Body: []byte(`Use {{< relref "/v2.0/visualize-data/" >}} for details.`),
	})
	require.NoError(t, err)
	require.Equal(t, []string{"/v2.0/visualize-data/"}, refs)
}

func TestService_Run_ReportsBrokenAndValid(t *testing.T) {
	reg, err := registry.Load([]registry.RawPage{
		pageWithBody("/v2.0/", "[ok](/v2.0/write-data/) [bad](/v2.0/missing/)"),
		pageWithBody("/v2.0/write-data/", "no links"),
	}, registry.Options{})
	require.NoError(t, err)

	report, err := NewService().Run(context.Background(), reg, "build-1")
	require.NoError(t, err)
	require.Equal(t, 2, report.Pages)
	require.Equal(t,
		[]registry.BrokenRef{{Page: "/v2.0/", Reference: "/v2.0/missing/"}},
		report.Broken)
}

func TestService_Run_AliasTargetsNotBroken(t *testing.T) {
	old := pageWithBody("/v2.0/visualize-data/", "body")
	old.Meta.Aliases = []string{"/v2.0/dashboards/"}

	reg, err := registry.Load([]registry.RawPage{
		old,
		pageWithBody("/v2.0/", "[alias link](/v2.0/dashboards/)"),
	}, registry.Options{})
	require.NoError(t, err)

	report, err := NewService().Run(context.Background(), reg, "build-2")
	require.NoError(t, err)
	require.Empty(t, report.Broken)
}
