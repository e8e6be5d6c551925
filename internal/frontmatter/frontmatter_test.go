package frontmatter

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSplit_NoFrontmatter_ReturnsBodyOnly(t *testing.T) {
	input := []byte("# Title\n\nHello\n")

	fm, body, had, err := Split(input)
	require.NoError(t, err)
	require.False(t, had)
	require.Empty(t, fm)
	require.Equal(t, input, body)
}

func TestSplit_YAMLFrontmatter_SplitsFrontmatterAndBody(t *testing.T) {
	input := []byte("---\ntitle: Write data\n---\n# Title\n")

	fm, body, had, err := Split(input)
	require.NoError(t, err)
	require.True(t, had)
	require.Equal(t, []byte("title: Write data\n"), fm)
	require.Equal(t, []byte("# Title\n"), body)
}

func TestSplit_MissingClosingDelimiter_ReturnsError(t *testing.T) {
	input := []byte("---\ntitle: Write data\n# Title\n")

	_, _, had, err := Split(input)
	require.Error(t, err)
	require.False(t, had)
	require.True(t, errors.Is(err, ErrMissingClosingDelimiter))
}

func TestSplit_CRLF_SplitsFrontmatterAndBody(t *testing.T) {
	input := []byte("---\r\ntitle: Write data\r\n---\r\n# Title\r\n")

	fm, body, had, err := Split(input)
	require.NoError(t, err)
	require.True(t, had)
	require.Equal(t, []byte("title: Write data\r\n"), fm)
	require.Equal(t, []byte("# Title\r\n"), body)
}

func TestSplit_EmptyFrontmatterBlock(t *testing.T) {
	input := []byte("---\n---\n# Title\n")

	fm, body, had, err := Split(input)
	require.NoError(t, err)
	require.True(t, had)
	require.Empty(t, fm)
	require.Equal(t, []byte("# Title\n"), body)
}

func TestParseMeta_FullPage(t *testing.T) {
	fm := []byte(`title: Manage dashboards
seotitle: Manage dashboards in InfluxDB
description: Create, edit, and manage dashboards.
menu:
  v2_0:
    name: Manage dashboards
    parent: Visualize data
    weight: 203
v2.0/tags: [dashboards, visualize]
aliases:
  - /v2.0/visualize-data/dashboards/
`)

	meta, err := ParseMeta(fm)
	require.NoError(t, err)
	require.Equal(t, "Manage dashboards", meta.Title)
	require.Equal(t, "Manage dashboards in InfluxDB", meta.SEOTitle)
	require.Equal(t, "Create, edit, and manage dashboards.", meta.Description)
	require.Equal(t, []string{"/v2.0/visualize-data/dashboards/"}, meta.Aliases)

	placement, ok := meta.Menu["v2_0"]
	require.True(t, ok)
	require.Equal(t, "Manage dashboards", placement.Name)
	require.Equal(t, "Visualize data", placement.Parent)
	require.Equal(t, 203, placement.Weight)

	// v2.0/tags lands in the same normalized namespace as menu.v2_0.
	require.Equal(t, []string{"dashboards", "visualize"}, meta.Tags["v2_0"])
}

func TestParseMeta_Empty(t *testing.T) {
	meta, err := ParseMeta(nil)
	require.NoError(t, err)
	require.Empty(t, meta.Title)
	require.Nil(t, meta.Menu)
	require.Nil(t, meta.Tags)
}

func TestParseMeta_BadTagsShape_ReturnsError(t *testing.T) {
	_, err := ParseMeta([]byte("v2.0/tags: not-a-sequence\n"))
	require.Error(t, err)
}

func TestNormalizeNamespace(t *testing.T) {
	require.Equal(t, "v2_0", NormalizeNamespace("v2.0"))
	require.Equal(t, "v2_0", NormalizeNamespace("v2_0"))
	require.Equal(t, "v1_8", NormalizeNamespace(" v1.8 "))
}
