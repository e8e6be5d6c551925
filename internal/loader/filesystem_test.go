package loader

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	derrors "git.home.luguber.info/inful/docregistry/internal/foundation/errors"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	full := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
}

func TestFilesystem_Load_DerivesPagePaths(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "_index.md", "---\ntitle: InfluxDB v2.0\n---\nWelcome\n")
	writeFile(t, root, "write-data/_index.md", "---\ntitle: Write data\n---\nBody\n")
	writeFile(t, root, "write-data/scrape-data.md", "---\ntitle: Scrape data\n---\nBody\n")
	writeFile(t, root, "write-data/notes.txt", "not a page")

	fsLoader := &Filesystem{Root: root, BasePath: "/v2.0"}
	records, err := fsLoader.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 3)

	paths := make(map[string]string)
	for _, rec := range records {
		paths[rec.Path] = rec.Meta.Title
	}
	require.Equal(t, "InfluxDB v2.0", paths["/v2.0/"])
	require.Equal(t, "Write data", paths["/v2.0/write-data/"])
	require.Equal(t, "Scrape data", paths["/v2.0/write-data/scrape-data/"])
}

func TestFilesystem_Load_ParsesMenuAndTags(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "dashboards.md", `---
title: Manage dashboards
menu:
  v2_0:
    name: Manage dashboards
    parent: Visualize data
    weight: 203
v2.0/tags: [dashboards]
aliases:
  - /v2.0/old-dashboards/
---
Body text.
`)

	fsLoader := &Filesystem{Root: root, BasePath: "/v2.0"}
	records, err := fsLoader.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)

	rec := records[0]
	require.Equal(t, "/v2.0/dashboards/", rec.Path)
	require.Equal(t, 203, rec.Meta.Menu["v2_0"].Weight)
	require.Equal(t, []string{"dashboards"}, rec.Meta.Tags["v2_0"])
	require.Equal(t, []string{"/v2.0/old-dashboards/"}, rec.Meta.Aliases)
	require.Equal(t, "Body text.\n", string(rec.Body))
}

func TestFilesystem_Load_DocIgnoreSkipsRoot(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, ".docignore", "")
	writeFile(t, root, "page.md", "---\ntitle: Page\n---\nBody\n")

	fsLoader := &Filesystem{Root: root}
	records, err := fsLoader.Load(context.Background())
	require.NoError(t, err)
	require.Empty(t, records)
}

func TestFilesystem_Load_SkipsHiddenDirectories(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, ".git/objects/page.md", "not a page")
	writeFile(t, root, "page.md", "---\ntitle: Page\n---\nBody\n")

	fsLoader := &Filesystem{Root: root}
	records, err := fsLoader.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
}

func TestFilesystem_Load_BadFrontmatter_ReturnsValidationError(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "broken.md", "---\ntitle: Broken\nno closing delimiter\n")

	fsLoader := &Filesystem{Root: root}
	_, err := fsLoader.Load(context.Background())
	require.Error(t, err)
	require.True(t, derrors.IsValidation(err))
}

func TestFilesystem_Load_MissingRoot_ReturnsFilesystemError(t *testing.T) {
	fsLoader := &Filesystem{Root: filepath.Join(t.TempDir(), "does-not-exist")}
	_, err := fsLoader.Load(context.Background())
	require.Error(t, err)
	require.True(t, derrors.HasCategory(err, derrors.CategoryFileSystem))
}

func TestFilesystem_Load_CanceledContext(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "page.md", "---\ntitle: Page\n---\nBody\n")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fsLoader := &Filesystem{Root: root}
	_, err := fsLoader.Load(ctx)
	require.Error(t, err)
}
