package loader

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	derrors "git.home.luguber.info/inful/docregistry/internal/foundation/errors"
	"git.home.luguber.info/inful/docregistry/internal/logfields"
	"git.home.luguber.info/inful/docregistry/internal/registry"
)

// Git loads pages from a documentation repository by cloning it to a
// temporary directory and delegating to the Filesystem loader.
type Git struct {
	// URL is the clone URL of the docs repository.
	URL string
	// Branch selects a branch; empty means the remote default.
	Branch string
	// ContentDir is the docs directory inside the repository (default "content").
	ContentDir string
	// BasePath is prepended to derived page paths.
	BasePath string
}

// Load clones the repository (shallow, single branch) and walks its content
// directory. The clone directory is removed before Load returns.
func (g *Git) Load(ctx context.Context) ([]registry.RawPage, error) {
	tmpDir, err := os.MkdirTemp("", "docregistry-clone-*")
	if err != nil {
		return nil, derrors.WrapError(err, derrors.CategoryFileSystem, "failed to create clone directory").Build()
	}
	defer func() {
		_ = os.RemoveAll(tmpDir)
	}()

	cloneOptions := &git.CloneOptions{
		URL:   g.URL,
		Depth: 1,
	}
	if g.Branch != "" {
		cloneOptions.ReferenceName = plumbing.ReferenceName("refs/heads/" + g.Branch)
		cloneOptions.SingleBranch = true
	}

	slog.Debug("Cloning docs repository", logfields.URL(g.URL), logfields.Branch(g.Branch))
	repository, err := git.PlainCloneContext(ctx, tmpDir, false, cloneOptions)
	if err != nil {
		return nil, derrors.WrapError(err, derrors.CategoryGit, "failed to clone docs repository").
			WithContext("url", g.URL).
			WithContext("branch", g.Branch).
			Build()
	}

	if ref, err := repository.Head(); err == nil {
		slog.Info("Docs repository cloned",
			logfields.URL(g.URL),
			slog.String("commit", ref.Hash().String()[:8]))
	}

	contentDir := g.ContentDir
	if contentDir == "" {
		contentDir = "content"
	}
	fsLoader := &Filesystem{
		Root:     filepath.Join(tmpDir, contentDir),
		BasePath: g.BasePath,
	}
	return fsLoader.Load(ctx)
}
