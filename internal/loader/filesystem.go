// Package loader produces raw page records for the registry from external
// content sources: a local content tree or a cloned git repository. The
// registry core itself never touches I/O.
package loader

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	derrors "git.home.luguber.info/inful/docregistry/internal/foundation/errors"
	"git.home.luguber.info/inful/docregistry/internal/frontmatter"
	"git.home.luguber.info/inful/docregistry/internal/logfields"
	"git.home.luguber.info/inful/docregistry/internal/registry"
)

// docIgnoreFile marks a content root that should be skipped entirely.
const docIgnoreFile = ".docignore"

// Filesystem loads pages from a markdown content tree on disk.
type Filesystem struct {
	// Root is the content directory to walk.
	Root string
	// BasePath is prepended to every derived page path (e.g. "/v2.0").
	BasePath string
}

// Load walks the content root and parses every markdown file into a raw
// page record. A root containing a .docignore sentinel yields no pages.
func (f *Filesystem) Load(ctx context.Context) ([]registry.RawPage, error) {
	if _, err := os.Stat(filepath.Join(f.Root, docIgnoreFile)); err == nil {
		slog.Info("Skipping content root due to .docignore", logfields.Path(f.Root))
		return nil, nil
	}

	var records []registry.RawPage
	err := filepath.WalkDir(f.Root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") && p != f.Root {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(d.Name(), ".md") {
			return nil
		}

		rec, err := f.loadFile(p)
		if err != nil {
			return err
		}
		records = append(records, rec)
		return nil
	})
	if err != nil {
		if _, ok := derrors.AsClassified(err); ok {
			return nil, err
		}
		return nil, derrors.WrapError(err, derrors.CategoryFileSystem, "failed to walk content root").
			WithContext("root", f.Root).
			Build()
	}

	slog.Debug("Content root loaded", logfields.Path(f.Root), logfields.Pages(len(records)))
	return records, nil
}

func (f *Filesystem) loadFile(filePath string) (registry.RawPage, error) {
	// #nosec G304 -- paths come from walking the configured content root.
	content, err := os.ReadFile(filePath)
	if err != nil {
		return registry.RawPage{}, derrors.WrapError(err, derrors.CategoryFileSystem, "failed to read page").
			WithContext("file", filePath).
			Build()
	}

	fmRaw, body, _, err := frontmatter.Split(content)
	if err != nil {
		return registry.RawPage{}, derrors.WrapError(err, derrors.CategoryValidation, "failed to split frontmatter").
			WithContext("file", filePath).
			Build()
	}
	meta, err := frontmatter.ParseMeta(fmRaw)
	if err != nil {
		return registry.RawPage{}, derrors.WrapError(err, derrors.CategoryValidation, "failed to parse frontmatter").
			WithContext("file", filePath).
			Build()
	}

	rel, err := filepath.Rel(f.Root, filePath)
	if err != nil {
		return registry.RawPage{}, derrors.WrapError(err, derrors.CategoryInternal, "failed to derive relative path").
			WithContext("file", filePath).
			Build()
	}

	return registry.RawPage{
		Path: f.pagePath(rel),
		Meta: meta,
		Body: body,
	}, nil
}

// pagePath derives the registry path from a file's location: index files
// address their directory, other files address a directory named after the
// file. Paths are rooted, slash-separated, and end with a trailing slash.
func (f *Filesystem) pagePath(rel string) string {
	rel = filepath.ToSlash(rel)
	dir, file := path.Split(rel)
	name := strings.TrimSuffix(file, ".md")

	var p string
	if name == "_index" || name == "index" {
		p = dir
	} else {
		p = path.Join(dir, name) + "/"
	}

	base := strings.TrimSuffix(f.BasePath, "/")
	p = base + "/" + strings.TrimPrefix(p, "/")
	if !strings.HasSuffix(p, "/") {
		p += "/"
	}
	return p
}
