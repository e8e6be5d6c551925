// Package registry holds the documentation page registry: an immutable,
// validated collection of pages with navigation, lookup, tag, and link
// queries.
//
// A Registry is constructed once by Load and never mutated afterwards, so
// any number of goroutines may query it without coordination. Rebuilding
// from changed sources means discarding the old registry and loading a new
// one.
package registry

import (
	"fmt"
	"log/slog"
	"sort"

	"golang.org/x/text/cases"

	derrors "git.home.luguber.info/inful/docregistry/internal/foundation/errors"
	"git.home.luguber.info/inful/docregistry/internal/frontmatter"
	"git.home.luguber.info/inful/docregistry/internal/logfields"
)

// RawPage is one page record as produced by a loader: the registry path,
// decoded front matter, and the raw Markdown body.
type RawPage struct {
	Path string
	Meta frontmatter.Meta
	Body []byte
}

// Page is one documentation unit inside a registry. Fields are read-only
// after Load.
type Page struct {
	Path        string
	Title       string
	SEOTitle    string
	Description string
	Menu        map[string]frontmatter.MenuPlacement
	Tags        map[string][]string
	Aliases     []string
	Body        []byte
}

// Options controls Load behavior.
type Options struct {
	// Strict makes a dangling menu parent reference a load failure.
	// Permissive mode demotes the page to a menu root and logs a warning.
	Strict bool
}

// Registry is the validated, immutable page collection.
type Registry struct {
	pages   map[string]*Page
	aliases map[string]string // alias -> canonical path
	order   []string          // paths, sorted
	trees   map[string][]*NavNode
	tagIdx  map[string]map[string][]*Page // namespace -> folded tag -> pages in path order
}

var foldCaser = cases.Fold()

// Load constructs a registry from raw page records, validating every
// structural invariant. It either returns a fully valid registry or an
// error; a partially valid registry is never exposed.
func Load(records []RawPage, opts Options) (*Registry, error) {
	reg := &Registry{
		pages:   make(map[string]*Page, len(records)),
		aliases: make(map[string]string),
		trees:   make(map[string][]*NavNode),
		tagIdx:  make(map[string]map[string][]*Page),
	}

	for _, rec := range records {
		if rec.Path == "" {
			return nil, derrors.ValidationError("page record has empty path").Build()
		}
		if _, exists := reg.pages[rec.Path]; exists {
			return nil, derrors.ValidationError("duplicate page path").
				WithContext("path", rec.Path).
				Build()
		}
		reg.pages[rec.Path] = &Page{
			Path:        rec.Path,
			Title:       rec.Meta.Title,
			SEOTitle:    rec.Meta.SEOTitle,
			Description: rec.Meta.Description,
			Menu:        rec.Meta.Menu,
			Tags:        rec.Meta.Tags,
			Aliases:     rec.Meta.Aliases,
			Body:        rec.Body,
		}
		reg.order = append(reg.order, rec.Path)
	}
	sort.Strings(reg.order)

	if err := reg.indexAliases(); err != nil {
		return nil, err
	}
	if err := reg.buildNavigation(opts); err != nil {
		return nil, err
	}
	reg.indexTags()

	return reg, nil
}

// indexAliases builds the alias lookup table. Aliases are global: an alias
// colliding with any page path or any other page's alias fails the load.
func (r *Registry) indexAliases() error {
	for _, path := range r.order {
		page := r.pages[path]
		for _, alias := range page.Aliases {
			if alias == "" {
				return derrors.ValidationError("empty alias").
					WithContext("path", path).
					Build()
			}
			if _, isPath := r.pages[alias]; isPath {
				return derrors.ValidationError("alias collides with a page path").
					WithContext("path", path).
					WithContext("alias", alias).
					Build()
			}
			if owner, taken := r.aliases[alias]; taken {
				return derrors.ValidationError("duplicate alias").
					WithContext("alias", alias).
					WithContext("path", path).
					WithContext("conflicting_path", owner).
					Build()
			}
			r.aliases[alias] = path
		}
	}
	return nil
}

// indexTags builds the per-namespace tag index. Tags are matched
// case-insensitively, so index keys are case-folded.
func (r *Registry) indexTags() {
	for _, path := range r.order {
		page := r.pages[path]
		for ns, tags := range page.Tags {
			byTag := r.tagIdx[ns]
			if byTag == nil {
				byTag = make(map[string][]*Page)
				r.tagIdx[ns] = byTag
			}
			for _, tag := range tags {
				folded := foldCaser.String(tag)
				byTag[folded] = append(byTag[folded], page)
			}
		}
	}
}

// Len returns the number of pages in the registry.
func (r *Registry) Len() int {
	return len(r.pages)
}

// Paths returns all page paths in sorted order.
func (r *Registry) Paths() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Namespaces returns the sorted set of namespaces that have menu placements.
func (r *Registry) Namespaces() []string {
	out := make([]string, 0, len(r.trees))
	for ns := range r.trees {
		out = append(out, ns)
	}
	sort.Strings(out)
	return out
}

func warnDanglingParent(page *Page, ns, parent string) {
	slog.Warn("Menu parent does not resolve, treating page as root",
		logfields.Path(page.Path),
		logfields.Namespace(ns),
		slog.String("parent", parent))
}

func cyclePathString(cycle []string) string {
	out := ""
	for i, name := range cycle {
		if i > 0 {
			out += " -> "
		}
		out += fmt.Sprintf("%q", name)
	}
	return out
}
