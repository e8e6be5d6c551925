package registry

import (
	derrors "git.home.luguber.info/inful/docregistry/internal/foundation/errors"
)

// Resolve returns the canonical page for a path or alias.
func (r *Registry) Resolve(pathOrAlias string) (*Page, error) {
	if page, ok := r.pages[pathOrAlias]; ok {
		return page, nil
	}
	if path, ok := r.aliases[pathOrAlias]; ok {
		return r.pages[path], nil
	}
	return nil, derrors.NotFoundError("no page for path or alias").
		WithContext("path", pathOrAlias).
		Build()
}

// FindByTag returns all pages tagged with tag in the given namespace, in
// path order. Matching is case-insensitive.
func (r *Registry) FindByTag(namespace, tag string) []*Page {
	byTag := r.tagIdx[namespace]
	if byTag == nil {
		return nil
	}
	pages := byTag[foldCaser.String(tag)]
	out := make([]*Page, len(pages))
	copy(out, pages)
	return out
}

// LinkExtractor extracts the site-internal references a page's body makes.
// Implementations decide what counts as a reference (markdown links,
// shortcode refs, raw HTML) and must already have filtered out external
// URLs and intra-page fragments.
type LinkExtractor func(page *Page) ([]string, error)

// BrokenRef is one unresolvable reference found during link validation.
type BrokenRef struct {
	Page      string // path of the referencing page
	Reference string // the reference that did not resolve
}

// ValidateLinks checks every reference the extractor finds against Resolve
// and reports all broken (page, reference) pairs instead of failing on the
// first. Pages are visited and results reported in path order.
func (r *Registry) ValidateLinks(extract LinkExtractor) ([]BrokenRef, error) {
	var broken []BrokenRef
	for _, path := range r.order {
		page := r.pages[path]
		refs, err := extract(page)
		if err != nil {
			return nil, derrors.WrapError(err, derrors.CategoryInternal, "link extraction failed").
				WithContext("path", path).
				Build()
		}
		for _, ref := range refs {
			if _, err := r.Resolve(ref); err != nil {
				broken = append(broken, BrokenRef{Page: path, Reference: ref})
			}
		}
	}
	return broken, nil
}
