// Package linkreport runs link verification over a loaded registry:
// extracting site-internal references from page bodies, reporting every
// broken (page, reference) pair, persisting the result, and optionally
// publishing broken-link events to NATS.
package linkreport

import (
	"net/url"
	"path"
	"strings"

	"git.home.luguber.info/inful/docregistry/internal/markdown"
	"git.home.luguber.info/inful/docregistry/internal/registry"
)

// NewExtractor returns a LinkExtractor that finds site-internal page
// references in a page's Markdown body.
//
// External URLs (any scheme or host), intra-page fragments, and asset
// references (destinations whose last segment carries a non-markdown file
// extension) are skipped: the registry holds pages, not assets. Relative
// references are resolved against the referencing page's path.
func NewExtractor() registry.LinkExtractor {
	return func(page *registry.Page) ([]string, error) {
		links, err := markdown.ExtractLinks(page.Body, markdown.Options{})
		if err != nil {
			return nil, err
		}

		var refs []string
		for _, link := range links {
			ref, ok := normalizeRef(page.Path, link.Destination)
			if !ok {
				continue
			}
			refs = append(refs, ref)
		}
		return refs, nil
	}
}

// normalizeRef maps a raw link destination onto a canonical registry path.
// The second return value is false for references that should not be
// checked against the registry.
func normalizeRef(pagePath, destination string) (string, bool) {
	destination = strings.TrimSpace(destination)
	if destination == "" || strings.HasPrefix(destination, "#") {
		return "", false
	}

	u, err := url.Parse(destination)
	if err != nil {
		// Unparseable destinations are reported verbatim so validation
		// surfaces them as broken instead of silently dropping them.
		return destination, true
	}
	if u.Scheme != "" || u.Host != "" {
		return "", false
	}

	ref := u.Path
	if ref == "" {
		return "", false
	}

	if ext := path.Ext(ref); ext != "" {
		if ext != ".md" {
			return "", false
		}
		ref = strings.TrimSuffix(ref, ".md")
	}

	if !strings.HasPrefix(ref, "/") {
		ref = path.Join(pagePath, ref)
	}
	if !strings.HasSuffix(ref, "/") {
		ref += "/"
	}
	return ref, true
}
