// Package markdown extracts link-like constructs from documentation page
// bodies for reference validation. This is an analysis API; it never
// re-renders Markdown.
package markdown

import (
	"regexp"
	"sort"
	"strings"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"golang.org/x/net/html"
)

// Options controls how Markdown is parsed for internal analysis.
//
// Intentionally small; it exists so parsing behavior (extensions/settings)
// can evolve without rewriting call sites.
type Options struct{}

// shortcodeRefPattern matches `{{< ref "..." >}}` / `{{% relref "..." %}}`
// style shortcode references used throughout the source material.
var shortcodeRefPattern = regexp.MustCompile(`\{\{[<%]\s*(?:relref|ref)\s+"([^"]+)"\s*[>%]\}\}`)

// ExtractLinks parses a Markdown body and extracts link-like constructs:
// inline/image/auto links and reference definitions from the CommonMark
// AST, shortcode references, and href/src attributes in embedded raw HTML.
func ExtractLinks(body []byte, _ Options) ([]Link, error) {
	md := goldmark.New()
	ctx := parser.NewContext()
	root := md.Parser().Parse(text.NewReader(body), parser.WithContext(ctx))

	links := make([]Link, 0)
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *gmast.AutoLink:
			links = append(links, Link{Kind: LinkKindAuto, Destination: string(node.URL(body))})
		case *gmast.Image:
			links = append(links, Link{Kind: LinkKindImage, Destination: string(node.Destination)})
		case *gmast.Link:
			// Goldmark resolves reference-style links to a Link node with a Destination.
			links = append(links, Link{Kind: LinkKindInline, Destination: string(node.Destination)})
		}
		return gmast.WalkContinue, nil
	})

	// Reference definitions live in the parse context, not the AST.
	refs := ctx.References()
	sort.Slice(refs, func(i, j int) bool {
		return string(refs[i].Label()) < string(refs[j].Label())
	})
	for _, ref := range refs {
		links = append(links, Link{Kind: LinkKindReferenceDefinition, Destination: string(ref.Destination())})
	}

	links = append(links, extractShortcodeRefs(body)...)
	links = append(links, extractHTMLLinks(body)...)

	return links, nil
}

func extractShortcodeRefs(body []byte) []Link {
	var links []Link
	for _, match := range shortcodeRefPattern.FindAllSubmatch(body, -1) {
		links = append(links, Link{Kind: LinkKindShortcode, Destination: string(match[1])})
	}
	return links
}

// extractHTMLLinks runs an HTML tokenizer over the body to pick up raw HTML
// anchors and media references that the Markdown AST reports only as opaque
// HTML nodes.
func extractHTMLLinks(body []byte) []Link {
	var links []Link
	tokenizer := html.NewTokenizer(strings.NewReader(string(body)))
	for {
		tt := tokenizer.Next()
		if tt == html.ErrorToken {
			return links
		}
		if tt != html.StartTagToken && tt != html.SelfClosingTagToken {
			continue
		}
		token := tokenizer.Token()
		attr := linkAttributeFor(token.Data)
		if attr == "" {
			continue
		}
		for _, a := range token.Attr {
			if a.Key == attr && a.Val != "" {
				links = append(links, Link{Kind: LinkKindHTML, Destination: a.Val})
			}
		}
	}
}

func linkAttributeFor(tag string) string {
	switch tag {
	case "a", "link":
		return "href"
	case "img", "script", "source", "video", "audio", "iframe":
		return "src"
	default:
		return ""
	}
}
