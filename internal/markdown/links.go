package markdown

// LinkKind identifies where in the document a link-like construct came from.
type LinkKind string

const (
	LinkKindInline              LinkKind = "inline"
	LinkKindImage               LinkKind = "image"
	LinkKindAuto                LinkKind = "auto"
	LinkKindReferenceDefinition LinkKind = "reference_definition"
	LinkKindShortcode           LinkKind = "shortcode"
	LinkKindHTML                LinkKind = "html"
)

// Link represents an extracted link from a Markdown body.
type Link struct {
	Kind        LinkKind
	Destination string
}
