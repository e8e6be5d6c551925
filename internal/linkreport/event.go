package linkreport

import "time"

// BrokenLinkEvent is one broken reference discovered during verification,
// published for downstream processing (issue creation, dashboards).
type BrokenLinkEvent struct {
	// Reference is the unresolvable path or alias.
	Reference string `json:"reference"`
	// SourcePath is the registry path of the referencing page.
	SourcePath string `json:"source_path"`
	// SourceTitle is the referencing page's title, if any.
	SourceTitle string `json:"source_title,omitempty"`

	BuildID   string    `json:"build_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
