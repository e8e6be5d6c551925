package frontmatter

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// MenuPlacement positions a page inside one namespace's navigation menu.
// Parent references another page's menu Name; empty Parent means root level.
type MenuPlacement struct {
	Name   string `yaml:"name"`
	Parent string `yaml:"parent,omitempty"`
	Weight int    `yaml:"weight,omitempty"`
}

// Meta is the typed view of a page's front matter.
//
// Tags are keyed by namespace: the source declares them as `<ns>/tags`
// keys (e.g. `v2.0/tags`). Namespace keys are normalized so that menu and
// tag namespaces align (see NormalizeNamespace).
type Meta struct {
	Title       string
	SEOTitle    string
	Description string
	Menu        map[string]MenuPlacement
	Aliases     []string
	Tags        map[string][]string
}

const tagsKeySuffix = "/tags"

type rawMeta struct {
	Title       string                   `yaml:"title"`
	SEOTitle    string                   `yaml:"seotitle"`
	Description string                   `yaml:"description"`
	Menu        map[string]MenuPlacement `yaml:"menu"`
	Aliases     []string                 `yaml:"aliases"`
	Rest        map[string]any           `yaml:",inline"`
}

// ParseMeta decodes raw YAML frontmatter (without --- delimiters) into Meta.
// Empty input yields a zero Meta.
func ParseMeta(frontmatter []byte) (Meta, error) {
	if len(frontmatter) == 0 {
		return Meta{}, nil
	}

	var raw rawMeta
	if err := yaml.Unmarshal(frontmatter, &raw); err != nil {
		return Meta{}, err
	}

	meta := Meta{
		Title:       raw.Title,
		SEOTitle:    raw.SEOTitle,
		Description: raw.Description,
		Aliases:     raw.Aliases,
	}

	if len(raw.Menu) > 0 {
		meta.Menu = make(map[string]MenuPlacement, len(raw.Menu))
		for ns, placement := range raw.Menu {
			meta.Menu[NormalizeNamespace(ns)] = placement
		}
	}

	for key, value := range raw.Rest {
		if !strings.HasSuffix(key, tagsKeySuffix) {
			continue
		}
		ns := NormalizeNamespace(strings.TrimSuffix(key, tagsKeySuffix))
		tags, err := toStringSlice(value)
		if err != nil {
			return Meta{}, fmt.Errorf("frontmatter key %q: %w", key, err)
		}
		if meta.Tags == nil {
			meta.Tags = make(map[string][]string)
		}
		meta.Tags[ns] = tags
	}

	return meta, nil
}

// NormalizeNamespace maps version identifiers onto a single namespace key.
// The source material uses `v2_0` under menu and `v2.0` in tag keys for the
// same release; dots are folded to underscores so both address one namespace.
func NormalizeNamespace(ns string) string {
	return strings.ReplaceAll(strings.TrimSpace(ns), ".", "_")
}

func toStringSlice(value any) ([]string, error) {
	list, ok := value.([]any)
	if !ok {
		return nil, fmt.Errorf("expected a sequence, got %T", value)
	}
	out := make([]string, 0, len(list))
	for _, item := range list {
		s, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("expected string elements, got %T", item)
		}
		out = append(out, s)
	}
	return out, nil
}
