// Package logfields centralizes canonical slog attribute names so field
// keys do not drift between packages.
package logfields

import "log/slog"

// Canonical log field name constants.
const (
	KeyPath       = "path"
	KeyAlias      = "alias"
	KeyNamespace  = "namespace"
	KeyTag        = "tag"
	KeyReference  = "reference"
	KeyRepo       = "repository"
	KeyBranch     = "branch"
	KeyBuildID    = "build_id"
	KeyPages      = "pages"
	KeyBroken     = "broken_links"
	KeyDurationMS = "duration_ms"
	KeyAddr       = "addr"
	KeyURL        = "url"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func Path(p string) slog.Attr          { return slog.String(KeyPath, p) }
func Alias(a string) slog.Attr         { return slog.String(KeyAlias, a) }
func Namespace(ns string) slog.Attr    { return slog.String(KeyNamespace, ns) }
func Tag(t string) slog.Attr           { return slog.String(KeyTag, t) }
func Reference(r string) slog.Attr     { return slog.String(KeyReference, r) }
func Repository(r string) slog.Attr    { return slog.String(KeyRepo, r) }
func Branch(b string) slog.Attr        { return slog.String(KeyBranch, b) }
func BuildID(id string) slog.Attr      { return slog.String(KeyBuildID, id) }
func Pages(n int) slog.Attr            { return slog.Int(KeyPages, n) }
func BrokenLinks(n int) slog.Attr      { return slog.Int(KeyBroken, n) }
func DurationMS(ms float64) slog.Attr  { return slog.Float64(KeyDurationMS, ms) }
func Addr(a string) slog.Attr          { return slog.String(KeyAddr, a) }
func URL(u string) slog.Attr           { return slog.String(KeyURL, u) }

func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
