package logfields

import (
	"errors"
	"log/slog"
	"testing"
)

// TestHelperKeyNames verifies helper key/value stability.
func TestHelperKeyNames(t *testing.T) {
	cases := []struct {
		name    string
		attrKey string
		attrVal string
		attr    slog.Attr
	}{
		{"Path", KeyPath, "/v2.0/write-data/", Path("/v2.0/write-data/")},
		{"Alias", KeyAlias, "/v2.0/write/", Alias("/v2.0/write/")},
		{"Namespace", KeyNamespace, "v2_0", Namespace("v2_0")},
		{"Tag", KeyTag, "scraper", Tag("scraper")},
		{"Reference", KeyReference, "/v2.0/missing/", Reference("/v2.0/missing/")},
		{"Repository", KeyRepo, "docs-v2", Repository("docs-v2")},
		{"Branch", KeyBranch, "master", Branch("master")},
		{"BuildID", KeyBuildID, "b1", BuildID("b1")},
		{"Addr", KeyAddr, ":8080", Addr(":8080")},
		{"URL", KeyURL, "http://example", URL("http://example")},
	}

	for _, tc := range cases {
		if tc.attr.Key != tc.attrKey {
			// Key drift would break log ingestion schemas.
			t.Fatalf("%s: expected key %s, got %s", tc.name, tc.attrKey, tc.attr.Key)
		}
		if got := tc.attr.Value.String(); got != tc.attrVal {
			t.Fatalf("%s: expected value %s, got %v", tc.name, tc.attrVal, got)
		}
	}
}

func TestErrorHelper(t *testing.T) {
	if got := Error(nil).Value.String(); got != "" {
		t.Fatalf("nil error should render empty, got %q", got)
	}
	if got := Error(errors.New("boom")).Value.String(); got != "boom" {
		t.Fatalf("expected boom, got %q", got)
	}
}
