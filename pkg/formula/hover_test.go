package formula

import (
	"strings"
	"testing"
)

func TestDescribe(t *testing.T) {
	catalog := DefaultCatalog()
	text := Describe(catalog.ByName("SUM"))
	for _, want := range []string{"Sum", "SUM(", "e.g. "} {
		if !strings.Contains(text, want) {
			t.Errorf("Describe(SUM) should contain %q, got:\n%s", want, text)
		}
	}
	if Describe(nil) != "" {
		t.Error("Describe(nil) should be empty")
	}
}

func TestDefinitionAt(t *testing.T) {
	catalog := DefaultCatalog()
	tests := []struct {
		name   string
		text   string
		cursor int
		want   string // canonical name, "" for nil
	}{
		{"cursor inside name", "=SUM(Col1)", 2, "SUM"},
		{"cursor at name start", "=SUM(Col1)", 1, "SUM"},
		{"cursor just past name", "=SUM(Col1)", 4, "SUM"},
		{"nested call", "=ROUND(SUM(Col1), 2)", 9, "SUM"},
		{"lowercase identifier", "=median(Col1)", 3, "MEDIAN"},
		{"cursor on column name", "=SUM(Col1)", 6, ""},
		{"cursor on paren", "=SUM(Col1)", 5, ""},
		{"cursor out of range", "=SUM(Col1)", 42, ""},
		{"empty text", "", 0, ""},
	}
	for _, tt := range tests {
		def := catalog.DefinitionAt(tt.text, tt.cursor)
		if tt.want == "" {
			if def != nil {
				t.Errorf("%s: DefinitionAt(%q, %d) = %s, want nil", tt.name, tt.text, tt.cursor, def.Key)
			}
			continue
		}
		if def == nil {
			t.Errorf("%s: DefinitionAt(%q, %d) = nil, want %s", tt.name, tt.text, tt.cursor, tt.want)
			continue
		}
		if got := CanonicalName(def.Syntax); got != tt.want {
			t.Errorf("%s: DefinitionAt(%q, %d) = %s, want %s", tt.name, tt.text, tt.cursor, got, tt.want)
		}
	}
}

func TestCatalogSearch(t *testing.T) {
	catalog := DefaultCatalog()

	hits := catalog.Search("median")
	if len(hits) != 1 || hits[0].Key != "median" {
		t.Errorf("Search(median) = %v, want the median entry only", hits)
	}

	if got := catalog.Search(""); len(got) != catalog.Len() {
		t.Errorf("Search(\"\") returned %d entries, want %d", len(got), catalog.Len())
	}

	if got := catalog.Search("no-such-thing"); len(got) != 0 {
		t.Errorf("Search(no-such-thing) = %v, want none", got)
	}
}
