package formula

import (
	"reflect"
	"strings"
	"testing"
)

func TestValidateColumns(t *testing.T) {
	catalog := DefaultCatalog()
	columns := []string{"Revenue", "Cost", "Profit"}

	tests := []struct {
		expr    string
		invalid []string // nil means valid
	}{
		{"=SUM(Revenue, Cost)", nil},
		{"=Revenue * 2 + Cost", nil},
		{"=ROUND(Profit, 2)", nil},
		{`=CONCAT(Revenue, "label")`, nil},
		{"=SUM(Revenue, Sales)", []string{"Sales"}},
		{"=Foo + Bar", []string{"Foo", "Bar"}},
		{"=SUM(Col1, Col2)", nil},  // placeholders remain, deferred
		{"=SUM(Revenue, Bad", nil}, // unbalanced, deferred
	}

	for _, tt := range tests {
		result := ValidateColumns(tt.expr, columns, catalog)
		if tt.invalid == nil {
			if !result.IsValid {
				t.Errorf("ValidateColumns(%q): expected valid, got %q", tt.expr, result.Error)
			}
			continue
		}
		if result.IsValid {
			t.Errorf("ValidateColumns(%q): expected invalid columns %v", tt.expr, tt.invalid)
			continue
		}
		if result.ErrorType != ErrColumn {
			t.Errorf("ValidateColumns(%q): expected column error, got %q", tt.expr, result.ErrorType)
		}
		if result.Details == nil || !reflect.DeepEqual(result.Details.InvalidColumns, tt.invalid) {
			t.Errorf("ValidateColumns(%q): expected invalid %v, got %+v", tt.expr, tt.invalid, result.Details)
		}
	}
}

func TestValidateColumnsDidYouMean(t *testing.T) {
	catalog := DefaultCatalog()
	result := ValidateColumns("=AVERAGE(Reveno)", []string{"Revenue", "Cost"}, catalog)
	if result.IsValid {
		t.Fatal("Reveno should be an unknown column")
	}
	if !strings.Contains(result.Error, "Reveno") {
		t.Errorf("error should name the unknown column: %q", result.Error)
	}
	if len(result.Suggestions) != 1 || result.Suggestions[0] != "Revenue" {
		t.Errorf("expected exactly [Revenue], got %v", result.Suggestions)
	}
	if !strings.Contains(result.Error, "Did you mean: Revenue?") {
		t.Errorf("expected did-you-mean wording, got %q", result.Error)
	}
}

func TestValidateColumnsDidYouMeanPerColumn(t *testing.T) {
	catalog := DefaultCatalog()
	columns := []string{"Revenue", "Cost"}

	// A hopeless first unknown must not suppress suggestions for the rest.
	result := ValidateColumns("=Foo + Reveno", columns, catalog)
	if result.IsValid {
		t.Fatal("expected unknown column error")
	}
	if len(result.Suggestions) != 1 || result.Suggestions[0] != "Revenue" {
		t.Errorf("expected [Revenue] for Reveno, got %v", result.Suggestions)
	}

	result = ValidateColumns("=Reveno + Cst", columns, catalog)
	if !reflect.DeepEqual(result.Suggestions, []string{"Revenue", "Cost"}) {
		t.Errorf("expected suggestions for every unknown column, got %v", result.Suggestions)
	}
}

func TestValidateColumnsFallbackList(t *testing.T) {
	catalog := DefaultCatalog()
	columns := []string{"Alpha", "Beta", "Gamma", "Delta", "Epsilon", "Zeta"}
	result := ValidateColumns("=SUM(Qqqqqqqq, Alpha)", columns, catalog)
	if result.IsValid {
		t.Fatal("expected unknown column error")
	}
	if !strings.Contains(result.Error, "Available columns:") {
		t.Errorf("expected available-columns fallback, got %q", result.Error)
	}
	if len(result.Suggestions) != 5 {
		t.Errorf("fallback should list up to 5 columns, got %v", result.Suggestions)
	}
	if result.Details == nil || len(result.Details.AvailableColumns) != len(columns) {
		t.Errorf("details should carry the full column list, got %+v", result.Details)
	}
}

func TestMaskColumnsLongestFirst(t *testing.T) {
	// "Cost" must not be masked inside "Cost Center".
	masked := maskColumns("=Cost_Center + Cost", []string{"Cost", "Cost_Center"})
	if strings.Contains(masked, "Cost") {
		t.Errorf("expected both columns masked, got %q", masked)
	}
	if len(masked) != len("=Cost_Center + Cost") {
		t.Errorf("masking must preserve length, got %q", masked)
	}
}

func TestHasPlaceholders(t *testing.T) {
	tests := []struct {
		expr     string
		expected bool
	}{
		{"=SUM(Col1, Col2)", true},
		{"=SUM(Revenue, Cost)", false},
		{"=Column1 + 2", false}, // Column1 is not a ColN token
		{"", false},
	}

	for _, tt := range tests {
		if got := HasPlaceholders(tt.expr); got != tt.expected {
			t.Errorf("HasPlaceholders(%q): expected %v, got %v", tt.expr, tt.expected, got)
		}
	}
}
