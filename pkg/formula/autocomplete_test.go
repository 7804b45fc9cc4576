package formula

import "testing"

func TestFragment(t *testing.T) {
	tests := []struct {
		text     string
		cursor   int
		fragment string
		start    int
	}{
		{"=med", 4, "med", 1},
		{"=SUM(Rev", 8, "Rev", 5},
		{"=SUM(Col1, co", 13, "co", 11},
		{"=SUM(", 5, "", 5},
		{"=1 + 2", 2, "", 2},
		{"", 0, "", 0},
	}

	for _, tt := range tests {
		fragment, start := Fragment(tt.text, tt.cursor)
		if fragment != tt.fragment || start != tt.start {
			t.Errorf("Fragment(%q, %d): expected (%q, %d), got (%q, %d)",
				tt.text, tt.cursor, tt.fragment, tt.start, fragment, start)
		}
	}
}

func TestSuggestFunctions(t *testing.T) {
	catalog := DefaultCatalog()

	items := Suggest("=med", 4, nil, catalog)
	if len(items) == 0 {
		t.Fatal("expected suggestions for =med")
	}
	first := items[0]
	if first.Label != "MEDIAN" || first.Kind != SuggestionFunction {
		t.Fatalf("expected MEDIAN function first, got %+v", first)
	}
	if first.InsertText != "MEDIAN()" || first.CursorShift != 7 {
		t.Errorf("expected insert MEDIAN() with cursor between parens, got %+v", first)
	}
}

func TestSuggestColumnsAfterFunctions(t *testing.T) {
	catalog := DefaultCatalog()
	columns := []string{"SumTotal", "Cost"}

	items := Suggest("=sum", 4, columns, catalog)
	if len(items) < 2 {
		t.Fatalf("expected function and column suggestions, got %v", items)
	}
	if items[0].Kind != SuggestionFunction {
		t.Errorf("functions must come before columns, got %+v", items[0])
	}
	var sawColumn bool
	for _, item := range items {
		if item.Kind == SuggestionColumn && item.Label == "SumTotal" {
			sawColumn = true
		}
	}
	if !sawColumn {
		t.Errorf("expected SumTotal column suggestion, got %v", items)
	}
}

func TestSuggestCap(t *testing.T) {
	catalog := DefaultCatalog()
	var columns []string
	for _, name := range []string{"ca", "cb", "cc", "cd", "ce", "cf", "cg", "ch", "ci", "cj", "ck", "cl"} {
		columns = append(columns, "col_"+name)
	}

	items := Suggest("=col_c", 6, columns, catalog)
	if len(items) > 10 {
		t.Errorf("suggestions must be capped at 10, got %d", len(items))
	}
}

func TestSuggestTriggerPositions(t *testing.T) {
	catalog := DefaultCatalog()
	columns := []string{"Revenue"}

	if items := Suggest("=SUM(rev", 8, columns, catalog); len(items) == 0 {
		t.Error("expected suggestions after an open paren")
	}
	if items := Suggest("=Col1, rev", 10, columns, catalog); len(items) == 0 {
		t.Error("expected suggestions after whitespace")
	}
	if items := Suggest("=Revenue", 8, columns, catalog); len(items) == 0 {
		t.Error("expected suggestions directly after =")
	}
	if items := Suggest("=Revenue+co", 11, columns, catalog); len(items) == 0 {
		t.Error("expected suggestions directly after an operator")
	}
	// "x" follows ")", which is not a trigger position.
	if items := Suggest("=SUM(Col1)x", 11, columns, catalog); items != nil {
		t.Errorf("expected no suggestions, got %v", items)
	}
}

func TestCompletePrefix(t *testing.T) {
	catalog := DefaultCatalog()

	name, start, ok := CompletePrefix("=medi", 5, catalog)
	if !ok || name != "MEDIAN" || start != 1 {
		t.Errorf("expected unique MEDIAN completion at 1, got (%q, %d, %v)", name, start, ok)
	}

	if _, _, ok := CompletePrefix("=m", 2, catalog); ok {
		t.Error("ambiguous prefix m should not complete")
	}
	if _, _, ok := CompletePrefix("=", 1, catalog); ok {
		t.Error("empty fragment should not complete")
	}
}
