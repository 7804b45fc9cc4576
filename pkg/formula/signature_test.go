package formula

import (
	"reflect"
	"testing"
)

func TestParseArguments(t *testing.T) {
	tests := []struct {
		syntax   string
		expected []FunctionArgument
	}{
		{"SUM(colA, colB, ...)", []FunctionArgument{
			{Name: "colA"}, {Name: "colB"}, {Name: "...", Variadic: true},
		}},
		{"ROUND(colA, [digits])", []FunctionArgument{
			{Name: "colA"}, {Name: "digits", Optional: true},
		}},
		{"DATEDIF(colDate, colDate, [unit])", []FunctionArgument{
			{Name: "colDate"}, {Name: "colDate"}, {Name: "unit", Optional: true},
		}},
		{"CONCAT(colA...)", []FunctionArgument{
			{Name: "colA", Variadic: true},
		}},
		{"F(...)", []FunctionArgument{
			{Name: "...", Variadic: true},
		}},
		{"MAP(colA, pair(a, b))", []FunctionArgument{
			{Name: "colA"}, {Name: "pair(a, b)"},
		}},
		{"TODAY()", nil},
		{"expression", nil},
	}

	for _, tt := range tests {
		result := ParseArguments(tt.syntax)
		if !reflect.DeepEqual(result, tt.expected) {
			t.Errorf("ParseArguments(%q): expected %+v, got %+v", tt.syntax, tt.expected, result)
		}
	}
}

func TestCanonicalName(t *testing.T) {
	tests := []struct {
		syntax   string
		expected string
	}{
		{"SUM(colA, colB, ...)", "SUM"},
		{"=sum(colA)", "SUM"},
		{"Round(colA, [digits])", "ROUND"},
		{"expression", ""},
		{"colA + colB (sum)", ""},
	}

	for _, tt := range tests {
		result := CanonicalName(tt.syntax)
		if result != tt.expected {
			t.Errorf("CanonicalName(%q): expected %q, got %q", tt.syntax, tt.expected, result)
		}
	}
}
