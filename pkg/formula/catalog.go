// This file contains the formula catalog powering completions, signature
// help, and the formula matcher.
package formula

import (
	"fmt"
	"sort"
	"strings"
)

// Category classifies formulas by their purpose.
type Category string

// Category constants for formula classification.
const (
	CategoryMath        Category = "math"
	CategoryStatistical Category = "statistical"
	CategoryLogical     Category = "logical"
	CategoryText        Category = "text"
	CategoryDate        Category = "date"
	CategoryMapping     Category = "mapping"
	CategoryNulls       Category = "nulls"
)

// MatchFunc decides whether a raw expression belongs to a definition. It
// receives the expression as typed; implementations normalize case and
// whitespace themselves.
type MatchFunc func(expr string) bool

// FormulaDefinition describes one entry of the formula catalog. The Match
// predicate is excluded from JSON so definitions can be rendered directly.
type FormulaDefinition struct {
	Key         string             `json:"key"`         // Unique catalog key (e.g. "sum")
	Name        string             `json:"name"`        // Display name (e.g. "Sum")
	Syntax      string             `json:"syntax"`      // Display signature (e.g. "SUM(colA, colB, ...)")
	Description string             `json:"description"` // Brief description
	Example     string             `json:"example"`     // Insertable example with symbolic placeholders
	Category    Category           `json:"category"`    // Formula category
	Priority    int                `json:"priority"`    // Ascending match precedence; ties keep catalog order
	Match       MatchFunc          `json:"-"`           // Expression predicate
	Arguments   []FunctionArgument `json:"arguments,omitempty"`
}

// condense uppercases an expression and strips all whitespace, the
// normalized form seen by match predicates.
func condense(expr string) string {
	var b strings.Builder
	b.Grow(len(expr))
	for i := 0; i < len(expr); i++ {
		c := expr[i]
		if c == ' ' || c == '\t' || c == '\n' || c == '\r' {
			continue
		}
		if c >= 'a' && c <= 'z' {
			c -= 'a' - 'A'
		}
		b.WriteByte(c)
	}
	return b.String()
}

// callMatcher returns a predicate matching expressions that invoke the named
// function directly after the leading "=".
func callMatcher(name string) MatchFunc {
	prefix := "=" + strings.ToUpper(name) + "("
	return func(expr string) bool {
		return strings.HasPrefix(condense(expr), prefix)
	}
}

// anyExpression is the catch-all predicate for plain arithmetic. The matcher
// already requires a leading "=", so everything qualifies.
func anyExpression(string) bool { return true }

// defaultDefinitions is the built-in formula table. Relative order matters:
// it is the tie-break for equal priorities and must be preserved.
var defaultDefinitions = []FormulaDefinition{
	// Math
	{Key: "sum", Name: "Sum", Syntax: "SUM(colA, colB, ...)", Description: "Add the values of two or more columns", Example: "=SUM(colA, colB)", Category: CategoryMath, Priority: 10, Match: callMatcher("SUM")},
	{Key: "round", Name: "Round", Syntax: "ROUND(colA, [digits])", Description: "Round values to the given number of digits", Example: "=ROUND(colA, 2)", Category: CategoryMath, Priority: 10, Match: callMatcher("ROUND")},
	{Key: "abs", Name: "Absolute", Syntax: "ABS(colA)", Description: "Absolute value of a column", Example: "=ABS(colA)", Category: CategoryMath, Priority: 10, Match: callMatcher("ABS")},
	{Key: "sqrt", Name: "Square Root", Syntax: "SQRT(colA)", Description: "Square root of a column", Example: "=SQRT(colA)", Category: CategoryMath, Priority: 10, Match: callMatcher("SQRT")},
	{Key: "power", Name: "Power", Syntax: "POWER(colA, exponent)", Description: "Raise a column to a power", Example: "=POWER(colA, 2)", Category: CategoryMath, Priority: 10, Match: callMatcher("POWER")},
	{Key: "mod", Name: "Modulo", Syntax: "MOD(colA, divisor)", Description: "Remainder after division", Example: "=MOD(colA, 10)", Category: CategoryMath, Priority: 10, Match: callMatcher("MOD")},
	{Key: "log", Name: "Logarithm", Syntax: "LOG(colA, [base])", Description: "Logarithm, base 10 unless given", Example: "=LOG(colA)", Category: CategoryMath, Priority: 10, Match: callMatcher("LOG")},
	{Key: "ceiling", Name: "Ceiling", Syntax: "CEILING(colA)", Description: "Round values up to the nearest integer", Example: "=CEILING(colA)", Category: CategoryMath, Priority: 10, Match: callMatcher("CEILING")},
	{Key: "floor", Name: "Floor", Syntax: "FLOOR(colA)", Description: "Round values down to the nearest integer", Example: "=FLOOR(colA)", Category: CategoryMath, Priority: 10, Match: callMatcher("FLOOR")},

	// Statistical
	{Key: "average", Name: "Average", Syntax: "AVERAGE(colA, colB, ...)", Description: "Arithmetic mean across columns", Example: "=AVERAGE(colA, colB)", Category: CategoryStatistical, Priority: 10, Match: callMatcher("AVERAGE")},
	{Key: "median", Name: "Median", Syntax: "MEDIAN(colA, colB, ...)", Description: "Middle value across columns", Example: "=MEDIAN(colA, colB)", Category: CategoryStatistical, Priority: 10, Match: callMatcher("MEDIAN")},
	{Key: "min", Name: "Minimum", Syntax: "MIN(colA, colB, ...)", Description: "Smallest value across columns", Example: "=MIN(colA, colB)", Category: CategoryStatistical, Priority: 10, Match: callMatcher("MIN")},
	{Key: "max", Name: "Maximum", Syntax: "MAX(colA, colB, ...)", Description: "Largest value across columns", Example: "=MAX(colA, colB)", Category: CategoryStatistical, Priority: 10, Match: callMatcher("MAX")},
	{Key: "count", Name: "Count", Syntax: "COUNT(colA)", Description: "Count non-empty values", Example: "=COUNT(colA)", Category: CategoryStatistical, Priority: 10, Match: callMatcher("COUNT")},
	{Key: "stdev", Name: "Standard Deviation", Syntax: "STDEV(colA)", Description: "Sample standard deviation", Example: "=STDEV(colA)", Category: CategoryStatistical, Priority: 10, Match: callMatcher("STDEV")},
	{Key: "variance", Name: "Variance", Syntax: "VARIANCE(colA)", Description: "Sample variance", Example: "=VARIANCE(colA)", Category: CategoryStatistical, Priority: 10, Match: callMatcher("VARIANCE")},
	{Key: "percentile", Name: "Percentile", Syntax: "PERCENTILE(colA, fraction)", Description: "Value at the given fraction (0-1)", Example: "=PERCENTILE(colA, 0.9)", Category: CategoryStatistical, Priority: 10, Match: callMatcher("PERCENTILE")},

	// Logical. These stay in the catalog so signature help and the column
	// validator recognize them, but top-level use is rejected by the
	// operation validator: they are row-level, not column-level, functions.
	{Key: "if", Name: "If", Syntax: "IF(condition, value, value)", Description: "Row-level conditional (not supported in column formulas)", Example: "=IF(colA > 10, \"High\", \"Low\")", Category: CategoryLogical, Priority: 20, Match: callMatcher("IF")},
	{Key: "and", Name: "And", Syntax: "AND(condition, condition, ...)", Description: "Row-level conjunction (not supported in column formulas)", Example: "=AND(colA > 0, colB > 0)", Category: CategoryLogical, Priority: 20, Match: callMatcher("AND")},
	{Key: "or", Name: "Or", Syntax: "OR(condition, condition, ...)", Description: "Row-level disjunction (not supported in column formulas)", Example: "=OR(colA > 0, colB > 0)", Category: CategoryLogical, Priority: 20, Match: callMatcher("OR")},
	{Key: "not", Name: "Not", Syntax: "NOT(condition)", Description: "Row-level negation (not supported in column formulas)", Example: "=NOT(colA > 0)", Category: CategoryLogical, Priority: 20, Match: callMatcher("NOT")},

	// Text
	{Key: "concat", Name: "Concatenate", Syntax: "CONCAT(colA, colB, ...)", Description: "Join text values from columns", Example: "=CONCAT(colA, colB)", Category: CategoryText, Priority: 10, Match: callMatcher("CONCAT")},
	{Key: "upper", Name: "Uppercase", Syntax: "UPPER(colA)", Description: "Convert text to uppercase", Example: "=UPPER(colA)", Category: CategoryText, Priority: 10, Match: callMatcher("UPPER")},
	{Key: "lower", Name: "Lowercase", Syntax: "LOWER(colA)", Description: "Convert text to lowercase", Example: "=LOWER(colA)", Category: CategoryText, Priority: 10, Match: callMatcher("LOWER")},
	{Key: "trim", Name: "Trim", Syntax: "TRIM(colA)", Description: "Remove leading and trailing whitespace", Example: "=TRIM(colA)", Category: CategoryText, Priority: 10, Match: callMatcher("TRIM")},
	{Key: "len", Name: "Length", Syntax: "LEN(colA)", Description: "Number of characters in each value", Example: "=LEN(colA)", Category: CategoryText, Priority: 10, Match: callMatcher("LEN")},
	{Key: "left", Name: "Left", Syntax: "LEFT(colA, count)", Description: "First characters of each value", Example: "=LEFT(colA, 3)", Category: CategoryText, Priority: 10, Match: callMatcher("LEFT")},
	{Key: "right", Name: "Right", Syntax: "RIGHT(colA, count)", Description: "Last characters of each value", Example: "=RIGHT(colA, 3)", Category: CategoryText, Priority: 10, Match: callMatcher("RIGHT")},
	{Key: "replace", Name: "Replace", Syntax: "REPLACE(colA, text, text)", Description: "Replace occurrences of text in each value", Example: "=REPLACE(colA, \"old\", \"new\")", Category: CategoryText, Priority: 10, Match: callMatcher("REPLACE")},

	// Date
	{Key: "year", Name: "Year", Syntax: "YEAR(colDate)", Description: "Extract the year from a date column", Example: "=YEAR(colDate)", Category: CategoryDate, Priority: 10, Match: callMatcher("YEAR")},
	{Key: "month", Name: "Month", Syntax: "MONTH(colDate)", Description: "Extract the month from a date column", Example: "=MONTH(colDate)", Category: CategoryDate, Priority: 10, Match: callMatcher("MONTH")},
	{Key: "day", Name: "Day", Syntax: "DAY(colDate)", Description: "Extract the day from a date column", Example: "=DAY(colDate)", Category: CategoryDate, Priority: 10, Match: callMatcher("DAY")},
	{Key: "datedif", Name: "Date Difference", Syntax: "DATEDIF(colDate, colDate, [unit])", Description: "Difference between two date columns", Example: "=DATEDIF(colDate, colDate, \"days\")", Category: CategoryDate, Priority: 5, Match: callMatcher("DATEDIF")},
	{Key: "today", Name: "Today", Syntax: "TODAY()", Description: "Current date", Example: "=TODAY()", Category: CategoryDate, Priority: 10, Match: callMatcher("TODAY")},

	// Mapping
	{Key: "map", Name: "Map Values", Syntax: "MAP(colA, value, value, ...)", Description: "Map column values to replacements, pairwise", Example: "=MAP(colA, value, value)", Category: CategoryMapping, Priority: 10, Match: callMatcher("MAP")},
	{Key: "lookup", Name: "Lookup", Syntax: "LOOKUP(colA, colB, colX)", Description: "Look values up in another column pair", Example: "=LOOKUP(colA, colB, colX)", Category: CategoryMapping, Priority: 10, Match: callMatcher("LOOKUP")},

	// Nulls
	{Key: "isnull", Name: "Is Null", Syntax: "ISNULL(colA)", Description: "True where the value is missing", Example: "=ISNULL(colA)", Category: CategoryNulls, Priority: 10, Match: callMatcher("ISNULL")},
	{Key: "fillnull", Name: "Fill Null", Syntax: "FILLNULL(colA, value)", Description: "Replace missing values with a default", Example: "=FILLNULL(colA, 0)", Category: CategoryNulls, Priority: 10, Match: callMatcher("FILLNULL")},
	{Key: "coalesce", Name: "Coalesce", Syntax: "COALESCE(colA, colB, ...)", Description: "First non-missing value across columns", Example: "=COALESCE(colA, colB)", Category: CategoryNulls, Priority: 10, Match: callMatcher("COALESCE")},

	// Catch-all arithmetic. Lowest precedence: it also matches expressions
	// aimed at the specific definitions above when their predicates fail.
	{Key: "arithmetic", Name: "Custom Expression", Syntax: "expression", Description: "Free-form arithmetic over columns and constants", Example: "=colA * 2 + colB", Category: CategoryMath, Priority: 100, Match: anyExpression},
}

// Catalog is the immutable formula table. The zero value is empty; build one
// with NewCatalog or use DefaultCatalog.
type Catalog struct {
	defs       []FormulaDefinition
	byKey      map[string]int
	byName     map[string]int
	matchOrder []int // definition indices sorted by ascending priority, stable
}

// NewCatalog builds a catalog from definitions, parsing each argument
// signature once. Keys must be unique.
func NewCatalog(defs []FormulaDefinition) (Catalog, error) {
	c := Catalog{
		defs:   make([]FormulaDefinition, len(defs)),
		byKey:  make(map[string]int, len(defs)),
		byName: make(map[string]int, len(defs)),
	}
	copy(c.defs, defs)

	for i := range c.defs {
		def := &c.defs[i]
		if _, dup := c.byKey[def.Key]; dup {
			return Catalog{}, fmt.Errorf("duplicate formula key %q", def.Key)
		}
		c.byKey[def.Key] = i

		if def.Arguments == nil {
			def.Arguments = ParseArguments(def.Syntax)
		}
		if name := CanonicalName(def.Syntax); name != "" {
			c.byName[name] = i
		}
	}

	c.matchOrder = make([]int, len(c.defs))
	for i := range c.matchOrder {
		c.matchOrder[i] = i
	}
	sort.SliceStable(c.matchOrder, func(a, b int) bool {
		return c.defs[c.matchOrder[a]].Priority < c.defs[c.matchOrder[b]].Priority
	})

	return c, nil
}

var defaultCatalog = func() Catalog {
	c, err := NewCatalog(defaultDefinitions)
	if err != nil {
		panic(err)
	}
	return c
}()

// DefaultCatalog returns the built-in formula catalog.
func DefaultCatalog() Catalog {
	return defaultCatalog
}

// Definitions returns the catalog entries in declaration order. Callers must
// not modify the returned slice.
func (c Catalog) Definitions() []FormulaDefinition {
	return c.defs
}

// Len returns the number of definitions.
func (c Catalog) Len() int {
	return len(c.defs)
}

// ByKey looks a definition up by its catalog key.
func (c Catalog) ByKey(key string) *FormulaDefinition {
	if i, ok := c.byKey[key]; ok {
		return &c.defs[i]
	}
	return nil
}

// ByName looks a definition up by its canonical function name,
// case-insensitively.
func (c Catalog) ByName(name string) *FormulaDefinition {
	if i, ok := c.byName[strings.ToUpper(name)]; ok {
		return &c.defs[i]
	}
	return nil
}

// IsFunctionName reports whether the identifier is a known function name.
func (c Catalog) IsFunctionName(name string) bool {
	_, ok := c.byName[strings.ToUpper(name)]
	return ok
}

// FunctionNames returns all canonical function names in declaration order.
func (c Catalog) FunctionNames() []string {
	names := make([]string, 0, len(c.defs))
	for _, def := range c.defs {
		if name := CanonicalName(def.Syntax); name != "" {
			names = append(names, name)
		}
	}
	return names
}

// Match returns the best catalog entry for an expression, or nil. The
// expression must start with "=" after trimming. Definitions are tried in
// ascending priority; equal priorities keep catalog order.
func (c Catalog) Match(expr string) *FormulaDefinition {
	trimmed := strings.TrimSpace(expr)
	if !strings.HasPrefix(trimmed, "=") {
		return nil
	}
	for _, i := range c.matchOrder {
		if c.defs[i].Match != nil && c.defs[i].Match(trimmed) {
			return &c.defs[i]
		}
	}
	return nil
}
