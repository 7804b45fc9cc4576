package formula

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

var (
	placeholderToken = regexp.MustCompile(`\bCol\d+\b`)
	identifierToken  = regexp.MustCompile(`[A-Za-z_][A-Za-z0-9_]*`)
	numericToken     = regexp.MustCompile(`^[0-9]+(\.[0-9]+)?$`)
)

// HasPlaceholders reports whether the expression still contains numbered
// ColN placeholder tokens from an inserted example.
func HasPlaceholders(expr string) bool {
	return placeholderToken.MatchString(expr)
}

// ValidateColumns checks every identifier in the expression against the known
// column list. It is a submit-time check: while the expression still has ColN
// placeholders or unbalanced parentheses the user clearly isn't done, so the
// check is deferred and reports valid.
//
// Known column names are masked out first, longest names first so a short
// column name never matches inside a longer one. Whatever identifiers remain
// after discarding function names and numerics are unknown columns; each gets
// fuzzy "did you mean" suggestions against the known columns.
func ValidateColumns(expr string, columns []string, catalog Catalog) ValidationResult {
	if HasPlaceholders(expr) {
		return Valid()
	}
	if strings.Count(expr, "(") != strings.Count(expr, ")") {
		return Valid()
	}

	masked := stripStringLiterals(expr)
	masked = maskColumns(masked, columns)

	var invalid []string
	seen := make(map[string]bool)
	for _, tok := range identifierToken.FindAllString(masked, -1) {
		if seen[tok] {
			continue
		}
		seen[tok] = true
		if catalog.IsFunctionName(tok) || numericToken.MatchString(tok) {
			continue
		}
		invalid = append(invalid, tok)
	}

	if len(invalid) == 0 {
		return Valid()
	}

	var suggestions []string
	suggested := make(map[string]bool)
	for _, tok := range invalid {
		for _, col := range RankSimilar(tok, columns, 0.3, 3) {
			if suggested[col] {
				continue
			}
			suggested[col] = true
			suggestions = append(suggestions, col)
		}
	}
	msg := fmt.Sprintf("unknown column: %s", strings.Join(invalid, ", "))
	if len(suggestions) > 0 {
		msg += fmt.Sprintf(". Did you mean: %s?", strings.Join(suggestions, ", "))
	} else if len(columns) > 0 {
		avail := columns
		if len(avail) > 5 {
			avail = avail[:5]
		}
		suggestions = append(suggestions, avail...)
		msg += fmt.Sprintf(". Available columns: %s", strings.Join(avail, ", "))
	}

	return ValidationResult{
		Error:       msg,
		Suggestions: suggestions,
		ErrorType:   ErrColumn,
		Severity:    SeverityError,
		Details: &ErrorDetails{
			InvalidColumns:   invalid,
			AvailableColumns: columns,
		},
	}
}

// maskColumns blanks out exact word-boundary occurrences of every known
// column name, longest first, replacing each with same-length filler so
// offsets of the remaining text stay stable.
func maskColumns(expr string, columns []string) string {
	ordered := make([]string, len(columns))
	copy(ordered, columns)
	sort.SliceStable(ordered, func(i, j int) bool {
		return len(ordered[i]) > len(ordered[j])
	})

	for _, col := range ordered {
		if col == "" {
			continue
		}
		re, err := regexp.Compile(`\b` + regexp.QuoteMeta(col) + `\b`)
		if err != nil {
			continue
		}
		filler := strings.Repeat("#", len(col))
		expr = re.ReplaceAllString(expr, filler)
	}
	return expr
}
