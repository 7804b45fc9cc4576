package formula

import (
	"regexp"
	"strings"
)

// Row-level functions that cannot be used in column formulas. The check is
// word-boundary anchored so e.g. DATEDIF does not trip the IF rule.
var disallowedRowFunctions = []struct {
	name string
	re   *regexp.Regexp
}{
	{"IF", regexp.MustCompile(`(?i)\bIF\s*\(`)},
	{"AND", regexp.MustCompile(`(?i)\bAND\s*\(`)},
	{"OR", regexp.MustCompile(`(?i)\bOR\s*\(`)},
	{"NOT", regexp.MustCompile(`(?i)\bNOT\s*\(`)},
}

var (
	consecutiveOperators = regexp.MustCompile(`[+\-*/]\s*[+\-*/]`)
	leadingOperator      = regexp.MustCompile(`^=\s*[+\-*/]`)
	trailingOperator     = regexp.MustCompile(`[+\-*/]\s*$`)
	divisionByZero       = regexp.MustCompile(`/\s*0(?:[^0-9.]|$)`)
)

// ValidateOperations flags degenerate operator sequences and disallowed
// row-level functions. The row-function check runs first and produces a
// blocking error even mid-typing; the operator-sequence checks are warnings
// because the user is likely still typing, except literal division by zero,
// which can never become valid.
func ValidateOperations(expr string) ValidationResult {
	for _, fn := range disallowedRowFunctions {
		if fn.re.MatchString(expr) {
			return ValidationResult{
				Error:     fn.name + " is a row-level function and is not supported in column formulas",
				ErrorType: ErrOperation,
				Severity:  SeverityError,
				Details:   &ErrorDetails{FunctionName: fn.name},
			}
		}
	}

	stripped := stripStringLiterals(strings.TrimSpace(expr))

	if divisionByZero.MatchString(stripped) {
		return failure(ErrOperation, "division by zero")
	}
	if consecutiveOperators.MatchString(stripped) {
		return warning(ErrOperation, "consecutive operators")
	}
	if leadingOperator.MatchString(stripped) || trailingOperator.MatchString(stripped) {
		return warning(ErrOperation, "expression starts or ends with an operator")
	}

	return Valid()
}

// stripStringLiterals blanks out the contents of single- and double-quoted
// literals, keeping offsets stable. Unterminated literals are blanked to the
// end of the string.
func stripStringLiterals(s string) string {
	out := []byte(s)
	var quote byte
	for i := 0; i < len(out); i++ {
		c := out[i]
		if quote != 0 {
			if c == quote {
				quote = 0
			} else {
				out[i] = ' '
			}
			continue
		}
		if c == '"' || c == '\'' {
			quote = c
		}
	}
	return string(out)
}
