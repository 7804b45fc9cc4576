package formula

import "strings"

// ValidateSyntax applies the structural rules that run on every keystroke:
// leading "=", no repeated "=", and a sane first character after "=".
// Parenthesis balance is deliberately not checked here; it belongs to the
// submit-time gate (see ValidateParentheses) so an expression still being
// typed is not flagged.
func ValidateSyntax(expr string) ValidationResult {
	trimmed := strings.TrimSpace(expr)
	if trimmed == "" {
		return Valid()
	}

	if !strings.HasPrefix(trimmed, "=") {
		return ValidationResult{
			Error:       "formula must start with =",
			Suggestions: []string{"add = at the beginning"},
			ErrorType:   ErrSyntax,
			Severity:    SeverityError,
		}
	}

	if strings.HasPrefix(trimmed, "==") || strings.Contains(trimmed, "===") {
		return failure(ErrSyntax, "multiple = signs not allowed")
	}

	if len(trimmed) > 1 {
		c := trimmed[1]
		if !isIdentStart(c) && c != '(' {
			return failure(ErrSyntax, "invalid character after =")
		}
	}

	return Valid()
}

// ValidateParentheses checks paren balance on the raw expression. Only the
// submit gate calls it.
func ValidateParentheses(expr string) ValidationResult {
	opens := strings.Count(expr, "(")
	closes := strings.Count(expr, ")")
	switch {
	case opens > closes:
		return failure(ErrParenthesis, "missing closing parenthesis")
	case closes > opens:
		return failure(ErrParenthesis, "missing opening parenthesis")
	}
	return Valid()
}

// isIdentStart returns true if the character may begin an identifier.
func isIdentStart(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_'
}
