package formula

// Live runs the validation stages that fire on every keystroke: syntax
// structure, then operator and disallowed-function checks. Column references
// and parenthesis balance are left to Submit so half-typed expressions are
// not flagged. The first error-severity result wins; a warning is kept but
// can be superseded by a later error.
func Live(expr string, catalog Catalog) ValidationResult {
	result := ValidateSyntax(expr)
	if !result.IsValid {
		return result
	}

	ops := ValidateOperations(expr)
	if !ops.Clean() {
		return ops
	}
	return result
}

// Submit runs the full gate ahead of an apply: everything Live checks plus
// parenthesis balance and column references. A warning-severity result does
// not block; the first error does.
func Submit(expr string, columns []string, catalog Catalog) ValidationResult {
	result := Live(expr, catalog)
	if !result.IsValid {
		return result
	}

	if parens := ValidateParentheses(expr); !parens.IsValid {
		return parens
	}
	if cols := ValidateColumns(expr, columns, catalog); !cols.IsValid {
		return cols
	}
	return result
}
