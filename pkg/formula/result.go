// Package formula implements the column formula authoring engine: the
// function catalog, incremental syntax/operation validation, submit-time
// column reference checking, cursor-aware signature help, and autocomplete.
// This file contains the validation result types shared by all stages.
package formula

// ErrorType classifies a validation failure.
type ErrorType string

// ErrorType constants for validation failures.
const (
	ErrSyntax      ErrorType = "syntax"
	ErrColumn      ErrorType = "column"
	ErrOperation   ErrorType = "operation"
	ErrParenthesis ErrorType = "parenthesis"
	ErrBackend     ErrorType = "backend"
)

// Severity indicates whether a failure blocks submission.
type Severity string

// Severity constants. Warnings never block the apply action; errors do.
const (
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// ErrorDetails carries structured remediation data for UI affordances such
// as click-to-insert column suggestions.
type ErrorDetails struct {
	InvalidColumns   []string `json:"invalid_columns,omitempty"`
	AvailableColumns []string `json:"available_columns,omitempty"`
	FunctionName     string   `json:"function_name,omitempty"`
	Position         int      `json:"position,omitempty"`
}

// ValidationResult is produced fresh on every validation pass and never
// mutated after return. IsValid is false only for error-severity failures;
// a warning keeps IsValid true so the apply gate stays open while the
// message is still shown.
type ValidationResult struct {
	IsValid     bool          `json:"is_valid"`
	Error       string        `json:"error,omitempty"`
	Suggestions []string      `json:"suggestions,omitempty"`
	ErrorType   ErrorType     `json:"error_type,omitempty"`
	Severity    Severity      `json:"severity,omitempty"`
	Details     *ErrorDetails `json:"details,omitempty"`
}

// Valid returns a clean result.
func Valid() ValidationResult {
	return ValidationResult{IsValid: true}
}

// Clean reports whether the result carries no message at all, warning or
// otherwise.
func (r ValidationResult) Clean() bool {
	return r.IsValid && r.Error == ""
}

// failure builds a blocking error result.
func failure(t ErrorType, msg string) ValidationResult {
	return ValidationResult{
		Error:     msg,
		ErrorType: t,
		Severity:  SeverityError,
	}
}

// warning builds a non-blocking result.
func warning(t ErrorType, msg string) ValidationResult {
	return ValidationResult{
		IsValid:   true,
		Error:     msg,
		ErrorType: t,
		Severity:  SeverityWarning,
	}
}

// BackendFailure wraps a message returned by the execution service after a
// rejected apply. It never corrupts editor state; the caller keeps the typed
// text and history intact.
func BackendFailure(msg string) ValidationResult {
	return failure(ErrBackend, msg)
}
