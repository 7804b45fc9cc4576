package formula

import "strings"

// SuggestionKind distinguishes suggestion entries in the panel.
type SuggestionKind string

const (
	SuggestionFunction SuggestionKind = "function"
	SuggestionColumn   SuggestionKind = "column"
)

// maxSuggestions caps the autocomplete panel size.
const maxSuggestions = 10

// SuggestionItem is one autocomplete entry. InsertText is what replaces the
// typed fragment on accept; for functions it carries trailing parentheses and
// CursorShift places the cursor between them.
type SuggestionItem struct {
	Label       string         `json:"label"`
	Detail      string         `json:"detail,omitempty"`
	Kind        SuggestionKind `json:"kind"`
	InsertText  string         `json:"insert_text"`
	CursorShift int            `json:"cursor_shift"`
}

// Fragment extracts the identifier fragment immediately before the cursor
// and the offset where it starts. An empty fragment with start == cursor
// means the cursor does not touch an identifier.
func Fragment(text string, cursor int) (fragment string, start int) {
	if cursor < 0 {
		return "", 0
	}
	if cursor > len(text) {
		cursor = len(text)
	}
	start = cursor
	for start > 0 && isIdentChar(text[start-1]) {
		start--
	}
	// A fragment can't start with a digit.
	for start < cursor && text[start] >= '0' && text[start] <= '9' {
		start++
	}
	return text[start:cursor], start
}

// Suggest returns autocomplete entries for the fragment at the cursor,
// functions first, then columns, capped at 10. Suggestions only trigger at
// the start of the expression or directly after "=", whitespace, "(", ","
// or an arithmetic operator, so that typing in the middle of an existing
// identifier run stays quiet.
func Suggest(text string, cursor int, columns []string, catalog Catalog) []SuggestionItem {
	fragment, start := Fragment(text, cursor)
	if fragment == "" {
		return nil
	}
	if start > 0 {
		switch text[start-1] {
		case '=', ' ', '\t', '(', ',', '+', '-', '*', '/':
		default:
			return nil
		}
	}

	lower := strings.ToLower(fragment)
	var items []SuggestionItem

	for _, def := range catalog.Definitions() {
		name := CanonicalName(def.Syntax)
		if name == "" {
			continue
		}
		if !matchesFragment(lower, name, def) {
			continue
		}
		items = append(items, SuggestionItem{
			Label:       name,
			Detail:      def.Syntax,
			Kind:        SuggestionFunction,
			InsertText:  name + "()",
			CursorShift: len(name) + 1,
		})
		if len(items) == maxSuggestions {
			return items
		}
	}

	for _, col := range columns {
		if !strings.Contains(strings.ToLower(col), lower) {
			continue
		}
		items = append(items, SuggestionItem{
			Label:       col,
			Kind:        SuggestionColumn,
			InsertText:  col,
			CursorShift: len(col),
		})
		if len(items) == maxSuggestions {
			break
		}
	}

	return items
}

// matchesFragment reports whether a catalog entry should be offered for the
// lowercase fragment: prefix match on the canonical name, or substring match
// on any of the descriptive fields.
func matchesFragment(lower, name string, def FormulaDefinition) bool {
	if strings.HasPrefix(strings.ToLower(name), lower) {
		return true
	}
	for _, field := range []string{def.Name, def.Syntax, def.Example, def.Description} {
		if strings.Contains(strings.ToLower(field), lower) {
			return true
		}
	}
	return false
}

// CompletePrefix returns the unique catalog function name extending the
// fragment at the cursor, for Tab prefix-completion. ok is false when zero or
// several names match.
func CompletePrefix(text string, cursor int, catalog Catalog) (name string, start int, ok bool) {
	fragment, start := Fragment(text, cursor)
	if fragment == "" {
		return "", start, false
	}
	upper := strings.ToUpper(fragment)
	for _, candidate := range catalog.FunctionNames() {
		if strings.HasPrefix(candidate, upper) {
			if name != "" && name != candidate {
				return "", start, false
			}
			name = candidate
		}
	}
	return name, start, name != ""
}
