package formula

import "strings"

// Describe renders a short plain-text description of a formula definition,
// suitable for hover panels and the REPL .describe command.
func Describe(def *FormulaDefinition) string {
	if def == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString(def.Name)
	if def.Syntax != "" {
		b.WriteString("\n  ")
		b.WriteString(def.Syntax)
	}
	if def.Description != "" {
		b.WriteString("\n  ")
		b.WriteString(def.Description)
	}
	if def.Example != "" {
		b.WriteString("\n  e.g. ")
		b.WriteString(def.Example)
	}
	return b.String()
}

// DefinitionAt resolves the catalog entry for the identifier under the
// cursor, or nil when the cursor is not on a known function name. The cursor
// may sit anywhere inside the identifier, including just past its last
// character.
func (c Catalog) DefinitionAt(text string, cursor int) *FormulaDefinition {
	if cursor < 0 || cursor > len(text) {
		return nil
	}
	start := cursor
	for start > 0 && isIdentChar(text[start-1]) {
		start--
	}
	end := cursor
	for end < len(text) && isIdentChar(text[end]) {
		end++
	}
	if start == end {
		return nil
	}
	return c.ByName(text[start:end])
}

// Search returns the definitions whose name, syntax, or description contains
// the query, case-insensitively. An empty query returns everything.
func (c Catalog) Search(query string) []FormulaDefinition {
	if query == "" {
		return c.Definitions()
	}
	lower := strings.ToLower(query)
	var out []FormulaDefinition
	for _, def := range c.defs {
		if strings.Contains(strings.ToLower(def.Name), lower) ||
			strings.Contains(strings.ToLower(def.Syntax), lower) ||
			strings.Contains(strings.ToLower(def.Description), lower) {
			out = append(out, def)
		}
	}
	return out
}
