package formula

import "strings"

// FunctionArgument describes one declared argument of a formula signature.
type FunctionArgument struct {
	Name     string `json:"name"`
	Optional bool   `json:"optional"`
	Variadic bool   `json:"variadic"`
}

// ParseArguments parses the argument list out of a display syntax string
// such as "SUM(colA, colB, ...)" or "ROUND(colA, [digits])". The list is
// split on top-level commas only: commas nested inside "(" ")" or "[" "]"
// do not split. An argument wrapped in brackets is optional; an argument
// that is "..." or ends in "..." is variadic. Returns nil when the syntax
// has no argument list.
func ParseArguments(syntax string) []FunctionArgument {
	open := strings.Index(syntax, "(")
	if open == -1 {
		return nil
	}
	closing := strings.LastIndex(syntax, ")")
	if closing <= open {
		return nil
	}

	inner := strings.TrimSpace(syntax[open+1 : closing])
	if inner == "" {
		return nil
	}
	if inner == "..." {
		return []FunctionArgument{{Name: "...", Variadic: true}}
	}

	parts := splitTopLevel(inner)
	args := make([]FunctionArgument, 0, len(parts))
	for _, part := range parts {
		raw := strings.TrimSpace(part)
		if raw == "" {
			continue
		}

		arg := FunctionArgument{}
		if strings.HasPrefix(raw, "[") && strings.HasSuffix(raw, "]") {
			arg.Optional = true
			raw = strings.TrimSpace(raw[1 : len(raw)-1])
		}
		if raw == "..." {
			arg.Name = "..."
			arg.Variadic = true
		} else if strings.HasSuffix(raw, "...") {
			arg.Name = strings.TrimSpace(strings.TrimSuffix(raw, "..."))
			arg.Variadic = true
		} else {
			arg.Name = raw
		}
		args = append(args, arg)
	}

	if len(args) == 0 {
		return nil
	}
	return args
}

// splitTopLevel splits on commas that are not nested inside parentheses or
// brackets.
func splitTopLevel(s string) []string {
	var parts []string
	depth := 0
	start := 0

	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(', '[':
			depth++
		case ')', ']':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}

	return append(parts, s[start:])
}

// CanonicalName extracts the uppercase function name embedded in a display
// syntax string, e.g. "SUM(colA, colB, ...)" -> "SUM". Returns "" when the
// syntax does not describe a call.
func CanonicalName(syntax string) string {
	open := strings.Index(syntax, "(")
	if open == -1 {
		return ""
	}
	name := strings.TrimSpace(strings.TrimPrefix(syntax[:open], "="))
	for i := 0; i < len(name); i++ {
		if !isIdentChar(name[i]) {
			return ""
		}
	}
	return strings.ToUpper(name)
}

// isIdentChar returns true if the character is part of an identifier.
func isIdentChar(c byte) bool {
	return (c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9') ||
		c == '_'
}
