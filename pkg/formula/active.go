package formula

// ActiveFunctionContext describes the innermost function call enclosing the
// cursor, used to render signature help.
type ActiveFunctionContext struct {
	FunctionName string             `json:"function_name"`
	OpenParen    int                `json:"open_paren"` // offset of the call's "("
	StartPos     int                `json:"start_pos"`  // offset of the function name
	ArgIndex     int                `json:"arg_index"`  // active argument, clamped
	Definition   *FormulaDefinition `json:"-"`
	Arguments    []FunctionArgument `json:"arguments"`
}

// ActiveFunction finds the function call enclosing the cursor and the
// argument position the cursor sits in. Returns nil when the cursor is not
// inside a known call or the call declares no arguments.
//
// The enclosing call is found by scanning backward from the cursor with a
// parenthesis depth counter: each ")" increments, each "(" decrements, and
// the first "(" taking the depth below zero belongs to the enclosing call.
func ActiveFunction(text string, cursor int, catalog Catalog) *ActiveFunctionContext {
	if cursor < 0 {
		return nil
	}
	if cursor > len(text) {
		cursor = len(text)
	}

	open := -1
	depth := 0
	for i := cursor - 1; i >= 0; i-- {
		switch text[i] {
		case ')':
			depth++
		case '(':
			depth--
			if depth < 0 {
				open = i
			}
		}
		if open != -1 {
			break
		}
	}
	if open == -1 {
		return nil
	}

	// Walk back over whitespace, then collect the identifier ending at the
	// open paren.
	end := open
	for end > 0 && (text[end-1] == ' ' || text[end-1] == '\t') {
		end--
	}
	start := end
	for start > 0 && isIdentChar(text[start-1]) {
		start--
	}
	if start == end {
		return nil
	}

	// The identifier must be in function position, not a bare column
	// reference abutting other text.
	if start > 0 {
		switch text[start-1] {
		case '=', ',', '(', ' ', '\t':
		default:
			return nil
		}
	}

	name := text[start:end]
	def := catalog.ByName(name)
	if def == nil || len(def.Arguments) == 0 {
		return nil
	}

	argIndex, inside := argumentIndex(text, open, cursor)
	if !inside {
		return nil
	}
	if max := len(def.Arguments) - 1; argIndex > max {
		argIndex = max
	}

	return &ActiveFunctionContext{
		FunctionName: CanonicalName(def.Syntax),
		OpenParen:    open,
		StartPos:     start,
		ArgIndex:     argIndex,
		Definition:   def,
		Arguments:    def.Arguments,
	}
}

// argumentIndex counts top-level commas between the open paren and the
// cursor, skipping string literals and nested calls. inside is false when the
// call closes before the cursor is reached.
func argumentIndex(text string, open, cursor int) (index int, inside bool) {
	depth := 0
	var quote byte
	for i := open + 1; i < cursor && i < len(text); i++ {
		c := text[i]
		if quote != 0 {
			if c == quote {
				quote = 0
			}
			continue
		}
		switch c {
		case '"', '\'':
			quote = c
		case '(':
			depth++
		case ')':
			depth--
			if depth < 0 {
				return 0, false
			}
		case ',':
			if depth == 0 {
				index++
			}
		}
	}
	return index, true
}
