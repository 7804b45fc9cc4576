package editor

import (
	"context"
	"strings"

	"github.com/gridleaf-labs/cellform/pkg/formula"
)

// Applier submits a finished formula to the execution service. A non-nil
// error carries the backend's human-readable rejection message.
type Applier interface {
	Apply(ctx context.Context, expression, targetColumn string) error
}

// Session is the authoring state for one target column: text, cursor,
// history, suggestion selection, and the apply gate. All methods are
// synchronous and must be called from a single goroutine; the only
// asynchronous boundary is the Applier call, which the host drives via
// BeginApply/FinishApply.
type Session struct {
	catalog formula.Catalog
	columns []string
	target  string

	text   string
	cursor int

	history     *History
	suggestions []formula.SuggestionItem
	selection   int // -1 means no explicit selection
	panelOpen   bool

	applying bool
	result   formula.ValidationResult
}

// NewSession creates an empty session for a target column. An empty target
// makes the session read-only until SetTarget is called.
func NewSession(catalog formula.Catalog, columns []string, target string) *Session {
	s := &Session{
		catalog:   catalog,
		columns:   columns,
		target:    target,
		history:   NewHistory(""),
		selection: -1,
		result:    formula.Valid(),
	}
	return s
}

// Text returns the current formula text.
func (s *Session) Text() string { return s.text }

// Cursor returns the current cursor offset.
func (s *Session) Cursor() int { return s.cursor }

// Target returns the target column name.
func (s *Session) Target() string { return s.target }

// Columns returns the known column snapshot.
func (s *Session) Columns() []string { return s.columns }

// Result returns the validation result of the last edit or apply attempt.
func (s *Session) Result() formula.ValidationResult { return s.result }

// Suggestions returns the current autocomplete entries.
func (s *Session) Suggestions() []formula.SuggestionItem { return s.suggestions }

// Selection returns the explicit suggestion index, -1 when none.
func (s *Session) Selection() int { return s.selection }

// PanelOpen reports whether the suggestion panel should be shown.
func (s *Session) PanelOpen() bool { return s.panelOpen && len(s.suggestions) > 0 }

// Applying reports whether an apply call is outstanding.
func (s *Session) Applying() bool { return s.applying }

// ReadOnly reports whether the session rejects edits. A session without a
// target column has nothing to author against.
func (s *Session) ReadOnly() bool { return s.target == "" }

// SetTarget switches the target column without touching the text.
func (s *Session) SetTarget(target string) { s.target = target }

// SetColumns replaces the known-column snapshot and revalidates.
func (s *Session) SetColumns(columns []string) {
	s.columns = columns
	s.refresh()
}

// Signature returns the active function context at the cursor, or nil.
func (s *Session) Signature() *formula.ActiveFunctionContext {
	return formula.ActiveFunction(s.text, s.cursor, s.catalog)
}

// Matched returns the catalog entry the current text resolves to, or nil.
func (s *Session) Matched() *formula.FormulaDefinition {
	return s.catalog.Match(s.text)
}

// SetText replaces the text wholesale, cursor at the end. Used for raw
// programmatic loads; examples go through LoadExample so their placeholders
// get numbered.
func (s *Session) SetText(text string) {
	if s.ReadOnly() {
		return
	}
	s.text = text
	s.cursor = len(text)
	s.history.Push(text)
	s.refresh()
}

// LoadExample loads a catalog example, rewriting its symbolic placeholders
// into numbered slots and parking the cursor on the first one.
func (s *Session) LoadExample(def *formula.FormulaDefinition) {
	if s.ReadOnly() || def == nil {
		return
	}
	text := NumberPlaceholders(def.Example)
	s.text = text
	s.cursor = len(text)
	if slots := findSlots(text); len(slots) > 0 {
		s.cursor = slots[0].start
	}
	s.history.Push(text)
	s.refresh()
}

// InsertText inserts typed content at the cursor. While numbered slots
// remain, the nearest slot is consumed instead; afterwards this is plain
// insertion. A typed comma dismisses the suggestion panel since a new
// argument position is starting.
func (s *Session) InsertText(content string) {
	if s.ReadOnly() || content == "" {
		return
	}

	if out, pos, ok := ConsumeNearest(s.text, s.cursor, content); ok {
		s.text, s.cursor = out, pos
	} else {
		s.text = s.text[:s.cursor] + content + s.text[s.cursor:]
		s.cursor += len(content)
	}
	s.history.Push(s.text)
	s.refresh()

	if strings.Contains(content, ",") {
		s.dismissPanel()
	}
}

// InsertColumn inserts a column name chosen by click: the first remaining
// slot is filled, or the name is inserted at the cursor.
func (s *Session) InsertColumn(name string) {
	if s.ReadOnly() || name == "" {
		return
	}
	if out, pos, ok := ConsumeFirst(s.text, name); ok {
		s.text, s.cursor = out, pos
	} else {
		s.text = s.text[:s.cursor] + name + s.text[s.cursor:]
		s.cursor += len(name)
	}
	s.history.Push(s.text)
	s.refresh()
}

// Backspace deletes the character before the cursor.
func (s *Session) Backspace() {
	if s.ReadOnly() || s.cursor == 0 {
		return
	}
	s.text = s.text[:s.cursor-1] + s.text[s.cursor:]
	s.cursor--
	s.history.Push(s.text)
	s.refresh()
}

// SetCursor moves the cursor, clamped to the text, and recomputes the
// cursor-dependent state (signature help, suggestions).
func (s *Session) SetCursor(pos int) {
	if pos < 0 {
		pos = 0
	}
	if pos > len(s.text) {
		pos = len(s.text)
	}
	s.cursor = pos
	s.refreshSuggestions()
}

// MoveSelection cycles the explicit suggestion selection by delta. The cycle
// includes the no-selection state: -1 -> 0 -> ... -> last -> -1.
func (s *Session) MoveSelection(delta int) {
	if !s.PanelOpen() {
		return
	}
	n := len(s.suggestions)
	s.selection += delta
	if s.selection >= n {
		s.selection = -1
	} else if s.selection < -1 {
		s.selection = n - 1
	}
}

// AcceptSelection commits the explicitly selected suggestion, replacing the
// typed fragment. Returns false when no explicit selection is active, in
// which case Enter/Tab should fall through to submission.
func (s *Session) AcceptSelection() bool {
	if !s.PanelOpen() || s.selection < 0 || s.selection >= len(s.suggestions) {
		return false
	}
	item := s.suggestions[s.selection]
	_, start := formula.Fragment(s.text, s.cursor)

	s.text = s.text[:start] + item.InsertText + s.text[s.cursor:]
	s.cursor = start + item.CursorShift
	s.history.Push(s.text)
	s.refresh()
	s.dismissPanel()
	return true
}

// TabComplete extends the fragment at the cursor to the unique catalog
// function name matching it. Returns false when the prefix is empty or
// ambiguous so the host can fall back to normal tab behavior.
func (s *Session) TabComplete() bool {
	if s.ReadOnly() {
		return false
	}
	name, start, ok := formula.CompletePrefix(s.text, s.cursor, s.catalog)
	if !ok {
		return false
	}
	insert := name + "()"
	s.text = s.text[:start] + insert + s.text[s.cursor:]
	s.cursor = start + len(name) + 1
	s.history.Push(s.text)
	s.refresh()
	s.dismissPanel()
	return true
}

// Escape dismisses the suggestion panel if open, otherwise clears the text.
func (s *Session) Escape() {
	if s.PanelOpen() {
		s.dismissPanel()
		return
	}
	if s.text != "" {
		s.text = ""
		s.cursor = 0
		s.history.Push("")
		s.refresh()
	}
}

// Undo steps the text back one history entry.
func (s *Session) Undo() bool {
	text, ok := s.history.Undo()
	if !ok {
		return false
	}
	s.text = text
	s.cursor = len(text)
	s.refresh()
	return true
}

// Redo steps the text forward one history entry.
func (s *Session) Redo() bool {
	text, ok := s.history.Redo()
	if !ok {
		return false
	}
	s.text = text
	s.cursor = len(text)
	s.refresh()
	return true
}

// CanApply reports whether the apply gate would pass right now.
func (s *Session) CanApply() bool {
	if s.ReadOnly() || s.applying || strings.TrimSpace(s.text) == "" {
		return false
	}
	return formula.Submit(s.text, s.columns, s.catalog).IsValid
}

// BeginApply runs the full submit gate and, if it passes, marks an apply as
// outstanding. ok is false when the gate fails, the text is blank, or an
// apply is already in flight; the returned result carries the gate outcome
// either way. Text editing stays enabled while the apply is outstanding.
func (s *Session) BeginApply() (formula.ValidationResult, bool) {
	if s.ReadOnly() || s.applying {
		return s.result, false
	}
	// Blank text passes every validator but there is nothing to apply.
	if strings.TrimSpace(s.text) == "" {
		s.result = formula.ValidationResult{
			Error:     "formula is empty",
			ErrorType: formula.ErrSyntax,
			Severity:  formula.SeverityError,
		}
		return s.result, false
	}
	result := formula.Submit(s.text, s.columns, s.catalog)
	s.result = result
	if !result.IsValid {
		return result, false
	}
	s.applying = true
	return result, true
}

// FinishApply records the outcome of the apply started by BeginApply. On
// success the field resets to empty, and the reset is pushed to history so
// the applied formula stays reachable via undo. On failure the typed text is
// untouched and the backend message becomes the current result.
func (s *Session) FinishApply(err error) formula.ValidationResult {
	s.applying = false
	if err != nil {
		s.result = formula.BackendFailure(err.Error())
		return s.result
	}
	s.text = ""
	s.cursor = 0
	s.history.Push("")
	s.refresh()
	return s.result
}

// refresh revalidates the text and recomputes suggestions after any edit.
func (s *Session) refresh() {
	s.result = formula.Live(s.text, s.catalog)
	s.refreshSuggestions()
}

func (s *Session) refreshSuggestions() {
	s.suggestions = formula.Suggest(s.text, s.cursor, s.columns, s.catalog)
	s.panelOpen = len(s.suggestions) > 0
	s.selection = -1
}

func (s *Session) dismissPanel() {
	s.panelOpen = false
	s.selection = -1
}
