package editor

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridleaf-labs/cellform/pkg/formula"
)

func newTestSession(t *testing.T) *Session {
	t.Helper()
	return NewSession(formula.DefaultCatalog(), []string{"Revenue", "Cost", "Profit"}, "Margin")
}

func TestSessionLoadExample(t *testing.T) {
	s := newTestSession(t)
	def := formula.DefaultCatalog().ByKey("sum")
	require.NotNil(t, def)

	s.LoadExample(def)
	assert.Equal(t, "=SUM(Col1, Col2)", s.Text())
	assert.Equal(t, 5, s.Cursor(), "cursor parks on the first slot")
	assert.True(t, s.Result().IsValid)
}

func TestSessionSlotConsumption(t *testing.T) {
	s := newTestSession(t)
	s.LoadExample(formula.DefaultCatalog().ByKey("sum"))

	s.InsertText("Revenue")
	assert.Equal(t, "=SUM(Revenue, Col2)", s.Text())
	assert.Equal(t, len("=SUM(Revenue"), s.Cursor())

	s.InsertColumn("Cost")
	assert.Equal(t, "=SUM(Revenue, Cost)", s.Text())

	// No slots left: plain insertion at the cursor.
	s.SetCursor(len(s.Text()))
	s.InsertText(" + 1")
	assert.Equal(t, "=SUM(Revenue, Cost) + 1", s.Text())
}

func TestSessionExampleRoundTrip(t *testing.T) {
	// Loading an example and filling its slots yields a formula that still
	// matches the definition the example came from.
	s := newTestSession(t)
	def := formula.DefaultCatalog().ByKey("average")
	s.LoadExample(def)
	s.InsertText("Revenue")
	s.InsertText("Cost")

	matched := s.Matched()
	require.NotNil(t, matched)
	assert.Equal(t, def.Key, matched.Key)
}

func TestSessionAcceptSelection(t *testing.T) {
	s := newTestSession(t)
	s.SetText("=med")
	require.True(t, s.PanelOpen())
	require.Equal(t, -1, s.Selection())

	assert.False(t, s.AcceptSelection(), "no explicit selection falls through to submit")

	s.MoveSelection(1)
	require.Equal(t, 0, s.Selection())
	require.True(t, s.AcceptSelection())

	assert.Equal(t, "=MEDIAN()", s.Text())
	assert.Equal(t, 8, s.Cursor(), "cursor lands between the parens")
}

func TestSessionSelectionWraps(t *testing.T) {
	s := newTestSession(t)
	s.SetText("=co")
	require.True(t, s.PanelOpen())
	n := len(s.Suggestions())
	require.Greater(t, n, 0)

	for i := 0; i < n; i++ {
		s.MoveSelection(1)
		assert.Equal(t, i, s.Selection())
	}
	s.MoveSelection(1)
	assert.Equal(t, -1, s.Selection(), "selection wraps back to none")

	s.MoveSelection(-1)
	assert.Equal(t, n-1, s.Selection(), "reverse wraps to the last entry")
}

func TestSessionTabComplete(t *testing.T) {
	s := newTestSession(t)
	s.SetText("=medi")
	require.True(t, s.TabComplete())
	assert.Equal(t, "=MEDIAN()", s.Text())
	assert.Equal(t, 8, s.Cursor())

	s2 := newTestSession(t)
	s2.SetText("=m")
	assert.False(t, s2.TabComplete(), "ambiguous prefix must not complete")
	assert.Equal(t, "=m", s2.Text())
}

func TestSessionCommaDismissesPanel(t *testing.T) {
	s := newTestSession(t)
	s.SetText("=SUM(Rev")
	require.True(t, s.PanelOpen())

	s.InsertText(",")
	assert.False(t, s.PanelOpen())
}

func TestSessionEscape(t *testing.T) {
	s := newTestSession(t)
	s.SetText("=med")
	require.True(t, s.PanelOpen())

	s.Escape()
	assert.False(t, s.PanelOpen())
	assert.Equal(t, "=med", s.Text(), "first escape only closes the panel")

	s.Escape()
	assert.Equal(t, "", s.Text(), "second escape clears the text")

	require.True(t, s.Undo())
	assert.Equal(t, "=med", s.Text(), "the cleared text is still undoable")
}

func TestSessionUndoRedoSequence(t *testing.T) {
	s := newTestSession(t)
	s.SetText("=SUM(Col1,Col2)")
	s.SetText("=SUM(Revenue,Cost)")

	require.True(t, s.Undo())
	assert.Equal(t, "=SUM(Col1,Col2)", s.Text())

	require.True(t, s.Redo())
	assert.Equal(t, "=SUM(Revenue,Cost)", s.Text())
}

func TestSessionLiveValidation(t *testing.T) {
	s := newTestSession(t)

	s.SetText(`=IF(Revenue > 0, "y", "n")`)
	assert.False(t, s.Result().IsValid)
	assert.Equal(t, formula.ErrOperation, s.Result().ErrorType)
	assert.False(t, s.CanApply())

	s.SetText("=SUM(Reveno, Cost)")
	assert.True(t, s.Result().IsValid, "column errors are deferred while typing")
	assert.False(t, s.CanApply(), "but the submit gate still catches them")
}

func TestSessionApplyLifecycle(t *testing.T) {
	s := newTestSession(t)
	s.SetText("=SUM(Revenue, Cost)")

	result, ok := s.BeginApply()
	require.True(t, ok)
	assert.True(t, result.IsValid)
	assert.True(t, s.Applying())

	// Overlapping applies are refused while one is outstanding.
	_, ok = s.BeginApply()
	assert.False(t, ok)

	s.FinishApply(nil)
	assert.False(t, s.Applying())
	assert.Equal(t, "", s.Text(), "successful apply resets the field")

	require.True(t, s.Undo())
	assert.Equal(t, "=SUM(Revenue, Cost)", s.Text(), "applied formula stays in history")
}

func TestSessionApplyBackendError(t *testing.T) {
	s := newTestSession(t)
	s.SetText("=SUM(Revenue, Cost)")

	_, ok := s.BeginApply()
	require.True(t, ok)

	result := s.FinishApply(errors.New("type mismatch in column Cost"))
	assert.False(t, result.IsValid)
	assert.Equal(t, formula.ErrBackend, result.ErrorType)
	assert.Equal(t, "=SUM(Revenue, Cost)", s.Text(), "backend failure keeps the text")
	assert.False(t, s.Applying())
}

func TestSessionApplyGateBlocks(t *testing.T) {
	s := newTestSession(t)
	s.SetText("=SUM(Revenue")

	result, ok := s.BeginApply()
	assert.False(t, ok)
	assert.Equal(t, formula.ErrParenthesis, result.ErrorType)
	assert.False(t, s.Applying())
}

func TestSessionApplyRejectsBlankText(t *testing.T) {
	s := newTestSession(t)

	result, ok := s.BeginApply()
	assert.False(t, ok, "empty text must not reach the backend")
	assert.False(t, result.IsValid)
	assert.Equal(t, formula.ErrSyntax, result.ErrorType)
	assert.False(t, s.Applying())
	assert.False(t, s.CanApply())

	s.SetText("   ")
	_, ok = s.BeginApply()
	assert.False(t, ok, "whitespace-only text must not reach the backend")
	assert.False(t, s.Applying())
}

func TestSessionReadOnlyWithoutTarget(t *testing.T) {
	s := NewSession(formula.DefaultCatalog(), []string{"Revenue"}, "")
	assert.True(t, s.ReadOnly())

	s.SetText("=SUM(Revenue)")
	assert.Equal(t, "", s.Text())

	_, ok := s.BeginApply()
	assert.False(t, ok)
}

type stubApplier struct {
	err   error
	calls int
}

func (a *stubApplier) Apply(_ context.Context, _, _ string) error {
	a.calls++
	return a.err
}

func TestApplierContract(t *testing.T) {
	// The Applier boundary is exercised the way hosts drive it: gate, call,
	// then report the outcome back to the session.
	s := newTestSession(t)
	s.SetText("=ROUND(Profit, 2)")

	applier := &stubApplier{}
	_, ok := s.BeginApply()
	require.True(t, ok)

	err := applier.Apply(context.Background(), s.Text(), s.Target())
	s.FinishApply(err)

	assert.Equal(t, 1, applier.calls)
	assert.Equal(t, "", s.Text())
}
