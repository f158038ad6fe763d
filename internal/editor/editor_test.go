package editor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"glyphspace/internal/font"
	"glyphspace/internal/rules"
)

func testContext(t *testing.T) *Context {
	t.Helper()
	f := font.New("Demo", 1000)
	f.AddGlyph(font.NewGlyph("A", 600, 40, 40))
	f.AddGlyph(font.NewGlyph("B", 600, 50, 50))
	f.AddGlyph(font.NewGlyph("C", 600, 60, 60))
	f.AddGlyph(font.NewGlyph("S", 600, 30, 90))
	aacute := font.NewGlyph("Aacute", 600, 40, 40)
	aacute.Components = []font.Component{{Base: "A"}, {Base: "acutecomb", OffsetX: 180}}
	f.AddGlyph(aacute)
	f.AddGlyph(font.NewGlyph("acutecomb", 0, 10, 10))
	f.AddGlyph(font.NewEmptyGlyph("space", 250))
	return NewContext(f)
}

func TestExecuteRecordsHistory(t *testing.T) {
	ctx := testContext(t)
	ed := New(nil)

	res := ed.Execute(&SetRuleCommand{Glyph: "B", Side: SpecBoth, Rule: "=A"}, ctx)
	require.True(t, res.Success)
	assert.True(t, ed.CanUndo())
	assert.False(t, ed.CanRedo())
	assert.Len(t, ed.History(), 1)
}

func TestFailedCommandNotRecorded(t *testing.T) {
	ctx := testContext(t)
	ed := New(nil)

	res := ed.Execute(&SetRuleCommand{Glyph: "B", Side: SpecLeft, Rule: "=A++"}, ctx)
	assert.False(t, res.Success)
	assert.False(t, ed.CanUndo())
	assert.Empty(t, ed.History())
}

func TestRuleCommandUndoRedo(t *testing.T) {
	ctx := testContext(t)
	ed := New(nil)

	require.NoError(t, ctx.Rules.SetRule("B", rules.SideLeft, "=C"))
	res := ed.Execute(&SetRuleCommand{Glyph: "B", Side: SpecLeft, Rule: "=A"}, ctx)
	require.True(t, res.Success)

	got, _ := ctx.Rules.Rule("B", rules.SideLeft)
	assert.Equal(t, "=A", got)

	undo := ed.Undo()
	require.NotNil(t, undo)
	require.True(t, undo.Success)
	got, _ = ctx.Rules.Rule("B", rules.SideLeft)
	assert.Equal(t, "=C", got, "undo restores the prior rule")

	redo := ed.Redo()
	require.NotNil(t, redo)
	require.True(t, redo.Success)
	got, _ = ctx.Rules.Rule("B", rules.SideLeft)
	assert.Equal(t, "=A", got)
}

func TestRemoveRuleCommandUndo(t *testing.T) {
	ctx := testContext(t)
	ed := New(nil)
	require.NoError(t, ctx.Rules.SetRule("B", rules.SideLeft, "=A"))
	require.NoError(t, ctx.Rules.SetRule("B", rules.SideRight, "=A+10"))

	res := ed.Execute(&RemoveRuleCommand{Glyph: "B", Side: SpecBoth}, ctx)
	require.True(t, res.Success)
	assert.False(t, ctx.Rules.HasAnyRule("B"))

	undo := ed.Undo()
	require.NotNil(t, undo)
	require.True(t, undo.Success)
	got, _ := ctx.Rules.Rule("B", rules.SideLeft)
	assert.Equal(t, "=A", got)
	got, _ = ctx.Rules.Rule("B", rules.SideRight)
	assert.Equal(t, "=A+10", got)
}

func TestSetMarginCascadeChain(t *testing.T) {
	ctx := testContext(t)
	require.NoError(t, ctx.Rules.SetRule("B", rules.SideLeft, "=A"))
	require.NoError(t, ctx.Rules.SetRule("C", rules.SideLeft, "=B+5"))

	ed := New(nil)
	res := ed.Execute(NewSetMarginCommand("A", rules.SideLeft, 100), ctx)
	require.True(t, res.Success)

	left, _ := ctx.Font.Margin("A", rules.SideLeft)
	assert.Equal(t, 100.0, left)
	left, _ = ctx.Font.Margin("B", rules.SideLeft)
	assert.Equal(t, 100.0, left)
	left, _ = ctx.Font.Margin("C", rules.SideLeft)
	assert.Equal(t, 105.0, left, "C reads B's freshly cascaded value")

	assert.ElementsMatch(t, []string{"A", "Aacute", "B", "C"}, res.Affected)
}

func TestSetMarginAppliesOwnOppositeRuleFirst(t *testing.T) {
	ctx := testContext(t)
	require.NoError(t, ctx.Rules.SetRule("S", rules.SideLeft, "=A"))
	require.NoError(t, ctx.Rules.SetRule("S", rules.SideRight, "=|"))

	ed := New(nil)
	res := ed.Execute(NewSetMarginCommand("S", rules.SideLeft, 75), ctx)
	require.True(t, res.Success)

	left, _ := ctx.Font.Margin("S", rules.SideLeft)
	right, _ := ctx.Font.Margin("S", rules.SideRight)
	assert.Equal(t, 75.0, left)
	assert.Equal(t, 75.0, right, "the mirror sees the value just written")
}

func TestCascadeAppliesLeftBeforeRight(t *testing.T) {
	ctx := testContext(t)
	require.NoError(t, ctx.Rules.SetRule("B", rules.SideLeft, "=A"))
	require.NoError(t, ctx.Rules.SetRule("B", rules.SideRight, "=|"))

	ed := New(nil)
	res := ed.Execute(NewSetMarginCommand("A", rules.SideLeft, 80), ctx)
	require.True(t, res.Success)

	left, _ := ctx.Font.Margin("B", rules.SideLeft)
	right, _ := ctx.Font.Margin("B", rules.SideRight)
	assert.Equal(t, 80.0, left)
	assert.Equal(t, 80.0, right, "right =| evaluates after the left rule landed")
}

func TestSetMarginPropagatesToComposites(t *testing.T) {
	ctx := testContext(t)
	ed := New(nil)

	res := ed.Execute(NewSetMarginCommand("A", rules.SideLeft, 60), ctx)
	require.True(t, res.Success)

	left, _ := ctx.Font.Margin("Aacute", rules.SideLeft)
	assert.Equal(t, 60.0, left, "composite shifts by the base delta")
	assert.Equal(t, 620.0, ctx.Font.Glyph("Aacute").Width)
	assert.Contains(t, res.Affected, "Aacute")
}

func TestCompositeWithRuleSkipsPropagation(t *testing.T) {
	ctx := testContext(t)
	require.NoError(t, ctx.Rules.SetRule("Aacute", rules.SideLeft, "=A"))

	ed := New(nil)
	res := ed.Execute(NewSetMarginCommand("A", rules.SideLeft, 60), ctx)
	require.True(t, res.Success)

	// The cascade, not propagation, set Aacute; width stays untouched.
	left, _ := ctx.Font.Margin("Aacute", rules.SideLeft)
	assert.Equal(t, 60.0, left)
	assert.Equal(t, 600.0, ctx.Font.Glyph("Aacute").Width)
}

func TestAdjustMarginDelta(t *testing.T) {
	ctx := testContext(t)
	ed := New(nil)

	res := ed.Execute(NewAdjustMarginCommand("A", rules.SideRight, -15), ctx)
	require.True(t, res.Success)

	right, _ := ctx.Font.Margin("A", rules.SideRight)
	assert.Equal(t, 25.0, right)
}

func TestSetMarginOnEmptyGlyphEditsWidth(t *testing.T) {
	ctx := testContext(t)
	ed := New(nil)

	res := ed.Execute(NewSetMarginCommand("space", rules.SideLeft, 300), ctx)
	require.True(t, res.Success)
	assert.Equal(t, 300.0, ctx.Font.Glyph("space").Width)

	undo := ed.Undo()
	require.NotNil(t, undo)
	assert.Equal(t, 250.0, ctx.Font.Glyph("space").Width)
}

func TestSetMarginUndoRestoresEverything(t *testing.T) {
	ctx := testContext(t)
	require.NoError(t, ctx.Rules.SetRule("B", rules.SideLeft, "=A"))
	require.NoError(t, ctx.Rules.SetRule("C", rules.SideLeft, "=B+5"))

	ed := New(nil)
	res := ed.Execute(NewSetMarginCommand("A", rules.SideLeft, 100), ctx)
	require.True(t, res.Success)

	undo := ed.Undo()
	require.NotNil(t, undo)
	require.True(t, undo.Success)

	for name, want := range map[string]float64{"A": 40, "B": 50, "C": 60, "Aacute": 40} {
		got, _ := ctx.Font.Margin(name, rules.SideLeft)
		assert.Equal(t, want, got, "glyph %s restored", name)
	}
	assert.Equal(t, 600.0, ctx.Font.Glyph("Aacute").Width)
}

func TestSetMarginUnknownGlyph(t *testing.T) {
	ctx := testContext(t)
	ed := New(nil)

	res := ed.Execute(NewSetMarginCommand("Zeta", rules.SideLeft, 10), ctx)
	assert.False(t, res.Success)
	assert.False(t, ed.CanUndo())
}
