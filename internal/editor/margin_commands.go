package editor

import (
	"fmt"

	"glyphspace/internal/font"
	"glyphspace/internal/rules"
)

// glyphState is the metric snapshot taken before a glyph is touched, enough
// to put it back exactly.
type glyphState struct {
	left  *float64
	right *float64
	width float64
}

func captureState(g *font.Glyph) glyphState {
	st := glyphState{width: g.Width}
	if g.Left != nil {
		v := *g.Left
		st.left = &v
	}
	if g.Right != nil {
		v := *g.Right
		st.right = &v
	}
	return st
}

func restoreState(g *font.Glyph, st glyphState) {
	g.Width = st.width
	if st.left != nil && g.Left != nil {
		*g.Left = *st.left
	}
	if st.right != nil && g.Right != nil {
		*g.Right = *st.right
	}
}

type cascadeState struct {
	glyph string
	state glyphState
}

// marginSnapshot is everything one margin command changed, grouped so undo
// can restore cascade targets first (in reverse), then composites, then the
// edited glyph.
type marginSnapshot struct {
	main       glyphState
	composites map[string]glyphState
	cascade    []cascadeState
	saved      map[string]bool
}

func newMarginSnapshot(g *font.Glyph) *marginSnapshot {
	return &marginSnapshot{
		main:       captureState(g),
		composites: make(map[string]glyphState),
		saved:      make(map[string]bool),
	}
}

func (s *marginSnapshot) saveCascade(g *font.Glyph) {
	if s.saved[g.Name] {
		return
	}
	s.saved[g.Name] = true
	s.cascade = append(s.cascade, cascadeState{glyph: g.Name, state: captureState(g)})
}

func (s *marginSnapshot) restore(ctx *Context, mainGlyph string) {
	for i := len(s.cascade) - 1; i >= 0; i-- {
		if g := ctx.Font.Glyph(s.cascade[i].glyph); g != nil {
			restoreState(g, s.cascade[i].state)
		}
	}
	for name, st := range s.composites {
		if g := ctx.Font.Glyph(name); g != nil {
			restoreState(g, st)
		}
	}
	if g := ctx.Font.Glyph(mainGlyph); g != nil {
		restoreState(g, s.main)
	}
}

// propagateComposites shifts composites of base by delta on the given side.
// Composites with a rule on that side are skipped: the cascade owns them.
func propagateComposites(ctx *Context, base string, side rules.Side, delta float64,
	snap *marginSnapshot, recursive bool, visited map[string]bool) []string {

	if visited == nil {
		visited = map[string]bool{base: true}
	}
	var modified []string

	mapping := ctx.Font.ReverseComponentMapping()
	for _, comp := range mapping[base] {
		if visited[comp] {
			continue
		}
		visited[comp] = true
		if ctx.Rules.HasRule(comp, side) {
			continue
		}
		g := ctx.Font.Glyph(comp)
		if g == nil {
			continue
		}
		if _, ok := snap.composites[comp]; !ok {
			snap.composites[comp] = captureState(g)
		}

		// A wider base widens the composite the same way: the touched
		// side's bearing moves with it.
		if side == rules.SideLeft && g.Left != nil {
			*g.Left += delta
		}
		if side == rules.SideRight && g.Right != nil {
			*g.Right += delta
		}
		g.Width += delta
		modified = append(modified, comp)

		if recursive {
			modified = append(modified,
				propagateComposites(ctx, comp, side, delta, snap, true, visited)...)
		}
	}
	return modified
}

// applyCascade re-evaluates every dependent of the changed glyph in plan
// order. The changed glyph's own opposite-side rule runs first so a
// symmetry pairing observes the fresh value; within every glyph the left
// rule is applied before the right one for the same reason. Rules that
// cannot produce a value are skipped silently; a value that cannot be
// written (empty glyph) becomes a warning.
func applyCascade(ctx *Context, changed string, editedSide rules.Side,
	snap *marginSnapshot) (warnings, affected []string) {

	apply := func(name string, side rules.Side) {
		if !ctx.Rules.HasRule(name, side) {
			return
		}
		g := ctx.Font.Glyph(name)
		if g == nil {
			return
		}
		value, ok := ctx.Rules.EvaluateHost(name, side)
		if !ok {
			return
		}
		snap.saveCascade(g)
		if err := g.SetMargin(side, value); err != nil {
			warnings = append(warnings, err.Error())
			return
		}
		affected = append(affected, name)
	}

	apply(changed, editedSide.Opposite())

	for _, name := range ctx.Rules.Plan(changed) {
		apply(name, rules.SideLeft)
		apply(name, rules.SideRight)
	}
	return warnings, dedupe(affected)
}

func dedupe(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := names[:0]
	for _, n := range names {
		if !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	return out
}

// SetMarginCommand sets a side-bearing to an absolute value, propagates the
// resulting delta to composites and applies the rules cascade.
type SetMarginCommand struct {
	Glyph              string
	Side               rules.Side
	Value              float64
	Propagate          bool
	RecursivePropagate bool
	ApplyRules         bool

	prev *marginSnapshot
}

// NewSetMarginCommand builds the command with propagation and rules
// application on, the common interactive case.
func NewSetMarginCommand(glyph string, side rules.Side, value float64) *SetMarginCommand {
	return &SetMarginCommand{Glyph: glyph, Side: side, Value: value, Propagate: true, ApplyRules: true}
}

func (c *SetMarginCommand) Description() string {
	return fmt.Sprintf("Set %s margin %s = %g", c.Side, c.Glyph, c.Value)
}

func (c *SetMarginCommand) Execute(ctx *Context) CommandResult {
	g := ctx.Font.Glyph(c.Glyph)
	if g == nil {
		return Err(fmt.Sprintf("no glyph %q", c.Glyph))
	}
	snap := newMarginSnapshot(g)
	c.prev = snap

	var delta float64
	if current, ok := g.Margin(c.Side); ok {
		delta = c.Value - current
		if err := g.SetMargin(c.Side, c.Value); err != nil {
			return Err(err.Error())
		}
	} else {
		// Empty glyph: the margin is meaningless, the width carries
		// the spacing.
		delta = c.Value
		g.Width = c.Value
	}

	result := CommandResult{Success: true, Message: c.Description(), Affected: []string{c.Glyph}}
	if c.Propagate && delta != 0 {
		result.Affected = append(result.Affected,
			propagateComposites(ctx, c.Glyph, c.Side, delta, snap, c.RecursivePropagate, nil)...)
	}
	if c.ApplyRules {
		warnings, affected := applyCascade(ctx, c.Glyph, c.Side, snap)
		result.Warnings = warnings
		result.Affected = append(result.Affected, affected...)
	}
	result.Affected = dedupe(result.Affected)
	return result
}

func (c *SetMarginCommand) Undo(ctx *Context) CommandResult {
	if c.prev == nil {
		return Err("nothing to undo")
	}
	c.prev.restore(ctx, c.Glyph)
	return OK(fmt.Sprintf("Undid: %s", c.Description()))
}

// AdjustMarginCommand adds a delta to a side-bearing, the keyboard-shortcut
// operation. Same propagation and cascade behavior as SetMarginCommand.
type AdjustMarginCommand struct {
	Glyph              string
	Side               rules.Side
	Delta              float64
	Propagate          bool
	RecursivePropagate bool
	ApplyRules         bool

	prev *marginSnapshot
}

// NewAdjustMarginCommand builds the command with propagation and rules
// application on.
func NewAdjustMarginCommand(glyph string, side rules.Side, delta float64) *AdjustMarginCommand {
	return &AdjustMarginCommand{Glyph: glyph, Side: side, Delta: delta, Propagate: true, ApplyRules: true}
}

func (c *AdjustMarginCommand) Description() string {
	sign := ""
	if c.Delta > 0 {
		sign = "+"
	}
	return fmt.Sprintf("Adjust %s margin %s %s%g", c.Side, c.Glyph, sign, c.Delta)
}

func (c *AdjustMarginCommand) Execute(ctx *Context) CommandResult {
	g := ctx.Font.Glyph(c.Glyph)
	if g == nil {
		return Err(fmt.Sprintf("no glyph %q", c.Glyph))
	}
	snap := newMarginSnapshot(g)
	c.prev = snap

	if current, ok := g.Margin(c.Side); ok {
		if err := g.SetMargin(c.Side, current+c.Delta); err != nil {
			return Err(err.Error())
		}
	} else {
		// Empty glyph: width-only edit, nothing to propagate.
		g.Width += c.Delta
		return CommandResult{Success: true, Message: c.Description(), Affected: []string{c.Glyph}}
	}

	result := CommandResult{Success: true, Message: c.Description(), Affected: []string{c.Glyph}}
	if c.Propagate && c.Delta != 0 {
		result.Affected = append(result.Affected,
			propagateComposites(ctx, c.Glyph, c.Side, c.Delta, snap, c.RecursivePropagate, nil)...)
	}
	if c.ApplyRules {
		warnings, affected := applyCascade(ctx, c.Glyph, c.Side, snap)
		result.Warnings = warnings
		result.Affected = append(result.Affected, affected...)
	}
	result.Affected = dedupe(result.Affected)
	return result
}

func (c *AdjustMarginCommand) Undo(ctx *Context) CommandResult {
	if c.prev == nil {
		return Err("nothing to undo")
	}
	c.prev.restore(ctx, c.Glyph)
	return OK(fmt.Sprintf("Undid: %s", c.Description()))
}
