package editor

import (
	"fmt"

	"glyphspace/internal/rules"
)

// SideSpec is a command-level side selector: one side or both at once.
type SideSpec string

const (
	SpecLeft  SideSpec = "left"
	SpecRight SideSpec = "right"
	SpecBoth  SideSpec = "both"
)

// Sides expands the selector to the concrete sides it covers.
func (s SideSpec) Sides() []rules.Side {
	switch s {
	case SpecLeft:
		return []rules.Side{rules.SideLeft}
	case SpecRight:
		return []rules.Side{rules.SideRight}
	case SpecBoth:
		return []rules.Side{rules.SideLeft, rules.SideRight}
	default:
		return nil
	}
}

// SetRuleCommand sets or replaces a metrics rule. Undo restores the glyph's
// entire prior side map, which also covers the overwrite case.
type SetRuleCommand struct {
	Glyph string
	Side  SideSpec
	Rule  string

	prev rules.SideRules
}

func (c *SetRuleCommand) Description() string {
	if c.Side == SpecBoth {
		return fmt.Sprintf("Set rule %s = %q", c.Glyph, c.Rule)
	}
	return fmt.Sprintf("Set rule %s.%s = %q", c.Glyph, c.Side, c.Rule)
}

func (c *SetRuleCommand) Execute(ctx *Context) CommandResult {
	sides := c.Side.Sides()
	if sides == nil {
		return Err(fmt.Sprintf("unknown side %q", c.Side))
	}
	c.prev = ctx.Rules.RulesForGlyph(c.Glyph)

	for _, side := range sides {
		if err := ctx.Rules.SetRule(c.Glyph, side, c.Rule); err != nil {
			return Err(err.Error())
		}
	}
	return OK(c.Description())
}

func (c *SetRuleCommand) Undo(ctx *Context) CommandResult {
	ctx.Rules.ClearRulesForGlyph(c.Glyph)
	for side, rule := range c.prev {
		if err := ctx.Rules.SetRule(c.Glyph, side, rule); err != nil {
			return Err(fmt.Sprintf("restore rule %s.%s: %v", c.Glyph, side, err))
		}
	}
	return OK(fmt.Sprintf("Restored rules for %s", c.Glyph))
}

// RemoveRuleCommand removes a rule for one side or both. Undo restores the
// glyph's prior side map.
type RemoveRuleCommand struct {
	Glyph string
	Side  SideSpec

	prev rules.SideRules
}

func (c *RemoveRuleCommand) Description() string {
	if c.Side == SpecBoth {
		return fmt.Sprintf("Remove rules for %s", c.Glyph)
	}
	return fmt.Sprintf("Remove rule %s.%s", c.Glyph, c.Side)
}

func (c *RemoveRuleCommand) Execute(ctx *Context) CommandResult {
	sides := c.Side.Sides()
	if sides == nil {
		return Err(fmt.Sprintf("unknown side %q", c.Side))
	}
	c.prev = ctx.Rules.RulesForGlyph(c.Glyph)

	if c.Side == SpecBoth {
		ctx.Rules.ClearRulesForGlyph(c.Glyph)
	} else {
		for _, side := range sides {
			ctx.Rules.RemoveRule(c.Glyph, side)
		}
	}
	return OK(c.Description())
}

func (c *RemoveRuleCommand) Undo(ctx *Context) CommandResult {
	for side, rule := range c.prev {
		if err := ctx.Rules.SetRule(c.Glyph, side, rule); err != nil {
			return Err(fmt.Sprintf("restore rule %s.%s: %v", c.Glyph, side, err))
		}
	}
	return OK(fmt.Sprintf("Restored rules for %s", c.Glyph))
}
