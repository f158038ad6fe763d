package rules

import "math"

// Evaluate computes the margin value the glyph's rule on the given side
// implies, reading current metrics through lookup. The bool is false when
// the glyph has no well-formed rule on that side, the source metric is
// absent, or the rule divides by zero. Evaluation never fails loudly: a
// rule that cannot produce a value simply contributes no update.
//
// Deliberately one hop: lookup returns stored metrics, never the result of
// another rule. Multi-hop chains are correct because the cascade applies
// glyphs in dependency order, not because evaluation chases references.
func (m *Manager) Evaluate(glyph string, side Side, lookup MetricLookup) (float64, bool) {
	parsed, ok := m.parsedRule(glyph, side)
	if !ok {
		return 0, false
	}
	return evaluate(parsed, glyph, side, lookup)
}

// EvaluateHost is Evaluate against the manager's own host.
func (m *Manager) EvaluateHost(glyph string, side Side) (float64, bool) {
	return m.Evaluate(glyph, side, m.host.Margin)
}

func evaluate(parsed ParsedRule, glyph string, side Side, lookup MetricLookup) (float64, bool) {
	var source float64
	var ok bool

	switch {
	case parsed.IsSymmetry:
		// =| mirrors the opposite side of the same glyph, unmodified.
		return lookup(glyph, side.Opposite())
	case parsed.SourceGlyph != "":
		sourceSide := side
		if parsed.SourceSide == SourceOpposite {
			sourceSide = side.Opposite()
		}
		source, ok = lookup(parsed.SourceGlyph, sourceSide)
		if !ok {
			return 0, false
		}
	default:
		return 0, false
	}

	// Side-bearings are integral font units: every arithmetic result is
	// rounded to the nearest integer, ties away from zero.
	switch parsed.Operator {
	case OpNone:
		return source, true
	case OpAdd:
		return math.Round(source + parsed.Operand), true
	case OpSubtract:
		return math.Round(source - parsed.Operand), true
	case OpMultiply:
		return math.Round(source * parsed.Operand), true
	case OpDivide:
		if parsed.Operand == 0 {
			return 0, false
		}
		return math.Round(source / parsed.Operand), true
	default:
		return source, true
	}
}
