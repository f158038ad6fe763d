package rules

import "sort"

// Validate checks the whole rule set and returns a structured report.
//
// Parse failures and cycles make the report invalid; missing-glyph and
// self-reference findings are advisory only. Rules that fail the syntax
// check are excluded from the graph analysis.
func (m *Manager) Validate() ValidationReport {
	var report ValidationReport

	for _, glyph := range m.sortedRuleGlyphs() {
		sides := m.rules[glyph]
		for _, side := range []Side{SideLeft, SideRight} {
			rule, ok := sides[side]
			if !ok {
				continue
			}
			if valid, reason := ValidateSyntax(rule); !valid {
				report.ParseIssues = append(report.ParseIssues, ParseIssue{
					Glyph: glyph, Side: side, Rule: rule, Reason: reason,
				})
				continue
			}
			parsed, ok := m.parsedRule(glyph, side)
			if !ok {
				continue
			}
			if parsed.SourceGlyph == glyph && !parsed.IsSymmetry {
				report.SelfReferences = append(report.SelfReferences, SelfReferenceWarning{
					Glyph: glyph, Side: side, Rule: rule,
				})
			}
			if parsed.SourceGlyph != "" && m.host != nil && !m.host.HasGlyph(parsed.SourceGlyph) {
				report.MissingGlyphs = append(report.MissingGlyphs, MissingGlyphWarning{
					Glyph: glyph, Side: side, Rule: rule, Missing: parsed.SourceGlyph,
				})
			}
		}
	}

	report.Cycles = m.detectCycles()
	report.IsValid = !report.HasErrors()
	return report
}

// Three-color DFS marks.
type visitState int

const (
	unvisited visitState = iota
	inProgress
	done
)

// detectCycles walks the forward dependency graph (edge X -> Y iff X has a
// rule referencing Y) once, depth first. An edge into an in-progress node is
// a cycle, recorded as the stack slice from that node back to itself.
// Self-loops are skipped: a single self-reference cannot recurse and is
// already reported as a warning.
func (m *Manager) detectCycles() []CycleError {
	state := make(map[string]visitState)
	var cycles []CycleError
	var stack []string

	var dfs func(glyph string) bool
	dfs = func(glyph string) bool {
		state[glyph] = inProgress
		stack = append(stack, glyph)

		for _, dep := range sortedKeys(m.Dependencies(glyph)) {
			if dep == glyph {
				continue
			}
			switch state[dep] {
			case unvisited:
				if dfs(dep) {
					return true
				}
			case inProgress:
				start := 0
				for i, name := range stack {
					if name == dep {
						start = i
						break
					}
				}
				cycle := append([]string{}, stack[start:]...)
				cycle = append(cycle, dep)
				cycles = append(cycles, CycleError{Cycle: cycle})
				return true
			}
		}

		stack = stack[:len(stack)-1]
		state[glyph] = done
		return false
	}

	for _, glyph := range m.sortedRuleGlyphs() {
		if state[glyph] == unvisited {
			dfs(glyph)
			// A found cycle unwinds the DFS with its path still on the
			// stack. Mark those nodes done so no later root mistakes
			// them for part of its own path, and start clean.
			for _, name := range stack {
				state[name] = done
			}
			stack = stack[:0]
		}
	}
	return cycles
}

// sortedRuleGlyphs returns the glyphs that have rules, in name order, so
// reports and traversals are deterministic.
func (m *Manager) sortedRuleGlyphs() []string {
	names := make([]string, 0, len(m.rules))
	for glyph := range m.rules {
		names = append(names, glyph)
	}
	sort.Strings(names)
	return names
}

func sortedKeys(set map[string]bool) []string {
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
