package rules

import (
	"fmt"
	"strings"
)

// ParseIssue records a stored rule that fails syntax validation.
type ParseIssue struct {
	Glyph  string
	Side   Side
	Rule   string
	Reason string
}

func (i ParseIssue) String() string {
	return fmt.Sprintf("%s.%s: %s (rule: %q)", i.Glyph, i.Side, i.Reason, i.Rule)
}

// MissingGlyphWarning records a rule referencing a glyph the host does not
// have. The rule stays stored; evaluation simply yields no value.
type MissingGlyphWarning struct {
	Glyph   string
	Side    Side
	Rule    string
	Missing string
}

func (w MissingGlyphWarning) String() string {
	return fmt.Sprintf("%s.%s: references missing glyph %q (rule: %q)",
		w.Glyph, w.Side, w.Missing, w.Rule)
}

// SelfReferenceWarning records a non-symmetry rule whose source glyph is its
// own target. Advisory: a single self-reference does not cause unbounded
// recursion, only a coupled pair or longer loop does.
type SelfReferenceWarning struct {
	Glyph string
	Side  Side
	Rule  string
}

func (w SelfReferenceWarning) String() string {
	return fmt.Sprintf("%s.%s: self-reference (rule: %q)", w.Glyph, w.Side, w.Rule)
}

// CycleError records a circular dependency. The slice lists the glyphs on
// the loop with the first name repeated at the end.
type CycleError struct {
	Cycle []string
}

func (e CycleError) String() string {
	return "circular dependency: " + strings.Join(e.Cycle, " -> ")
}

// ValidationReport aggregates everything Validate finds. Cycles and parse
// issues are errors; missing-glyph and self-reference entries are advisory.
type ValidationReport struct {
	IsValid        bool
	Cycles         []CycleError
	ParseIssues    []ParseIssue
	MissingGlyphs  []MissingGlyphWarning
	SelfReferences []SelfReferenceWarning
}

// Errors returns the fatal findings as strings.
func (r ValidationReport) Errors() []string {
	var out []string
	for _, c := range r.Cycles {
		out = append(out, c.String())
	}
	for _, p := range r.ParseIssues {
		out = append(out, p.String())
	}
	return out
}

// Warnings returns the advisory findings as strings.
func (r ValidationReport) Warnings() []string {
	var out []string
	for _, m := range r.MissingGlyphs {
		out = append(out, m.String())
	}
	for _, s := range r.SelfReferences {
		out = append(out, s.String())
	}
	return out
}

// HasErrors reports whether any fatal finding exists.
func (r ValidationReport) HasErrors() bool {
	return len(r.Cycles) > 0 || len(r.ParseIssues) > 0
}

// HasWarnings reports whether any advisory finding exists.
func (r ValidationReport) HasWarnings() bool {
	return len(r.MissingGlyphs) > 0 || len(r.SelfReferences) > 0
}
