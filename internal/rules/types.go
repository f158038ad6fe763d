// Package rules implements the metrics-rule engine: a small formula grammar
// for linked side-bearings, a glyph-level dependency index derived from the
// parsed formulas, cycle and consistency validation, deterministic cascade
// ordering, and one-hop rule evaluation.
//
// The engine is a pure in-memory component. It reads glyph metrics through
// the Host interface and never touches outlines; applying computed values
// back to the font is the caller's job (see internal/editor).
package rules

// Side identifies which side-bearing of a glyph a rule is attached to.
type Side string

const (
	SideLeft  Side = "left"
	SideRight Side = "right"
)

// Opposite returns the other side.
func (s Side) Opposite() Side {
	if s == SideLeft {
		return SideRight
	}
	return SideLeft
}

// Valid reports whether s is one of the two recognized sides.
func (s Side) Valid() bool {
	return s == SideLeft || s == SideRight
}

// Op is an arithmetic operator in a rule. The zero value means no operator.
// Keeping this a closed enum matched exhaustively in the Evaluator makes
// adding or removing an operator a compile-time-checked change.
type Op string

const (
	OpNone     Op = ""
	OpAdd      Op = "+"
	OpSubtract Op = "-"
	OpMultiply Op = "*"
	OpDivide   Op = "/"
)

// SourceSide describes which side of the source glyph a rule reads.
type SourceSide string

const (
	// SourceSame resolves to the same side the rule is attached to.
	SourceSame SourceSide = "same"
	// SourceOpposite resolves to the side opposite the rule's own side
	// (the =G| form).
	SourceOpposite SourceSide = "opposite"
)

// ParsedRule is the structured form of a rule string.
//
// Exactly one of SourceGlyph non-empty or IsSymmetry true holds, and
// Operand is meaningful iff Operator != OpNone.
type ParsedRule struct {
	// SourceGlyph is the glyph the rule reads from. Empty only for the
	// bare symmetry form =|.
	SourceGlyph string
	// SourceSide selects which side of the source glyph to read.
	SourceSide SourceSide
	// Operator and Operand describe the arithmetic form =G<op><number>.
	Operator Op
	Operand  float64
	// IsSymmetry is true for =|, which mirrors the opposite side of the
	// same glyph.
	IsSymmetry bool
}

// SideRules maps a side to its raw rule string. At most one rule per side.
type SideRules map[Side]string

// RuleSet is the full rule store shape: glyph name to its side rules.
type RuleSet map[string]SideRules

// Clone returns a deep copy, so callers never observe internal mutation.
func (rs RuleSet) Clone() RuleSet {
	if rs == nil {
		return nil
	}
	out := make(RuleSet, len(rs))
	for glyph, sides := range rs {
		out[glyph] = sides.Clone()
	}
	return out
}

// Clone returns a copy of the side map.
func (sr SideRules) Clone() SideRules {
	if sr == nil {
		return nil
	}
	out := make(SideRules, len(sr))
	for side, rule := range sr {
		out[side] = rule
	}
	return out
}

// SnapshotVersion is the current version tag of the persisted rule format.
// A snapshot carrying any other version is treated as absent rather than an
// error, so older builds never misread newer data.
const SnapshotVersion = 1

// Snapshot is the versioned blob the manager emits after every mutation and
// adopts at construction. The host decides where it lives (font lib, file).
type Snapshot struct {
	Version int     `yaml:"version" json:"version"`
	Rules   RuleSet `yaml:"rules" json:"rules"`
}
