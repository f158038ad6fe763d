package rules

import "fmt"

// PersistFunc receives the full current rule set after every successful
// mutation. The host decides where the snapshot lives (font lib, file).
type PersistFunc func(Snapshot)

// Manager owns the rule store and the dependency index derived from it, and
// orchestrates parsing, validation, cascade planning and evaluation.
//
// The index (parsed-rule cache plus reverse-dependency map) is fully
// discarded and rebuilt after every mutation. No incremental patching: edits
// are rare relative to reads, and a full rebuild keeps the index trivially
// consistent with the store.
//
// A Manager serves exactly one font and is not safe for concurrent use
// without external locking, consistent with a single interactive editing
// session.
type Manager struct {
	host    Host
	persist PersistFunc

	// rules is the durable source of truth: glyph -> side -> rule text.
	rules RuleSet

	// parsed caches the structured form of every well-formed stored rule.
	parsed map[string]map[Side]ParsedRule

	// dependents maps a source glyph to the set of glyphs whose rules
	// reference it, aggregated across both sides. Deliberately coarse:
	// one edge per glyph pair, not per side.
	dependents map[string]map[string]bool
}

// NewManager builds a Manager for the given host, adopting the rules in
// snap. A nil snapshot, or one with an unrecognized version, means an empty
// rule set. persist may be nil when the caller handles persistence itself.
func NewManager(host Host, snap *Snapshot, persist PersistFunc) *Manager {
	m := &Manager{
		host:    host,
		persist: persist,
		rules:   make(RuleSet),
	}
	if snap != nil && snap.Version == SnapshotVersion {
		m.rules = snap.Rules.Clone()
		if m.rules == nil {
			m.rules = make(RuleSet)
		}
	}
	m.rebuild()
	return m
}

// rebuild regenerates the parsed-rule cache and the reverse-dependency map
// from the rule store. Malformed rules are skipped here; Validate reports
// them.
func (m *Manager) rebuild() {
	m.parsed = make(map[string]map[Side]ParsedRule, len(m.rules))
	m.dependents = make(map[string]map[string]bool)

	for glyph, sides := range m.rules {
		m.parsed[glyph] = make(map[Side]ParsedRule, len(sides))
		for side, rule := range sides {
			parsed, err := Parse(rule, side)
			if err != nil {
				continue
			}
			m.parsed[glyph][side] = parsed

			switch {
			case parsed.SourceGlyph != "":
				m.addDependent(parsed.SourceGlyph, glyph)
			case parsed.IsSymmetry:
				// =| reads the glyph's own opposite side, so the
				// glyph is a dependent of itself in the reverse map.
				m.addDependent(glyph, glyph)
			}
		}
	}
}

func (m *Manager) addDependent(source, dependent string) {
	set, ok := m.dependents[source]
	if !ok {
		set = make(map[string]bool)
		m.dependents[source] = set
	}
	set[dependent] = true
}

func (m *Manager) saveSnapshot() {
	if m.persist != nil {
		m.persist(m.Snapshot())
	}
}

// Snapshot returns the versioned rule set for persistence.
func (m *Manager) Snapshot() Snapshot {
	return Snapshot{Version: SnapshotVersion, Rules: m.rules.Clone()}
}

// SetRule validates and stores a rule for one side of a glyph, rebuilding
// the index and persisting on success. Replacing an existing rule simply
// overwrites the stored text. On a syntax error the store is left untouched.
func (m *Manager) SetRule(glyph string, side Side, rule string) error {
	if !side.Valid() {
		return fmt.Errorf("unknown side %q", side)
	}
	if ok, reason := ValidateSyntax(rule); !ok {
		return &ParseError{Rule: rule, Reason: reason}
	}
	sides, ok := m.rules[glyph]
	if !ok {
		sides = make(SideRules, 2)
		m.rules[glyph] = sides
	}
	sides[side] = rule
	m.rebuild()
	m.saveSnapshot()
	return nil
}

// RemoveRule deletes the rule for one side and returns the removed text so
// the caller can restore it for undo. The bool is false if no rule existed.
// The glyph entry is dropped entirely once both sides are empty.
func (m *Manager) RemoveRule(glyph string, side Side) (string, bool) {
	sides, ok := m.rules[glyph]
	if !ok {
		return "", false
	}
	old, existed := sides[side]
	if !existed {
		return "", false
	}
	delete(sides, side)
	if len(sides) == 0 {
		delete(m.rules, glyph)
	}
	m.rebuild()
	m.saveSnapshot()
	return old, true
}

// ClearRulesForGlyph removes all rules for a glyph in one step, returning
// the removed side map (nil, false if the glyph had none).
func (m *Manager) ClearRulesForGlyph(glyph string) (SideRules, bool) {
	old, ok := m.rules[glyph]
	if !ok {
		return nil, false
	}
	delete(m.rules, glyph)
	m.rebuild()
	m.saveSnapshot()
	return old.Clone(), true
}

// Rule returns the raw rule text for one side of a glyph.
func (m *Manager) Rule(glyph string, side Side) (string, bool) {
	rule, ok := m.rules[glyph][side]
	return rule, ok
}

// RulesForGlyph returns a copy of the glyph's side map, or nil if the glyph
// has no rules.
func (m *Manager) RulesForGlyph(glyph string) SideRules {
	return m.rules[glyph].Clone()
}

// AllRules returns a deep copy of the whole rule store.
func (m *Manager) AllRules() RuleSet {
	return m.rules.Clone()
}

// HasRule reports whether the glyph has a rule on the given side.
func (m *Manager) HasRule(glyph string, side Side) bool {
	_, ok := m.rules[glyph][side]
	return ok
}

// HasAnyRule reports whether the glyph has a rule on either side.
func (m *Manager) HasAnyRule(glyph string) bool {
	return len(m.rules[glyph]) > 0
}

// Len returns the total number of stored rules across all glyphs and sides.
func (m *Manager) Len() int {
	n := 0
	for _, sides := range m.rules {
		n += len(sides)
	}
	return n
}

// Dependents returns the set of glyphs whose rules reference the given
// glyph (direct reverse-edge lookup).
func (m *Manager) Dependents(glyph string) map[string]bool {
	out := make(map[string]bool, len(m.dependents[glyph]))
	for name := range m.dependents[glyph] {
		out[name] = true
	}
	return out
}

// Dependencies returns the set of glyphs the given glyph's rules read from.
// Symmetry rules read the glyph itself and contribute no entry here.
func (m *Manager) Dependencies(glyph string) map[string]bool {
	out := make(map[string]bool)
	for _, parsed := range m.parsed[glyph] {
		if parsed.SourceGlyph != "" {
			out[parsed.SourceGlyph] = true
		}
	}
	return out
}

// parsedRule returns the cached structured rule for one side, if the stored
// text is well-formed.
func (m *Manager) parsedRule(glyph string, side Side) (ParsedRule, bool) {
	parsed, ok := m.parsed[glyph][side]
	return parsed, ok
}
