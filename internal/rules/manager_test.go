package rules

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubHost is a minimal in-memory Host for engine tests.
type stubHost struct {
	margins map[string]map[Side]float64
}

func newStubHost() *stubHost {
	return &stubHost{margins: make(map[string]map[Side]float64)}
}

func (h *stubHost) add(name string, left, right float64) *stubHost {
	h.margins[name] = map[Side]float64{SideLeft: left, SideRight: right}
	return h
}

func (h *stubHost) HasGlyph(name string) bool {
	_, ok := h.margins[name]
	return ok
}

func (h *stubHost) Margin(name string, side Side) (float64, bool) {
	sides, ok := h.margins[name]
	if !ok {
		return 0, false
	}
	v, ok := sides[side]
	return v, ok
}

func (h *stubHost) SetMargin(name string, side Side, value float64) error {
	sides, ok := h.margins[name]
	if !ok {
		return fmt.Errorf("no glyph %q", name)
	}
	sides[side] = value
	return nil
}

func TestManager_SetRule(t *testing.T) {
	host := newStubHost().add("A", 40, 40).add("Aacute", 0, 0)

	var persisted []Snapshot
	m := NewManager(host, nil, func(s Snapshot) { persisted = append(persisted, s) })

	t.Run("stores valid rule and persists", func(t *testing.T) {
		require.NoError(t, m.SetRule("Aacute", SideLeft, "=A"))

		rule, ok := m.Rule("Aacute", SideLeft)
		require.True(t, ok)
		assert.Equal(t, "=A", rule)

		require.Len(t, persisted, 1)
		assert.Equal(t, SnapshotVersion, persisted[0].Version)
		assert.Equal(t, "=A", persisted[0].Rules["Aacute"][SideLeft])
	})

	t.Run("overwrite replaces text", func(t *testing.T) {
		require.NoError(t, m.SetRule("Aacute", SideLeft, "=A+10"))
		rule, _ := m.Rule("Aacute", SideLeft)
		assert.Equal(t, "=A+10", rule)
	})

	t.Run("syntax error leaves state untouched", func(t *testing.T) {
		before := m.AllRules()
		err := m.SetRule("Aacute", SideLeft, "not a rule")
		require.Error(t, err)

		var pe *ParseError
		assert.ErrorAs(t, err, &pe)
		assert.Empty(t, cmp.Diff(before, m.AllRules()))
	})

	t.Run("rejects unknown side", func(t *testing.T) {
		assert.Error(t, m.SetRule("Aacute", Side("both"), "=A"))
	})
}

func TestManager_RemoveRule(t *testing.T) {
	host := newStubHost().add("A", 40, 40).add("Aacute", 0, 0)
	m := NewManager(host, nil, nil)

	require.NoError(t, m.SetRule("Aacute", SideLeft, "=A"))
	require.NoError(t, m.SetRule("Aacute", SideRight, "=A"))

	t.Run("returns removed text", func(t *testing.T) {
		old, ok := m.RemoveRule("Aacute", SideLeft)
		require.True(t, ok)
		assert.Equal(t, "=A", old)
		assert.False(t, m.HasRule("Aacute", SideLeft))
		assert.True(t, m.HasRule("Aacute", SideRight))
	})

	t.Run("absent rule reports false", func(t *testing.T) {
		_, ok := m.RemoveRule("Aacute", SideLeft)
		assert.False(t, ok)
	})

	t.Run("glyph entry dropped when both sides empty", func(t *testing.T) {
		_, ok := m.RemoveRule("Aacute", SideRight)
		require.True(t, ok)
		assert.False(t, m.HasAnyRule("Aacute"))
		assert.NotContains(t, m.AllRules(), "Aacute")
	})

	t.Run("remove and re-add round-trips", func(t *testing.T) {
		require.NoError(t, m.SetRule("Aacute", SideLeft, "=A"))
		require.NoError(t, m.SetRule("Aacute", SideRight, "=A+5"))
		before := m.RulesForGlyph("Aacute")

		old, ok := m.RemoveRule("Aacute", SideRight)
		require.True(t, ok)
		require.NoError(t, m.SetRule("Aacute", SideRight, old))

		assert.Empty(t, cmp.Diff(before, m.RulesForGlyph("Aacute")))
	})
}

func TestManager_ClearRulesForGlyph(t *testing.T) {
	m := NewManager(newStubHost().add("A", 10, 10), nil, nil)
	require.NoError(t, m.SetRule("Aacute", SideLeft, "=A"))
	require.NoError(t, m.SetRule("Aacute", SideRight, "=|"))

	old, ok := m.ClearRulesForGlyph("Aacute")
	require.True(t, ok)
	assert.Equal(t, SideRules{SideLeft: "=A", SideRight: "=|"}, old)
	assert.False(t, m.HasAnyRule("Aacute"))

	_, ok = m.ClearRulesForGlyph("Aacute")
	assert.False(t, ok)
}

func TestManager_Dependencies(t *testing.T) {
	m := NewManager(newStubHost(), nil, nil)
	require.NoError(t, m.SetRule("Aacute", SideLeft, "=A"))
	require.NoError(t, m.SetRule("Aacute", SideRight, "=B+5"))
	require.NoError(t, m.SetRule("Agrave", SideLeft, "=A"))
	require.NoError(t, m.SetRule("n", SideRight, "=|"))

	t.Run("forward lookup", func(t *testing.T) {
		deps := m.Dependencies("Aacute")
		assert.Equal(t, map[string]bool{"A": true, "B": true}, deps)
	})

	t.Run("reverse lookup aggregated per glyph", func(t *testing.T) {
		assert.Equal(t, map[string]bool{"Aacute": true, "Agrave": true}, m.Dependents("A"))
	})

	t.Run("symmetry is a self edge in the reverse map only", func(t *testing.T) {
		assert.Equal(t, map[string]bool{"n": true}, m.Dependents("n"))
		assert.Empty(t, m.Dependencies("n"))
	})

	t.Run("returned sets are copies", func(t *testing.T) {
		deps := m.Dependents("A")
		deps["X"] = true
		assert.NotContains(t, m.Dependents("A"), "X")
	})
}

func TestManager_SnapshotAdoption(t *testing.T) {
	host := newStubHost().add("A", 10, 10)

	t.Run("adopts current version", func(t *testing.T) {
		snap := &Snapshot{
			Version: SnapshotVersion,
			Rules:   RuleSet{"Aacute": {SideLeft: "=A"}},
		}
		m := NewManager(host, snap, nil)
		assert.Equal(t, 1, m.Len())
		assert.Equal(t, map[string]bool{"Aacute": true}, m.Dependents("A"))
	})

	t.Run("unrecognized version treated as absent", func(t *testing.T) {
		snap := &Snapshot{
			Version: SnapshotVersion + 1,
			Rules:   RuleSet{"Aacute": {SideLeft: "=A"}},
		}
		m := NewManager(host, snap, nil)
		assert.Zero(t, m.Len())
	})

	t.Run("nil snapshot means empty", func(t *testing.T) {
		m := NewManager(host, nil, nil)
		assert.Zero(t, m.Len())
	})

	t.Run("adopted rules are copied", func(t *testing.T) {
		snap := &Snapshot{
			Version: SnapshotVersion,
			Rules:   RuleSet{"Aacute": {SideLeft: "=A"}},
		}
		m := NewManager(host, snap, nil)
		snap.Rules["Aacute"][SideLeft] = "=B"
		rule, _ := m.Rule("Aacute", SideLeft)
		assert.Equal(t, "=A", rule)
	})
}

func TestManager_MalformedStoredRuleSkippedInIndex(t *testing.T) {
	snap := &Snapshot{
		Version: SnapshotVersion,
		Rules:   RuleSet{"Aacute": {SideLeft: "bogus"}},
	}
	m := NewManager(newStubHost().add("A", 10, 10), snap, nil)

	// The malformed rule stays in the store but contributes no edges.
	assert.True(t, m.HasRule("Aacute", SideLeft))
	assert.Empty(t, m.Dependencies("Aacute"))
}
