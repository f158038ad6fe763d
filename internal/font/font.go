// Package font is the host glyph store the rule engine plugs into: an
// in-memory font holding glyph advance widths, side-bearings, component
// references and arbitrary lib metadata, with YAML file persistence.
//
// No outline geometry lives here. Margins are stored metrics, which is all
// the engine ever consults.
package font

import (
	"fmt"
	"sort"

	"glyphspace/internal/rules"
)

// Component is a reference to a base glyph placed at an offset, enough to
// know which composites a margin change propagates to.
type Component struct {
	Base    string  `yaml:"base"`
	OffsetX float64 `yaml:"offsetX,omitempty"`
	OffsetY float64 `yaml:"offsetY,omitempty"`
}

// Glyph holds the metrics the spacing system works with. Left and Right are
// nil for glyphs with no determinate side-bearing (space and friends), in
// which case only the width is meaningful.
type Glyph struct {
	Name       string
	Width      float64
	Left       *float64
	Right      *float64
	Components []Component
}

// Margin returns the stored side-bearing, or false when absent.
func (g *Glyph) Margin(side rules.Side) (float64, bool) {
	p := g.Left
	if side == rules.SideRight {
		p = g.Right
	}
	if p == nil {
		return 0, false
	}
	return *p, true
}

// SetMargin writes a side-bearing. Setting a side that has no determinate
// value fails; the caller decides whether to fall back to a width edit.
func (g *Glyph) SetMargin(side rules.Side, value float64) error {
	p := g.Left
	if side == rules.SideRight {
		p = g.Right
	}
	if p == nil {
		return fmt.Errorf("glyph %q has no %s margin", g.Name, side)
	}
	*p = value
	return nil
}

// Font is one font's glyph set plus its lib: the arbitrary key/value
// metadata block fonts carry, which is where the rules blob persists.
type Font struct {
	Family     string
	UnitsPerEm int
	Lib        map[string]any

	glyphs map[string]*Glyph
}

// New creates an empty font.
func New(family string, unitsPerEm int) *Font {
	return &Font{
		Family:     family,
		UnitsPerEm: unitsPerEm,
		Lib:        make(map[string]any),
		glyphs:     make(map[string]*Glyph),
	}
}

// AddGlyph inserts or replaces a glyph and returns it.
func (f *Font) AddGlyph(g *Glyph) *Glyph {
	f.glyphs[g.Name] = g
	return g
}

// Glyph returns the named glyph, or nil.
func (f *Font) Glyph(name string) *Glyph {
	return f.glyphs[name]
}

// GlyphNames returns all glyph names in sorted order.
func (f *Font) GlyphNames() []string {
	names := make([]string, 0, len(f.glyphs))
	for name := range f.glyphs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NumGlyphs returns the glyph count.
func (f *Font) NumGlyphs() int {
	return len(f.glyphs)
}

// HasGlyph implements rules.Host.
func (f *Font) HasGlyph(name string) bool {
	_, ok := f.glyphs[name]
	return ok
}

// Margin implements rules.Host.
func (f *Font) Margin(name string, side rules.Side) (float64, bool) {
	g, ok := f.glyphs[name]
	if !ok {
		return 0, false
	}
	return g.Margin(side)
}

// SetMargin implements rules.Host.
func (f *Font) SetMargin(name string, side rules.Side, value float64) error {
	g, ok := f.glyphs[name]
	if !ok {
		return fmt.Errorf("no glyph %q", name)
	}
	return g.SetMargin(side, value)
}

// ReverseComponentMapping returns base glyph -> composites using it, sorted,
// for composite propagation during margin edits.
func (f *Font) ReverseComponentMapping() map[string][]string {
	out := make(map[string][]string)
	for name, g := range f.glyphs {
		for _, c := range g.Components {
			out[c.Base] = append(out[c.Base], name)
		}
	}
	for base := range out {
		sort.Strings(out[base])
	}
	return out
}

// ptr is a convenience for building glyphs with literal margins.
func ptr(v float64) *float64 { return &v }

// NewGlyph builds a glyph with both margins present.
func NewGlyph(name string, width, left, right float64) *Glyph {
	return &Glyph{Name: name, Width: width, Left: ptr(left), Right: ptr(right)}
}

// NewEmptyGlyph builds a glyph with width only (no outline, no margins).
func NewEmptyGlyph(name string, width float64) *Glyph {
	return &Glyph{Name: name, Width: width}
}
