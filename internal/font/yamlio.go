package font

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// On-disk document shape. Glyph names key the glyphs map; margins are
// optional so empty glyphs round-trip as width-only entries.
type fontDoc struct {
	Family     string              `yaml:"family"`
	UnitsPerEm int                 `yaml:"unitsPerEm"`
	Glyphs     map[string]glyphDoc `yaml:"glyphs"`
	Lib        map[string]any      `yaml:"lib,omitempty"`
}

type glyphDoc struct {
	Width      float64     `yaml:"width"`
	Left       *float64    `yaml:"left,omitempty"`
	Right      *float64    `yaml:"right,omitempty"`
	Components []Component `yaml:"components,omitempty"`
}

// Load reads a font from a YAML file.
func Load(path string) (*Font, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read font file: %w", err)
	}
	var doc fontDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse font file %s: %w", path, err)
	}

	f := New(doc.Family, doc.UnitsPerEm)
	if doc.Lib != nil {
		f.Lib = doc.Lib
	}
	for name, gd := range doc.Glyphs {
		f.AddGlyph(&Glyph{
			Name:       name,
			Width:      gd.Width,
			Left:       gd.Left,
			Right:      gd.Right,
			Components: gd.Components,
		})
	}
	return f, nil
}

// Save writes the font to a YAML file, creating or replacing it.
func (f *Font) Save(path string) error {
	doc := fontDoc{
		Family:     f.Family,
		UnitsPerEm: f.UnitsPerEm,
		Glyphs:     make(map[string]glyphDoc, len(f.glyphs)),
		Lib:        f.Lib,
	}
	for name, g := range f.glyphs {
		doc.Glyphs[name] = glyphDoc{
			Width:      g.Width,
			Left:       g.Left,
			Right:      g.Right,
			Components: g.Components,
		}
	}

	data, err := yaml.Marshal(&doc)
	if err != nil {
		return fmt.Errorf("encode font: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write font file: %w", err)
	}
	return nil
}
