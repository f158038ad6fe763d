package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Forms(t *testing.T) {
	tests := []struct {
		name string
		rule string
		side Side
		want ParsedRule
	}{
		{
			name: "simple copy",
			rule: "=A",
			side: SideLeft,
			want: ParsedRule{SourceGlyph: "A", SourceSide: SourceSame},
		},
		{
			name: "arithmetic add",
			rule: "=A+10",
			side: SideRight,
			want: ParsedRule{SourceGlyph: "A", SourceSide: SourceSame, Operator: OpAdd, Operand: 10},
		},
		{
			name: "arithmetic subtract",
			rule: "=B-5",
			side: SideLeft,
			want: ParsedRule{SourceGlyph: "B", SourceSide: SourceSame, Operator: OpSubtract, Operand: 5},
		},
		{
			name: "arithmetic multiply with decimal",
			rule: "=A*1.5",
			side: SideLeft,
			want: ParsedRule{SourceGlyph: "A", SourceSide: SourceSame, Operator: OpMultiply, Operand: 1.5},
		},
		{
			name: "arithmetic divide",
			rule: "=A/2",
			side: SideRight,
			want: ParsedRule{SourceGlyph: "A", SourceSide: SourceSame, Operator: OpDivide, Operand: 2},
		},
		{
			name: "symmetry",
			rule: "=|",
			side: SideLeft,
			want: ParsedRule{SourceSide: SourceSame, IsSymmetry: true},
		},
		{
			name: "opposite side",
			rule: "=H|",
			side: SideLeft,
			want: ParsedRule{SourceGlyph: "H", SourceSide: SourceOpposite},
		},
		{
			name: "dotted suffix name",
			rule: "=A.sc",
			side: SideLeft,
			want: ParsedRule{SourceGlyph: "A.sc", SourceSide: SourceSame},
		},
		{
			name: "underscore name",
			rule: "=_part.tail+12",
			side: SideLeft,
			want: ParsedRule{SourceGlyph: "_part.tail", SourceSide: SourceSame, Operator: OpAdd, Operand: 12},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.rule, tt.side)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParse_Invalid(t *testing.T) {
	rules := []string{
		"",
		"A",
		"=",
		"==A",
		"=A=B",
		"=A+",
		"=A+-5",
		"=A++5",
		"=+10",
		"=1abc",
		"=A extra",
		"=A|x",
		"=A + 10",
	}

	for _, rule := range rules {
		t.Run("rule "+rule, func(t *testing.T) {
			_, err := Parse(rule, SideLeft)
			require.Error(t, err)

			var pe *ParseError
			require.ErrorAs(t, err, &pe)
			assert.NotEmpty(t, pe.Reason)
		})
	}
}

func TestValidateSyntax(t *testing.T) {
	t.Run("valid rule", func(t *testing.T) {
		ok, reason := ValidateSyntax("=A+10")
		assert.True(t, ok)
		assert.Empty(t, reason)
	})

	t.Run("missing equals", func(t *testing.T) {
		ok, reason := ValidateSyntax("A")
		assert.False(t, ok)
		assert.Equal(t, "rule must start with '='", reason)
	})

	t.Run("empty rule", func(t *testing.T) {
		ok, reason := ValidateSyntax("")
		assert.False(t, ok)
		assert.Equal(t, "empty rule", reason)
	})

	t.Run("double equals", func(t *testing.T) {
		ok, reason := ValidateSyntax("=A=B")
		assert.False(t, ok)
		assert.Equal(t, "unexpected second '='", reason)
	})

	t.Run("negative operand", func(t *testing.T) {
		ok, reason := ValidateSyntax("=A+-5")
		assert.False(t, ok)
		assert.Equal(t, "operand must be a non-negative number", reason)
	})

	t.Run("every accepted rule also parses", func(t *testing.T) {
		for _, rule := range []string{"=A", "=A+10", "=A-0.5", "=|", "=H|", "=x.alt*2"} {
			ok, _ := ValidateSyntax(rule)
			require.True(t, ok, rule)
			_, err := Parse(rule, SideRight)
			require.NoError(t, err, rule)
		}
	})
}

func TestReferencedGlyph(t *testing.T) {
	assert.Equal(t, "A", ReferencedGlyph("=A+10"))
	assert.Equal(t, "H", ReferencedGlyph("=H|"))
	assert.Equal(t, "", ReferencedGlyph("=|"))
	assert.Equal(t, "", ReferencedGlyph("garbage"))
}
