package rules

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ParseError is returned when a rule string matches none of the recognized
// forms. It is always surfaced synchronously; malformed rules are never
// stored by SetRule.
type ParseError struct {
	Rule   string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid rule syntax %q: %s", e.Rule, e.Reason)
}

// Glyph names start with a letter or underscore and may contain letters,
// digits, underscores and dots (dotted suffix variants like A.sc).
const glyphNamePattern = `[A-Za-z_][A-Za-z0-9_.]*`

// Recognized rule forms. Order matters: the more specific patterns are
// tried first.
var (
	reSymmetry   = regexp.MustCompile(`^=\|$`)
	reOpposite   = regexp.MustCompile(`^=(` + glyphNamePattern + `)\|$`)
	reArithmetic = regexp.MustCompile(`^=(` + glyphNamePattern + `)([+\-*/])(\d+(?:\.\d+)?)$`)
	reSimple     = regexp.MustCompile(`^=(` + glyphNamePattern + `)$`)
)

// Parse turns a rule string into a ParsedRule, or fails with *ParseError.
//
// Forms, in precedence order:
//
//	=|          symmetry: mirror the opposite side of the same glyph
//	=G|         opposite side of glyph G
//	=G<op><n>   G's same-side value combined with a non-negative number
//	=G          copy G's same-side value
//
// targetSide only influences how SourceOpposite resolves later; the parse
// itself is side-independent.
func Parse(rule string, targetSide Side) (ParsedRule, error) {
	if rule == "" {
		return ParsedRule{}, &ParseError{Rule: rule, Reason: "empty rule"}
	}
	if !strings.HasPrefix(rule, "=") {
		return ParsedRule{}, &ParseError{Rule: rule, Reason: "rule must start with '='"}
	}

	if reSymmetry.MatchString(rule) {
		return ParsedRule{SourceSide: SourceSame, IsSymmetry: true}, nil
	}

	if m := reOpposite.FindStringSubmatch(rule); m != nil {
		return ParsedRule{SourceGlyph: m[1], SourceSide: SourceOpposite}, nil
	}

	if m := reArithmetic.FindStringSubmatch(rule); m != nil {
		operand, err := strconv.ParseFloat(m[3], 64)
		if err != nil {
			return ParsedRule{}, &ParseError{Rule: rule, Reason: "operand is not a number"}
		}
		return ParsedRule{
			SourceGlyph: m[1],
			SourceSide:  SourceSame,
			Operator:    Op(m[2]),
			Operand:     operand,
		}, nil
	}

	if m := reSimple.FindStringSubmatch(rule); m != nil {
		return ParsedRule{SourceGlyph: m[1], SourceSide: SourceSame}, nil
	}

	return ParsedRule{}, &ParseError{Rule: rule, Reason: diagnose(rule)}
}

var (
	reBadOperand = regexp.MustCompile(`^(` + glyphNamePattern + `)[+\-*/]`)
	reNamePrefix = regexp.MustCompile(`^(` + glyphNamePattern + `)`)
	reDigitStart = regexp.MustCompile(`^[0-9]`)
)

// diagnose produces a more specific reason for strings that start with '='
// but match no form. Purely advisory; the caller already knows the rule is
// invalid.
func diagnose(rule string) string {
	body := rule[1:]
	switch {
	case body == "":
		return "missing glyph name after '='"
	case strings.Contains(body, "="):
		return "unexpected second '='"
	case strings.IndexAny(body, "+-*/") == 0:
		return "missing glyph name before operator"
	case reBadOperand.MatchString(body):
		return "operand must be a non-negative number"
	case reNamePrefix.MatchString(body):
		return "unexpected trailing characters after glyph name"
	case reDigitStart.MatchString(body):
		return "glyph name must start with a letter or underscore"
	default:
		return "unrecognized rule form"
	}
}

// ValidateSyntax checks a rule string without constructing a ParsedRule.
// It returns (true, "") for valid rules and (false, reason) otherwise.
// target side never affects syntactic validity.
func ValidateSyntax(rule string) (bool, string) {
	if _, err := Parse(rule, SideLeft); err != nil {
		var pe *ParseError
		if errors.As(err, &pe) {
			return false, pe.Reason
		}
		return false, err.Error()
	}
	return true, ""
}

// ReferencedGlyph extracts the glyph a rule reads from, or "" for symmetry
// and malformed rules.
func ReferencedGlyph(rule string) string {
	parsed, err := Parse(rule, SideLeft)
	if err != nil {
		return ""
	}
	return parsed.SourceGlyph
}
