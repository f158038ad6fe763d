package rules

// Host is the contract the engine needs from the glyph store it serves.
// The engine only ever reads through it; margin writes during a cascade are
// driven by the editing layer. Margin returns false when the glyph does not
// exist or the side has no determinate value (empty glyph).
type Host interface {
	HasGlyph(name string) bool
	Margin(name string, side Side) (float64, bool)
	SetMargin(name string, side Side, value float64) error
}

// MetricLookup is the read-only slice of Host the Evaluator needs. It must
// return the currently stored metric and never trigger rule evaluation
// itself; multi-hop correctness comes from cascade order, not recursion.
type MetricLookup func(glyph string, side Side) (float64, bool)
