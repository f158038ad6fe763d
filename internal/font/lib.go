package font

import (
	"glyphspace/internal/rules"
)

// RulesLibKey is the lib key the metrics rules blob is stored under.
const RulesLibKey = "com.glyphspace.metricsRules"

// RulesSnapshot decodes the rules blob from the font lib. A missing key, a
// malformed blob or an unrecognized version all come back nil: the engine
// treats that as an empty rule set rather than an error.
func (f *Font) RulesSnapshot() *rules.Snapshot {
	raw, ok := f.Lib[RulesLibKey]
	if !ok {
		return nil
	}
	blob, ok := raw.(map[string]any)
	if !ok {
		return nil
	}
	version, ok := asInt(blob["version"])
	if !ok || version != rules.SnapshotVersion {
		return nil
	}

	snap := &rules.Snapshot{Version: version, Rules: make(rules.RuleSet)}
	rawRules, ok := blob["rules"].(map[string]any)
	if !ok {
		return snap
	}
	for glyph, rawSides := range rawRules {
		sides, ok := rawSides.(map[string]any)
		if !ok {
			continue
		}
		for side, rawRule := range sides {
			rule, ok := rawRule.(string)
			if !ok || !rules.Side(side).Valid() {
				continue
			}
			if snap.Rules[glyph] == nil {
				snap.Rules[glyph] = make(rules.SideRules, 2)
			}
			snap.Rules[glyph][rules.Side(side)] = rule
		}
	}
	return snap
}

// StoreRulesSnapshot writes the rules blob into the font lib, replacing any
// previous value. An empty rule set still writes a blob, so an explicit
// "no rules" state round-trips.
func (f *Font) StoreRulesSnapshot(snap rules.Snapshot) {
	rawRules := make(map[string]any, len(snap.Rules))
	for glyph, sides := range snap.Rules {
		rawSides := make(map[string]any, len(sides))
		for side, rule := range sides {
			rawSides[string(side)] = rule
		}
		rawRules[glyph] = rawSides
	}
	f.Lib[RulesLibKey] = map[string]any{
		"version": snap.Version,
		"rules":   rawRules,
	}
}

// asInt accepts the numeric types YAML decoding may hand back.
func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	default:
		return 0, false
	}
}
