package rules

// Plan returns the glyphs to recompute, in dependency order, after the given
// glyph's stored metric changes. The changed glyph itself is excluded; its
// own rules (a symmetry pairing with the edited side, say) are the editing
// layer's concern before the cascade runs.
//
// Depth-first post-order over the reverse-dependency edges, then reversed,
// so every dependency precedes its dependents: for A <- B <- C, Plan("A")
// is [B, C]. Shared dependents reached via multiple paths appear once.
// Glyphs on a cycle are included but their relative order is advisory;
// callers should have rejected cyclic rule sets via Validate first.
func (m *Manager) Plan(glyph string) []string {
	var order []string
	visited := make(map[string]bool)

	var visit func(name string)
	visit = func(name string) {
		if visited[name] {
			return
		}
		visited[name] = true
		for _, dep := range sortedKeys(m.Dependents(name)) {
			visit(dep)
		}
		order = append(order, name)
	}

	for _, dep := range sortedKeys(m.Dependents(glyph)) {
		if dep == glyph {
			continue
		}
		visit(dep)
	}

	// Post-order collected dependents-first; flip so dependencies come
	// first, and drop the changed glyph if a cycle pulled it back in.
	out := make([]string, 0, len(order))
	for i := len(order) - 1; i >= 0; i-- {
		if order[i] == glyph {
			continue
		}
		out = append(out, order[i])
	}
	return out
}

// Affected returns every glyph whose margins transitively depend on the
// given glyph, without ordering guarantees.
func (m *Manager) Affected(glyph string) map[string]bool {
	result := make(map[string]bool)
	queue := []string{glyph}
	for len(queue) > 0 {
		current := queue[len(queue)-1]
		queue = queue[:len(queue)-1]
		for dep := range m.Dependents(current) {
			if !result[dep] {
				result[dep] = true
				queue = append(queue, dep)
			}
		}
	}
	return result
}
