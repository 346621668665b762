package components

import "encoding/json"

// ExportedComponent is the client-facing description of a component, used
// for auto-discovery and client-side prop validation.
type ExportedComponent struct {
	ComponentName   string            `json:"componentName"`
	Version         string            `json:"version"`
	DisplayName     string            `json:"displayName"`
	Category        Category          `json:"category"`
	VisualRole      string            `json:"visualRole"`
	Description     string            `json:"description"`
	PropsSchema     json.RawMessage   `json:"propsSchema"`
	RenderingHints  map[string]any    `json:"renderingHints"`
	Deprecations    []string          `json:"deprecations"`
	BreakingChanges map[string]string `json:"breakingChanges"`
}

// Export returns the exported form of the definition.
func (d Definition) Export() ExportedComponent {
	c := d.clone()
	out := ExportedComponent{
		ComponentName:   string(c.Type),
		Version:         c.Version,
		DisplayName:     c.DisplayName,
		Category:        c.Category,
		VisualRole:      c.VisualRole,
		Description:     c.Description,
		PropsSchema:     d.PropsSchema(),
		RenderingHints:  c.RenderingHints,
		Deprecations:    c.Deprecations,
		BreakingChanges: c.BreakingChanges,
	}
	if out.RenderingHints == nil {
		out.RenderingHints = map[string]any{}
	}
	if out.Deprecations == nil {
		out.Deprecations = []string{}
	}
	if out.BreakingChanges == nil {
		out.BreakingChanges = map[string]string{}
	}
	return out
}

// ExportSchema returns the whole registry keyed by component type.
func (r *Registry) ExportSchema() map[string]ExportedComponent {
	out := make(map[string]ExportedComponent, len(r.order))
	for _, t := range r.order {
		out[string(t)] = r.defs[t].Export()
	}
	return out
}

// Export returns exported components in declaration order, optionally
// filtered by category.
func (r *Registry) Export(categories ...Category) []ExportedComponent {
	defs := r.List(categories...)
	out := make([]ExportedComponent, 0, len(defs))
	for _, d := range defs {
		out = append(out, d.Export())
	}
	return out
}

// CloneHints deep-copies a rendering hints map so callers can never alias
// registry state.
func CloneHints(hints map[string]any) map[string]any {
	if hints == nil {
		return nil
	}
	out := make(map[string]any, len(hints))
	for k, v := range hints {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return CloneHints(t)
	case map[string]string:
		m := make(map[string]string, len(t))
		for k, s := range t {
			m[k] = s
		}
		return m
	case []any:
		s := make([]any, len(t))
		for i, e := range t {
			s[i] = cloneValue(e)
		}
		return s
	case []string:
		return append([]string(nil), t...)
	default:
		return v
	}
}

// MergeHints returns a copy of base with every key of override applied on
// top of it.
func MergeHints(base, override map[string]any) map[string]any {
	out := CloneHints(base)
	if out == nil {
		out = make(map[string]any, len(override))
	}
	for k, v := range override {
		out[k] = cloneValue(v)
	}
	return out
}
