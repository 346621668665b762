package components

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/Masterminds/semver/v3"
	"github.com/google/jsonschema-go/jsonschema"
)

// Registry errors
var (
	ErrDuplicateComponent = errors.New("duplicate component type")
	ErrInvalidVersion     = errors.New("invalid component version")
	ErrInvalidDefinition  = errors.New("invalid component definition")
)

// Definition is the registry entry of one component type.
type Definition struct {
	Type            ComponentType
	Version         string
	DisplayName     string
	VisualRole      string
	Description     string
	Category        Category
	RenderingHints  map[string]any
	Deprecations    []string
	BreakingChanges map[string]string

	schemaFor func(*jsonschema.ForOptions) (*jsonschema.Schema, error)
	newProps  func() Props
	decode    func([]byte) (Props, error)
	schema    json.RawMessage
	resolved  *jsonschema.Resolved
}

// Define binds a definition to its typed prop structure P. The prop schema
// is inferred from P when the registry is built.
func Define[P Props](d Definition) Definition {
	d.schemaFor = jsonschema.For[P]
	d.newProps = func() Props {
		var p P
		return p
	}
	d.decode = func(data []byte) (Props, error) {
		var p P
		if err := json.Unmarshal(data, &p); err != nil {
			return nil, err
		}
		return p, nil
	}
	return d
}

// IsDeprecated reports whether the component carries deprecation notices.
func (d Definition) IsDeprecated() bool {
	return len(d.Deprecations) > 0
}

// PropsSchema returns the JSON Schema document of the component's props.
func (d Definition) PropsSchema() json.RawMessage {
	return append(json.RawMessage(nil), d.schema...)
}

// ValidateProps checks props against the component's prop schema and then
// against the typed structure's semantic constraints. props may be the typed
// structure itself or any JSON-compatible value (e.g. a decoded map).
func (d Definition) ValidateProps(props any) error {
	if d.resolved == nil || d.decode == nil {
		return fmt.Errorf("%w: %s has no prop schema", ErrInvalidDefinition, d.Type)
	}

	data, err := json.Marshal(props)
	if err != nil {
		return fmt.Errorf("props are not JSON-encodable: %w", err)
	}

	var instance any
	if err := json.Unmarshal(data, &instance); err != nil {
		return fmt.Errorf("props are not JSON-decodable: %w", err)
	}
	if err := d.resolved.Validate(instance); err != nil {
		return err
	}

	typed, err := d.decode(data)
	if err != nil {
		return fmt.Errorf("props do not decode into %s props: %w", d.Type, err)
	}
	return typed.Validate()
}

// BreakingChangesSince returns the breaking-change notes recorded for versions
// after version and up to the current one, oldest first. It returns nil when
// version does not parse.
func (d Definition) BreakingChangesSince(version string) []string {
	from, err := semver.NewVersion(version)
	if err != nil {
		return nil
	}
	current, err := semver.NewVersion(d.Version)
	if err != nil {
		return nil
	}

	var versions []*semver.Version
	notes := make(map[*semver.Version]string)
	for raw, note := range d.BreakingChanges {
		v, err := semver.NewVersion(raw)
		if err != nil || !v.GreaterThan(from) || v.GreaterThan(current) {
			continue
		}
		versions = append(versions, v)
		notes[v] = note
	}
	sort.Sort(semver.Collection(versions))

	out := make([]string, 0, len(versions))
	for _, v := range versions {
		out = append(out, fmt.Sprintf("%s: %s", v.Original(), notes[v]))
	}
	return out
}

func (d Definition) clone() Definition {
	out := d
	out.RenderingHints = CloneHints(d.RenderingHints)
	out.Deprecations = append([]string(nil), d.Deprecations...)
	if d.BreakingChanges != nil {
		out.BreakingChanges = make(map[string]string, len(d.BreakingChanges))
		for k, v := range d.BreakingChanges {
			out.BreakingChanges[k] = v
		}
	}
	return out
}

// Registry is the immutable component catalog. It is safe for concurrent use.
type Registry struct {
	order []ComponentType
	defs  map[ComponentType]Definition
}

// NewRegistry validates the definitions, infers and resolves their prop
// schemas and returns the frozen registry. Declaration order is kept for List.
func NewRegistry(defs ...Definition) (*Registry, error) {
	r := &Registry{
		order: make([]ComponentType, 0, len(defs)),
		defs:  make(map[ComponentType]Definition, len(defs)),
	}

	for _, d := range defs {
		if d.Type == "" {
			return nil, fmt.Errorf("%w: component type is required", ErrInvalidDefinition)
		}
		if _, exists := r.defs[d.Type]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateComponent, d.Type)
		}
		if _, err := semver.StrictNewVersion(d.Version); err != nil {
			return nil, fmt.Errorf("%w: %s has version %q, want MAJOR.MINOR.PATCH: %v", ErrInvalidVersion, d.Type, d.Version, err)
		}
		if !d.Category.IsValid() {
			return nil, fmt.Errorf("%w: %s has unknown category %q", ErrInvalidDefinition, d.Type, d.Category)
		}
		if d.schemaFor == nil || d.newProps == nil || d.decode == nil {
			return nil, fmt.Errorf("%w: %s was not built with Define", ErrInvalidDefinition, d.Type)
		}
		if got := d.newProps().ComponentType(); got != d.Type {
			return nil, fmt.Errorf("%w: %s is bound to %s props", ErrInvalidDefinition, d.Type, got)
		}

		schema, err := d.schemaFor(nil)
		if err != nil {
			return nil, fmt.Errorf("failed to infer prop schema for %s: %w", d.Type, err)
		}
		resolved, err := schema.Resolve(nil)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve prop schema for %s: %w", d.Type, err)
		}
		raw, err := json.Marshal(schema)
		if err != nil {
			return nil, fmt.Errorf("failed to encode prop schema for %s: %w", d.Type, err)
		}

		d = d.clone()
		d.schema = raw
		d.resolved = resolved
		r.defs[d.Type] = d
		r.order = append(r.order, d.Type)
	}

	return r, nil
}

// Get returns the definition of a component type.
func (r *Registry) Get(t ComponentType) (Definition, bool) {
	d, ok := r.defs[t]
	if !ok {
		return Definition{}, false
	}
	return d.clone(), true
}

// Has reports whether the component type is registered.
func (r *Registry) Has(t ComponentType) bool {
	_, ok := r.defs[t]
	return ok
}

// Len returns the number of registered components.
func (r *Registry) Len() int {
	return len(r.order)
}

// List returns definitions in declaration order. When categories are given
// only components in one of them are returned.
func (r *Registry) List(categories ...Category) []Definition {
	out := make([]Definition, 0, len(r.order))
	for _, t := range r.order {
		d := r.defs[t]
		if len(categories) > 0 && !containsCategory(categories, d.Category) {
			continue
		}
		out = append(out, d.clone())
	}
	return out
}

func containsCategory(categories []Category, c Category) bool {
	for _, candidate := range categories {
		if candidate == c {
			return true
		}
	}
	return false
}
