// Package rules implements the declarative, priority-ordered rules engine that
// decides which UI components a clinical summary produces and in what order.
package rules

import (
	"github.com/clinical-ui-manifest/internal/components"
	"github.com/clinical-ui-manifest/internal/domain"
)

// Condition is a pure predicate over a clinical summary.
type Condition interface {
	Matches(s *domain.ClinicalSummary) bool
}

// ConditionFunc adapts a plain function to Condition.
type ConditionFunc func(s *domain.ClinicalSummary) bool

// Matches implements Condition.
func (f ConditionFunc) Matches(s *domain.ClinicalSummary) bool {
	return f(s)
}

// PropsGenerator computes typed props for one component from the summary.
// Implementations must not mutate the summary.
type PropsGenerator interface {
	Generate(s *domain.ClinicalSummary) (components.Props, error)
}

// PropsFunc adapts a plain function to PropsGenerator.
type PropsFunc func(s *domain.ClinicalSummary) (components.Props, error)

// Generate implements PropsGenerator.
func (f PropsFunc) Generate(s *domain.ClinicalSummary) (components.Props, error) {
	return f(s)
}

// Static returns a generator that always yields p.
func Static(p components.Props) PropsGenerator {
	return PropsFunc(func(*domain.ClinicalSummary) (components.Props, error) {
		return p, nil
	})
}

// Spec is one ordered component specification produced by the engine. Props
// are computed later by the manifest generator.
type Spec struct {
	Rule  string
	Type  components.ComponentType
	Props PropsGenerator
	Hints map[string]any
}

// Rule is a named condition with a priority and the actions it triggers.
// Higher priorities are evaluated first; equal priorities keep declaration
// order.
type Rule struct {
	Name      string
	Priority  int
	Condition Condition
	Actions   []Action
}

// Action is one unit of manifest construction triggered by a matching rule.
// The set of actions is closed: Prepend, Append, ExpandOverCollection and
// Group.
type Action interface {
	apply(specs []Spec, s *domain.ClinicalSummary, rule string) []Spec
}

// ActionOption customizes an action.
type ActionOption func(*actionOptions)

type actionOptions struct {
	hints map[string]any
}

// WithHints sets rendering hints that override the registry's hints for the
// components emitted by the action.
func WithHints(hints map[string]any) ActionOption {
	return func(o *actionOptions) {
		o.hints = components.CloneHints(hints)
	}
}

func buildOptions(opts []ActionOption) actionOptions {
	var o actionOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Placement controls where a fixed action inserts its component.
type Placement int

const (
	// PlacementAppend inserts at the current end of the list.
	PlacementAppend Placement = iota
	// PlacementPrepend inserts at index 0 of the list built so far, so the
	// last prepend evaluated ends up first.
	PlacementPrepend
)

// String returns the placement name.
func (p Placement) String() string {
	if p == PlacementPrepend {
		return "prepend"
	}
	return "append"
}

type fixedAction struct {
	placement     Placement
	componentType components.ComponentType
	props         PropsGenerator
	hints         map[string]any
}

// Prepend emits exactly one component at index 0 of the list built so far.
func Prepend(t components.ComponentType, props PropsGenerator, opts ...ActionOption) Action {
	o := buildOptions(opts)
	return fixedAction{placement: PlacementPrepend, componentType: t, props: props, hints: o.hints}
}

// Append emits exactly one component at the current end of the list.
func Append(t components.ComponentType, props PropsGenerator, opts ...ActionOption) Action {
	o := buildOptions(opts)
	return fixedAction{placement: PlacementAppend, componentType: t, props: props, hints: o.hints}
}

func (a fixedAction) apply(specs []Spec, _ *domain.ClinicalSummary, rule string) []Spec {
	spec := Spec{Rule: rule, Type: a.componentType, Props: a.props, Hints: a.hints}
	if a.placement == PlacementPrepend {
		return append([]Spec{spec}, specs...)
	}
	return append(specs, spec)
}

type expandAction[T any] struct {
	selector      func(*domain.ClinicalSummary) []T
	componentType components.ComponentType
	itemProps     func(*domain.ClinicalSummary, T) (components.Props, error)
	hints         map[string]any
}

// ExpandOverCollection emits one component per element returned by selector,
// in the collection's order, appended as one contiguous block.
func ExpandOverCollection[T any](
	selector func(*domain.ClinicalSummary) []T,
	itemType components.ComponentType,
	itemProps func(*domain.ClinicalSummary, T) (components.Props, error),
	opts ...ActionOption,
) Action {
	o := buildOptions(opts)
	return expandAction[T]{selector: selector, componentType: itemType, itemProps: itemProps, hints: o.hints}
}

func (a expandAction[T]) apply(specs []Spec, s *domain.ClinicalSummary, rule string) []Spec {
	for _, item := range a.selector(s) {
		item := item
		specs = append(specs, Spec{
			Rule: rule,
			Type: a.componentType,
			Props: PropsFunc(func(s *domain.ClinicalSummary) (components.Props, error) {
				return a.itemProps(s, item)
			}),
			Hints: a.hints,
		})
	}
	return specs
}

// FindingSelector picks findings out of a summary.
type FindingSelector func(s *domain.ClinicalSummary) []domain.Finding

type groupAction struct {
	selector      FindingSelector
	threshold     int
	componentType components.ComponentType
	props         func(*domain.ClinicalSummary, []domain.Finding) (components.Props, error)
	hints         map[string]any
}

// Group emits one merged component when selector matches more than
// threshold findings. The props function receives the matched findings in
// source order.
func Group(
	selector FindingSelector,
	threshold int,
	t components.ComponentType,
	props func(*domain.ClinicalSummary, []domain.Finding) (components.Props, error),
	opts ...ActionOption,
) Action {
	o := buildOptions(opts)
	return groupAction{selector: selector, threshold: threshold, componentType: t, props: props, hints: o.hints}
}

func (a groupAction) apply(specs []Spec, s *domain.ClinicalSummary, rule string) []Spec {
	if len(a.selector(s)) <= a.threshold {
		return specs
	}
	return append(specs, Spec{
		Rule: rule,
		Type: a.componentType,
		Props: PropsFunc(func(s *domain.ClinicalSummary) (components.Props, error) {
			return a.props(s, a.selector(s))
		}),
		Hints: a.hints,
	})
}
