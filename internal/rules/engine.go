package rules

import (
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/clinical-ui-manifest/internal/domain"
)

// ErrInvalidRule is returned by NewEngine for malformed rules.
var ErrInvalidRule = errors.New("invalid rule")

// Engine evaluates rules against clinical summaries. It holds no per-call
// state and is safe for concurrent use.
type Engine struct {
	logger *logrus.Logger
	rules  []Rule
}

// NewEngine creates an engine over rules. Rules are ordered once by priority
// descending with a stable sort, so equal priorities keep the order in which
// they were passed.
func NewEngine(logger *logrus.Logger, rules ...Rule) (*Engine, error) {
	if logger == nil {
		logger = discardLogger()
	}

	seen := make(map[string]bool, len(rules))
	for i, r := range rules {
		if r.Name == "" {
			return nil, fmt.Errorf("%w: rule %d has no name", ErrInvalidRule, i)
		}
		if seen[r.Name] {
			return nil, fmt.Errorf("%w: duplicate rule name %q", ErrInvalidRule, r.Name)
		}
		seen[r.Name] = true
		if r.Condition == nil {
			return nil, fmt.Errorf("%w: rule %q has no condition", ErrInvalidRule, r.Name)
		}
		for j, a := range r.Actions {
			if a == nil {
				return nil, fmt.Errorf("%w: rule %q action %d is nil", ErrInvalidRule, r.Name, j)
			}
		}
	}

	sorted := make([]Rule, len(rules))
	copy(sorted, rules)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Priority > sorted[j].Priority
	})

	return &Engine{logger: logger, rules: sorted}, nil
}

// NewDefaultEngine creates an engine holding the built-in rule set.
func NewDefaultEngine(logger *logrus.Logger) (*Engine, error) {
	return NewEngine(logger, DefaultRules()...)
}

// Rules returns the rules in evaluation order.
func (e *Engine) Rules() []Rule {
	out := make([]Rule, len(e.rules))
	copy(out, e.rules)
	return out
}

// Apply evaluates every rule in priority order and returns the ordered
// component specifications. The returned order is final display order.
func (e *Engine) Apply(s *domain.ClinicalSummary) []Spec {
	var specs []Spec

	for _, rule := range e.rules {
		if !rule.Condition.Matches(s) {
			continue
		}

		before := len(specs)
		for _, action := range rule.Actions {
			specs = action.apply(specs, s, rule.Name)
		}

		e.logger.WithFields(logrus.Fields{
			"rule":        rule.Name,
			"priority":    rule.Priority,
			"specs_added": len(specs) - before,
		}).Debug("Rule matched")
	}

	return specs
}

func discardLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}
