package manifest

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/clinical-ui-manifest/internal/components"
)

// Validate checks every item of m against the registry. It never drops or
// modifies items.
func (g *Generator) Validate(m *Manifest) ValidationResult {
	return validate(g.registry, g.logger, m)
}

// Validate checks m against registry without a generator.
func Validate(registry *components.Registry, m *Manifest) ValidationResult {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return validate(registry, logger, m)
}

func validate(registry *components.Registry, logger *logrus.Logger, m *Manifest) ValidationResult {
	result := ValidationResult{IsValid: true, Errors: []string{}, Warnings: []string{}}
	if m == nil {
		result.IsValid = false
		result.Errors = append(result.Errors, "manifest is nil")
		return result
	}

	if m.SchemaVersion != "" && m.SchemaVersion != SchemaVersion {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("manifest schema version %s differs from current %s", m.SchemaVersion, SchemaVersion))
	}

	seen := make(map[string]bool, len(m.Items))
	for _, item := range m.Items {
		if item.ID == "" {
			result.addError(item, fmt.Sprintf("component %s has no id", item.Type))
		} else if seen[item.ID] {
			result.addError(item, fmt.Sprintf("duplicate component id: %s", item.ID))
		}
		seen[item.ID] = true

		def, ok := registry.Get(item.Type)
		if !ok {
			result.addError(item, fmt.Sprintf("unknown component type: %s (id=%s)", item.Type, item.ID))
			continue
		}

		if item.Version != def.Version {
			result.addWarning(item, fmt.Sprintf("component %s version mismatch: manifest has %s, current is %s",
				item.Type, item.Version, def.Version))
			for _, note := range def.BreakingChangesSince(item.Version) {
				result.addWarning(item, fmt.Sprintf("component %s breaking change in %s", item.Type, note))
			}
		}

		if err := def.ValidateProps(item.Props); err != nil {
			result.addError(item, fmt.Sprintf("invalid props for component %s (id=%s): %v", item.Type, item.ID, err))
		}
	}

	result.IsValid = len(result.Errors) == 0

	logger.WithFields(logrus.Fields{
		"items":    len(m.Items),
		"errors":   len(result.Errors),
		"warnings": len(result.Warnings),
	}).Debug("Validated UI manifest")

	return result
}

func (r *ValidationResult) addError(item Item, msg string) {
	r.Errors = append(r.Errors, msg)
	r.Issues = append(r.Issues, ValidationIssue{
		ComponentID:   item.ID,
		ComponentType: item.Type,
		Message:       msg,
		Severity:      SeverityError,
	})
}

func (r *ValidationResult) addWarning(item Item, msg string) {
	r.Warnings = append(r.Warnings, msg)
	r.Issues = append(r.Issues, ValidationIssue{
		ComponentID:   item.ID,
		ComponentType: item.Type,
		Message:       msg,
		Severity:      SeverityWarning,
	})
}
