// Package manifest turns clinical summaries into ordered UI manifests and
// validates manifests against the component registry.
package manifest

import (
	"errors"
	"fmt"
	"strings"

	"github.com/clinical-ui-manifest/internal/components"
)

// SchemaVersion is the version of the manifest wire format.
const SchemaVersion = "1.0.0"

// Severities of validation issues.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
)

// Item is one component instance in a manifest.
type Item struct {
	ID             string                   `json:"id"`
	Type           components.ComponentType `json:"type"`
	Version        string                   `json:"version"`
	Props          any                      `json:"props"`
	RenderingHints map[string]any           `json:"renderingHints"`
}

// ValidationIssue is a validation finding attached to one item.
type ValidationIssue struct {
	ComponentID   string                   `json:"componentId"`
	ComponentType components.ComponentType `json:"componentType"`
	Message       string                   `json:"message"`
	Severity      string                   `json:"severity"`
}

// Manifest is the ordered list of components a client renders top to bottom.
type Manifest struct {
	SchemaVersion    string            `json:"schemaVersion"`
	GeneratedAt      string            `json:"generatedAt"`
	Items            []Item            `json:"items"`
	ValidationErrors []ValidationIssue `json:"validationErrors"`
	Warnings         []string          `json:"warnings"`
}

// ValidationResult is the outcome of validating a manifest.
type ValidationResult struct {
	IsValid  bool              `json:"isValid"`
	Errors   []string          `json:"errors"`
	Warnings []string          `json:"warnings"`
	Issues   []ValidationIssue `json:"issues,omitempty"`
}

// ErrEmptyManifest is matched by errors.Is for *EmptyManifestError.
var ErrEmptyManifest = errors.New("manifest has no components")

// Errors recorded as generation warnings when an item is skipped.
var (
	ErrUnknownComponent = errors.New("unknown component type")
	ErrPropsGeneration  = errors.New("props generation failed")
)

// EmptyManifestError is returned when no component survived generation. It
// carries the generation warnings that explain why.
type EmptyManifestError struct {
	Warnings []string
}

func (e *EmptyManifestError) Error() string {
	if len(e.Warnings) == 0 {
		return ErrEmptyManifest.Error()
	}
	return fmt.Sprintf("%s: %s", ErrEmptyManifest, strings.Join(e.Warnings, "; "))
}

// Is reports whether target is ErrEmptyManifest.
func (e *EmptyManifestError) Is(target error) bool {
	return target == ErrEmptyManifest
}
