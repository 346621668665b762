package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"go.yaml.in/yaml/v3"
)

// ErrEmptyInput is returned when a summary document has no content.
var ErrEmptyInput = errors.New("empty summary document")

// SummaryParser decodes clinical summaries from JSON or YAML documents and
// validates them before they reach the rules engine.
type SummaryParser struct {
	maxBytes int
}

// NewSummaryParser creates a parser that rejects documents larger than
// maxBytes. A non-positive maxBytes disables the limit.
func NewSummaryParser(maxBytes int) *SummaryParser {
	return &SummaryParser{maxBytes: maxBytes}
}

// Parse decodes and validates a summary. JSON input is decoded directly;
// anything else is read as YAML and converted to JSON first, so field names
// and enum normalization are the same for both formats.
func (p *SummaryParser) Parse(data []byte) (*ClinicalSummary, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, ErrEmptyInput
	}
	if p.maxBytes > 0 && len(data) > p.maxBytes {
		return nil, fmt.Errorf("summary document is %d bytes, limit is %d", len(data), p.maxBytes)
	}

	if !json.Valid(data) {
		converted, err := yamlToJSON(data)
		if err != nil {
			return nil, err
		}
		data = converted
	}

	var summary ClinicalSummary
	if err := json.Unmarshal(data, &summary); err != nil {
		return nil, fmt.Errorf("failed to decode summary: %w", err)
	}
	if err := summary.Validate(); err != nil {
		return nil, err
	}
	return &summary, nil
}

// ParseFile reads and parses a summary document from path.
func (p *SummaryParser) ParseFile(path string) (*ClinicalSummary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read summary %s: %w", path, err)
	}
	return p.Parse(data)
}

func yamlToJSON(data []byte) ([]byte, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse summary YAML: %w", err)
	}

	normalized, err := normalizeYAML(raw)
	if err != nil {
		return nil, err
	}

	out, err := json.Marshal(normalized)
	if err != nil {
		return nil, fmt.Errorf("failed to convert summary YAML: %w", err)
	}
	return out, nil
}

// normalizeYAML converts YAML-decoded values into JSON-compatible ones.
func normalizeYAML(v any) (any, error) {
	switch val := v.(type) {
	case map[string]any:
		m := make(map[string]any, len(val))
		for k, item := range val {
			n, err := normalizeYAML(item)
			if err != nil {
				return nil, err
			}
			m[k] = n
		}
		return m, nil
	case map[any]any:
		m := make(map[string]any, len(val))
		for k, item := range val {
			key, ok := k.(string)
			if !ok {
				return nil, fmt.Errorf("summary YAML has non-string key %v", k)
			}
			n, err := normalizeYAML(item)
			if err != nil {
				return nil, err
			}
			m[key] = n
		}
		return m, nil
	case []any:
		a := make([]any, len(val))
		for i, item := range val {
			n, err := normalizeYAML(item)
			if err != nil {
				return nil, err
			}
			a[i] = n
		}
		return a, nil
	default:
		return val, nil
	}
}
