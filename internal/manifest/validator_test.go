package manifest

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinical-ui-manifest/internal/components"
)

func TestValidate_GeneratedManifestIsValid(t *testing.T) {
	g := newTestGenerator(t)
	m := g.Generate(criticalSummary())

	result := g.Validate(m)
	assert.True(t, result.IsValid, "errors: %v", result.Errors)
	assert.Empty(t, result.Warnings)
}

func TestValidate_AfterJSONRoundTrip(t *testing.T) {
	g := newTestGenerator(t)
	m := g.Generate(criticalSummary())

	data, err := json.Marshal(m)
	require.NoError(t, err)
	var decoded Manifest
	require.NoError(t, json.Unmarshal(data, &decoded))

	result := g.Validate(&decoded)
	assert.True(t, result.IsValid, "errors: %v", result.Errors)
	assert.Len(t, decoded.Items, len(m.Items))
}

func TestValidate_Items(t *testing.T) {
	g := newTestGenerator(t)

	tests := []struct {
		name         string
		item         Item
		wantValid    bool
		wantError    string
		wantWarning  string
		wantSeverity string
	}{
		{
			name:      "Valid divider",
			item:      Item{ID: "a", Type: components.TypeSectionDivider, Version: "1.0.0", Props: map[string]any{"title": "Results"}},
			wantValid: true,
		},
		{
			name:         "Missing required prop",
			item:         Item{ID: "b", Type: components.TypeSectionDivider, Version: "1.0.0", Props: map[string]any{"icon": "check"}},
			wantError:    "invalid props for component SectionDivider (id=b)",
			wantSeverity: SeverityError,
		},
		{
			name:         "Unknown type",
			item:         Item{ID: "c", Type: "Carousel", Version: "1.0.0", Props: map[string]any{}},
			wantError:    "unknown component type: Carousel (id=c)",
			wantSeverity: SeverityError,
		},
		{
			name:         "Version mismatch",
			item:         Item{ID: "d", Type: components.TypeSectionDivider, Version: "0.9.0", Props: map[string]any{"title": "Old"}},
			wantValid:    true,
			wantWarning:  "component SectionDivider version mismatch: manifest has 0.9.0, current is 1.0.0",
			wantSeverity: SeverityWarning,
		},
		{
			name: "Semantic violation",
			item: Item{ID: "e", Type: components.TypeCriticalAlert, Version: "1.0.0", Props: components.CriticalAlertProps{
				Findings:     []components.CriticalFinding{{TestName: "Potassium", Value: "6.8", Status: "CRITICAL"}},
				UrgencyLevel: "LOW",
			}},
			wantError:    "urgency_level",
			wantSeverity: SeverityError,
		},
		{
			name:         "Missing id",
			item:         Item{Type: components.TypeSectionDivider, Version: "1.0.0", Props: map[string]any{"title": "x"}},
			wantError:    "component SectionDivider has no id",
			wantSeverity: SeverityError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &Manifest{SchemaVersion: SchemaVersion, Items: []Item{tt.item}}
			result := g.Validate(m)

			assert.Equal(t, tt.wantValid, result.IsValid)
			assert.Len(t, m.Items, 1)
			if tt.wantError != "" {
				require.Len(t, result.Errors, 1)
				assert.Contains(t, result.Errors[0], tt.wantError)
			} else {
				assert.Empty(t, result.Errors)
			}
			if tt.wantWarning != "" {
				require.Len(t, result.Warnings, 1)
				assert.Equal(t, tt.wantWarning, result.Warnings[0])
			}
			if tt.wantSeverity != "" {
				require.Len(t, result.Issues, 1)
				assert.Equal(t, tt.wantSeverity, result.Issues[0].Severity)
				assert.Equal(t, tt.item.Type, result.Issues[0].ComponentType)
			}
		})
	}
}

func TestValidate_DuplicateIDs(t *testing.T) {
	registry, err := components.DefaultRegistry()
	require.NoError(t, err)

	item := Item{ID: "same", Type: components.TypeSectionDivider, Version: "1.0.0", Props: components.SectionDividerProps{Title: "x"}}
	result := Validate(registry, &Manifest{Items: []Item{item, item}})

	assert.False(t, result.IsValid)
	assert.Equal(t, []string{"duplicate component id: same"}, result.Errors)
}

func TestValidate_SchemaVersionAndNil(t *testing.T) {
	registry, err := components.DefaultRegistry()
	require.NoError(t, err)

	result := Validate(registry, &Manifest{SchemaVersion: "2.0.0", Items: []Item{}})
	assert.True(t, result.IsValid)
	assert.Equal(t, []string{"manifest schema version 2.0.0 differs from current 1.0.0"}, result.Warnings)

	result = Validate(registry, nil)
	assert.False(t, result.IsValid)
}
