package components

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	r, err := DefaultRegistry()
	require.NoError(t, err)
	return r
}

func TestDefaultRegistry(t *testing.T) {
	r := newTestRegistry(t)

	assert.Equal(t, 15, r.Len())
	for _, typ := range []ComponentType{
		TypeInsightHeader, TypeCriticalAlert, TypeMetricAccordion, TypeReassuranceGrid,
		TypeActionTimeline, TypeGuidelineTable, TypeCorrelationMap, TypeAbnormalCard,
		TypeHealthScoreHeader, TypeFollowUpTable, TypeLifestyleTable, TypeMetricCard,
		TypeTrendChart, TypeSectionDivider, TypeNormalList,
	} {
		d, ok := r.Get(typ)
		require.True(t, ok, "missing %s", typ)
		assert.Equal(t, "1.0.0", d.Version)
		assert.NotEmpty(t, d.DisplayName)
		assert.NotEmpty(t, d.PropsSchema())
	}

	_, ok := r.Get("Carousel")
	assert.False(t, ok)
	assert.False(t, r.Has("Carousel"))
}

func TestRegistry_List(t *testing.T) {
	r := newTestRegistry(t)

	all := r.List()
	require.Len(t, all, 15)
	assert.Equal(t, TypeInsightHeader, all[0].Type)
	assert.Equal(t, TypeNormalList, all[14].Type)

	headers := r.List(CategoryHeader)
	require.Len(t, headers, 3)
	assert.Equal(t, TypeInsightHeader, headers[0].Type)
	assert.Equal(t, TypeHealthScoreHeader, headers[1].Type)
	assert.Equal(t, TypeSectionDivider, headers[2].Type)

	tablesAndGrids := r.List(CategoryTable, CategoryGrid)
	assert.Len(t, tablesAndGrids, 5)

	assert.Empty(t, r.List("Carousel"))
}

func TestRegistry_GetReturnsCopies(t *testing.T) {
	r := newTestRegistry(t)

	d, ok := r.Get(TypeMetricAccordion)
	require.True(t, ok)
	d.RenderingHints["position"] = "bottom"
	d.RenderingHints["status_colors"].(map[string]any)["HIGH"] = "pink"
	d.Version = "9.9.9"

	again, _ := r.Get(TypeMetricAccordion)
	assert.Equal(t, "middle", again.RenderingHints["position"])
	assert.Equal(t, "orange-500", again.RenderingHints["status_colors"].(map[string]any)["HIGH"])
	assert.Equal(t, "1.0.0", again.Version)
}

func TestNewRegistry_Rejects(t *testing.T) {
	valid := Define[SectionDividerProps](Definition{
		Type:     TypeSectionDivider,
		Version:  "1.0.0",
		Category: CategoryHeader,
	})

	tests := []struct {
		name    string
		defs    []Definition
		wantErr error
	}{
		{
			name:    "Duplicate type",
			defs:    []Definition{valid, valid},
			wantErr: ErrDuplicateComponent,
		},
		{
			name: "Two-part version",
			defs: []Definition{Define[SectionDividerProps](Definition{
				Type: TypeSectionDivider, Version: "1.0", Category: CategoryHeader,
			})},
			wantErr: ErrInvalidVersion,
		},
		{
			name: "Prefixed version",
			defs: []Definition{Define[SectionDividerProps](Definition{
				Type: TypeSectionDivider, Version: "v1.0.0", Category: CategoryHeader,
			})},
			wantErr: ErrInvalidVersion,
		},
		{
			name: "Props bound to another type",
			defs: []Definition{Define[NormalListProps](Definition{
				Type: TypeSectionDivider, Version: "1.0.0", Category: CategoryHeader,
			})},
			wantErr: ErrInvalidDefinition,
		},
		{
			name:    "Not built with Define",
			defs:    []Definition{{Type: TypeSectionDivider, Version: "1.0.0", Category: CategoryHeader}},
			wantErr: ErrInvalidDefinition,
		},
		{
			name: "Unknown category",
			defs: []Definition{Define[SectionDividerProps](Definition{
				Type: TypeSectionDivider, Version: "1.0.0", Category: "Carousel",
			})},
			wantErr: ErrInvalidDefinition,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRegistry(tt.defs...)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
		})
	}
}

func TestRegistry_ExportSchema(t *testing.T) {
	r := newTestRegistry(t)

	export := r.ExportSchema()
	require.Len(t, export, 15)

	abnormal := export["AbnormalCard"]
	assert.Equal(t, "AbnormalCard", abnormal.ComponentName)
	assert.Equal(t, CategoryCard, abnormal.Category)
	assert.Equal(t, []string{"Use MetricAccordion instead for better UX"}, abnormal.Deprecations)
	assert.NotNil(t, abnormal.BreakingChanges)

	var schema map[string]any
	require.NoError(t, json.Unmarshal(export["SectionDivider"].PropsSchema, &schema))
	assert.Equal(t, "object", schema["type"])
	props, ok := schema["properties"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, props, "title")
	assert.Contains(t, props, "icon")
	assert.Contains(t, schema["required"], "title")
	assert.NotContains(t, schema["required"], "icon")

	data, err := json.Marshal(export)
	require.NoError(t, err)
	var wire map[string]map[string]any
	require.NoError(t, json.Unmarshal(data, &wire))
	for _, key := range []string{"componentName", "version", "displayName", "category", "visualRole",
		"description", "propsSchema", "renderingHints", "deprecations", "breakingChanges"} {
		assert.Contains(t, wire["CriticalAlert"], key)
	}
}

func TestRegistry_ExportByCategory(t *testing.T) {
	r := newTestRegistry(t)

	alerts := r.Export(CategoryAlert)
	require.Len(t, alerts, 1)
	assert.Equal(t, "CriticalAlert", alerts[0].ComponentName)
}

func TestDefinition_ValidateProps(t *testing.T) {
	r := newTestRegistry(t)
	divider, _ := r.Get(TypeSectionDivider)
	alert, _ := r.Get(TypeCriticalAlert)

	assert.NoError(t, divider.ValidateProps(SectionDividerProps{Title: "Good News"}))
	assert.NoError(t, divider.ValidateProps(map[string]any{"title": "Good News", "icon": "check"}))

	err := divider.ValidateProps(map[string]any{"icon": "check"})
	assert.Error(t, err, "missing required title must fail")

	err = divider.ValidateProps(map[string]any{"title": 42})
	assert.Error(t, err, "wrong type must fail")

	err = divider.ValidateProps(SectionDividerProps{Title: "   "})
	assert.True(t, errors.Is(err, ErrInvalidProps))

	err = alert.ValidateProps(CriticalAlertProps{
		Findings:     []CriticalFinding{{TestName: "Potassium", Value: "6.8", WarningText: "Arrhythmia risk", Status: "CRITICAL"}},
		UrgencyLevel: "CRITICAL",
	})
	assert.NoError(t, err)

	err = alert.ValidateProps(CriticalAlertProps{
		Findings:     []CriticalFinding{{TestName: "Potassium", Value: "6.8", WarningText: "Arrhythmia risk", Status: "CRITICAL"}},
		UrgencyLevel: "MILD",
	})
	assert.True(t, errors.Is(err, ErrInvalidProps))
}

func TestDefine_DecodesIntoTypedProps(t *testing.T) {
	r, err := NewRegistry(Define[MetricCardProps](Definition{
		Type:     TypeMetricCard,
		Version:  "1.0.0",
		Category: CategoryCard,
	}))
	require.NoError(t, err)

	card, ok := r.Get(TypeMetricCard)
	require.True(t, ok)

	assert.NoError(t, card.ValidateProps(map[string]any{"label": "LDL", "value": "160", "status": "HIGH"}))
	assert.NoError(t, card.ValidateProps(MetricCardProps{Label: "LDL", Value: "160", Status: "HIGH"}))

	// passes the schema, fails the typed semantic check
	err = card.ValidateProps(map[string]any{"label": " ", "value": "160", "status": "HIGH"})
	assert.True(t, errors.Is(err, ErrInvalidProps), "got %v", err)
}

func TestRegistry_ConcurrentReads(t *testing.T) {
	r := newTestRegistry(t)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				d, ok := r.Get(TypeReassuranceGrid)
				if !ok {
					t.Error("ReassuranceGrid not found")
					return
				}
				d.RenderingHints["columns"] = j
				_ = r.ExportSchema()
			}
		}()
	}
	wg.Wait()

	d, _ := r.Get(TypeReassuranceGrid)
	assert.Equal(t, 3, d.RenderingHints["columns"])
}

func TestMergeHints(t *testing.T) {
	base := map[string]any{"position": "bottom", "columns": 3}
	merged := MergeHints(base, map[string]any{"position": "top"})

	assert.Equal(t, "top", merged["position"])
	assert.Equal(t, 3, merged["columns"])
	assert.Equal(t, "bottom", base["position"])

	assert.Equal(t, map[string]any{"grouped": true}, MergeHints(nil, map[string]any{"grouped": true}))
}

func TestDefinition_BreakingChangesSince(t *testing.T) {
	d := Define[SectionDividerProps](Definition{
		Type:     TypeSectionDivider,
		Version:  "2.1.0",
		Category: CategoryHeader,
		BreakingChanges: map[string]string{
			"3.0.0": "unreleased",
			"2.0.0": "title is required",
			"1.5.0": "icon renamed",
			"0.9.0": "initial rewrite",
		},
	})

	assert.Equal(t, []string{"1.5.0: icon renamed", "2.0.0: title is required"}, d.BreakingChangesSince("1.0.0"))
	assert.Equal(t, []string{"2.0.0: title is required"}, d.BreakingChangesSince("1.5.0"))
	assert.Empty(t, d.BreakingChangesSince("2.1.0"))
	assert.Nil(t, d.BreakingChangesSince("not-a-version"))
}
