package manifest

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinical-ui-manifest/internal/components"
	"github.com/clinical-ui-manifest/internal/domain"
	"github.com/clinical-ui-manifest/internal/rules"
)

var fixedNow = time.Date(2026, 10, 17, 9, 30, 0, 0, time.FixedZone("CEST", 2*60*60))

func sequentialIDs() func() string {
	var mu sync.Mutex
	n := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("item-%d", n)
	}
}

func newTestGenerator(t *testing.T, opts ...Option) *Generator {
	t.Helper()
	g, err := NewDefaultGenerator(nil, append([]Option{WithClock(func() time.Time { return fixedNow })}, opts...)...)
	require.NoError(t, err)
	return g
}

func newCustomGenerator(t *testing.T, ruleSet ...rules.Rule) *Generator {
	t.Helper()
	registry, err := components.DefaultRegistry()
	require.NoError(t, err)
	engine, err := rules.NewEngine(nil, ruleSet...)
	require.NoError(t, err)
	g, err := NewGenerator(registry, engine, WithIDFunc(sequentialIDs()))
	require.NoError(t, err)
	return g
}

func criticalSummary() *domain.ClinicalSummary {
	return &domain.ClinicalSummary{
		AbnormalFindings: []domain.Finding{
			{Parameter: "Potassium", Value: "6.8", Units: "mmol/L", Status: domain.STATUS_CRITICAL, ClinicalNote: "Arrhythmia risk"},
			{Parameter: "LDL Cholesterol", Value: "190", Status: domain.STATUS_HIGH, Causes: []string{"Diet"}},
			{Parameter: "Troponin I", Value: "2.1", Status: domain.STATUS_CRITICAL, ClinicalNote: "Possible myocardial injury"},
		},
		NormalFindings: []domain.Finding{
			{Parameter: "Sodium", Value: "140", Status: domain.STATUS_NORMAL},
		},
		OverallAssessment: domain.OverallAssessment{RiskLevel: domain.RISK_CRITICAL, KeyConcerns: []string{"Hyperkalemia"}},
		ManagementPlan: domain.ManagementPlan{
			FollowUpTests: []domain.FollowUpTest{{Timeline: "Immediate", TestName: "ECG", Rationale: "Arrhythmia"}},
		},
	}
}

func lowRiskSummary() *domain.ClinicalSummary {
	s := &domain.ClinicalSummary{OverallAssessment: domain.OverallAssessment{RiskLevel: domain.RISK_LOW}}
	for _, p := range []string{"Sodium", "Potassium", "Calcium", "Hemoglobin", "WBC"} {
		s.NormalFindings = append(s.NormalFindings, domain.Finding{
			Parameter: p, Value: "normal", Status: domain.STATUS_NORMAL, ClinicalNote: "Within reference range",
		})
	}
	return s
}

func itemTypes(m *Manifest) []components.ComponentType {
	out := make([]components.ComponentType, 0, len(m.Items))
	for _, item := range m.Items {
		out = append(out, item.Type)
	}
	return out
}

func TestNewGenerator_RequiresDependencies(t *testing.T) {
	registry, err := components.DefaultRegistry()
	require.NoError(t, err)
	engine, err := rules.NewDefaultEngine(nil)
	require.NoError(t, err)

	_, err = NewGenerator(nil, engine)
	assert.Error(t, err)
	_, err = NewGenerator(registry, nil)
	assert.Error(t, err)
}

func TestGenerate_Metadata(t *testing.T) {
	g := newTestGenerator(t)
	m := g.Generate(criticalSummary())

	assert.Equal(t, "1.0.0", m.SchemaVersion)
	assert.Equal(t, "2026-10-17T07:30:00Z", m.GeneratedAt)
	assert.Empty(t, m.ValidationErrors)
	assert.Empty(t, m.Warnings)

	ids := make(map[string]bool)
	for _, item := range m.Items {
		assert.NotEmpty(t, item.ID)
		assert.False(t, ids[item.ID], "duplicate id %s", item.ID)
		ids[item.ID] = true
		assert.Equal(t, "1.0.0", item.Version)
	}
}

func TestGenerate_CriticalAlertFirstAfterHeader(t *testing.T) {
	g := newTestGenerator(t)
	s := criticalSummary()
	m := g.Generate(s)

	assert.Equal(t, []components.ComponentType{
		components.TypeInsightHeader,
		components.TypeCriticalAlert,
		components.TypeSectionDivider,
		components.TypeMetricAccordion,
		components.TypeMetricAccordion,
		components.TypeMetricAccordion,
		components.TypeSectionDivider,
		components.TypeActionTimeline,
		components.TypeSectionDivider,
		components.TypeReassuranceGrid,
	}, itemTypes(m))

	alert, ok := m.Items[1].Props.(components.CriticalAlertProps)
	require.True(t, ok)
	require.Len(t, alert.Findings, len(s.CriticalFindings()))
	assert.Equal(t, "Potassium", alert.Findings[0].TestName)
	assert.Equal(t, "Troponin I", alert.Findings[1].TestName)

	assert.Equal(t, "red-600", m.Items[1].RenderingHints["background"])
}

func TestGenerate_Idempotent(t *testing.T) {
	g := newTestGenerator(t, WithClock(time.Now))
	s := criticalSummary()

	first := g.Generate(s)
	second := g.Generate(s)

	diff := cmp.Diff(first, second,
		cmpopts.IgnoreFields(Manifest{}, "GeneratedAt"),
		cmpopts.IgnoreFields(Item{}, "ID"))
	assert.Empty(t, diff)
	assert.NotEqual(t, first.Items[0].ID, second.Items[0].ID)
}

func TestGenerate_DoesNotMutateSummary(t *testing.T) {
	g := newTestGenerator(t)
	s := criticalSummary()
	before := criticalSummary()

	g.Generate(s)
	assert.Empty(t, cmp.Diff(before, s))
}

func TestGenerate_LowRiskScenario(t *testing.T) {
	g := newTestGenerator(t)
	m, result, err := g.GenerateAndValidate(lowRiskSummary())
	require.NoError(t, err)

	assert.True(t, result.IsValid, "errors: %v", result.Errors)
	assert.Equal(t, []components.ComponentType{
		components.TypeReassuranceGrid,
		components.TypeSectionDivider,
		components.TypeReassuranceGrid,
	}, itemTypes(m))

	assert.Equal(t, "top", m.Items[0].RenderingHints["position"])
	assert.Equal(t, 3, m.Items[0].RenderingHints["columns"])
	assert.Equal(t, "bottom", m.Items[2].RenderingHints["position"])

	divider := m.Items[1].Props.(components.SectionDividerProps)
	assert.Equal(t, rules.TitleNormal, divider.Title)

	grid := m.Items[0].Props.(components.ReassuranceGridProps)
	assert.Len(t, grid.Items, 5)
	assert.Equal(t, grid, m.Items[2].Props)
}

func TestGenerate_SkipsFailingItems(t *testing.T) {
	ok := rules.Static(components.SectionDividerProps{Title: "Kept"})
	g := newCustomGenerator(t,
		rules.Rule{Name: "mixed", Priority: 1, Condition: rules.Always(), Actions: []rules.Action{
			rules.Append("Carousel", ok),
			rules.Append(components.TypeSectionDivider, rules.PropsFunc(func(*domain.ClinicalSummary) (components.Props, error) {
				return nil, errors.New("boom")
			})),
			rules.Append(components.TypeSectionDivider, rules.PropsFunc(func(s *domain.ClinicalSummary) (components.Props, error) {
				panic("nil map write")
			})),
			rules.Append(components.TypeSectionDivider, rules.Static(components.NormalListProps{})),
			rules.Append(components.TypeSectionDivider, nil),
			rules.Append(components.TypeSectionDivider, ok),
		}},
	)

	m := g.Generate(&domain.ClinicalSummary{})
	require.Len(t, m.Items, 1)
	assert.Equal(t, "item-1", m.Items[0].ID)
	assert.Equal(t, components.SectionDividerProps{Title: "Kept"}, m.Items[0].Props)

	require.Len(t, m.Warnings, 5)
	assert.Contains(t, m.Warnings[0], "unknown component type: Carousel")
	assert.Contains(t, m.Warnings[1], "boom")
	assert.Contains(t, m.Warnings[2], "panic: nil map write")
	assert.Contains(t, m.Warnings[3], "NormalList props")
	assert.Contains(t, m.Warnings[4], "no props generator")
}

func TestGenerate_NilSummary(t *testing.T) {
	g := newTestGenerator(t)
	m := g.Generate(nil)
	assert.Empty(t, m.Items)
	assert.NotNil(t, m.Items)
}

func TestGenerateAndValidate_KeepsInvalidItems(t *testing.T) {
	g := newCustomGenerator(t,
		rules.Rule{Name: "blank", Priority: 2, Condition: rules.Always(), Actions: []rules.Action{
			rules.Append(components.TypeSectionDivider, rules.Static(components.SectionDividerProps{Title: "   "})),
		}},
		rules.Rule{Name: "fine", Priority: 1, Condition: rules.Always(), Actions: []rules.Action{
			rules.Append(components.TypeSectionDivider, rules.Static(components.SectionDividerProps{Title: "Fine"})),
		}},
	)

	m, result, err := g.GenerateAndValidate(&domain.ClinicalSummary{})
	require.NoError(t, err)

	assert.False(t, result.IsValid)
	require.Len(t, m.Items, 2)
	require.Len(t, m.ValidationErrors, 1)

	issue := m.ValidationErrors[0]
	assert.Equal(t, "item-1", issue.ComponentID)
	assert.Equal(t, components.TypeSectionDivider, issue.ComponentType)
	assert.Equal(t, SeverityError, issue.Severity)
	assert.Contains(t, issue.Message, "invalid props for component SectionDivider (id=item-1)")
}

func TestGenerateAndValidate_EmptyManifest(t *testing.T) {
	g := newTestGenerator(t)
	s := &domain.ClinicalSummary{OverallAssessment: domain.OverallAssessment{RiskLevel: domain.RISK_MODERATE}}

	m, result, err := g.GenerateAndValidate(s)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrEmptyManifest))

	var emptyErr *EmptyManifestError
	require.True(t, errors.As(err, &emptyErr))
	assert.Empty(t, emptyErr.Warnings)
	assert.NotNil(t, m)
	assert.True(t, result.IsValid)
}

func TestEmptyManifestError_CarriesWarnings(t *testing.T) {
	g := newCustomGenerator(t,
		rules.Rule{Name: "unknown", Priority: 1, Condition: rules.Always(), Actions: []rules.Action{
			rules.Append("Carousel", rules.Static(components.SectionDividerProps{Title: "x"})),
		}},
	)

	_, _, err := g.GenerateAndValidate(&domain.ClinicalSummary{})
	var emptyErr *EmptyManifestError
	require.True(t, errors.As(err, &emptyErr))
	require.Len(t, emptyErr.Warnings, 1)
	assert.Contains(t, err.Error(), "manifest has no components: ")
	assert.Contains(t, err.Error(), "Carousel")
}

func TestGenerate_JSONWireFormat(t *testing.T) {
	g := newTestGenerator(t, WithIDFunc(sequentialIDs()))
	m := g.Generate(lowRiskSummary())

	data, err := json.Marshal(m)
	require.NoError(t, err)

	var wire map[string]any
	require.NoError(t, json.Unmarshal(data, &wire))
	for _, key := range []string{"schemaVersion", "generatedAt", "items", "validationErrors", "warnings"} {
		assert.Contains(t, wire, key)
	}

	items := wire["items"].([]any)
	first := items[0].(map[string]any)
	assert.Equal(t, "item-1", first["id"])
	assert.Equal(t, "ReassuranceGrid", first["type"])
	assert.Contains(t, first, "renderingHints")
	assert.Contains(t, first["props"], "items")
}

func TestGenerate_Concurrent(t *testing.T) {
	g := newTestGenerator(t)
	want := g.Generate(criticalSummary())

	var wg sync.WaitGroup
	diffs := make([]string, 32)
	for i := range diffs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			got := g.Generate(criticalSummary())
			diffs[i] = cmp.Diff(want, got, cmpopts.IgnoreFields(Item{}, "ID"))
		}(i)
	}
	wg.Wait()

	for i, d := range diffs {
		assert.Empty(t, d, "goroutine %d", i)
	}
}
