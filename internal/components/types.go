// Package components holds the component registry: the immutable catalog of
// renderable UI component types, their versions, typed prop structures and
// rendering hints. A registry is built once with NewRegistry or
// DefaultRegistry and shared read-only afterwards.
package components

// ComponentType is the unique key of a component in the registry.
type ComponentType string

const (
	TypeInsightHeader     ComponentType = "InsightHeader"
	TypeCriticalAlert     ComponentType = "CriticalAlert"
	TypeMetricAccordion   ComponentType = "MetricAccordion"
	TypeReassuranceGrid   ComponentType = "ReassuranceGrid"
	TypeActionTimeline    ComponentType = "ActionTimeline"
	TypeGuidelineTable    ComponentType = "GuidelineTable"
	TypeCorrelationMap    ComponentType = "CorrelationMap"
	TypeAbnormalCard      ComponentType = "AbnormalCard"
	TypeHealthScoreHeader ComponentType = "HealthScoreHeader"
	TypeFollowUpTable     ComponentType = "FollowUpTable"
	TypeLifestyleTable    ComponentType = "LifestyleTable"
	TypeMetricCard        ComponentType = "MetricCard"
	TypeTrendChart        ComponentType = "TrendChart"
	TypeSectionDivider    ComponentType = "SectionDivider"
	TypeNormalList        ComponentType = "NormalList"
)

// String returns the string representation of the component type.
func (t ComponentType) String() string {
	return string(t)
}

// Category groups components by their visual role.
type Category string

const (
	CategoryHeader        Category = "Header"
	CategoryAlert         Category = "Alert"
	CategoryCard          Category = "Card"
	CategoryTable         Category = "Table"
	CategoryVisualization Category = "Visualization"
	CategoryGrid          Category = "Grid"
)

// IsValid reports whether the category is one of the known categories.
func (c Category) IsValid() bool {
	switch c {
	case CategoryHeader, CategoryAlert, CategoryCard, CategoryTable, CategoryVisualization, CategoryGrid:
		return true
	default:
		return false
	}
}

// Props is implemented by every typed prop structure. ComponentType ties the
// structure to exactly one registry entry; Validate enforces the semantic
// constraints a JSON Schema cannot express.
type Props interface {
	ComponentType() ComponentType
	Validate() error
}
