package components

// DefaultDefinitions returns the built-in component catalog in display-
// priority order: the specialized medical components first, then the legacy
// components kept for backward compatibility.
func DefaultDefinitions() []Definition {
	return []Definition{
		Define[InsightHeaderProps](Definition{
			Type:        TypeInsightHeader,
			Version:     "1.0.0",
			DisplayName: "Patient Insight & Risk Badge",
			VisualRole:  "Displays patient demographics and overall risk level assessment",
			Description: "Large header with patient info (age, gender, name) and color-coded risk badge. Primary hero component for high-risk patients.",
			Category:    CategoryHeader,
			RenderingHints: map[string]any{
				"position":          "top",
				"width":             "full",
				"height":            "auto",
				"severity_triggers": []string{"CRITICAL", "HIGH"},
				"background":        "gradient",
				"padding":           "large",
			},
		}),
		Define[CriticalAlertProps](Definition{
			Type:        TypeCriticalAlert,
			Version:     "1.0.0",
			DisplayName: "Critical Finding Alert",
			VisualRole:  "High-visibility banner for CRITICAL lab findings requiring immediate attention",
			Description: "Full-width red banner displaying CRITICAL findings. Non-dismissible.",
			Category:    CategoryAlert,
			RenderingHints: map[string]any{
				"position":          "top",
				"width":             "full",
				"severity_triggers": []string{"CRITICAL"},
				"background":        "red-600",
				"animation":         "pulse",
				"dismiss":           false,
			},
		}),
		Define[MetricAccordionProps](Definition{
			Type:        TypeMetricAccordion,
			Version:     "1.0.0",
			DisplayName: "Expandable Medical Parameter Card",
			VisualRole:  "Expandable card for HIGH/LOW findings with causes, effects, and clinical correlation",
			Description: "Collapsible detail card that expands to show root causes, downstream effects, clinical notes, and correlation to other findings. Primary component for abnormal findings.",
			Category:    CategoryCard,
			RenderingHints: map[string]any{
				"position":         "middle",
				"width":            "full",
				"expandable":       true,
				"status_colors":    map[string]any{"CRITICAL": "red-600", "HIGH": "orange-500", "LOW": "blue-500"},
				"default_expanded": "CRITICAL",
			},
		}),
		Define[ReassuranceGridProps](Definition{
			Type:        TypeReassuranceGrid,
			Version:     "1.0.0",
			DisplayName: "Normal Findings Reassurance Grid",
			VisualRole:  "Compact 2-3 column grid showing normal/good test results with reassuring tone",
			Description: "Green-themed grid displaying normal findings. Used to reassure patients that not all values are abnormal.",
			Category:    CategoryGrid,
			RenderingHints: map[string]any{
				"position":        "bottom",
				"width":           "full",
				"columns":         3,
				"background":      "green-50",
				"tone":            "reassuring",
				"show_checkmarks": true,
			},
		}),
		Define[ActionTimelineProps](Definition{
			Type:        TypeActionTimeline,
			Version:     "1.0.0",
			DisplayName: "Follow-Up Tests Timeline",
			VisualRole:  "Vertical timeline showing recommended follow-up tests with timing and rationale",
			Description: "Milestone-based timeline showing when and why follow-up tests should be performed.",
			Category:    CategoryVisualization,
			RenderingHints: map[string]any{
				"position":         "middle",
				"width":            "full",
				"orientation":      "vertical",
				"milestone_colors": map[string]any{"Immediate": "red", "1 Week": "orange", "1 Month": "blue", "3 Months": "green"},
				"show_rationale":   true,
			},
		}),
		Define[GuidelineTableProps](Definition{
			Type:        TypeGuidelineTable,
			Version:     "1.0.0",
			DisplayName: "Lifestyle & Treatment Guidelines Table",
			VisualRole:  "Clean, scannable table for lifestyle modifications and medication recommendations",
			Description: "Table of recommended actions (diet, exercise, medication). Supports two types: lifestyle and medication.",
			Category:    CategoryTable,
			RenderingHints: map[string]any{
				"position":            "bottom",
				"width":               "full",
				"striped":             true,
				"hover_effects":       true,
				"category_icons":      true,
				"priority_indicators": true,
			},
		}),
		Define[CorrelationMapProps](Definition{
			Type:        TypeCorrelationMap,
			Version:     "1.0.0",
			DisplayName: "Clinical Parameter Correlation Network",
			VisualRole:  "Force-directed graph visualizing relationships between related lab findings",
			Description: "Interactive graph showing how biomarkers correlate and influence each other, e.g. HbA1c, Glucose and Insulin.",
			Category:    CategoryVisualization,
			RenderingHints: map[string]any{
				"position":    "middle",
				"width":       "full",
				"interactive": true,
				"node_size":   "severity",
				"edge_weight": "correlation_strength",
				"show_labels": true,
			},
		}),
		Define[AbnormalCardProps](Definition{
			Type:        TypeAbnormalCard,
			Version:     "1.0.0",
			DisplayName: "Abnormal Finding Card (Legacy)",
			VisualRole:  "Expandable card for abnormal lab findings",
			Description: "Legacy component for individual abnormal findings. Predates MetricAccordion.",
			Category:    CategoryCard,
			RenderingHints: map[string]any{
				"position":   "middle",
				"width":      "full",
				"expandable": true,
				"legacy":     true,
			},
			Deprecations: []string{"Use MetricAccordion instead for better UX"},
		}),
		Define[HealthScoreHeaderProps](Definition{
			Type:        TypeHealthScoreHeader,
			Version:     "1.0.0",
			DisplayName: "Health Risk Badge Header",
			VisualRole:  "Risk level badge with key concerns list",
			Description: "Simple header showing overall risk level and a bullet list of key concerns.",
			Category:    CategoryHeader,
			RenderingHints: map[string]any{
				"position": "top",
				"width":    "full",
				"legacy":   true,
			},
		}),
		Define[FollowUpTableProps](Definition{
			Type:        TypeFollowUpTable,
			Version:     "1.0.0",
			DisplayName: "Follow-Up Tests Table (Legacy)",
			VisualRole:  "Simple table for follow-up test recommendations",
			Description: "Legacy table component. Use GuidelineTable or ActionTimeline for better organization.",
			Category:    CategoryTable,
			RenderingHints: map[string]any{
				"position": "bottom",
				"width":    "full",
				"legacy":   true,
			},
			Deprecations: []string{"Use ActionTimeline or GuidelineTable instead"},
		}),
		Define[LifestyleTableProps](Definition{
			Type:        TypeLifestyleTable,
			Version:     "1.0.0",
			DisplayName: "Lifestyle Recommendations Table (Legacy)",
			VisualRole:  "Lifestyle modification recommendations",
			Description: "Legacy table for lifestyle changes.",
			Category:    CategoryTable,
			RenderingHints: map[string]any{
				"position": "bottom",
				"width":    "full",
				"legacy":   true,
			},
			Deprecations: []string{"Use GuidelineTable(type='lifestyle') instead"},
		}),
		Define[MetricCardProps](Definition{
			Type:        TypeMetricCard,
			Version:     "1.0.0",
			DisplayName: "Individual Metric Display Card",
			VisualRole:  "Single lab value display with status and advice",
			Description: "Simple card showing one metric.",
			Category:    CategoryCard,
			RenderingHints: map[string]any{
				"position": "middle",
				"width":    "auto",
			},
		}),
		Define[TrendChartProps](Definition{
			Type:        TypeTrendChart,
			Version:     "1.0.0",
			DisplayName: "Value Trend Visualization",
			VisualRole:  "Line chart showing historical lab value trends",
			Description: "Line chart for value changes over time, for summaries that carry historical data.",
			Category:    CategoryVisualization,
			RenderingHints: map[string]any{
				"position":    "middle",
				"width":       "full",
				"interactive": true,
			},
		}),
		Define[SectionDividerProps](Definition{
			Type:        TypeSectionDivider,
			Version:     "1.0.0",
			DisplayName: "Section Divider Header",
			VisualRole:  "Text divider between logical sections",
			Description: "Simple text divider that organizes the visual hierarchy.",
			Category:    CategoryHeader,
			RenderingHints: map[string]any{
				"position": "middle",
				"width":    "full",
				"padding":  "medium",
			},
		}),
		Define[NormalListProps](Definition{
			Type:        TypeNormalList,
			Version:     "1.0.0",
			DisplayName: "Simple Normal Findings List",
			VisualRole:  "Inline grid of normal findings",
			Description: "Simple inline component for normal findings.",
			Category:    CategoryGrid,
			RenderingHints: map[string]any{
				"position": "bottom",
				"width":    "full",
				"legacy":   true,
			},
			Deprecations: []string{"Use ReassuranceGrid instead for better styling"},
		}),
	}
}

// DefaultRegistry builds the registry holding the built-in catalog.
func DefaultRegistry() (*Registry, error) {
	return NewRegistry(DefaultDefinitions()...)
}
