package components

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidProps is wrapped by every semantic props violation.
var ErrInvalidProps = errors.New("invalid props")

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidProps, fmt.Sprintf(format, args...))
}

func required(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return invalid("%s is required", field)
	}
	return nil
}

var findingStatuses = map[string]bool{
	"CRITICAL": true,
	"HIGH":     true,
	"LOW":      true,
	"ABNORMAL": true,
	"NORMAL":   true,
}

var riskLevels = map[string]bool{
	"Low":      true,
	"Moderate": true,
	"High":     true,
	"Critical": true,
}

// PatientSummary is the demographic block shown in InsightHeader.
type PatientSummary struct {
	Name   string `json:"name"`
	Age    int    `json:"age"`
	Gender string `json:"gender"`
}

// InsightHeaderProps are the props of InsightHeader.
type InsightHeaderProps struct {
	PatientInfo     PatientSummary `json:"patient_info"`
	RiskLevel       string         `json:"risk_level" jsonschema:"one of Low, Moderate, High, Critical"`
	OverallConcerns []string       `json:"overall_concerns"`
	Date            string         `json:"date"`
}

func (InsightHeaderProps) ComponentType() ComponentType { return TypeInsightHeader }

func (p InsightHeaderProps) Validate() error {
	if !riskLevels[p.RiskLevel] {
		return invalid("risk_level %q is not a known risk level", p.RiskLevel)
	}
	if p.PatientInfo.Age < 0 {
		return invalid("patient_info.age must not be negative")
	}
	return nil
}

// CriticalFinding is one row of the CriticalAlert banner.
type CriticalFinding struct {
	TestName    string `json:"test_name"`
	Value       string `json:"value"`
	WarningText string `json:"warning_text"`
	Status      string `json:"status"`
}

// CriticalAlertProps are the props of CriticalAlert.
type CriticalAlertProps struct {
	Findings     []CriticalFinding `json:"findings"`
	UrgencyLevel string            `json:"urgency_level" jsonschema:"CRITICAL or HIGH"`
}

func (CriticalAlertProps) ComponentType() ComponentType { return TypeCriticalAlert }

func (p CriticalAlertProps) Validate() error {
	if len(p.Findings) == 0 {
		return invalid("findings must not be empty")
	}
	if p.UrgencyLevel != "CRITICAL" && p.UrgencyLevel != "HIGH" {
		return invalid("urgency_level %q must be CRITICAL or HIGH", p.UrgencyLevel)
	}
	for i, f := range p.Findings {
		if err := required(fmt.Sprintf("findings[%d].test_name", i), f.TestName); err != nil {
			return err
		}
	}
	return nil
}

// MetricAccordionProps are the props of MetricAccordion, used both for a
// single abnormal finding and for a grouped set of findings.
type MetricAccordionProps struct {
	Parameter      string         `json:"parameter"`
	Value          string         `json:"value"`
	ReferenceRange string         `json:"reference_range,omitempty"`
	Status         string         `json:"status"`
	Causes         []string       `json:"causes"`
	Effects        []string       `json:"effects"`
	ClinicalNote   string         `json:"clinical_note"`
	Correlation    map[string]any `json:"correlation,omitempty"`
}

func (MetricAccordionProps) ComponentType() ComponentType { return TypeMetricAccordion }

func (p MetricAccordionProps) Validate() error {
	if err := required("parameter", p.Parameter); err != nil {
		return err
	}
	if !findingStatuses[p.Status] {
		return invalid("status %q is not a known finding status", p.Status)
	}
	return nil
}

// ReassuranceItem is one tile of the ReassuranceGrid.
type ReassuranceItem struct {
	Name           string `json:"name"`
	Value          string `json:"value"`
	Interpretation string `json:"interpretation"`
}

// ReassuranceGridProps are the props of ReassuranceGrid.
type ReassuranceGridProps struct {
	Items []ReassuranceItem `json:"items"`
}

func (ReassuranceGridProps) ComponentType() ComponentType { return TypeReassuranceGrid }

func (p ReassuranceGridProps) Validate() error {
	for i, item := range p.Items {
		if err := required(fmt.Sprintf("items[%d].name", i), item.Name); err != nil {
			return err
		}
	}
	return nil
}

// TimelineEvent is one milestone of the ActionTimeline.
type TimelineEvent struct {
	Time      string `json:"time"`
	TestName  string `json:"test_name"`
	Rationale string `json:"rationale"`
	Priority  string `json:"priority" jsonschema:"high or normal"`
}

// ActionTimelineProps are the props of ActionTimeline.
type ActionTimelineProps struct {
	Events []TimelineEvent `json:"events"`
}

func (ActionTimelineProps) ComponentType() ComponentType { return TypeActionTimeline }

func (p ActionTimelineProps) Validate() error {
	if len(p.Events) == 0 {
		return invalid("events must not be empty")
	}
	for i, e := range p.Events {
		if e.Priority != "high" && e.Priority != "normal" {
			return invalid("events[%d].priority %q must be high or normal", i, e.Priority)
		}
	}
	return nil
}

// GuidelineRow is one row of a guideline or lifestyle table.
type GuidelineRow struct {
	Category       string `json:"category"`
	Recommendation string `json:"recommendation"`
}

// GuidelineTableProps are the props of GuidelineTable.
type GuidelineTableProps struct {
	Headers    []string       `json:"headers"`
	Rows       []GuidelineRow `json:"rows"`
	Type       string         `json:"type" jsonschema:"lifestyle or medication"`
	ThemeColor string         `json:"themeColor,omitempty"`
}

func (GuidelineTableProps) ComponentType() ComponentType { return TypeGuidelineTable }

func (p GuidelineTableProps) Validate() error {
	if len(p.Headers) == 0 {
		return invalid("headers must not be empty")
	}
	if p.Type != "lifestyle" && p.Type != "medication" {
		return invalid("type %q must be lifestyle or medication", p.Type)
	}
	return nil
}

// CorrelationNode is a biomarker node in the CorrelationMap.
type CorrelationNode struct {
	ID       string `json:"id"`
	Label    string `json:"label"`
	Severity string `json:"severity"`
}

// CorrelationEdge links two CorrelationMap nodes.
type CorrelationEdge struct {
	Source       string `json:"source"`
	Target       string `json:"target"`
	Relationship string `json:"relationship"`
}

// CorrelationMapProps are the props of CorrelationMap.
type CorrelationMapProps struct {
	Nodes []CorrelationNode `json:"nodes"`
	Edges []CorrelationEdge `json:"edges"`
}

func (CorrelationMapProps) ComponentType() ComponentType { return TypeCorrelationMap }

func (p CorrelationMapProps) Validate() error {
	ids := make(map[string]bool, len(p.Nodes))
	for _, n := range p.Nodes {
		ids[n.ID] = true
	}
	for i, e := range p.Edges {
		if !ids[e.Source] || !ids[e.Target] {
			return invalid("edges[%d] references an unknown node", i)
		}
	}
	return nil
}

// AbnormalCardProps are the props of the legacy AbnormalCard.
type AbnormalCardProps struct {
	Parameter    string   `json:"parameter"`
	Value        string   `json:"value"`
	Status       string   `json:"status"`
	Causes       []string `json:"causes"`
	Effects      []string `json:"effects"`
	ClinicalNote string   `json:"clinical_note"`
}

func (AbnormalCardProps) ComponentType() ComponentType { return TypeAbnormalCard }

func (p AbnormalCardProps) Validate() error {
	return required("parameter", p.Parameter)
}

// HealthScoreHeaderProps are the props of the legacy HealthScoreHeader.
type HealthScoreHeaderProps struct {
	RiskLevel string   `json:"risk_level"`
	Concerns  []string `json:"concerns"`
}

func (HealthScoreHeaderProps) ComponentType() ComponentType { return TypeHealthScoreHeader }

func (p HealthScoreHeaderProps) Validate() error {
	if !riskLevels[p.RiskLevel] {
		return invalid("risk_level %q is not a known risk level", p.RiskLevel)
	}
	return nil
}

// FollowUpRow is one row of the legacy FollowUpTable.
type FollowUpRow struct {
	Timeline  string `json:"timeline"`
	TestName  string `json:"test_name"`
	Rationale string `json:"rationale"`
}

// FollowUpTableProps are the props of the legacy FollowUpTable.
type FollowUpTableProps struct {
	Rows []FollowUpRow `json:"rows"`
}

func (FollowUpTableProps) ComponentType() ComponentType { return TypeFollowUpTable }

func (FollowUpTableProps) Validate() error { return nil }

// LifestyleTableProps are the props of the legacy LifestyleTable.
type LifestyleTableProps struct {
	Rows []GuidelineRow `json:"rows"`
}

func (LifestyleTableProps) ComponentType() ComponentType { return TypeLifestyleTable }

func (LifestyleTableProps) Validate() error { return nil }

// MetricCardProps are the props of MetricCard.
type MetricCardProps struct {
	Label  string `json:"label"`
	Value  string `json:"value"`
	Unit   string `json:"unit,omitempty"`
	Status string `json:"status"`
	Advice string `json:"advice,omitempty"`
}

func (MetricCardProps) ComponentType() ComponentType { return TypeMetricCard }

func (p MetricCardProps) Validate() error {
	return required("label", p.Label)
}

// TrendPoint is one sample of a TrendChart series.
type TrendPoint struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

// TrendChartProps are the props of TrendChart.
type TrendChartProps struct {
	Title string       `json:"title"`
	Data  []TrendPoint `json:"data"`
}

func (TrendChartProps) ComponentType() ComponentType { return TypeTrendChart }

func (p TrendChartProps) Validate() error {
	return required("title", p.Title)
}

// SectionDividerProps are the props of SectionDivider.
type SectionDividerProps struct {
	Title string `json:"title"`
	Icon  string `json:"icon,omitempty"`
}

func (SectionDividerProps) ComponentType() ComponentType { return TypeSectionDivider }

func (p SectionDividerProps) Validate() error {
	return required("title", p.Title)
}

// NormalListItem is one entry of the legacy NormalList.
type NormalListItem struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// NormalListProps are the props of the legacy NormalList.
type NormalListProps struct {
	Items []NormalListItem `json:"items"`
}

func (NormalListProps) ComponentType() ComponentType { return TypeNormalList }

func (NormalListProps) Validate() error { return nil }
