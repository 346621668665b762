package rules

import (
	"errors"
	"fmt"
	"strings"

	"github.com/clinical-ui-manifest/internal/components"
	"github.com/clinical-ui-manifest/internal/domain"
)

// Section titles emitted by the built-in rules.
const (
	TitleFindings  = "⚠️ Findings Requiring Attention"
	TitleFollowUp  = "📋 Recommended Follow-Up Tests"
	TitleLifestyle = "💡 Lifestyle Recommendations"
	TitleNormal    = "✅ Good News - Normal Results"
)

// Parameters of the grouped accordions.
const (
	LipidGroupParameter     = "Lipid Panel"
	MetabolicGroupParameter = "Metabolic Syndrome Indicators"
)

var errNoCriticalFindings = errors.New("no critical findings to alert on")

// DefaultRules returns the built-in rule set in declaration order.
func DefaultRules() []Rule {
	return []Rule{
		{
			Name:      "critical_alert_prepend",
			Priority:  100,
			Condition: HasCriticalFindings(),
			Actions: []Action{
				Prepend(components.TypeCriticalAlert, PropsFunc(criticalAlertProps)),
			},
		},
		{
			Name:      "high_risk_insight_header",
			Priority:  90,
			Condition: RiskIn(domain.RISK_HIGH, domain.RISK_CRITICAL),
			Actions: []Action{
				Prepend(components.TypeInsightHeader, PropsFunc(insightHeaderProps)),
			},
		},
		{
			Name:      "render_abnormal_findings",
			Priority:  80,
			Condition: HasAbnormalFindings(),
			Actions: []Action{
				Append(components.TypeSectionDivider, Static(components.SectionDividerProps{Title: TitleFindings})),
				ExpandOverCollection(AbnormalFindings, components.TypeMetricAccordion, metricAccordionProps),
			},
		},
		{
			Name:      "group_lipid_panel",
			Priority:  70,
			Condition: CountExceeds(ParameterContains("Lipid"), 2),
			Actions: []Action{
				Group(ParameterContains("Lipid"), 2, components.TypeMetricAccordion,
					groupedAccordionProps(LipidGroupParameter, "Multiple lipid abnormalities detected", lipidGroupStatus),
					WithHints(map[string]any{"grouped": true})),
			},
		},
		{
			Name:      "group_metabolic_findings",
			Priority:  65,
			Condition: CountExceeds(InSystem("Metabolic"), 3),
			Actions: []Action{
				Group(InSystem("Metabolic"), 3, components.TypeMetricAccordion,
					groupedAccordionProps(MetabolicGroupParameter, "Pattern suggests metabolic dysfunction", metabolicGroupStatus),
					WithHints(map[string]any{"grouped": true})),
			},
		},
		{
			Name:      "render_action_timeline",
			Priority:  60,
			Condition: HasFollowUpTests(),
			Actions: []Action{
				Append(components.TypeSectionDivider, Static(components.SectionDividerProps{Title: TitleFollowUp})),
				Append(components.TypeActionTimeline, PropsFunc(actionTimelineProps)),
			},
		},
		{
			Name:      "render_lifestyle_guidelines",
			Priority:  55,
			Condition: HasLifestyleModifications(),
			Actions: []Action{
				Append(components.TypeSectionDivider, Static(components.SectionDividerProps{Title: TitleLifestyle})),
				Append(components.TypeGuidelineTable, PropsFunc(lifestyleTableProps)),
			},
		},
		{
			Name:      "render_reassurance",
			Priority:  50,
			Condition: HasNormalFindings(),
			Actions: []Action{
				Append(components.TypeSectionDivider, Static(components.SectionDividerProps{Title: TitleNormal})),
				Append(components.TypeReassuranceGrid, PropsFunc(reassuranceGridProps)),
			},
		},
		{
			// Emits a second ReassuranceGrid at the top for low-risk patients.
			Name:      "low_risk_lead_with_reassurance",
			Priority:  40,
			Condition: RiskIn(domain.RISK_LOW),
			Actions: []Action{
				Prepend(components.TypeReassuranceGrid, PropsFunc(reassuranceGridProps),
					WithHints(map[string]any{"position": "top"})),
			},
		},
	}
}

func criticalAlertProps(s *domain.ClinicalSummary) (components.Props, error) {
	critical := s.CriticalFindings()
	if len(critical) == 0 {
		return nil, errNoCriticalFindings
	}

	findings := make([]components.CriticalFinding, 0, len(critical))
	for _, f := range critical {
		findings = append(findings, components.CriticalFinding{
			TestName:    f.Parameter,
			Value:       f.Value,
			WarningText: f.ClinicalNote,
			Status:      string(f.Status),
		})
	}

	return components.CriticalAlertProps{
		Findings:     findings,
		UrgencyLevel: "CRITICAL",
	}, nil
}

func insightHeaderProps(s *domain.ClinicalSummary) (components.Props, error) {
	patient := components.PatientSummary{Name: "Patient", Gender: "N/A"}
	date := "Today"

	if info := s.PatientInfo; info != nil {
		if info.Name != "" {
			patient.Name = info.Name
		}
		if info.Gender != "" {
			patient.Gender = info.Gender
		}
		patient.Age = info.Age
		if info.ReportDate != "" {
			date = info.ReportDate
		}
	}

	return components.InsightHeaderProps{
		PatientInfo:     patient,
		RiskLevel:       string(s.OverallAssessment.RiskLevel),
		OverallConcerns: nonNil(s.OverallAssessment.KeyConcerns),
		Date:            date,
	}, nil
}

func metricAccordionProps(_ *domain.ClinicalSummary, f domain.Finding) (components.Props, error) {
	return components.MetricAccordionProps{
		Parameter:      f.Parameter,
		Value:          f.Value,
		ReferenceRange: f.NormalRange,
		Status:         string(f.Status),
		Causes:         nonNil(f.Causes),
		Effects:        nonNil(f.Effects),
		ClinicalNote:   f.ClinicalNote,
	}, nil
}

func groupedAccordionProps(
	parameter, note string,
	status func([]domain.Finding) domain.FindingStatus,
) func(*domain.ClinicalSummary, []domain.Finding) (components.Props, error) {
	return func(_ *domain.ClinicalSummary, findings []domain.Finding) (components.Props, error) {
		var causes, effects [][]string
		for _, f := range findings {
			causes = append(causes, f.Causes)
			effects = append(effects, f.Effects)
		}

		return components.MetricAccordionProps{
			Parameter:    parameter,
			Value:        fmt.Sprintf("%d abnormalities", len(findings)),
			Status:       string(status(findings)),
			Causes:       union(causes...),
			Effects:      union(effects...),
			ClinicalNote: note,
		}, nil
	}
}

func lipidGroupStatus(findings []domain.Finding) domain.FindingStatus {
	for _, f := range findings {
		if f.Status == domain.STATUS_HIGH {
			return domain.STATUS_HIGH
		}
	}
	return domain.STATUS_LOW
}

func metabolicGroupStatus(findings []domain.Finding) domain.FindingStatus {
	for _, f := range findings {
		if f.Status == domain.STATUS_CRITICAL || f.Status == domain.STATUS_HIGH {
			return domain.STATUS_HIGH
		}
	}
	return domain.STATUS_LOW
}

func actionTimelineProps(s *domain.ClinicalSummary) (components.Props, error) {
	events := make([]components.TimelineEvent, 0, len(s.ManagementPlan.FollowUpTests))
	for _, t := range s.ManagementPlan.FollowUpTests {
		priority := "normal"
		if strings.Contains(t.Timeline, "Immediate") {
			priority = "high"
		}
		events = append(events, components.TimelineEvent{
			Time:      t.Timeline,
			TestName:  t.TestName,
			Rationale: t.Rationale,
			Priority:  priority,
		})
	}
	return components.ActionTimelineProps{Events: events}, nil
}

func lifestyleTableProps(s *domain.ClinicalSummary) (components.Props, error) {
	rows := make([]components.GuidelineRow, 0, len(s.ManagementPlan.LifestyleModifications))
	for _, m := range s.ManagementPlan.LifestyleModifications {
		rows = append(rows, components.GuidelineRow{
			Category:       m.Category,
			Recommendation: m.Recommendation,
		})
	}
	return components.GuidelineTableProps{
		Headers:    []string{"Category", "Recommendation"},
		Rows:       rows,
		Type:       "lifestyle",
		ThemeColor: "green",
	}, nil
}

func reassuranceGridProps(s *domain.ClinicalSummary) (components.Props, error) {
	items := make([]components.ReassuranceItem, 0, len(s.NormalFindings))
	for _, f := range s.NormalFindings {
		items = append(items, components.ReassuranceItem{
			Name:           f.Parameter,
			Value:          f.Value,
			Interpretation: f.ClinicalNote,
		})
	}
	return components.ReassuranceGridProps{Items: items}, nil
}

// union concatenates lists, dropping duplicates and keeping first-seen order.
func union(lists ...[]string) []string {
	out := []string{}
	seen := make(map[string]bool)
	for _, list := range lists {
		for _, v := range list {
			if seen[v] {
				continue
			}
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
