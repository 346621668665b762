package rules

import (
	"strings"

	"github.com/clinical-ui-manifest/internal/domain"
)

// SystemKeywords maps a biological system to the parameter-name keywords used
// to classify findings that carry no explicit system tag.
var SystemKeywords = map[string][]string{
	"Metabolic":     {"Glucose", "HbA1c", "Triglycerides", "Cholesterol"},
	"Hematological": {"WBC", "RBC", "Hemoglobin", "Platelets"},
	"Renal":         {"Creatinine", "BUN", "eGFR"},
	"Cardiac":       {"Troponin", "BNP"},
}

// Always matches every summary.
func Always() Condition {
	return ConditionFunc(func(*domain.ClinicalSummary) bool { return true })
}

// HasCriticalFindings matches when any abnormal finding is CRITICAL.
func HasCriticalFindings() Condition {
	return ConditionFunc(func(s *domain.ClinicalSummary) bool {
		return s.HasCriticalFindings()
	})
}

// RiskIn matches when the overall risk level is one of levels.
func RiskIn(levels ...domain.RiskLevel) Condition {
	return ConditionFunc(func(s *domain.ClinicalSummary) bool {
		for _, l := range levels {
			if s.OverallAssessment.RiskLevel == l {
				return true
			}
		}
		return false
	})
}

// HasAbnormalFindings matches when there is at least one abnormal finding.
func HasAbnormalFindings() Condition {
	return ConditionFunc(func(s *domain.ClinicalSummary) bool {
		return len(s.AbnormalFindings) > 0
	})
}

// HasNormalFindings matches when there is at least one normal finding.
func HasNormalFindings() Condition {
	return ConditionFunc(func(s *domain.ClinicalSummary) bool {
		return len(s.NormalFindings) > 0
	})
}

// HasFollowUpTests matches when the plan recommends at least one test.
func HasFollowUpTests() Condition {
	return ConditionFunc(func(s *domain.ClinicalSummary) bool {
		return len(s.ManagementPlan.FollowUpTests) > 0
	})
}

// HasLifestyleModifications matches when the plan carries at least one
// lifestyle recommendation.
func HasLifestyleModifications() Condition {
	return ConditionFunc(func(s *domain.ClinicalSummary) bool {
		return len(s.ManagementPlan.LifestyleModifications) > 0
	})
}

// CountExceeds matches when selector returns more than n findings.
func CountExceeds(selector FindingSelector, n int) Condition {
	return ConditionFunc(func(s *domain.ClinicalSummary) bool {
		return len(selector(s)) > n
	})
}

// All matches when every condition matches.
func All(conds ...Condition) Condition {
	return ConditionFunc(func(s *domain.ClinicalSummary) bool {
		for _, c := range conds {
			if !c.Matches(s) {
				return false
			}
		}
		return true
	})
}

// AbnormalFindings selects every abnormal finding in source order.
func AbnormalFindings(s *domain.ClinicalSummary) []domain.Finding {
	return s.AbnormalFindings
}

// NormalFindings selects every normal finding in source order.
func NormalFindings(s *domain.ClinicalSummary) []domain.Finding {
	return s.NormalFindings
}

// ParameterContains selects abnormal findings whose parameter name contains
// keyword, ignoring case.
func ParameterContains(keyword string) FindingSelector {
	needle := strings.ToLower(keyword)
	return func(s *domain.ClinicalSummary) []domain.Finding {
		var out []domain.Finding
		for _, f := range s.AbnormalFindings {
			if strings.Contains(strings.ToLower(f.Parameter), needle) {
				out = append(out, f)
			}
		}
		return out
	}
}

// InSystem selects abnormal findings that belong to system. A tagged finding
// belongs when its tag equals system ignoring case; an untagged one when its
// parameter contains one of the system's keywords.
func InSystem(system string) FindingSelector {
	keywords := SystemKeywords[system]
	return func(s *domain.ClinicalSummary) []domain.Finding {
		var out []domain.Finding
		for _, f := range s.AbnormalFindings {
			if belongsTo(f, system, keywords) {
				out = append(out, f)
			}
		}
		return out
	}
}

func belongsTo(f domain.Finding, system string, keywords []string) bool {
	if f.System != "" {
		return strings.EqualFold(f.System, system)
	}
	for _, k := range keywords {
		if strings.Contains(f.Parameter, k) {
			return true
		}
	}
	return false
}
