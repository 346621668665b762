package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// PatientInfo carries the optional demographics attached to a summary.
type PatientInfo struct {
	Name        string `json:"name,omitempty"`
	Age         int    `json:"age,omitempty"`
	Gender      string `json:"gender,omitempty"`
	TestPackage string `json:"test_package_name,omitempty"`
	ReportDate  string `json:"report_date,omitempty"`
}

// Finding is one lab parameter with its value, status and clinical annotations.
type Finding struct {
	Parameter    string        `json:"parameter_name"`
	Value        string        `json:"value"`
	Units        string        `json:"units,omitempty"`
	NormalRange  string        `json:"normal_range,omitempty"`
	Status       FindingStatus `json:"status"`
	System       string        `json:"system,omitempty"`
	Causes       []string      `json:"causes,omitempty"`
	Effects      []string      `json:"effects,omitempty"`
	ClinicalNote string        `json:"clinical_note,omitempty"`
}

// UnmarshalJSON also reads clinical_interpretation, where normal readings
// carry their note, into ClinicalNote when clinical_note is absent.
func (f *Finding) UnmarshalJSON(data []byte) error {
	type plain Finding
	if err := json.Unmarshal(data, (*plain)(f)); err != nil {
		return err
	}
	if f.ClinicalNote != "" {
		return nil
	}

	var alias struct {
		ClinicalInterpretation string `json:"clinical_interpretation"`
	}
	if err := json.Unmarshal(data, &alias); err != nil {
		return err
	}
	f.ClinicalNote = alias.ClinicalInterpretation
	return nil
}

// OverallAssessment is the summarizer's overall verdict.
type OverallAssessment struct {
	RiskLevel   RiskLevel `json:"risk_assessment"`
	KeyConcerns []string  `json:"key_concerns,omitempty"`
}

// FollowUpTest is one recommended follow-up test.
type FollowUpTest struct {
	Timeline  string `json:"timeline"`
	TestName  string `json:"recommended_tests"`
	Rationale string `json:"rationale,omitempty"`
}

// LifestyleModification is one lifestyle recommendation.
type LifestyleModification struct {
	Category       string `json:"category"`
	Recommendation string `json:"recommendations"`
}

// ManagementPlan groups the follow-up and lifestyle recommendations.
type ManagementPlan struct {
	FollowUpTests          []FollowUpTest          `json:"follow_up_tests,omitempty"`
	LifestyleModifications []LifestyleModification `json:"lifestyle_modifications,omitempty"`
}

// ClinicalSummary is the structured, already-summarized input of the engine.
// It is produced by an external summarization step and never mutated here.
type ClinicalSummary struct {
	PatientInfo       *PatientInfo      `json:"patient_info,omitempty"`
	AbnormalFindings  []Finding         `json:"abnormal_findings"`
	NormalFindings    []Finding         `json:"normal_findings"`
	OverallAssessment OverallAssessment `json:"overall_assessment"`
	ManagementPlan    ManagementPlan    `json:"management_plan"`
}

// HasCriticalFindings reports whether any abnormal finding is CRITICAL.
func (s *ClinicalSummary) HasCriticalFindings() bool {
	for _, f := range s.AbnormalFindings {
		if f.Status == STATUS_CRITICAL {
			return true
		}
	}
	return false
}

// CriticalFindings returns the CRITICAL abnormal findings in source order.
func (s *ClinicalSummary) CriticalFindings() []Finding {
	var out []Finding
	for _, f := range s.AbnormalFindings {
		if f.Status == STATUS_CRITICAL {
			out = append(out, f)
		}
	}
	return out
}

// Validate checks that the summary can be fed to the rules engine.
// The summarizer is expected to produce valid data; this guards the
// boundaries that accept summaries from the outside.
func (s *ClinicalSummary) Validate() error {
	if !s.OverallAssessment.RiskLevel.IsValid() {
		return fmt.Errorf("summary validation: %w: %q", ErrInvalidRiskLevel, s.OverallAssessment.RiskLevel)
	}

	for i, f := range s.AbnormalFindings {
		if err := f.validate(true); err != nil {
			return fmt.Errorf("summary validation: abnormal_findings[%d]: %w", i, err)
		}
	}
	for i, f := range s.NormalFindings {
		if err := f.validate(false); err != nil {
			return fmt.Errorf("summary validation: normal_findings[%d]: %w", i, err)
		}
	}

	for i, t := range s.ManagementPlan.FollowUpTests {
		if strings.TrimSpace(t.TestName) == "" {
			return fmt.Errorf("summary validation: %w", NewValidationError(
				fmt.Sprintf("management_plan.follow_up_tests[%d].recommended_tests", i), "test name is required", t.TestName))
		}
	}
	for i, m := range s.ManagementPlan.LifestyleModifications {
		if strings.TrimSpace(m.Recommendation) == "" {
			return fmt.Errorf("summary validation: %w", NewValidationError(
				fmt.Sprintf("management_plan.lifestyle_modifications[%d].recommendations", i), "recommendation is required", m.Recommendation))
		}
	}

	return nil
}

// validate checks one finding. Abnormal findings must carry a status since
// their accordion props require one.
func (f Finding) validate(requireStatus bool) error {
	if strings.TrimSpace(f.Parameter) == "" {
		return ErrMissingParameter
	}
	if f.Status == "" {
		if requireStatus {
			return ErrMissingStatus
		}
		return nil
	}
	if !f.Status.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidFindingStatus, f.Status)
	}
	return nil
}
