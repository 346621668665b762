// Package domain contains the core entities consumed by the manifest engine:
// the clinical summary produced upstream by the summarization step, its
// findings and management plan, and the enums that drive rule evaluation.
//
// Every value in this package is treated as immutable input by the rules
// engine and the manifest generator.
package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// RiskLevel represents the overall risk assessment attached to a summary.
// It is the only personalization signal the manifest engine honours.
type RiskLevel string

const (
	RISK_LOW      RiskLevel = "Low"
	RISK_MODERATE RiskLevel = "Moderate"
	RISK_HIGH     RiskLevel = "High"
	RISK_CRITICAL RiskLevel = "Critical"
)

// FindingStatus represents the status reported for a single lab parameter.
type FindingStatus string

const (
	STATUS_CRITICAL FindingStatus = "CRITICAL"
	STATUS_HIGH     FindingStatus = "HIGH"
	STATUS_LOW      FindingStatus = "LOW"
	STATUS_ABNORMAL FindingStatus = "ABNORMAL"
	STATUS_NORMAL   FindingStatus = "NORMAL"
)

// Validation errors for summary integrity
var (
	ErrInvalidRiskLevel     = errors.New("invalid risk level")
	ErrInvalidFindingStatus = errors.New("invalid finding status")
	ErrMissingParameter     = errors.New("finding parameter is required")
	ErrMissingStatus        = errors.New("finding status is required")
)

// IsValid reports whether the risk level is one of the four supported values.
func (r RiskLevel) IsValid() bool {
	switch r {
	case RISK_LOW, RISK_MODERATE, RISK_HIGH, RISK_CRITICAL:
		return true
	default:
		return false
	}
}

// String returns the string representation of the risk level.
func (r RiskLevel) String() string {
	return string(r)
}

// IsElevated reports whether the risk level calls for a risk-forward layout.
func (r RiskLevel) IsElevated() bool {
	return r == RISK_HIGH || r == RISK_CRITICAL
}

// ParseRiskLevel normalizes a risk level written in any case ("LOW", "low",
// "Low") to its canonical form.
func ParseRiskLevel(s string) (RiskLevel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low":
		return RISK_LOW, nil
	case "moderate":
		return RISK_MODERATE, nil
	case "high":
		return RISK_HIGH, nil
	case "critical":
		return RISK_CRITICAL, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidRiskLevel, s)
	}
}

// UnmarshalJSON accepts any casing of the risk level.
func (r *RiskLevel) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	level, err := ParseRiskLevel(raw)
	if err != nil {
		return err
	}
	*r = level
	return nil
}

// IsValid reports whether the finding status is supported.
func (s FindingStatus) IsValid() bool {
	switch s {
	case STATUS_CRITICAL, STATUS_HIGH, STATUS_LOW, STATUS_ABNORMAL, STATUS_NORMAL:
		return true
	default:
		return false
	}
}

// String returns the string representation of the finding status.
func (s FindingStatus) String() string {
	return string(s)
}

// UnmarshalJSON accepts any casing of the finding status.
func (s *FindingStatus) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	status := FindingStatus(strings.ToUpper(strings.TrimSpace(raw)))
	if !status.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidFindingStatus, raw)
	}
	*s = status
	return nil
}
