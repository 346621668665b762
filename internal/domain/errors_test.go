package domain

import (
	"errors"
	"testing"
	"time"
)

func TestAPIError(t *testing.T) {
	tests := []struct {
		name      string
		code      string
		message   string
		details   string
		requestID string
	}{
		{
			name:      "Invalid summary",
			code:      ErrInvalidInput,
			message:   "Invalid clinical summary",
			details:   "overall_assessment.risk_assessment is missing",
			requestID: "req-123",
		},
		{
			name:      "Empty manifest",
			code:      ErrEmptyManifestCode,
			message:   "Manifest generation produced no items",
			details:   "no rule matched the summary",
			requestID: "req-456",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewAPIError(tt.code, tt.message, tt.details, tt.requestID)

			if err.Code != tt.code {
				t.Errorf("Expected code %s, got %s", tt.code, err.Code)
			}

			if err.Message != tt.message {
				t.Errorf("Expected message %s, got %s", tt.message, err.Message)
			}

			if err.Details != tt.details {
				t.Errorf("Expected details %s, got %s", tt.details, err.Details)
			}

			if err.RequestID != tt.requestID {
				t.Errorf("Expected requestID %s, got %s", tt.requestID, err.RequestID)
			}

			if time.Since(err.Timestamp) > time.Minute {
				t.Errorf("Timestamp should be recent, got %v", err.Timestamp)
			}

			expectedError := tt.code + ": " + tt.message
			if err.Error() != expectedError {
				t.Errorf("Expected error string %s, got %s", expectedError, err.Error())
			}
		})
	}
}

func TestValidationError(t *testing.T) {
	tests := []struct {
		name    string
		field   string
		message string
		value   interface{}
	}{
		{
			name:    "String validation error",
			field:   "parameter_name",
			message: "Must not be empty",
			value:   "",
		},
		{
			name:    "Integer validation error",
			field:   "patient_info.age",
			message: "Must be positive",
			value:   -1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewValidationError(tt.field, tt.message, tt.value)

			if err.Field != tt.field {
				t.Errorf("Expected field %s, got %s", tt.field, err.Field)
			}

			if err.Value != tt.value {
				t.Errorf("Expected value %v, got %v", tt.value, err.Value)
			}

			expectedError := "validation error for field '" + tt.field + "': " + tt.message
			if err.Error() != expectedError {
				t.Errorf("Expected error string %s, got %s", expectedError, err.Error())
			}
		})
	}
}

func TestValidationErrorUnwrapsFromSummary(t *testing.T) {
	s := &ClinicalSummary{
		OverallAssessment: OverallAssessment{RiskLevel: RISK_LOW},
		ManagementPlan: ManagementPlan{
			FollowUpTests: []FollowUpTest{{Timeline: "1 Week"}},
		},
	}

	err := s.Validate()
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Expected ValidationError, got %v", err)
	}
	if verr.Field != "management_plan.follow_up_tests[0].recommended_tests" {
		t.Errorf("Unexpected field %s", verr.Field)
	}
}
