package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/sirupsen/logrus"

	"github.com/clinical-ui-manifest/internal/cache"
	"github.com/clinical-ui-manifest/internal/components"
	"github.com/clinical-ui-manifest/internal/manifest"
)

// GenerateManifestParams defines parameters for the generate_ui_manifest tool
type GenerateManifestParams struct {
	Summary  map[string]any `json:"summary" jsonschema:"the clinical summary with patient_info, abnormal_findings, normal_findings, overall_assessment and management_plan"`
	Validate *bool          `json:"validate,omitempty" jsonschema:"validate the generated manifest (defaults to the server setting)"`
}

// GenerateManifestResult is the JSON payload of a generate_ui_manifest call
type GenerateManifestResult struct {
	Manifest   *manifest.Manifest         `json:"manifest"`
	Validation *manifest.ValidationResult `json:"validation,omitempty"`
}

// ValidateManifestParams defines parameters for the validate_ui_manifest tool
type ValidateManifestParams struct {
	Manifest map[string]any `json:"manifest" jsonschema:"the UI manifest document to validate"`
}

// ListComponentsParams defines parameters for the list_ui_components tool
type ListComponentsParams struct {
	Category string `json:"category,omitempty" jsonschema:"comma separated categories: Header, Alert, Card, Table, Visualization, Grid"`
}

// ListComponentsResult is the JSON payload of a list_ui_components call
type ListComponentsResult struct {
	Components []components.ExportedComponent `json:"components"`
	Count      int                            `json:"count"`
}

// handleGenerateManifest handles the generate_ui_manifest tool invocation
func (s *Server) handleGenerateManifest(ctx context.Context, req *mcp.CallToolRequest, params GenerateManifestParams) (*mcp.CallToolResult, any, error) {
	s.logger.WithField("tool", ToolGenerateManifest).Info("Tool invoked")

	if len(params.Summary) == 0 {
		return s.createErrorResult("Missing required parameter", errors.New("summary is required")), nil, nil
	}

	raw, err := json.Marshal(params.Summary)
	if err != nil {
		return s.createErrorResult("Invalid summary", err), nil, nil
	}
	summary, err := s.parser.Parse(raw)
	if err != nil {
		return s.createErrorResult("Invalid clinical summary", err), nil, nil
	}

	validate := s.config.ValidateByDefault
	if params.Validate != nil {
		validate = *params.Validate
	}

	var result GenerateManifestResult
	if validate {
		m, validation, err := s.generator.GenerateAndValidate(summary)
		if err != nil {
			return s.createErrorResult("Manifest generation failed", err), nil, nil
		}
		result = GenerateManifestResult{Manifest: m, Validation: &validation}
	} else {
		m := s.generator.Generate(summary)
		if len(m.Items) == 0 {
			return s.createErrorResult("Manifest generation failed", &manifest.EmptyManifestError{Warnings: m.Warnings}), nil, nil
		}
		result = GenerateManifestResult{Manifest: m}
	}

	s.logger.WithFields(logrus.Fields{
		"tool":  ToolGenerateManifest,
		"items": len(result.Manifest.Items),
	}).Debug("Manifest generated")

	return s.createJSONResult(result)
}

// handleValidateManifest handles the validate_ui_manifest tool invocation
func (s *Server) handleValidateManifest(ctx context.Context, req *mcp.CallToolRequest, params ValidateManifestParams) (*mcp.CallToolResult, any, error) {
	s.logger.WithField("tool", ToolValidateManifest).Info("Tool invoked")

	if len(params.Manifest) == 0 {
		return s.createErrorResult("Missing required parameter", errors.New("manifest is required")), nil, nil
	}

	raw, err := json.Marshal(params.Manifest)
	if err != nil {
		return s.createErrorResult("Invalid manifest", err), nil, nil
	}
	m, err := manifest.Decode(raw)
	if err != nil {
		return s.createErrorResult("Invalid manifest", err), nil, nil
	}

	return s.createJSONResult(s.generator.Validate(m))
}

// handleListComponents handles the list_ui_components tool invocation
func (s *Server) handleListComponents(ctx context.Context, req *mcp.CallToolRequest, params ListComponentsParams) (*mcp.CallToolResult, any, error) {
	s.logger.WithField("tool", ToolListComponents).Info("Tool invoked")

	categories, err := cache.ParseCategories(params.Category)
	if err != nil {
		return s.createErrorResult("Invalid category", err), nil, nil
	}

	data, _, err := s.schemaCache.GetOrEncode(cache.CategoryKey("list", categories), func() any {
		exported := s.generator.Registry().Export(categories...)
		return ListComponentsResult{Components: exported, Count: len(exported)}
	})
	if err != nil {
		return nil, nil, err
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(data)}},
	}, nil, nil
}

// createJSONResult wraps a payload as indented JSON text content
func (s *Server) createJSONResult(payload any) (*mcp.CallToolResult, any, error) {
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to encode tool result: %w", err)
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(data)}},
	}, nil, nil
}

// createErrorResult creates a standardized error result for tool calls
func (s *Server) createErrorResult(message string, err error) *mcp.CallToolResult {
	errorText := fmt.Sprintf("Error: %s", message)
	if err != nil {
		errorText += fmt.Sprintf(" - %v", err)
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: errorText},
		},
		IsError: true,
	}
}
