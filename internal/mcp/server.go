// Package mcp exposes manifest generation, validation and component
// discovery as MCP tools over stdio.
package mcp

import (
	"context"
	"fmt"
	"os"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/sirupsen/logrus"

	"github.com/clinical-ui-manifest/internal/cache"
	"github.com/clinical-ui-manifest/internal/config"
	"github.com/clinical-ui-manifest/internal/domain"
	"github.com/clinical-ui-manifest/internal/logging"
	"github.com/clinical-ui-manifest/internal/manifest"
)

const (
	serverName    = "clinical-ui-manifest"
	serverVersion = "v1.0.0"
)

// Tool names
const (
	ToolGenerateManifest = "generate_ui_manifest"
	ToolValidateManifest = "validate_ui_manifest"
	ToolListComponents   = "list_ui_components"
)

// Server is the MCP server wrapping the manifest generator.
type Server struct {
	config      *config.LiteConfig
	generator   *manifest.Generator
	parser      *domain.SummaryParser
	schemaCache *cache.SchemaCache
	mcpServer   *mcp.Server
	logger      *logrus.Logger
	tools       []string
}

// ServerOption is a functional option for Server.
type ServerOption func(*Server) error

// WithLogger sets a custom logger.
func WithLogger(logger *logrus.Logger) ServerOption {
	return func(s *Server) error {
		s.logger = logger
		return nil
	}
}

// WithGenerator sets a custom manifest generator.
func WithGenerator(generator *manifest.Generator) ServerOption {
	return func(s *Server) error {
		if generator == nil {
			return fmt.Errorf("generator must not be nil")
		}
		s.generator = generator
		return nil
	}
}

// NewServer creates a new MCP server instance.
func NewServer(cfg *config.LiteConfig, opts ...ServerOption) (*Server, error) {
	if cfg == nil {
		cfg = config.DefaultLiteConfig()
	}

	// stdout carries the protocol, so logs go to stderr
	server := &Server{
		config: cfg,
		logger: logging.New(cfg.LogLevel, cfg.LogFormat, os.Stderr),
		parser: domain.NewSummaryParser(0),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(server); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	if server.generator == nil {
		generator, err := manifest.NewDefaultGenerator(server.logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create manifest generator: %w", err)
		}
		server.generator = generator
	}

	schemaCache, err := cache.NewSchemaCache(cfg.SchemaCacheSize)
	if err != nil {
		return nil, err
	}
	server.schemaCache = schemaCache

	server.mcpServer = mcp.NewServer(&mcp.Implementation{
		Name:    serverName,
		Version: serverVersion,
	}, nil)

	server.registerTools()

	server.logger.WithField("tool_count", len(server.tools)).Info("MCP server initialized")
	return server, nil
}

// registerTools registers the manifest tools with the MCP SDK.
func (s *Server) registerTools() {
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name: ToolGenerateManifest,
		Description: "Generate a UI manifest from a structured clinical summary. " +
			"Returns the manifest and, unless validate is false, its validation result.",
	}, s.handleGenerateManifest)
	s.tools = append(s.tools, ToolGenerateManifest)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        ToolValidateManifest,
		Description: "Validate a UI manifest against the component registry.",
	}, s.handleValidateManifest)
	s.tools = append(s.tools, ToolValidateManifest)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        ToolListComponents,
		Description: "List registered UI components with their prop schemas, optionally filtered by a comma separated category list.",
	}, s.handleListComponents)
	s.tools = append(s.tools, ToolListComponents)

	for _, name := range s.tools {
		s.logger.WithField("tool_name", name).Debug("Registered MCP tool")
	}
}

// Tools returns the registered tool names.
func (s *Server) Tools() []string {
	return append([]string(nil), s.tools...)
}

// Start runs the server over stdio until ctx is cancelled or the client
// disconnects.
func (s *Server) Start(ctx context.Context) error {
	s.logger.Info("Starting clinical UI manifest MCP server")

	if err := s.mcpServer.Run(ctx, &mcp.StdioTransport{}); err != nil {
		return fmt.Errorf("MCP server failed: %w", err)
	}
	return nil
}
