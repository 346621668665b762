package manifest

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/clinical-ui-manifest/internal/components"
	"github.com/clinical-ui-manifest/internal/domain"
	"github.com/clinical-ui-manifest/internal/rules"
)

// Generator assembles manifests from rule output. It is immutable after
// construction and safe for concurrent use.
type Generator struct {
	registry *components.Registry
	engine   *rules.Engine
	logger   *logrus.Logger
	now      func() time.Time
	newID    func() string
}

// Option configures a Generator.
type Option func(*Generator)

// WithLogger sets the logger used for generation and validation events.
func WithLogger(logger *logrus.Logger) Option {
	return func(g *Generator) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// WithClock overrides the clock used for the generatedAt timestamp.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) {
		if now != nil {
			g.now = now
		}
	}
}

// WithIDFunc overrides the item id source.
func WithIDFunc(newID func() string) Option {
	return func(g *Generator) {
		if newID != nil {
			g.newID = newID
		}
	}
}

// NewGenerator creates a generator over registry and engine.
func NewGenerator(registry *components.Registry, engine *rules.Engine, opts ...Option) (*Generator, error) {
	if registry == nil {
		return nil, errors.New("component registry is required")
	}
	if engine == nil {
		return nil, errors.New("rules engine is required")
	}

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	g := &Generator{
		registry: registry,
		engine:   engine,
		logger:   logger,
		now:      time.Now,
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// NewDefaultGenerator creates a generator over the built-in catalog and rule
// set.
func NewDefaultGenerator(logger *logrus.Logger, opts ...Option) (*Generator, error) {
	registry, err := components.DefaultRegistry()
	if err != nil {
		return nil, fmt.Errorf("failed to build component registry: %w", err)
	}
	engine, err := rules.NewDefaultEngine(logger)
	if err != nil {
		return nil, fmt.Errorf("failed to build rules engine: %w", err)
	}
	return NewGenerator(registry, engine, append([]Option{WithLogger(logger)}, opts...)...)
}

// Registry returns the component registry the generator resolves against.
func (g *Generator) Registry() *components.Registry {
	return g.registry
}

// Generate applies the rules to summary and returns the manifest. Items whose
// type is unknown or whose props cannot be computed are skipped and recorded
// in Warnings; all other items keep rule-evaluation order.
func (g *Generator) Generate(summary *domain.ClinicalSummary) *Manifest {
	if summary == nil {
		summary = &domain.ClinicalSummary{}
	}

	specs := g.engine.Apply(summary)
	m := &Manifest{
		SchemaVersion:    SchemaVersion,
		GeneratedAt:      g.now().UTC().Format(time.RFC3339),
		Items:            make([]Item, 0, len(specs)),
		ValidationErrors: []ValidationIssue{},
		Warnings:         []string{},
	}

	for _, spec := range specs {
		def, ok := g.registry.Get(spec.Type)
		if !ok {
			g.skip(m, spec, fmt.Errorf("%w: %s", ErrUnknownComponent, spec.Type))
			continue
		}

		props, err := generateProps(spec, summary)
		if err != nil {
			g.skip(m, spec, err)
			continue
		}

		m.Items = append(m.Items, Item{
			ID:             g.newID(),
			Type:           spec.Type,
			Version:        def.Version,
			Props:          props,
			RenderingHints: components.MergeHints(def.RenderingHints, spec.Hints),
		})
	}

	g.logger.WithFields(logrus.Fields{
		"specs":    len(specs),
		"items":    len(m.Items),
		"warnings": len(m.Warnings),
		"risk":     summary.OverallAssessment.RiskLevel,
	}).Info("Generated UI manifest")

	return m
}

func (g *Generator) skip(m *Manifest, spec rules.Spec, err error) {
	msg := fmt.Sprintf("skipped %s from rule %s: %v", spec.Type, spec.Rule, err)
	m.Warnings = append(m.Warnings, msg)
	g.logger.WithFields(logrus.Fields{
		"component_type": spec.Type,
		"rule":           spec.Rule,
		"error":          err.Error(),
	}).Warn("Skipped manifest item")
}

func generateProps(spec rules.Spec, summary *domain.ClinicalSummary) (props components.Props, err error) {
	defer func() {
		if r := recover(); r != nil {
			props = nil
			err = fmt.Errorf("%w: panic: %v", ErrPropsGeneration, r)
		}
	}()

	if spec.Props == nil {
		return nil, fmt.Errorf("%w: no props generator", ErrPropsGeneration)
	}

	props, err = spec.Props.Generate(summary)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPropsGeneration, err)
	}
	if props == nil {
		return nil, fmt.Errorf("%w: generator returned no props", ErrPropsGeneration)
	}
	if got := props.ComponentType(); got != spec.Type {
		return nil, fmt.Errorf("%w: generator returned %s props", ErrPropsGeneration, got)
	}
	return props, nil
}

// GenerateAndValidate generates a manifest, validates it and records the
// validation errors on the manifest. A manifest with no items is returned
// together with an *EmptyManifestError.
func (g *Generator) GenerateAndValidate(summary *domain.ClinicalSummary) (*Manifest, ValidationResult, error) {
	m := g.Generate(summary)
	result := g.Validate(m)

	for _, issue := range result.Issues {
		if issue.Severity == SeverityError {
			m.ValidationErrors = append(m.ValidationErrors, issue)
		}
	}

	if len(m.Items) == 0 {
		return m, result, &EmptyManifestError{Warnings: append([]string(nil), m.Warnings...)}
	}
	return m, result, nil
}
