package api

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/clinical-ui-manifest/internal/cache"
	"github.com/clinical-ui-manifest/internal/components"
	"github.com/clinical-ui-manifest/internal/domain"
	"github.com/clinical-ui-manifest/internal/manifest"
	"github.com/clinical-ui-manifest/internal/middleware"
)

// GenerateResponse is returned by the manifest generation endpoint.
type GenerateResponse struct {
	Manifest   *manifest.Manifest         `json:"manifest"`
	Validation *manifest.ValidationResult `json:"validation,omitempty"`
}

// ComponentListResponse is returned by the component discovery endpoint.
type ComponentListResponse struct {
	Components []components.ExportedComponent `json:"components"`
	Count      int                            `json:"count"`
}

// handleGenerateManifest turns a clinical summary into a UI manifest
func (s *Server) handleGenerateManifest(c *gin.Context) {
	body, ok := readBody(c)
	if !ok {
		return
	}

	summary, err := s.parser.Parse(body)
	if err != nil {
		s.metrics.manifests.WithLabelValues(outcomeRejected).Inc()
		middleware.AbortWithError(c, http.StatusBadRequest, domain.ErrInvalidInput, "Invalid clinical summary", err.Error())
		return
	}

	validate := s.configManager.GetConfig().Manifest.ValidateByDefault
	if raw := c.Query("validate"); raw != "" {
		validate, err = strconv.ParseBool(raw)
		if err != nil {
			middleware.AbortWithError(c, http.StatusBadRequest, domain.ErrInvalidInput, "Invalid validate parameter", err.Error())
			return
		}
	}

	logger := s.logger.WithFields(logrus.Fields{
		"request_id": c.GetString(middleware.RequestIDKey),
		"risk_level": summary.OverallAssessment.RiskLevel.String(),
		"validate":   validate,
	})

	if !validate {
		m := s.generator.Generate(summary)
		s.metrics.observeManifest(m)
		if len(m.Items) == 0 {
			s.metrics.manifests.WithLabelValues(outcomeEmpty).Inc()
			middleware.AbortWithError(c, http.StatusUnprocessableEntity, domain.ErrEmptyManifestCode, manifest.ErrEmptyManifest.Error(), strings.Join(m.Warnings, "; "))
			return
		}
		s.metrics.manifests.WithLabelValues(outcomeGenerated).Inc()
		logger.WithField("items", len(m.Items)).Debug("Manifest generated")
		c.JSON(http.StatusOK, GenerateResponse{Manifest: m})
		return
	}

	m, result, err := s.generator.GenerateAndValidate(summary)
	s.metrics.observeManifest(m)
	if err != nil {
		if errors.Is(err, manifest.ErrEmptyManifest) {
			s.metrics.manifests.WithLabelValues(outcomeEmpty).Inc()
			middleware.AbortWithError(c, http.StatusUnprocessableEntity, domain.ErrEmptyManifestCode, manifest.ErrEmptyManifest.Error(), err.Error())
			return
		}
		logger.WithError(err).Error("Manifest generation failed")
		middleware.AbortWithError(c, http.StatusInternalServerError, domain.ErrInternalServer, "Manifest generation failed", "")
		return
	}

	outcome := outcomeGenerated
	if !result.IsValid {
		outcome = outcomeInvalid
	}
	s.metrics.manifests.WithLabelValues(outcome).Inc()
	logger.WithFields(logrus.Fields{
		"items":    len(m.Items),
		"is_valid": result.IsValid,
	}).Debug("Manifest generated and validated")

	c.JSON(http.StatusOK, GenerateResponse{Manifest: m, Validation: &result})
}

// handleValidateManifest validates a manifest document against the registry
func (s *Server) handleValidateManifest(c *gin.Context) {
	body, ok := readBody(c)
	if !ok {
		return
	}

	m, err := manifest.Decode(body)
	if err != nil {
		var envErr *manifest.EnvelopeError
		if errors.As(err, &envErr) {
			middleware.AbortWithError(c, http.StatusBadRequest, domain.ErrValidation, "Malformed manifest", strings.Join(envErr.Issues, "; "))
			return
		}
		middleware.AbortWithError(c, http.StatusBadRequest, domain.ErrInvalidInput, "Invalid manifest document", err.Error())
		return
	}

	c.JSON(http.StatusOK, s.generator.Validate(m))
}

// handleListComponents lists registry components, optionally filtered by
// a comma separated category parameter
func (s *Server) handleListComponents(c *gin.Context) {
	categories, err := cache.ParseCategories(c.Query("category"))
	if err != nil {
		middleware.AbortWithError(c, http.StatusBadRequest, domain.ErrInvalidInput, "Invalid category", err.Error())
		return
	}

	data, err := s.cachedJSON(cache.CategoryKey("list", categories), func() any {
		exported := s.generator.Registry().Export(categories...)
		return ComponentListResponse{Components: exported, Count: len(exported)}
	})
	if err != nil {
		s.logger.WithError(err).Error("Failed to encode component list")
		middleware.AbortWithError(c, http.StatusInternalServerError, domain.ErrInternalServer, "Failed to encode component list", "")
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", data)
}

// handleComponentSchema returns the full registry schema keyed by type
func (s *Server) handleComponentSchema(c *gin.Context) {
	data, err := s.cachedJSON("schema", func() any {
		return s.generator.Registry().ExportSchema()
	})
	if err != nil {
		s.logger.WithError(err).Error("Failed to encode component schema")
		middleware.AbortWithError(c, http.StatusInternalServerError, domain.ErrInternalServer, "Failed to encode component schema", "")
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", data)
}

func (s *Server) cachedJSON(key string, build func() any) ([]byte, error) {
	data, hit, err := s.schemaCache.GetOrEncode(key, build)
	if err != nil {
		return nil, err
	}
	if hit {
		s.metrics.schemaCache.WithLabelValues("hit").Inc()
	} else {
		s.metrics.schemaCache.WithLabelValues("miss").Inc()
	}
	return data, nil
}

// readBody reads the request body, answering 413 when the body limit trips.
func readBody(c *gin.Context) ([]byte, bool) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			middleware.AbortWithError(c, http.StatusRequestEntityTooLarge, domain.ErrInvalidInput, "Request body too large", err.Error())
			return nil, false
		}
		middleware.AbortWithError(c, http.StatusBadRequest, domain.ErrInvalidInput, "Failed to read request body", err.Error())
		return nil, false
	}
	return body, true
}
