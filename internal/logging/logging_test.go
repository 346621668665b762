package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinical-ui-manifest/internal/domain"
)

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := New("debug", "json", &buf)

	assert.Equal(t, logrus.DebugLevel, logger.GetLevel())
	logger.WithField("rule", "critical_alert_prepend").Debug("Rule matched")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "Rule matched", entry["msg"])
	assert.Equal(t, "critical_alert_prepend", entry["rule"])
	assert.Equal(t, "debug", entry["level"])
}

func TestNew_TextAndFallbackLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New("chatty", "TEXT", &buf)

	assert.Equal(t, logrus.InfoLevel, logger.GetLevel())
	assert.IsType(t, &logrus.TextFormatter{}, logger.Formatter)

	logger.Debug("hidden")
	assert.Empty(t, buf.String())
	logger.Info("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestFromConfig(t *testing.T) {
	logger, err := FromConfig(domain.LoggingConfig{Level: "warn", Format: "json", Output: "stderr"})
	require.NoError(t, err)
	assert.Equal(t, os.Stderr, logger.Out)
	assert.Equal(t, logrus.WarnLevel, logger.GetLevel())

	path := filepath.Join(t.TempDir(), "manifest.log")
	logger, err = FromConfig(domain.LoggingConfig{Level: "info", Output: path})
	require.NoError(t, err)
	logger.Info("written")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "written")

	_, err = FromConfig(domain.LoggingConfig{Output: filepath.Join(t.TempDir(), "missing", "dir", "x.log")})
	assert.Error(t, err)
}

func TestDiscard(t *testing.T) {
	logger := Discard()
	assert.Equal(t, logrus.PanicLevel, logger.GetLevel())
}
