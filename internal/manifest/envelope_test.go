package manifest

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode_GeneratedManifest(t *testing.T) {
	g := newTestGenerator(t)
	m := g.Generate(criticalSummary())

	data, err := json.Marshal(m)
	require.NoError(t, err)

	decoded, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, m.SchemaVersion, decoded.SchemaVersion)
	require.Len(t, decoded.Items, len(m.Items))
	assert.Equal(t, m.Items[0].ID, decoded.Items[0].ID)
	assert.IsType(t, map[string]any{}, decoded.Items[0].Props)
}

func TestDecode_StructuralProblems(t *testing.T) {
	tests := []struct {
		name     string
		doc      string
		contains []string
	}{
		{
			name:     "Missing schema version",
			doc:      `{"items": []}`,
			contains: []string{"schemaVersion"},
		},
		{
			name:     "Item without props",
			doc:      `{"schemaVersion": "1.0.0", "items": [{"id": "a", "type": "SectionDivider", "version": "1.0.0"}]}`,
			contains: []string{"/items/0", "props"},
		},
		{
			name:     "Items is not an array",
			doc:      `{"schemaVersion": "1.0.0", "items": {}}`,
			contains: []string{"/items"},
		},
		{
			name:     "Malformed schema version",
			doc:      `{"schemaVersion": "one", "items": []}`,
			contains: []string{"/schemaVersion"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.doc))
			var envErr *EnvelopeError
			require.True(t, errors.As(err, &envErr), "got %v", err)
			require.NotEmpty(t, envErr.Issues)

			joined := strings.Join(envErr.Issues, "\n")
			for _, want := range tt.contains {
				assert.Contains(t, joined, want)
			}
			assert.True(t, strings.HasPrefix(err.Error(), "malformed manifest: "))
		})
	}
}

func TestDecode_NotJSON(t *testing.T) {
	_, err := Decode([]byte("items: []"))
	require.Error(t, err)

	var envErr *EnvelopeError
	assert.False(t, errors.As(err, &envErr))
}
