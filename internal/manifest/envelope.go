package manifest

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

//go:embed schema/manifest.schema.json
var envelopeSchemaBytes []byte

var (
	envelopeSchema *jsonschema.Schema
	envelopeOnce   sync.Once
	envelopeErr    error
	printer        = message.NewPrinter(language.English)
)

// EnvelopeError reports structural problems of a manifest document, found
// before any item is checked against the registry.
type EnvelopeError struct {
	Issues []string
}

func (e *EnvelopeError) Error() string {
	return "malformed manifest: " + strings.Join(e.Issues, "; ")
}

// getEnvelopeSchema compiles the embedded wire schema once.
func getEnvelopeSchema() (*jsonschema.Schema, error) {
	envelopeOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(envelopeSchemaBytes))
		if err != nil {
			envelopeErr = fmt.Errorf("unmarshaling manifest schema: %w", err)
			return
		}

		c := jsonschema.NewCompiler()
		if err := c.AddResource("manifest.schema.json", doc); err != nil {
			envelopeErr = fmt.Errorf("adding manifest schema resource: %w", err)
			return
		}
		envelopeSchema, envelopeErr = c.Compile("manifest.schema.json")
		if envelopeErr != nil {
			envelopeErr = fmt.Errorf("compiling manifest schema: %w", envelopeErr)
		}
	})
	return envelopeSchema, envelopeErr
}

// Decode parses a manifest document. The document is checked against the
// manifest wire schema first; structural problems are returned as an
// *EnvelopeError.
func Decode(data []byte) (*Manifest, error) {
	schema, err := getEnvelopeSchema()
	if err != nil {
		return nil, err
	}

	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parsing manifest JSON: %w", err)
	}

	if err := schema.Validate(inst); err != nil {
		ve, ok := err.(*jsonschema.ValidationError)
		if !ok {
			return nil, fmt.Errorf("unexpected validation error type: %w", err)
		}
		return nil, &EnvelopeError{Issues: envelopeIssues(ve)}
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decoding manifest: %w", err)
	}
	return &m, nil
}

// envelopeIssues flattens the leaf errors of a validation error tree.
func envelopeIssues(ve *jsonschema.ValidationError) []string {
	var issues []string
	seen := make(map[string]bool)

	var walk func(*jsonschema.ValidationError)
	walk = func(e *jsonschema.ValidationError) {
		if len(e.Causes) > 0 {
			for _, cause := range e.Causes {
				walk(cause)
			}
			return
		}

		path := "/" + strings.Join(e.InstanceLocation, "/")
		msg := e.Error()
		if e.ErrorKind != nil {
			msg = e.ErrorKind.LocalizedString(printer)
		}
		issue := path + ": " + msg
		if !seen[issue] {
			seen[issue] = true
			issues = append(issues, issue)
		}
	}
	walk(ve)

	if len(issues) == 0 {
		issues = []string{ve.Error()}
	}
	return issues
}
