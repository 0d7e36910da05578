package canvas

import (
	"embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed schemas/*.json
var schemaFS embed.FS

const (
	pipelineFlowSchema = "schemas/pipeline-flow.json"
	nodeTemplateSchema = "schemas/node-template.json"
)

// ValidatePipelineFlow checks a pipeline flow against the embedded schema
func ValidatePipelineFlow(flow PipelineFlow) error {
	return validateAgainstSchema(pipelineFlowSchema, normalizeFlow(flow))
}

// ValidateNodeTemplate checks a palette node template against the embedded schema
func ValidateNodeTemplate(tmpl NodeTemplate) error {
	return validateAgainstSchema(nodeTemplateSchema, tmpl)
}

func validateAgainstSchema(schemaPath string, doc interface{}) error {
	schemaBytes, err := schemaFS.ReadFile(schemaPath)
	if err != nil {
		return fmt.Errorf("failed to read schema %s: %w", schemaPath, err)
	}

	// Round-trip through JSON so the validator sees the wire shape
	jsonBytes, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to convert document to JSON for validation: %w", err)
	}
	var data interface{}
	if err := json.Unmarshal(jsonBytes, &data); err != nil {
		return fmt.Errorf("failed to unmarshal document JSON: %w", err)
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(schemaBytes),
		gojsonschema.NewGoLoader(data),
	)
	if err != nil {
		return fmt.Errorf("schema validation error: %w", err)
	}

	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			msgs = append(msgs, fmt.Sprintf("%s: %s", desc.Field(), desc.Description()))
		}
		return fmt.Errorf("%w: %s", ErrInvalidDocument, strings.Join(msgs, "; "))
	}

	return nil
}

// normalizeFlow replaces nil lists so the document serializes as arrays
func normalizeFlow(flow PipelineFlow) PipelineFlow {
	if flow.Nodes == nil {
		flow.Nodes = []Node{}
	}
	if flow.Links == nil {
		flow.Links = []Link{}
	}
	return flow
}
