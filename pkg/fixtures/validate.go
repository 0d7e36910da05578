package fixtures

import (
	"embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dshills/canvasharness/pkg/canvas"
	"github.com/dshills/canvasharness/pkg/properties"
	"github.com/tidwall/gjson"
	"github.com/xeipuuv/gojsonschema"
)

//go:embed schemas/*.json
var schemaFS embed.FS

// Validate checks a fixture document of the given kind
func Validate(kind Kind, data []byte) error {
	if !gjson.ValidBytes(data) {
		return fmt.Errorf("%w: %s document is not valid JSON", ErrInvalidFixture, kind)
	}

	switch kind {
	case KindForms:
		return validateSchema("schemas/form.json", data)

	case KindPalettes:
		return validateSchema("schemas/palette.json", data)

	case KindParameterDefs:
		if _, err := properties.ParseParameterDef(data); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidFixture, err)
		}
		return nil

	case KindDiagrams:
		var flow canvas.PipelineFlow
		if err := json.Unmarshal(data, &flow); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidFixture, err)
		}
		if err := canvas.ValidatePipelineFlow(flow); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidFixture, err)
		}
		return nil
	}

	return fmt.Errorf("%w: %q", ErrUnknownKind, kind)
}

func validateSchema(path string, data []byte) error {
	schema, err := schemaFS.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read schema %s: %w", path, err)
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(schema),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidFixture, err)
	}

	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			msgs = append(msgs, fmt.Sprintf("%s: %s", desc.Field(), desc.Description()))
		}
		return fmt.Errorf("%w: %s", ErrInvalidFixture, strings.Join(msgs, "; "))
	}
	return nil
}

// Summary returns a one-line title for a fixture document: the first of
// title, titleDefinition.title, id or doc_type that is present.
func Summary(data []byte) string {
	results := gjson.GetManyBytes(data, "title", "titleDefinition.title", "id", "doc_type")
	for _, r := range results {
		if s := strings.TrimSpace(r.String()); s != "" {
			return s
		}
	}
	return ""
}
