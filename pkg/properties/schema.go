package properties

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed schemas/parameter-def.json
var parameterDefSchema []byte

// ParseParameterDef validates data against the parameter definition schema
// and decodes it. Defaults must match their parameter's type.
func ParseParameterDef(data []byte) (*ParameterDef, error) {
	if err := ValidateParameterDef(data); err != nil {
		return nil, err
	}

	var def ParameterDef
	if err := json.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidParameterDef, err)
	}

	seen := make(map[string]bool, len(def.Parameters))
	for _, p := range def.Parameters {
		if seen[p.ID] {
			return nil, fmt.Errorf("%w: duplicate parameter id %s", ErrInvalidParameterDef, p.ID)
		}
		seen[p.ID] = true

		if p.Type == TypeEnum && len(p.Enum) == 0 {
			return nil, fmt.Errorf("%w: enum parameter %s has no values", ErrInvalidParameterDef, p.ID)
		}
		if p.Default != nil {
			if _, err := coerce(p, p.Default); err != nil {
				return nil, fmt.Errorf("%w: default of %s: %v", ErrInvalidParameterDef, p.ID, err)
			}
		}
	}

	return &def, nil
}

// ValidateParameterDef checks raw JSON against the parameter definition schema
func ValidateParameterDef(data []byte) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(parameterDefSchema),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidParameterDef, err)
	}

	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			msgs = append(msgs, fmt.Sprintf("%s: %s", desc.Field(), desc.Description()))
		}
		return fmt.Errorf("%w: %s", ErrInvalidParameterDef, strings.Join(msgs, "; "))
	}
	return nil
}
