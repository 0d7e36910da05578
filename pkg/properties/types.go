// Package properties holds the parameter definitions behind the harness
// settings panel and an in-memory properties controller that keeps the
// current values and answers show/hide conditions.
package properties

import "errors"

// Sentinel errors
var (
	ErrUnknownProperty     = errors.New("unknown property")
	ErrInvalidValue        = errors.New("invalid property value")
	ErrInvalidCondition    = errors.New("invalid visibility condition")
	ErrInvalidParameterDef = errors.New("invalid parameter definition")
)

// ParameterType is the value type of a parameter
type ParameterType string

const (
	TypeString  ParameterType = "string"
	TypeNumber  ParameterType = "number"
	TypeBoolean ParameterType = "boolean"
	TypeEnum    ParameterType = "enum"
)

// Parameter describes one editable property
type Parameter struct {
	ID          string        `json:"id"`
	Type        ParameterType `json:"type"`
	Label       string        `json:"label,omitempty"`
	Description string        `json:"description,omitempty"`
	Default     interface{}   `json:"default,omitempty"`
	Enum        []string      `json:"enum,omitempty"`
	// VisibleWhen is a boolean expression over the other property ids.
	// An empty condition means always visible.
	VisibleWhen string `json:"visible_when,omitempty"`
}

// ParameterDef is a parameter definition document
type ParameterDef struct {
	ID         string      `json:"id"`
	Title      string      `json:"title,omitempty"`
	Parameters []Parameter `json:"parameters"`
}

// Find returns the parameter with the given id
func (d *ParameterDef) Find(id string) (Parameter, bool) {
	for _, p := range d.Parameters {
		if p.ID == id {
			return p, true
		}
	}
	return Parameter{}, false
}
