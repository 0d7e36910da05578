// Package fixtures loads the JSON documents the harness works with: forms,
// parameter definitions, diagrams and palettes. Each kind lives in its own
// subdirectory of the fixtures directory.
package fixtures

import (
	"errors"
	"fmt"
)

// Sentinel errors
var (
	ErrUnknownKind    = errors.New("unknown fixture kind")
	ErrNotInitialized = errors.New("fixture loader is not initialized")
	ErrNotFound       = errors.New("fixture not found")
	ErrInvalidFixture = errors.New("invalid fixture")
)

// Kind is a fixture category
type Kind string

const (
	KindForms         Kind = "forms"
	KindParameterDefs Kind = "parameterDefs"
	KindDiagrams      Kind = "diagrams"
	KindPalettes      Kind = "palettes"
)

// Kinds returns every fixture kind in listing order
func Kinds() []Kind {
	return []Kind{KindForms, KindParameterDefs, KindDiagrams, KindPalettes}
}

// ParseKind converts a name to a Kind
func ParseKind(name string) (Kind, error) {
	for _, k := range Kinds() {
		if string(k) == name {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, name)
}
