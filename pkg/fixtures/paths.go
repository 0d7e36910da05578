package fixtures

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// PathError is returned when a fixture name would resolve outside the
// fixtures directory
type PathError struct {
	Name   string
	Reason string
}

func (e *PathError) Error() string {
	return fmt.Sprintf("fixture path rejected: %s (input: %s)", e.Reason, e.Name)
}

// pathGuard keeps fixture reads inside one directory
type pathGuard struct {
	base         string
	resolvedBase string
}

func newPathGuard(base string) (*pathGuard, error) {
	if !filepath.IsAbs(base) {
		return nil, fmt.Errorf("fixtures directory must be absolute: %s", base)
	}

	info, err := os.Stat(base)
	if err != nil {
		return nil, fmt.Errorf("cannot access fixtures directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("fixtures path is not a directory: %s", base)
	}

	resolved, err := filepath.EvalSymlinks(base)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve fixtures directory: %w", err)
	}
	return &pathGuard{base: base, resolvedBase: resolved}, nil
}

// resolve returns the absolute path of rel after symlinks, rejecting any
// path that leaves the base directory
func (g *pathGuard) resolve(rel string) (string, error) {
	if rel == "" {
		return "", &PathError{Name: rel, Reason: "path cannot be empty"}
	}
	if !filepath.IsLocal(rel) {
		return "", &PathError{Name: rel, Reason: "path escapes fixtures directory"}
	}

	full := filepath.Join(g.base, filepath.Clean(rel))
	resolved, err := filepath.EvalSymlinks(full)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s", ErrNotFound, rel)
		}
		return "", &PathError{Name: rel, Reason: "cannot resolve path"}
	}

	relPath, err := filepath.Rel(g.resolvedBase, resolved)
	if err != nil || relPath == ".." || strings.HasPrefix(relPath, ".."+string(filepath.Separator)) {
		return "", &PathError{Name: rel, Reason: "resolved path escapes fixtures directory"}
	}
	return resolved, nil
}
