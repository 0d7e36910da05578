package properties

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// coerce converts value to the Go type stored for the parameter: string,
// float64 or bool. Text input from the terminal arrives as strings and is
// parsed for number and boolean parameters.
func coerce(p Parameter, value interface{}) (interface{}, error) {
	switch p.Type {
	case TypeString:
		s, ok := value.(string)
		if !ok {
			return nil, fmt.Errorf("%w: expected string, got %T", ErrInvalidValue, value)
		}
		return s, nil

	case TypeNumber:
		switch v := value.(type) {
		case float64:
			return v, nil
		case float32:
			return float64(v), nil
		case int:
			return float64(v), nil
		case int64:
			return float64(v), nil
		case string:
			f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
			if err != nil {
				return nil, fmt.Errorf("%w: %q is not a number", ErrInvalidValue, v)
			}
			return f, nil
		}
		return nil, fmt.Errorf("%w: expected number, got %T", ErrInvalidValue, value)

	case TypeBoolean:
		switch v := value.(type) {
		case bool:
			return v, nil
		case string:
			b, err := strconv.ParseBool(strings.TrimSpace(v))
			if err != nil {
				return nil, fmt.Errorf("%w: %q is not a boolean", ErrInvalidValue, v)
			}
			return b, nil
		}
		return nil, fmt.Errorf("%w: expected boolean, got %T", ErrInvalidValue, value)

	case TypeEnum:
		s, ok := value.(string)
		if !ok {
			return nil, fmt.Errorf("%w: expected string, got %T", ErrInvalidValue, value)
		}
		if !slices.Contains(p.Enum, s) {
			return nil, fmt.Errorf("%w: %q is not one of %s", ErrInvalidValue, s, strings.Join(p.Enum, ", "))
		}
		return s, nil
	}

	return nil, fmt.Errorf("%w: unsupported type %q", ErrInvalidValue, p.Type)
}
