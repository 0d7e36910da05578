package properties

import (
	"fmt"
	"strings"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// conditionEvaluator compiles visible_when expressions once and runs them
// against the current property values.
type conditionEvaluator struct {
	mu           sync.Mutex
	programCache map[string]*vm.Program
}

func newConditionEvaluator() *conditionEvaluator {
	return &conditionEvaluator{
		programCache: make(map[string]*vm.Program),
	}
}

// evaluate runs the condition. Unset properties evaluate to nil.
func (e *conditionEvaluator) evaluate(condition string, values map[string]interface{}) (bool, error) {
	program, err := e.compile(condition)
	if err != nil {
		return false, err
	}

	result, err := vm.Run(program, values)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrInvalidCondition, err)
	}

	b, ok := result.(bool)
	if !ok {
		return false, fmt.Errorf("%w: %q returned %T, expected bool", ErrInvalidCondition, condition, result)
	}
	return b, nil
}

// check compiles the condition without running it
func (e *conditionEvaluator) check(condition string) error {
	_, err := e.compile(condition)
	return err
}

func (e *conditionEvaluator) compile(condition string) (*vm.Program, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if program, ok := e.programCache[condition]; ok {
		return program, nil
	}

	if err := validateCondition(condition); err != nil {
		return nil, err
	}

	program, err := expr.Compile(condition,
		expr.AllowUndefinedVariables(),
		expr.Function("blank", func(params ...interface{}) (interface{}, error) {
			if len(params) != 1 {
				return nil, fmt.Errorf("blank() requires 1 argument")
			}
			return isBlank(params[0]), nil
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCondition, err)
	}

	e.programCache[condition] = program
	return program, nil
}

// validateCondition rejects conditions that reach outside the value map
func validateCondition(condition string) error {
	blocked := []string{"os.", "exec.", "http.", "net.", "syscall.", "unsafe."}

	lower := strings.ToLower(condition)
	for _, pattern := range blocked {
		if strings.Contains(lower, pattern) {
			return fmt.Errorf("%w: unsafe operation %q", ErrInvalidCondition, strings.TrimSuffix(pattern, "."))
		}
	}
	return nil
}

func isBlank(v interface{}) bool {
	switch val := v.(type) {
	case nil:
		return true
	case string:
		return val == ""
	case bool:
		return !val
	case float64:
		return val == 0
	default:
		return false
	}
}
